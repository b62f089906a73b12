package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/internal/presentation/tree"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// Inspector defines what the HTTP surface needs from the arbor core.
type Inspector interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}

// DefaultTop is the ranking size when ?top is absent.
const DefaultTop = 10

// Server serves snapshots over HTTP. Every request runs a fresh build.
type Server struct {
	Inspector Inspector
	Render    tree.Options
	Metrics   http.Handler
	Logger    *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithRenderOptions sets the style of /tree.txt.
func WithRenderOptions(opts tree.Options) Option {
	return func(s *Server) {
		s.Render = opts
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates a new HTTP handler for the inspector.
func NewHandler(insp Inspector, opts ...Option) http.Handler {
	s := &Server{Inspector: insp}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/tree", s.GetTree)
	r.Get("/tree.txt", s.GetTreeText)
	r.Get("/tree.mmd", s.GetTreeMermaid)
	r.Get("/zorder", s.GetZOrder)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetTree handles GET /tree.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// GetTreeText handles GET /tree.txt.
func (s *Server) GetTreeText(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := tree.Render(w, &snap.Root, s.Render); err != nil {
		s.Logger.Error("GetTreeText write failed", "error", err)
	}
}

// GetTreeMermaid handles GET /tree.mmd. ?top=N highlights the N highest
// stacking orders.
func (s *Server) GetTreeMermaid(w http.ResponseWriter, r *http.Request) {
	top, ok := s.intParam(w, r, "top", 0)
	if !ok {
		return
	}
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	var overlay *graph.Overlay
	if top > 0 {
		overlay = &graph.Overlay{}
		for _, e := range arbor.TopZOrder(&snap.Root, top, true) {
			overlay.Highlight = append(overlay.Highlight, e.Ref)
		}
	}
	w.Header().Set("Content-Type", "text/vnd.mermaid; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(&snap.Root, overlay)))
}

// GetZOrder handles GET /zorder?top=N&applicable=true.
func (s *Server) GetZOrder(w http.ResponseWriter, r *http.Request) {
	top, ok := s.intParam(w, r, "top", DefaultTop)
	if !ok {
		return
	}
	applicable := false
	if v := r.URL.Query().Get("applicable"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid applicable parameter", nil)
			return
		}
		applicable = b
	}

	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, arbor.TopZOrder(&snap.Root, top, applicable))
}

func (s *Server) intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		s.writeError(w, http.StatusBadRequest, "invalid "+name+" parameter", nil)
		return 0, false
	}
	return n, true
}

// snapshot builds a tree and maps failures onto status codes: a diagnostic
// is 422 with the report, a remote failure 502, anything else 500.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*domain.Snapshot, bool) {
	snap, err := s.Inspector.Snapshot(r.Context())
	if err == nil {
		return snap, true
	}

	var cce *domain.ChildCountError
	switch {
	case errors.As(err, &cce):
		s.Logger.Warn("Snapshot replaced by diagnostic", "ref", cce.Ref.String(), "children", cce.Count)
		var report any
		if cce.Report != nil {
			report = cce.Report
		}
		s.writeError(w, http.StatusUnprocessableEntity, err.Error(), report)
	case errors.Is(err, domain.ErrRemote):
		s.Logger.Error("Snapshot failed", "error", err)
		s.writeError(w, http.StatusBadGateway, err.Error(), nil)
	default:
		s.Logger.Error("Snapshot failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error(), nil)
	}
	return nil, false
}

type errorBody struct {
	Error      string `json:"error"`
	Diagnostic any    `json:"diagnostic,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string, diagnostic any) {
	s.writeJSON(w, status, errorBody{Error: msg, Diagnostic: diagnostic})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "error", err)
	}
}
