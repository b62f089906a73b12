package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/internal/presentation/report"
	"github.com/aretw0/arbor/internal/presentation/tree"
	"github.com/aretw0/arbor/internal/ranking"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

const treeResourceURI = "arbor://tree"

// Inspector defines what the MCP server needs from the arbor core.
type Inspector interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}

// CountResponse is the structured result of count_nodes.
type CountResponse struct {
	Applications int   `json:"applications" jsonschema_description:"Number of applications registered on the bus"`
	Nodes        int   `json:"nodes" jsonschema_description:"Number of accessible objects in the tree"`
	ElapsedMS    int64 `json:"elapsed_ms" jsonschema_description:"Build time in milliseconds"`
}

// ZOrderResponse is the structured result of top_zorder.
type ZOrderResponse struct {
	Entries []ranking.Entry `json:"entries" jsonschema_description:"Nodes with the highest stacking order, highest first"`
}

// snapshotArgs are the arguments of snapshot_tree.
type snapshotArgs struct {
	Format       string `mapstructure:"format"`
	Style        string `mapstructure:"style"`
	ShowStacking bool   `mapstructure:"show_stacking"`
}

// zorderArgs are the arguments of top_zorder.
type zorderArgs struct {
	Top        int  `mapstructure:"top"`
	Applicable bool `mapstructure:"applicable"`
}

// Server exposes the inspector as an MCP server.
type Server struct {
	insp      Inspector
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(insp Inspector, opts ...Option) *Server {
	s := &Server{
		insp:      insp,
		mcpServer: server.NewMCPServer("arbor-mcp", strings.TrimSpace(arbor.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts it down
// when ctx ends.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: snapshot_tree
	s.mcpServer.AddTool(mcp.NewTool("snapshot_tree",
		mcp.WithDescription("Build the accessibility tree of the desktop session and return it."),
		mcp.WithString("format", mcp.Description("text (default), json or mermaid")),
		mcp.WithString("style", mcp.Description("Connector style for text: unicode, ascii or rounded")),
		mcp.WithBoolean("show_stacking", mcp.Description("Annotate nodes with their stacking order")),
	), s.handleSnapshotTree)

	// TOOL: top_zorder
	s.mcpServer.AddTool(mcp.NewTool("top_zorder",
		mcp.WithDescription("List the nodes with the highest stacking order."),
		mcp.WithNumber("top", mcp.Description("How many nodes to return (default 10)")),
		mcp.WithBoolean("applicable", mcp.Description("Skip nodes without a stacking order")),
		mcp.WithOutputSchema[ZOrderResponse](),
	), mcp.NewStructuredToolHandler(s.handleTopZOrder))

	// TOOL: count_nodes
	s.mcpServer.AddTool(mcp.NewTool("count_nodes",
		mcp.WithDescription("Build the tree and report how many applications and nodes it holds."),
		mcp.WithOutputSchema[CountResponse](),
	), mcp.NewStructuredToolHandler(s.handleCountNodes))
}

func decodeArgs(in map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// snapshot builds a tree, turning a diagnostic into a readable error.
func (s *Server) snapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.insp.Snapshot(ctx)
	if err == nil {
		return snap, nil
	}
	s.logger.Error("MCP Snapshot failed", "error", err)

	var cce *domain.ChildCountError
	if errors.As(err, &cce) && cce.Report != nil {
		return nil, fmt.Errorf("%w\n\n%s", err, report.DiagnosticMarkdown(cce.Report))
	}
	return nil, err
}

func (s *Server) handleSnapshotTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args snapshotArgs
	if err := decodeArgs(request.GetArguments(), &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	style, err := tree.StyleByName(args.Style)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch args.Format {
	case "", "text":
		out := tree.String(&snap.Root, tree.Options{Style: style, ShowStacking: args.ShowStacking})
		return mcp.NewToolResultText(out), nil
	case "json":
		data, err := json.Marshal(snap)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	case "mermaid":
		return mcp.NewToolResultText(graph.GenerateMermaid(&snap.Root, nil)), nil
	}
	return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", args.Format)), nil
}

func (s *Server) handleTopZOrder(ctx context.Context, request mcp.CallToolRequest, in map[string]interface{}) (ZOrderResponse, error) {
	args := zorderArgs{Top: 10}
	if err := decodeArgs(in, &args); err != nil {
		return ZOrderResponse{}, err
	}
	if args.Top < 0 {
		return ZOrderResponse{}, fmt.Errorf("top must not be negative, got %d", args.Top)
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return ZOrderResponse{}, err
	}
	return ZOrderResponse{Entries: arbor.TopZOrder(&snap.Root, args.Top, args.Applicable)}, nil
}

func (s *Server) handleCountNodes(ctx context.Context, request mcp.CallToolRequest, in map[string]interface{}) (CountResponse, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return CountResponse{}, err
	}
	return CountResponse{
		Applications: snap.Applications,
		Nodes:        snap.Nodes,
		ElapsedMS:    snap.Elapsed.Milliseconds(),
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: arbor://tree
	s.mcpServer.AddResource(mcp.NewResource(treeResourceURI, "Accessibility Tree",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		snap, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tree: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      treeResourceURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
