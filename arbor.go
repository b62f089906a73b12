package arbor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/arbor/internal/builder"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/ranking"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
)

// Inspector is the high-level entry point of the arbor library.
// It builds snapshots of an accessibility tree and hands them to sinks.
// Safe for concurrent use: every Snapshot call runs its own build.
type Inspector struct {
	svc     ports.NodeService
	root    domain.NodeRef
	cfg     builder.Config
	hooks   domain.BuildHooks
	logger  *slog.Logger
	metrics *observability.Metrics
	targets []target
	now     func() time.Time
}

type target struct {
	sink  ports.SnapshotSink
	label string
}

// Option defines a functional option for configuring the Inspector.
type Option func(*Inspector)

// WithConfig replaces the builder configuration.
func WithConfig(cfg builder.Config) Option {
	return func(i *Inspector) {
		i.cfg = cfg
	}
}

// WithRoot changes the object the tree is built from (default: the registry root).
func WithRoot(ref domain.NodeRef) Option {
	return func(i *Inspector) {
		i.root = ref
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) {
		i.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.BuildHooks) Option {
	return func(i *Inspector) {
		i.hooks = hooks
	}
}

// WithMetrics records remote calls and build outcomes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(i *Inspector) {
		i.metrics = m
	}
}

// WithSink adds a sink Export writes every snapshot to, under label.
func WithSink(sink ports.SnapshotSink, label string) Option {
	return func(i *Inspector) {
		i.targets = append(i.targets, target{sink: sink, label: label})
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(i *Inspector) {
		i.now = now
	}
}

// New initializes an Inspector over svc.
func New(svc ports.NodeService, opts ...Option) (*Inspector, error) {
	if svc == nil {
		return nil, errors.New("arbor: node service is required")
	}
	i := &Inspector{
		svc:  svc,
		root: domain.RootRef(),
		cfg:  builder.DefaultConfig(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	if err := i.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("arbor: %w", err)
	}
	if i.logger == nil {
		i.logger = logging.NewNop()
	}
	if i.metrics != nil {
		i.svc = i.metrics.Instrument(i.svc)
		i.hooks = observability.ComposeHooks(i.hooks, i.metrics.Hooks())
	}
	return i, nil
}

// Config returns the effective builder configuration.
func (i *Inspector) Config() builder.Config {
	return i.cfg
}

// Snapshot builds the tree and summarises it. On a threshold breach the
// error is a *domain.ChildCountError carrying the diagnostic report.
func (i *Inspector) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	b, err := builder.New(i.svc,
		builder.WithConfig(i.cfg),
		builder.WithLogger(i.logger),
		builder.WithHooks(i.hooks),
		builder.WithClock(i.now),
	)
	if err != nil {
		return nil, err
	}

	start := i.now()
	root, err := b.Build(ctx, i.root)
	if err != nil {
		return nil, err
	}
	return domain.NewSnapshot(*root, i.now().Sub(start), start), nil
}

// Export writes snap to every configured sink. All sinks are attempted;
// the failures are joined.
func (i *Inspector) Export(ctx context.Context, snap *domain.Snapshot) error {
	var errs []error
	for _, t := range i.targets {
		if err := t.sink.Export(ctx, t.label, snap); err != nil {
			i.logger.Error("Export failed", "label", t.label, "error", err)
			errs = append(errs, fmt.Errorf("export %s: %w", t.label, err))
			continue
		}
		i.logger.Debug("Snapshot exported", "label", t.label)
	}
	return errors.Join(errs...)
}

// TopZOrder returns the n highest stacking orders of the tree, highest
// first. With applicable set, nodes without a stacking order are skipped.
func TopZOrder(root *domain.Node, n int, applicable bool) []ranking.Entry {
	entries := ranking.Flatten(root)
	if applicable {
		entries = ranking.Applicable(entries)
	}
	return ranking.Top(entries, n)
}
