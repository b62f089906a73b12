package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Config holds the tunables of a build. They are injected rather than global
// so tests can shrink the threshold or change the exclusion list.
type Config struct {
	// ChildThreshold is the reported child count above which the build is
	// abandoned for a diagnostic report.
	ChildThreshold int

	// Exclusions lists process addresses never asked for a stacking order.
	Exclusions []domain.ProcessAddress

	// FanOutLimit bounds the concurrent calls of one child batch.
	// Zero or negative means the whole batch runs at once.
	FanOutLimit int
}

// DefaultConfig returns the configuration used against a live bus.
func DefaultConfig() Config {
	return Config{
		ChildThreshold: domain.DefaultChildThreshold,
		Exclusions:     domain.DefaultExclusions(),
	}
}

// Validate checks the configuration for values the algorithm cannot honour.
func (c Config) Validate() error {
	if c.ChildThreshold < 0 {
		return fmt.Errorf("child threshold must not be negative, got %d", c.ChildThreshold)
	}
	return nil
}

// Builder turns a root reference into a fully resolved tree using an
// explicit scan stack and a fold stack instead of recursion.
// A Builder is not safe for concurrent Build calls.
type Builder struct {
	svc       ports.NodeService
	cfg       Config
	excluded  map[domain.ProcessAddress]struct{}
	inspector *Inspector
	logger    *slog.Logger
	hooks     domain.BuildHooks
	now       func() time.Time
}

// Option defines a functional option for configuring the Builder.
type Option func(*Builder)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(b *Builder) {
		b.cfg = cfg
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.BuildHooks) Option {
	return func(b *Builder) {
		b.hooks = hooks
	}
}

// WithClock overrides time.Now, for deterministic elapsed times in tests.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// New creates a Builder over svc.
func New(svc ports.NodeService, opts ...Option) (*Builder, error) {
	if svc == nil {
		return nil, errors.New("builder: node service is required")
	}
	b := &Builder{
		svc: svc,
		cfg: DefaultConfig(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}

	b.excluded = make(map[domain.ProcessAddress]struct{}, len(b.cfg.Exclusions))
	for _, addr := range b.cfg.Exclusions {
		b.excluded[addr] = struct{}{}
	}
	b.inspector = NewInspector(svc)
	return b, nil
}

// Config returns the effective configuration.
func (b *Builder) Config() Config {
	return b.cfg
}

// Build scans the remote hierarchy under root and folds it into a tree.
//
// Any remote failure aborts the build. A reported child count above the
// threshold aborts it with a *domain.ChildCountError carrying the
// diagnostic report. No partial tree is ever returned.
func (b *Builder) Build(ctx context.Context, root domain.NodeRef) (*domain.Node, error) {
	start := b.now()
	logger := b.logger.With("root", root.String())

	records, err := b.scan(ctx, root)
	if err != nil {
		b.fail(ctx, root, start, err)
		return nil, err
	}

	tree, err := fold(records)
	if err != nil {
		logger.Error("Fold failed", "records", len(records), "error", err)
		b.fail(ctx, root, start, err)
		return nil, err
	}

	elapsed := b.now().Sub(start)
	nodes := tree.Count()
	logger.Info("Tree built", "nodes", nodes, "elapsed", elapsed)
	if b.hooks.OnBuildComplete != nil {
		b.hooks.OnBuildComplete(ctx, &domain.BuildEvent{
			EventBase: domain.EventBase{Timestamp: b.now(), Type: domain.EventBuildComplete},
			Root:      root,
			Nodes:     nodes,
			Elapsed:   elapsed,
		})
	}
	return tree, nil
}

func (b *Builder) fail(ctx context.Context, root domain.NodeRef, start time.Time, err error) {
	if b.hooks.OnBuildFailed == nil {
		return
	}
	b.hooks.OnBuildFailed(ctx, &domain.BuildEvent{
		EventBase: domain.EventBase{Timestamp: b.now(), Type: domain.EventBuildFailed},
		Root:      root,
		Elapsed:   b.now().Sub(start),
		Err:       err,
		Diagnosed: errors.Is(err, domain.ErrChildCountTooHigh),
	})
}

// excludedAddress reports whether ref's owner is on the exclusion list.
func (b *Builder) excludedAddress(ref domain.NodeRef) bool {
	_, ok := b.excluded[ref.Address]
	return ok
}
