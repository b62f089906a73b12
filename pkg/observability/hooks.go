package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
)

// ComposeHooks fans every event out to each set of hooks, in order.
func ComposeHooks(sets ...domain.BuildHooks) domain.BuildHooks {
	return domain.BuildHooks{
		OnNodeScanned: func(ctx context.Context, e *domain.ScanEvent) {
			for _, h := range sets {
				if h.OnNodeScanned != nil {
					h.OnNodeScanned(ctx, e)
				}
			}
		},
		OnThresholdReached: func(ctx context.Context, e *domain.ScanEvent) {
			for _, h := range sets {
				if h.OnThresholdReached != nil {
					h.OnThresholdReached(ctx, e)
				}
			}
		},
		OnBuildComplete: func(ctx context.Context, e *domain.BuildEvent) {
			for _, h := range sets {
				if h.OnBuildComplete != nil {
					h.OnBuildComplete(ctx, e)
				}
			}
		},
		OnBuildFailed: func(ctx context.Context, e *domain.BuildEvent) {
			for _, h := range sets {
				if h.OnBuildFailed != nil {
					h.OnBuildFailed(ctx, e)
				}
			}
		},
	}
}

// LoggingHooks records build outcomes as structured log entries.
func LoggingHooks(logger *slog.Logger) domain.BuildHooks {
	return domain.BuildHooks{
		OnThresholdReached: func(ctx context.Context, e *domain.ScanEvent) {
			logger.InfoContext(ctx, "threshold_reached", "ref", e.Ref.String(), "children", e.ChildCount)
		},
		OnBuildComplete: func(ctx context.Context, e *domain.BuildEvent) {
			logger.InfoContext(ctx, "build_complete", "nodes", e.Nodes, "elapsed", e.Elapsed)
		},
		OnBuildFailed: func(ctx context.Context, e *domain.BuildEvent) {
			logger.ErrorContext(ctx, "build_failed", "diagnosed", e.Diagnosed, "error", e.Err)
		},
	}
}
