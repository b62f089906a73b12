package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/stretchr/testify/assert"
)

func TestComposeHooks(t *testing.T) {
	var order []string
	first := domain.BuildHooks{
		OnNodeScanned:   func(context.Context, *domain.ScanEvent) { order = append(order, "first:scan") },
		OnBuildComplete: func(context.Context, *domain.BuildEvent) { order = append(order, "first:complete") },
	}
	second := domain.BuildHooks{
		OnNodeScanned: func(context.Context, *domain.ScanEvent) { order = append(order, "second:scan") },
		OnBuildFailed: func(context.Context, *domain.BuildEvent) { order = append(order, "second:failed") },
	}

	hooks := observability.ComposeHooks(first, second, domain.BuildHooks{})
	ctx := context.Background()
	hooks.OnNodeScanned(ctx, &domain.ScanEvent{})
	hooks.OnThresholdReached(ctx, &domain.ScanEvent{})
	hooks.OnBuildComplete(ctx, &domain.BuildEvent{})
	hooks.OnBuildFailed(ctx, &domain.BuildEvent{})

	assert.Equal(t, []string{"first:scan", "second:scan", "first:complete", "second:failed"}, order)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := observability.LoggingHooks(logging.NewWithWriter(&buf, slog.LevelInfo))

	hooks.OnBuildComplete(context.Background(), &domain.BuildEvent{Nodes: 12})
	hooks.OnBuildFailed(context.Background(), &domain.BuildEvent{Err: errors.New("boom"), Diagnosed: true})

	out := buf.String()
	assert.Contains(t, out, "build_complete")
	assert.Contains(t, out, "nodes=12")
	assert.Contains(t, out, "diagnosed=true")
	assert.Contains(t, out, "err=boom")
}
