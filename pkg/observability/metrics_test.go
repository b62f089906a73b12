package observability_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/arbor/internal/builder"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, m *observability.Metrics, svc ports.NodeService, cfg builder.Config) error {
	t.Helper()
	b, err := builder.New(m.Instrument(svc), builder.WithConfig(cfg), builder.WithHooks(m.Hooks()))
	require.NoError(t, err)
	_, err = b.Build(context.Background(), domain.RootRef())
	return err
}

func TestMetrics_SuccessfulBuild(t *testing.T) {
	svc, _ := memory.NewFromTree(memory.Object{
		Role:     domain.RoleDesktopFrame,
		Children: []memory.Object{{Role: domain.RoleApplication}, {Role: domain.RoleApplication}},
	})
	m := observability.NewMetrics()
	require.NoError(t, build(t, m, svc, builder.DefaultConfig()))

	expected := `
# HELP arbor_builds_total Total number of tree builds by outcome
# TYPE arbor_builds_total counter
arbor_builds_total{outcome="success"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "arbor_builds_total"))

	expected = `
# HELP arbor_nodes_scanned_total Total number of objects popped from the scan stack
# TYPE arbor_nodes_scanned_total counter
arbor_nodes_scanned_total 3
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "arbor_nodes_scanned_total"))

	// The instrumented service saw exactly the calls the memory service served.
	calls, err := testutil.GatherAndCount(m.Registry, "arbor_remote_calls_total")
	require.NoError(t, err)
	assert.Positive(t, calls)
	assert.Equal(t, float64(svc.Calls(ports.OpRole)), countFor(t, m, ports.OpRole))
}

func countFor(t *testing.T, m *observability.Metrics, op string) float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "arbor_remote_calls_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "op" && l.GetValue() == op {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestMetrics_FailedBuilds(t *testing.T) {
	m := observability.NewMetrics()

	huge := 5
	svc, _ := memory.NewFromTree(memory.Object{Role: domain.RoleList, ReportedChildren: &huge})
	cfg := builder.DefaultConfig()
	cfg.ChildThreshold = 1
	assert.ErrorIs(t, build(t, m, svc, cfg), domain.ErrChildCountTooHigh)

	broken, tree := memory.NewFromTree(memory.Object{Role: domain.RoleList})
	broken.FailOn(ports.OpChildren, tree.Ref, errors.New("gone"))
	assert.ErrorIs(t, build(t, m, broken, builder.DefaultConfig()), domain.ErrRemote)

	expected := `
# HELP arbor_builds_total Total number of tree builds by outcome
# TYPE arbor_builds_total counter
arbor_builds_total{outcome="diagnostic"} 1
arbor_builds_total{outcome="error"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "arbor_builds_total"))

	expected = `
# HELP arbor_remote_errors_total Total number of failed remote accessibility calls
# TYPE arbor_remote_errors_total counter
arbor_remote_errors_total{op="GetChildren"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "arbor_remote_errors_total"))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := observability.NewMetrics()
	svc, _ := memory.NewFromTree(memory.Object{Role: domain.RoleDesktopFrame})
	require.NoError(t, build(t, m, svc, builder.DefaultConfig()))

	path := filepath.Join(t.TempDir(), "arbor.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "arbor_last_build_nodes 1")
}
