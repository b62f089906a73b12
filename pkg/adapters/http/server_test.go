package http_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/builder"
	"github.com/aretw0/arbor/internal/presentation/tree"
	"github.com/aretw0/arbor/internal/ranking"
	arborhttp "github.com/aretw0/arbor/pkg/adapters/http"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func desktop() memory.Object {
	return memory.Object{
		Role: domain.RoleDesktopFrame,
		Children: []memory.Object{
			{Role: domain.RoleApplication, Children: []memory.Object{
				{Role: domain.RoleFrame, Component: true, Stacking: 2},
				{Role: domain.RoleDialog, Component: true, Stacking: 5},
			}},
			{Role: domain.RoleApplication},
		},
	}
}

func newServer(t *testing.T, svc ports.NodeService, opts ...arbor.Option) (*httptest.Server, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetrics()
	insp, err := arbor.New(svc, append(opts, arbor.WithMetrics(m))...)
	require.NoError(t, err)

	handler := arborhttp.NewHandler(insp,
		arborhttp.WithRenderOptions(tree.Options{Style: tree.ASCII}),
		arborhttp.WithMetricsHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})),
	)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, m
}

func TestHealth(t *testing.T) {
	svc, _ := memory.NewFromTree(desktop())
	srv, _ := newServer(t, svc)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestGetTree(t *testing.T) {
	svc, expected := memory.NewFromTree(desktop())
	srv, _ := newServer(t, svc)

	resp, err := http.Get(srv.URL + "/tree")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap domain.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 2, snap.Applications)
	assert.Equal(t, 5, snap.Nodes)
	assert.Equal(t, expected, snap.Root)
}

func TestGetTreeText(t *testing.T) {
	svc, _ := memory.NewFromTree(desktop())
	srv, _ := newServer(t, svc)

	body := readBody(t, srv.URL+"/tree.txt", http.StatusOK)
	want := "-- desktop frame\n" +
		"|-- application\n" +
		"|   |-- frame\n" +
		"|   `-- dialog\n" +
		"`-- application\n"
	assert.Equal(t, want, body)
}

func TestGetTreeMermaid(t *testing.T) {
	svc, _ := memory.NewFromTree(desktop())
	srv, _ := newServer(t, svc)

	body := readBody(t, srv.URL+"/tree.mmd?top=1", http.StatusOK)
	assert.Contains(t, body, "graph TD")
	assert.Contains(t, body, `n3[["dialog <br/> z=5"]]`)
	assert.Contains(t, body, "class n3 highlight;")
}

func TestGetZOrder(t *testing.T) {
	svc, _ := memory.NewFromTree(desktop())
	srv, _ := newServer(t, svc)

	var entries []ranking.Entry
	require.NoError(t, json.Unmarshal([]byte(readBody(t, srv.URL+"/zorder?top=2&applicable=true", http.StatusOK)), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, int16(5), entries[0].StackingOrder)
	assert.Equal(t, int16(2), entries[1].StackingOrder)

	require.NoError(t, json.Unmarshal([]byte(readBody(t, srv.URL+"/zorder", http.StatusOK)), &entries))
	assert.Len(t, entries, 5, "sentinel nodes participate by default")

	readBody(t, srv.URL+"/zorder?top=abc", http.StatusBadRequest)
	readBody(t, srv.URL+"/zorder?applicable=maybe", http.StatusBadRequest)
}

func TestSnapshotFailures(t *testing.T) {
	t.Run("diagnostic", func(t *testing.T) {
		huge := 50
		svc, _ := memory.NewFromTree(memory.Object{Role: domain.RoleTable, Name: "grid", ReportedChildren: &huge})
		cfg := builder.DefaultConfig()
		cfg.ChildThreshold = 10
		srv, _ := newServer(t, svc, arbor.WithConfig(cfg))

		var body struct {
			Error      string            `json:"error"`
			Diagnostic domain.Diagnostic `json:"diagnostic"`
		}
		raw := []byte(readBody(t, srv.URL+"/tree", http.StatusUnprocessableEntity))
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Contains(t, body.Error, "child count is too high")
		assert.Equal(t, "grid", body.Diagnostic.Name)
		assert.Equal(t, 50, body.Diagnostic.ChildCount)
		assert.True(t, body.Diagnostic.Capabilities.Has(domain.CapabilityAccessible))

		var footprint struct {
			Diagnostic struct {
				EstimatedFootprint uint64 `json:"estimated_footprint"`
			} `json:"diagnostic"`
		}
		require.NoError(t, json.Unmarshal(raw, &footprint))
		assert.Positive(t, footprint.Diagnostic.EstimatedFootprint)
		assert.Equal(t, body.Diagnostic.EstimatedFootprint(), footprint.Diagnostic.EstimatedFootprint)
	})

	t.Run("remote", func(t *testing.T) {
		svc, root := memory.NewFromTree(desktop())
		svc.FailOn(ports.OpChildren, root.Ref, errors.New("disconnected"))
		srv, _ := newServer(t, svc)
		body := readBody(t, srv.URL+"/tree.txt", http.StatusBadGateway)
		assert.Contains(t, body, "disconnected")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	svc, _ := memory.NewFromTree(desktop())
	srv, _ := newServer(t, svc)

	readBody(t, srv.URL+"/tree", http.StatusOK)
	body := readBody(t, srv.URL+"/metrics", http.StatusOK)
	assert.Contains(t, body, `arbor_builds_total{outcome="success"} 1`)
	assert.Contains(t, body, "arbor_remote_calls_total")
}

func readBody(t *testing.T, url string, status int) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, status, resp.StatusCode)

	var sb strings.Builder
	_, err = io.Copy(&sb, resp.Body)
	require.NoError(t, err)
	return sb.String()
}
