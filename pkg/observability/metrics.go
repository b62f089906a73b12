package observability

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Build outcomes used as label values.
const (
	OutcomeSuccess    = "success"
	OutcomeDiagnostic = "diagnostic"
	OutcomeError      = "error"
)

// Metrics holds the collectors of one registry.
type Metrics struct {
	Registry *prometheus.Registry

	remoteCalls   *prometheus.CounterVec
	remoteErrors  *prometheus.CounterVec
	remoteLatency *prometheus.HistogramVec
	nodesScanned  prometheus.Counter
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	lastNodes     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		remoteCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_remote_calls_total",
				Help: "Total number of remote accessibility calls",
			},
			[]string{"op"},
		),
		remoteErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_remote_errors_total",
				Help: "Total number of failed remote accessibility calls",
			},
			[]string{"op"},
		),
		remoteLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arbor_remote_call_duration_seconds",
				Help:    "Duration of remote accessibility calls",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"op"},
		),
		nodesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_nodes_scanned_total",
			Help: "Total number of objects popped from the scan stack",
		}),
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_builds_total",
				Help: "Total number of tree builds by outcome",
			},
			[]string{"outcome"},
		),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arbor_build_duration_seconds",
			Help:    "Duration of tree builds",
			Buckets: prometheus.DefBuckets,
		}),
		lastNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arbor_last_build_nodes",
			Help: "Node count of the last successful build",
		}),
	}
	m.Registry.MustRegister(
		m.remoteCalls, m.remoteErrors, m.remoteLatency,
		m.nodesScanned, m.builds, m.buildDuration, m.lastNodes,
	)
	return m
}

// Hooks returns builder hooks that record scan and build metrics.
func (m *Metrics) Hooks() domain.BuildHooks {
	return domain.BuildHooks{
		OnNodeScanned: func(context.Context, *domain.ScanEvent) {
			m.nodesScanned.Inc()
		},
		OnBuildComplete: func(_ context.Context, e *domain.BuildEvent) {
			m.builds.WithLabelValues(OutcomeSuccess).Inc()
			m.buildDuration.Observe(e.Elapsed.Seconds())
			m.lastNodes.Set(float64(e.Nodes))
		},
		OnBuildFailed: func(_ context.Context, e *domain.BuildEvent) {
			outcome := OutcomeError
			if e.Diagnosed {
				outcome = OutcomeDiagnostic
			}
			m.builds.WithLabelValues(outcome).Inc()
			m.buildDuration.Observe(e.Elapsed.Seconds())
		},
	}
}

// WriteTextfile writes the registry in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	m.remoteCalls.WithLabelValues(op).Inc()
	m.remoteLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.remoteErrors.WithLabelValues(op).Inc()
	}
}

var _ ports.NodeService = (*instrumented)(nil)
