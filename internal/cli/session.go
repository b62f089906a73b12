package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/export"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/adapters/atspi"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
)

// Options are the flags shared by every command.
type Options struct {
	ConfigPath string
	Debug      bool

	// Demo serves DemoDesktop instead of connecting to the bus.
	Demo bool

	// Overrides of config file values; empty/zero keeps the file value.
	BusAddress string
	Export     string
	Threshold  int
	Style      string

	// MetricsFile receives the Prometheus textfile on Close.
	MetricsFile string
}

// Session owns everything one command invocation needs.
type Session struct {
	Inspector *arbor.Inspector
	Metrics   *observability.Metrics
	Config    config.Config
	Logger    *slog.Logger

	metricsFile string
	closers     []func() error
}

// createLogger configures the application logger.
// In debug mode it writes to Stderr so the tree on Stdout stays clean.
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// LoadConfig reads the config file and applies the flag overrides.
func LoadConfig(opts Options) (config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if opts.BusAddress != "" {
		cfg.BusAddress = opts.BusAddress
	}
	if opts.Export != "" {
		cfg.Export = opts.Export
	}
	if opts.Threshold > 0 {
		cfg.Threshold = opts.Threshold
	}
	if opts.Style != "" {
		cfg.Style = opts.Style
	}
	return cfg, cfg.Validate()
}

// Open loads the configuration, connects the node service and assembles
// the inspector with metrics, logging and export sinks.
func Open(ctx context.Context, opts Options) (*Session, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Config:      cfg,
		Logger:      createLogger(opts.Debug),
		Metrics:     observability.NewMetrics(),
		metricsFile: opts.MetricsFile,
	}

	svc, err := s.connect(ctx, opts.Demo)
	if err != nil {
		return nil, err
	}

	inspOpts := []arbor.Option{
		arbor.WithConfig(cfg.Builder()),
		arbor.WithLogger(s.Logger),
		arbor.WithMetrics(s.Metrics),
		arbor.WithHooks(observability.LoggingHooks(s.Logger)),
	}
	if cfg.Export != "" {
		target, err := export.Open(cfg.Export)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("export: %w", err)
		}
		inspOpts = append(inspOpts, arbor.WithSink(target.Sink, target.Label))
	}

	s.Inspector, err = arbor.New(svc, inspOpts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) connect(ctx context.Context, demo bool) (ports.NodeService, error) {
	if demo {
		s.Logger.Info("Serving the demo desktop")
		svc, _ := memory.NewFromTree(DemoDesktop()) // second value is the expected tree
		return svc, nil
	}

	timeout, err := s.Config.CallTimeout()
	if err != nil {
		return nil, err
	}

	connOpts := []atspi.ConnectOption{atspi.WithConnectLogger(s.Logger)}
	if s.Config.BusAddress != "" {
		connOpts = append(connOpts, atspi.WithAddress(s.Config.BusAddress))
	}
	conn, err := atspi.Connect(ctx, connOpts...)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, conn.Close)
	return atspi.NewService(conn, atspi.WithTimeout(timeout)), nil
}

// Close writes the metrics textfile, if requested, and releases the bus.
func (s *Session) Close() error {
	var errs []error
	if s.metricsFile != "" && s.Metrics != nil {
		if err := s.Metrics.WriteTextfile(s.metricsFile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
