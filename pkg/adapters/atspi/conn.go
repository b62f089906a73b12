package atspi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/godbus/dbus/v5"
)

const (
	busName       = "org.a11y.Bus"
	busPath       = dbus.ObjectPath("/org/a11y/bus")
	busGetAddress = "org.a11y.Bus.GetAddress"
	statusEnabled = "org.a11y.Status.IsEnabled"
)

// Conn is a connection to the accessibility bus.
type Conn struct {
	bus     *dbus.Conn
	session *dbus.Conn
}

type connectOptions struct {
	address string
	enable  bool
	logger  *slog.Logger
}

// ConnectOption configures Connect.
type ConnectOption func(*connectOptions)

// WithAddress dials the accessibility bus at addr instead of asking the
// session bus for it.
func WithAddress(addr string) ConnectOption {
	return func(o *connectOptions) {
		o.address = addr
	}
}

// WithoutEnable skips switching session accessibility on.
func WithoutEnable() ConnectOption {
	return func(o *connectOptions) {
		o.enable = false
	}
}

// WithConnectLogger sets the logger used while connecting.
func WithConnectLogger(logger *slog.Logger) ConnectOption {
	return func(o *connectOptions) {
		o.logger = logger
	}
}

// Connect enables accessibility for the session, looks up the
// accessibility bus and dials it.
func Connect(ctx context.Context, opts ...ConnectOption) (*Conn, error) {
	o := connectOptions{enable: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}

	c := &Conn{}
	if o.enable || o.address == "" {
		session, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to session bus: %w", err)
		}
		c.session = session
		a11y := session.Object(busName, busPath)

		if o.enable {
			if err := a11y.SetProperty(statusEnabled, dbus.MakeVariant(true)); err != nil {
				c.Close()
				return nil, fmt.Errorf("failed to enable accessibility: %w", err)
			}
			o.logger.Debug("Session accessibility enabled")
		}

		if o.address == "" {
			if err := a11y.CallWithContext(ctx, busGetAddress, 0).Store(&o.address); err != nil {
				c.Close()
				return nil, fmt.Errorf("failed to look up accessibility bus: %w", err)
			}
		}
	}

	bus, err := dbus.Connect(o.address, dbus.WithContext(ctx))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to accessibility bus %s: %w", o.address, err)
	}
	c.bus = bus
	o.logger.Info("Connected to accessibility bus", "address", o.address)
	return c, nil
}

// Close releases both bus connections.
func (c *Conn) Close() error {
	var err error
	if c.bus != nil {
		err = c.bus.Close()
	}
	if c.session != nil {
		if serr := c.session.Close(); err == nil {
			err = serr
		}
	}
	return err
}
