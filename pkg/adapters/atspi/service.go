package atspi

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/godbus/dbus/v5"
)

const (
	ifaceAccessible = "org.a11y.atspi.Accessible"
	ifaceComponent  = "org.a11y.atspi.Component"
	ifaceProperties = "org.freedesktop.DBus.Properties"

	methodGetRole        = ifaceAccessible + ".GetRole"
	methodGetChildren    = ifaceAccessible + ".GetChildren"
	methodGetInterfaces  = ifaceAccessible + ".GetInterfaces"
	methodGetApplication = ifaceAccessible + ".GetApplication"
	methodGetMDIZOrder   = ifaceComponent + ".GetMDIZOrder"
	methodPropertyGet    = ifaceProperties + ".Get"

	propChildCount  = "ChildCount"
	propName        = "Name"
	propDescription = "Description"
)

// wireRef is the (so) pair AT-SPI uses for object references.
type wireRef struct {
	Name string
	Path dbus.ObjectPath
}

func (w wireRef) ref() domain.NodeRef {
	return domain.NodeRef{Address: domain.ProcessAddress(w.Name), Path: domain.ObjectPath(w.Path)}
}

// caller is the part of dbus.BusObject the service uses.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Service implements ports.NodeService over a D-Bus connection.
// Safe for concurrent use; calls of one batch share the connection.
type Service struct {
	object  func(ref domain.NodeRef) caller
	timeout time.Duration
}

var _ ports.NodeService = (*Service)(nil)

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithTimeout bounds every remote call.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.timeout = d
	}
}

// NewService creates a service over an open connection.
func NewService(c *Conn, opts ...ServiceOption) *Service {
	return newService(func(ref domain.NodeRef) caller {
		return c.bus.Object(string(ref.Address), dbus.ObjectPath(ref.Path))
	}, opts...)
}

func newService(object func(domain.NodeRef) caller, opts ...ServiceOption) *Service {
	s := &Service{object: object}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) call(ctx context.Context, op string, ref domain.NodeRef, method string, out interface{}, args ...interface{}) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.object(ref).CallWithContext(ctx, method, 0, args...).Store(out); err != nil {
		return &domain.RemoteError{Op: op, Ref: ref, Err: err}
	}
	return nil
}

func (s *Service) property(ctx context.Context, op string, ref domain.NodeRef, name string) (interface{}, error) {
	var v dbus.Variant
	if err := s.call(ctx, op, ref, methodPropertyGet, &v, ifaceAccessible, name); err != nil {
		return nil, err
	}
	return v.Value(), nil
}

// Role returns the object's role.
func (s *Service) Role(ctx context.Context, ref domain.NodeRef) (domain.Role, error) {
	var role uint32
	if err := s.call(ctx, ports.OpRole, ref, methodGetRole, &role); err != nil {
		return domain.RoleInvalid, err
	}
	return domain.Role(role), nil
}

// ChildCount reads the ChildCount property.
func (s *Service) ChildCount(ctx context.Context, ref domain.NodeRef) (int, error) {
	v, err := s.property(ctx, ports.OpChildCount, ref, propChildCount)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int32)
	if !ok {
		return 0, &domain.RemoteError{Op: ports.OpChildCount, Ref: ref, Err: fmt.Errorf("unexpected type %T", v)}
	}
	return int(n), nil
}

// Children enumerates the child references in remote order.
func (s *Service) Children(ctx context.Context, ref domain.NodeRef) ([]domain.NodeRef, error) {
	var wire []wireRef
	if err := s.call(ctx, ports.OpChildren, ref, methodGetChildren, &wire); err != nil {
		return nil, err
	}
	out := make([]domain.NodeRef, len(wire))
	for i, w := range wire {
		out[i] = w.ref()
	}
	return out, nil
}

// Capabilities lists the interfaces the object implements.
func (s *Service) Capabilities(ctx context.Context, ref domain.NodeRef) (domain.CapabilitySet, error) {
	var names []string
	if err := s.call(ctx, ports.OpCapabilities, ref, methodGetInterfaces, &names); err != nil {
		return nil, err
	}
	caps := make(domain.CapabilitySet, len(names))
	for _, n := range names {
		caps[domain.Capability(n)] = struct{}{}
	}
	return caps, nil
}

// StackingOrder returns the MDI z-order of a Component object.
func (s *Service) StackingOrder(ctx context.Context, ref domain.NodeRef) (int16, error) {
	var z int16
	if err := s.call(ctx, ports.OpStackingOrder, ref, methodGetMDIZOrder, &z); err != nil {
		return 0, err
	}
	return z, nil
}

// Name reads the Name property.
func (s *Service) Name(ctx context.Context, ref domain.NodeRef) (string, error) {
	return s.stringProperty(ctx, ports.OpName, ref, propName)
}

// Description reads the Description property.
func (s *Service) Description(ctx context.Context, ref domain.NodeRef) (string, error) {
	return s.stringProperty(ctx, ports.OpDescription, ref, propDescription)
}

func (s *Service) stringProperty(ctx context.Context, op string, ref domain.NodeRef, name string) (string, error) {
	v, err := s.property(ctx, op, ref, name)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return "", &domain.RemoteError{Op: op, Ref: ref, Err: fmt.Errorf("unexpected type %T", v)}
	}
	return str, nil
}

// Application returns the reference of the owning application.
func (s *Service) Application(ctx context.Context, ref domain.NodeRef) (domain.NodeRef, error) {
	var app wireRef
	if err := s.call(ctx, ports.OpApplication, ref, methodGetApplication, &app); err != nil {
		return domain.NodeRef{}, err
	}
	return app.ref(), nil
}
