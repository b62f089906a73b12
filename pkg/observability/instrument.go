package observability

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Instrument wraps svc so every call is counted and timed per operation.
func (m *Metrics) Instrument(svc ports.NodeService) ports.NodeService {
	return &instrumented{next: svc, m: m}
}

type instrumented struct {
	next ports.NodeService
	m    *Metrics
}

func (s *instrumented) Role(ctx context.Context, ref domain.NodeRef) (domain.Role, error) {
	start := time.Now()
	v, err := s.next.Role(ctx, ref)
	s.m.observe(ports.OpRole, start, err)
	return v, err
}

func (s *instrumented) ChildCount(ctx context.Context, ref domain.NodeRef) (int, error) {
	start := time.Now()
	v, err := s.next.ChildCount(ctx, ref)
	s.m.observe(ports.OpChildCount, start, err)
	return v, err
}

func (s *instrumented) Children(ctx context.Context, ref domain.NodeRef) ([]domain.NodeRef, error) {
	start := time.Now()
	v, err := s.next.Children(ctx, ref)
	s.m.observe(ports.OpChildren, start, err)
	return v, err
}

func (s *instrumented) Capabilities(ctx context.Context, ref domain.NodeRef) (domain.CapabilitySet, error) {
	start := time.Now()
	v, err := s.next.Capabilities(ctx, ref)
	s.m.observe(ports.OpCapabilities, start, err)
	return v, err
}

func (s *instrumented) StackingOrder(ctx context.Context, ref domain.NodeRef) (int16, error) {
	start := time.Now()
	v, err := s.next.StackingOrder(ctx, ref)
	s.m.observe(ports.OpStackingOrder, start, err)
	return v, err
}

func (s *instrumented) Name(ctx context.Context, ref domain.NodeRef) (string, error) {
	start := time.Now()
	v, err := s.next.Name(ctx, ref)
	s.m.observe(ports.OpName, start, err)
	return v, err
}

func (s *instrumented) Description(ctx context.Context, ref domain.NodeRef) (string, error) {
	start := time.Now()
	v, err := s.next.Description(ctx, ref)
	s.m.observe(ports.OpDescription, start, err)
	return v, err
}

func (s *instrumented) Application(ctx context.Context, ref domain.NodeRef) (domain.NodeRef, error) {
	start := time.Now()
	v, err := s.next.Application(ctx, ref)
	s.m.observe(ports.OpApplication, start, err)
	return v, err
}
