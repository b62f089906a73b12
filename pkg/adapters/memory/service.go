package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// ErrUnknownObject is returned for references the service does not hold.
var ErrUnknownObject = errors.New("unknown object")

// Record is the remote state of one synthetic object.
type Record struct {
	Role         domain.Role
	Name         string
	Description  string
	Capabilities domain.CapabilitySet
	Stacking     int16
	Children     []domain.NodeRef
	Application  domain.NodeRef

	// ReportedChildren overrides the ChildCount answer when non-nil, to
	// simulate objects that advertise more children than they enumerate.
	ReportedChildren *int
}

// Service implements ports.NodeService over an in-memory object graph.
// Safe for concurrent use.
type Service struct {
	mu       sync.RWMutex
	objects  map[domain.NodeRef]*Record
	failures map[failureKey]error

	calls    sync.Map // op -> *atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
}

type failureKey struct {
	op  string
	ref domain.NodeRef
}

var _ ports.NodeService = (*Service)(nil)

// NewService creates an empty service.
func NewService() *Service {
	return &Service{
		objects:  make(map[domain.NodeRef]*Record),
		failures: make(map[failureKey]error),
	}
}

// Put stores (or replaces) the record for ref.
func (s *Service) Put(ref domain.NodeRef, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := rec
	copied.Children = append([]domain.NodeRef(nil), rec.Children...)
	s.objects[ref] = &copied
}

// FailOn makes every call of op on ref return err.
// Use an empty op to fail all operations on ref.
func (s *Service) FailOn(op string, ref domain.NodeRef, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[failureKey{op, ref}] = err
}

// Calls returns how many times op was invoked.
func (s *Service) Calls(op string) int64 {
	if c, ok := s.calls.Load(op); ok {
		return c.(*atomic.Int64).Load()
	}
	return 0
}

// PeakInFlight returns the highest number of calls observed running at once.
func (s *Service) PeakInFlight() int64 {
	return s.peak.Load()
}

func (s *Service) enter(op string) func() {
	c, _ := s.calls.LoadOrStore(op, new(atomic.Int64))
	c.(*atomic.Int64).Add(1)

	n := s.inFlight.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return func() { s.inFlight.Add(-1) }
}

func (s *Service) lookup(ctx context.Context, op string, ref domain.NodeRef) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.RemoteError{Op: op, Ref: ref, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err, ok := s.failures[failureKey{op, ref}]; ok {
		return nil, &domain.RemoteError{Op: op, Ref: ref, Err: err}
	}
	if err, ok := s.failures[failureKey{"", ref}]; ok {
		return nil, &domain.RemoteError{Op: op, Ref: ref, Err: err}
	}
	rec, ok := s.objects[ref]
	if !ok {
		return nil, &domain.RemoteError{Op: op, Ref: ref, Err: ErrUnknownObject}
	}
	return rec, nil
}

// Role returns the object's role.
func (s *Service) Role(ctx context.Context, ref domain.NodeRef) (domain.Role, error) {
	defer s.enter(ports.OpRole)()
	rec, err := s.lookup(ctx, ports.OpRole, ref)
	if err != nil {
		return domain.RoleInvalid, err
	}
	return rec.Role, nil
}

// ChildCount returns the reported child count.
func (s *Service) ChildCount(ctx context.Context, ref domain.NodeRef) (int, error) {
	defer s.enter(ports.OpChildCount)()
	rec, err := s.lookup(ctx, ports.OpChildCount, ref)
	if err != nil {
		return 0, err
	}
	if rec.ReportedChildren != nil {
		return *rec.ReportedChildren, nil
	}
	return len(rec.Children), nil
}

// Children returns a copy of the object's child references.
func (s *Service) Children(ctx context.Context, ref domain.NodeRef) ([]domain.NodeRef, error) {
	defer s.enter(ports.OpChildren)()
	rec, err := s.lookup(ctx, ports.OpChildren, ref)
	if err != nil {
		return nil, err
	}
	return append([]domain.NodeRef(nil), rec.Children...), nil
}

// Capabilities returns the object's capability set.
func (s *Service) Capabilities(ctx context.Context, ref domain.NodeRef) (domain.CapabilitySet, error) {
	defer s.enter(ports.OpCapabilities)()
	rec, err := s.lookup(ctx, ports.OpCapabilities, ref)
	if err != nil {
		return nil, err
	}
	caps := make(domain.CapabilitySet, len(rec.Capabilities))
	for c := range rec.Capabilities {
		caps[c] = struct{}{}
	}
	return caps, nil
}

// StackingOrder returns the configured z-order. Like the real bus, asking an
// object without the Component capability is an error.
func (s *Service) StackingOrder(ctx context.Context, ref domain.NodeRef) (int16, error) {
	defer s.enter(ports.OpStackingOrder)()
	rec, err := s.lookup(ctx, ports.OpStackingOrder, ref)
	if err != nil {
		return 0, err
	}
	if !rec.Capabilities.Has(domain.CapabilityComponent) {
		return 0, &domain.RemoteError{
			Op:  ports.OpStackingOrder,
			Ref: ref,
			Err: fmt.Errorf("object does not implement %s", domain.CapabilityComponent),
		}
	}
	return rec.Stacking, nil
}

// Name returns the object's accessible name.
func (s *Service) Name(ctx context.Context, ref domain.NodeRef) (string, error) {
	defer s.enter(ports.OpName)()
	rec, err := s.lookup(ctx, ports.OpName, ref)
	if err != nil {
		return "", err
	}
	return rec.Name, nil
}

// Description returns the object's accessible description.
func (s *Service) Description(ctx context.Context, ref domain.NodeRef) (string, error) {
	defer s.enter(ports.OpDescription)()
	rec, err := s.lookup(ctx, ports.OpDescription, ref)
	if err != nil {
		return "", err
	}
	return rec.Description, nil
}

// Application returns the owning application reference.
func (s *Service) Application(ctx context.Context, ref domain.NodeRef) (domain.NodeRef, error) {
	defer s.enter(ports.OpApplication)()
	rec, err := s.lookup(ctx, ports.OpApplication, ref)
	if err != nil {
		return domain.NodeRef{}, err
	}
	return rec.Application, nil
}
