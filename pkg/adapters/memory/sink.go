package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Sink implements ports.SnapshotSink in memory.
// Safe for concurrent use.
type Sink struct {
	data map[string]*domain.Snapshot
	mu   sync.RWMutex
}

// NewSink creates a new in-memory sink.
func NewSink() *Sink {
	return &Sink{
		data: make(map[string]*domain.Snapshot),
	}
}

// Export keeps a shallow copy of the snapshot. Trees are immutable once
// built, so sharing the node slices is safe.
func (s *Sink) Export(ctx context.Context, label string, snap *domain.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	copied := *snap

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[label] = &copied
	return nil
}

// Get returns the snapshot exported under label.
func (s *Sink) Get(label string) (*domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.data[label]
	return snap, ok
}

// List returns exported labels in lexical order.
func (s *Sink) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	labels := make([]string, 0, len(s.data))
	for label := range s.data {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}
