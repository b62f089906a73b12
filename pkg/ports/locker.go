package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by an ExportLocker.
type UnlockFunc func(ctx context.Context) error

// ExportLocker serialises exports of one label across processes that share
// a sink, so two inspectors never interleave the writes of one snapshot.
type ExportLocker interface {
	// Lock blocks until the lock for label is held or ctx ends. The lock
	// expires on its own after ttl. The returned UnlockFunc must be called.
	Lock(ctx context.Context, label string, ttl time.Duration) (UnlockFunc, error)
}
