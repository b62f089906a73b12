package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// SnapshotSink exports finished snapshots. Sinks are write-only: the
// inspector never reads a previous snapshot back into a build.
type SnapshotSink interface {
	// Export persists the snapshot under the given label.
	Export(ctx context.Context, label string, snap *domain.Snapshot) error
}

// SnapshotLister is implemented by sinks that can enumerate exported labels.
// It exists for inspection tooling and contract tests.
type SnapshotLister interface {
	List(ctx context.Context) ([]string, error)
}
