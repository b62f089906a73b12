package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotSinkContract runs a suite of tests to verify that a SnapshotSink
// implementation adheres to the defined interface contract.
func RunSnapshotSinkContract(t *testing.T, sink SnapshotSink) {
	ctx := context.Background()
	label := "contract-" + time.Now().Format("20060102150405")

	snap := domain.NewSnapshot(domain.Node{
		Role:          domain.RoleDesktopFrame,
		StackingOrder: domain.StackingSentinel,
		Ref:           domain.RootRef(),
		Children: []domain.Node{
			{Role: domain.RoleApplication, StackingOrder: domain.StackingSentinel},
		},
	}, 12*time.Millisecond, time.Now())

	t.Run("Export", func(t *testing.T) {
		err := sink.Export(ctx, label, snap)
		require.NoError(t, err, "Export should not return error")
	})

	t.Run("Export Twice Overwrites", func(t *testing.T) {
		err := sink.Export(ctx, label, snap)
		require.NoError(t, err, "re-exporting the same label should not fail")
	})

	t.Run("Export Nil Snapshot", func(t *testing.T) {
		err := sink.Export(ctx, label+"-nil", nil)
		assert.Error(t, err, "a nil snapshot must be rejected")
	})

	lister, ok := sink.(SnapshotLister)
	if !ok {
		return
	}

	t.Run("List", func(t *testing.T) {
		second := label + "-2"
		require.NoError(t, sink.Export(ctx, second, snap))

		labels, err := lister.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, labels, label)
		assert.Contains(t, labels, second)
		assert.NotContains(t, labels, label+"-nil")
	})
}
