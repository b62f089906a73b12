package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/arbor"
)

// RunZOrder prints the n nodes with the highest stacking order.
func RunZOrder(ctx context.Context, insp Snapshotter, out io.Writer, n int, applicable bool) error {
	snap, err := insp.Snapshot(ctx)
	if err != nil {
		printFailure(out, err, false)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tZ\tROLE\tREF")
	for i, e := range arbor.TopZOrder(&snap.Root, n, applicable) {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", i+1, e.StackingOrder, e.Role, e.Ref)
	}
	return tw.Flush()
}
