package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/internal/presentation/report"
	"github.com/aretw0/arbor/internal/presentation/tree"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/domain"
)

// Output formats of the snapshot command.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMermaid = "mermaid"
)

// SnapshotOptions controls the snapshot command.
type SnapshotOptions struct {
	Format string
	Render tree.Options

	// Pause waits for Enter between the summary and the tree.
	Pause bool

	// Interactive enables colour, the banner and Markdown rendering.
	Interactive bool
}

// Snapshotter is the part of the inspector the commands use.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Export(ctx context.Context, snap *domain.Snapshot) error
}

// PauseBeforeTree reports whether a text snapshot waits for Enter before the
// tree. It does by default, but only when someone can press Enter.
func PauseBeforeTree(format string, noPause, stdinTerminal bool) bool {
	if noPause || !stdinTerminal {
		return false
	}
	return format == FormatText || format == ""
}

// RunSnapshot builds the tree, exports it and prints it. A diagnostic is
// printed in place of the tree and still returned as the error.
func RunSnapshot(ctx context.Context, insp Snapshotter, out io.Writer, in io.Reader, opts SnapshotOptions) error {
	if opts.Interactive && opts.Format == FormatText {
		tui.PrintBanner(out)
		fmt.Fprintln(out, "Construct a tree of accessible objects on the a11y-bus")
		fmt.Fprintln(out)
	}

	snap, err := insp.Snapshot(ctx)
	if err != nil {
		printFailure(out, err, opts.Interactive)
		return err
	}
	if err := insp.Export(ctx, snap); err != nil {
		return err
	}

	switch opts.Format {
	case FormatJSON, FormatYAML:
		data, err := file.Encode(snap, file.Format(opts.Format))
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case FormatMermaid:
		_, err := io.WriteString(out, graph.GenerateMermaid(&snap.Root, nil))
		return err
	case FormatText, "":
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}

	fmt.Fprint(out, report.Summary(snap))
	if opts.Pause {
		msg := "Press 'Enter' to print the tree..."
		if opts.Interactive {
			msg = tui.Heading(msg)
		}
		fmt.Fprintf(out, "\n%s\n", msg)
		if _, err := bufio.NewReader(in).ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	} else {
		fmt.Fprintln(out)
	}
	return tree.Render(out, &snap.Root, opts.Render)
}

// printFailure shows the diagnostic report when there is one. Other
// failures are left to the caller.
func printFailure(out io.Writer, err error, interactive bool) {
	var cce *domain.ChildCountError
	if !errors.As(err, &cce) || cce.Report == nil {
		return
	}
	if interactive {
		if rendered, rerr := tui.NewRenderer()(report.DiagnosticMarkdown(cce.Report)); rerr == nil {
			fmt.Fprint(out, rendered)
			return
		}
	}
	_ = report.WriteDiagnostic(out, cce.Report)
}
