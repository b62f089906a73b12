/*
Package arbor inspects the AT-SPI accessibility tree of a desktop session.

It connects to the accessibility bus, reconstructs the object hierarchy as an
in-memory tree and renders it for human inspection. Construction never
recurses: a scan phase walks the remote objects with an explicit work stack,
resolving each object's children concurrently, and a fold phase reassembles
the tree bottom-up. Objects reporting an implausible number of children stop
the build with a diagnostic report instead of a tree.

# Architecture

The remote service is a port (ports.NodeService). The D-Bus adapter talks to
a live session; the memory adapter serves synthetic graphs for tests and
demos. Finished snapshots can be exported to sinks (file, Redis, memory) and
served over HTTP or MCP.

# Usage

	conn, err := atspi.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	insp, err := arbor.New(atspi.NewService(conn))
	if err != nil {
		log.Fatal(err)
	}

	snap, err := insp.Snapshot(ctx)
	var cce *domain.ChildCountError
	if errors.As(err, &cce) {
		// cce.Report describes the offending object.
	}

# Errors

Remote failures match domain.ErrRemote, threshold breaches match
domain.ErrChildCountTooHigh and a broken fold matches domain.ErrFoldInvariant.
No partial tree is ever returned.
*/
package arbor
