/*
Package ports defines the driven ports (interfaces) of the arbor inspector.

These interfaces decouple the tree builder from the bus it talks to and from
wherever finished snapshots are exported, so the same core runs against the
live AT-SPI bus, an in-memory synthetic graph, or a test double.

# Key Interfaces

  - NodeService: Per-object remote operations (role, children, capabilities, stacking order).
  - SnapshotSink: Write-only export of finished snapshots (file, Redis, memory).
  - ExportLocker: Cross-process serialisation of exports sharing one label.
*/
package ports
