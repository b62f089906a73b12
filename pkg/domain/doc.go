/*
Package domain contains the core domain models for the arbor inspector.

It defines the entities of an accessibility snapshot: the remote object
references the bus hands out, the roles and capabilities those objects
report, and the immutable Node tree built from them. This package is kept
pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - NodeRef: Identity of a remote object (owning process address + object path).
  - Node: A resolved accessible object (Role, StackingOrder, Children).
  - Role: The closed AT-SPI role enumeration.
  - CapabilitySet: The interfaces a remote object advertises.
  - Snapshot: A built tree plus the summary data of the scan that produced it.
  - Diagnostic: The report produced when an object reports an implausible child count.
*/
package domain
