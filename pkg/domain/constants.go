package domain

// StackingSentinel marks a node whose stacking order is not applicable:
// the object lacks the Component capability or its owner is excluded.
const StackingSentinel int16 = -1

// DefaultChildThreshold is the child count above which a build is abandoned
// in favour of a diagnostic report.
const DefaultChildThreshold = 100_000

// Well-known entry point of the accessibility bus.
const (
	// RegistryAddress is the bus name of the AT-SPI registry daemon.
	RegistryAddress ProcessAddress = "org.a11y.atspi.Registry"
	// RootPath is the object path of the registry's desktop root.
	RootPath ObjectPath = "/org/a11y/atspi/accessible/root"
	// NullAddress is the placeholder address AT-SPI uses for references
	// that do not belong to any real process.
	NullAddress ProcessAddress = ""
	// NullPath is the object path of the AT-SPI null reference.
	NullPath ObjectPath = "/org/a11y/atspi/null"
)

// DefaultExclusions lists the process identities that are never asked for a
// stacking order.
func DefaultExclusions() []ProcessAddress {
	return []ProcessAddress{RegistryAddress, NullAddress}
}
