package domain

import (
	"encoding/json"
	"slices"
	"strings"
)

// Capability is a named optional protocol a remote object may implement.
// On AT-SPI these are D-Bus interface names.
type Capability string

const (
	CapabilityAccessible  Capability = "org.a11y.atspi.Accessible"
	CapabilityApplication Capability = "org.a11y.atspi.Application"
	CapabilityAction      Capability = "org.a11y.atspi.Action"
	CapabilityCollection  Capability = "org.a11y.atspi.Collection"
	// CapabilityComponent gates the stacking order (MDI z-order) query.
	CapabilityComponent Capability = "org.a11y.atspi.Component"
	CapabilityDocument  Capability = "org.a11y.atspi.Document"
	CapabilityHypertext Capability = "org.a11y.atspi.Hypertext"
	CapabilityImage     Capability = "org.a11y.atspi.Image"
	CapabilitySelection Capability = "org.a11y.atspi.Selection"
	CapabilityTable     Capability = "org.a11y.atspi.Table"
	CapabilityText      Capability = "org.a11y.atspi.Text"
	CapabilityValue     Capability = "org.a11y.atspi.Value"
)

// CapabilitySet is the set of capabilities advertised by one object.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from a list of capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether c is in the set. A nil set has no capabilities.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the capabilities in lexical order.
func (s CapabilitySet) Sorted() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Short returns the final segment of the capability name ("Component").
func (c Capability) Short() string {
	name := string(c)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (s CapabilitySet) String() string {
	names := make([]string, 0, len(s))
	for _, c := range s.Sorted() {
		names = append(names, c.Short())
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// MarshalJSON encodes the set as a sorted array of capability names.
func (s CapabilitySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of capability names.
func (s *CapabilitySet) UnmarshalJSON(data []byte) error {
	var caps []Capability
	if err := json.Unmarshal(data, &caps); err != nil {
		return err
	}
	*s = NewCapabilitySet(caps...)
	return nil
}
