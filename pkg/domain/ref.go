package domain

import "fmt"

// ProcessAddress is the bus name of the process that owns a remote object.
type ProcessAddress string

// ObjectPath is the path of a remote object within its owning process.
type ObjectPath string

// NodeRef identifies a remote accessible object.
type NodeRef struct {
	Address ProcessAddress `json:"address" yaml:"address"`
	Path    ObjectPath     `json:"path" yaml:"path"`
}

// RootRef returns the reference of the registry's desktop root.
func RootRef() NodeRef {
	return NodeRef{Address: RegistryAddress, Path: RootPath}
}

// Identity returns the owning process address and the object path.
func (r NodeRef) Identity() (ProcessAddress, ObjectPath) {
	return r.Address, r.Path
}

// IsNull reports whether r is the AT-SPI null reference.
func (r NodeRef) IsNull() bool {
	return r.Path == NullPath || (r.Address == NullAddress && r.Path == "")
}

func (r NodeRef) String() string {
	return fmt.Sprintf("%s:%s", r.Address, r.Path)
}
