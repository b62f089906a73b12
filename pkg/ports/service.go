package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// NodeService exposes the remote accessibility service one object at a time.
// Every method is a remote call that may fail at any point; implementations
// must be safe for concurrent use because the builder fans out per batch.
type NodeService interface {
	// Role returns the object's role.
	Role(ctx context.Context, ref domain.NodeRef) (domain.Role, error)

	// ChildCount returns the child count the object reports.
	ChildCount(ctx context.Context, ref domain.NodeRef) (int, error)

	// Children returns references to the object's children in remote order.
	Children(ctx context.Context, ref domain.NodeRef) ([]domain.NodeRef, error)

	// Capabilities returns the set of interfaces the object implements.
	Capabilities(ctx context.Context, ref domain.NodeRef) (domain.CapabilitySet, error)

	// StackingOrder returns the object's MDI z-order. Only valid for objects
	// advertising domain.CapabilityComponent.
	StackingOrder(ctx context.Context, ref domain.NodeRef) (int16, error)

	// Name returns the object's accessible name.
	Name(ctx context.Context, ref domain.NodeRef) (string, error)

	// Description returns the object's accessible description.
	Description(ctx context.Context, ref domain.NodeRef) (string, error)

	// Application returns the reference of the application owning the object.
	Application(ctx context.Context, ref domain.NodeRef) (domain.NodeRef, error)
}

// Operation names used in domain.RemoteError and metric labels.
// They mirror the AT-SPI method names.
const (
	OpRole          = "GetRole"
	OpChildCount    = "ChildCount"
	OpChildren      = "GetChildren"
	OpCapabilities  = "GetInterfaces"
	OpStackingOrder = "GetMDIZOrder"
	OpName          = "Name"
	OpDescription   = "Description"
	OpApplication   = "GetApplication"
)
