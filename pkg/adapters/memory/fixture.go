package memory

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Object describes a synthetic accessible object and its subtree.
type Object struct {
	Role        domain.Role
	Name        string
	Description string

	// Address overrides the owning process. When empty the object inherits
	// its parent's address; direct children of the root get ":1.<n>".
	Address domain.ProcessAddress

	// Component advertises the stacking capability with value Stacking.
	Component bool
	Stacking  int16

	// Capabilities lists extra capabilities besides Accessible/Component.
	Capabilities []domain.Capability

	// ReportedChildren, when set, is what ChildCount answers.
	ReportedChildren *int

	Children []Object
}

// NewFromTree builds a service serving root at domain.RootRef. It returns the
// service and the tree a correct build is expected to produce when no
// address is excluded.
func NewFromTree(root Object) (*Service, domain.Node) {
	svc := NewService()
	b := &treeLoader{svc: svc}
	rootRef := domain.RootRef()
	expected := b.load(root, rootRef, rootRef, 0)
	return svc, expected
}

type treeLoader struct {
	svc *Service
	seq int
	app int
}

func (b *treeLoader) nextPath() domain.ObjectPath {
	b.seq++
	return domain.ObjectPath(fmt.Sprintf("/org/a11y/atspi/accessible/%d", b.seq))
}

func (b *treeLoader) load(obj Object, ref, app domain.NodeRef, depth int) domain.Node {
	if obj.Role == domain.RoleApplication || depth == 1 {
		app = ref
	}

	caps := domain.NewCapabilitySet(domain.CapabilityAccessible)
	if obj.Component {
		caps[domain.CapabilityComponent] = struct{}{}
	}
	for _, c := range obj.Capabilities {
		caps[c] = struct{}{}
	}

	node := domain.Node{
		Role:          obj.Role,
		StackingOrder: domain.StackingSentinel,
		Ref:           ref,
	}
	if obj.Component {
		node.StackingOrder = obj.Stacking
	}

	childRefs := make([]domain.NodeRef, 0, len(obj.Children))
	for _, child := range obj.Children {
		addr := child.Address
		if addr == "" {
			if depth == 0 {
				b.app++
				addr = domain.ProcessAddress(fmt.Sprintf(":1.%d", b.app))
			} else {
				addr = ref.Address
			}
		}
		childRef := domain.NodeRef{Address: addr, Path: b.nextPath()}
		childRefs = append(childRefs, childRef)
		node.Children = append(node.Children, b.load(child, childRef, app, depth+1))
	}

	b.svc.Put(ref, Record{
		Role:             obj.Role,
		Name:             obj.Name,
		Description:      obj.Description,
		Capabilities:     caps,
		Stacking:         obj.Stacking,
		Children:         childRefs,
		Application:      app,
		ReportedChildren: obj.ReportedChildren,
	})
	return node
}
