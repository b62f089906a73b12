package domain

// Node is a resolved accessible object in a snapshot tree.
// Children are exclusively owned by their parent; a tree is never mutated
// once the builder returns it.
type Node struct {
	Role Role `json:"role" yaml:"role"`

	// StackingOrder is the object's MDI z-order, or StackingSentinel.
	StackingOrder int16 `json:"stacking_order" yaml:"stacking_order"`

	// Ref identifies the remote object this node was built from.
	Ref NodeRef `json:"ref" yaml:"ref"`

	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// HasStacking reports whether the node carries an observed stacking order.
func (n *Node) HasStacking() bool {
	return n.StackingOrder != StackingSentinel
}

// Count returns the number of nodes in the tree rooted at n, n included.
// It walks with an explicit stack so arbitrarily deep trees are safe.
func (n *Node) Count() int {
	count := 1
	stack := []*Node{n}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count += len(node.Children)
		for i := range node.Children {
			stack = append(stack, &node.Children[i])
		}
	}
	return count
}

// Depth returns the number of levels in the tree rooted at n (a leaf is 1).
func (n *Node) Depth() int {
	type frame struct {
		node  *Node
		level int
	}
	deepest := 0
	stack := []frame{{n, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.level > deepest {
			deepest = f.level
		}
		for i := range f.node.Children {
			stack = append(stack, frame{&f.node.Children[i], f.level + 1})
		}
	}
	return deepest
}
