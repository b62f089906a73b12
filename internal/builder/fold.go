package builder

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// fold reassembles the tree bottom-up from records in scan order.
//
// Records are consumed from the end. Every finished subtree goes onto the
// fold stack; a record with k shallow children takes the top k subtrees,
// which by the LIFO discipline of the scan are exactly its children in
// left-to-right order. Exactly one node must remain.
func fold(records []record) (*domain.Node, error) {
	stack := make([]domain.Node, 0, len(records))

	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		records[i] = record{}

		node := rec.node
		k := len(rec.shallow)
		if k == 0 {
			stack = append(stack, node)
			continue
		}

		if k > len(stack) {
			return nil, fmt.Errorf("%w: %s expects %d children but only %d subtrees are finished",
				domain.ErrFoldInvariant, node.Ref, k, len(stack))
		}

		begin := len(stack) - k
		children := make([]domain.Node, k)
		copy(children, stack[begin:])
		for j := range children {
			if children[j].Ref != rec.shallow[j].ref {
				return nil, fmt.Errorf("%w: child %d of %s is %s, scanned as %s",
					domain.ErrFoldInvariant, j, node.Ref, children[j].Ref, rec.shallow[j].ref)
			}
		}
		clear(stack[begin:])
		stack = stack[:begin]

		node.Children = children
		stack = append(stack, node)
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: %d roots remain after fold", domain.ErrFoldInvariant, len(stack))
	}
	return &stack[0], nil
}
