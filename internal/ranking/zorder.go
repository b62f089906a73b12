// Package ranking orders the nodes of a built tree by stacking order.
package ranking

import (
	"slices"

	"github.com/aretw0/arbor/pkg/domain"
)

// Entry is one node in a ranking. Position is its index in pre-order, which
// breaks ties between equal stacking orders.
type Entry struct {
	Role          domain.Role    `json:"role"`
	StackingOrder int16          `json:"stacking_order"`
	Ref           domain.NodeRef `json:"ref"`
	Position      int            `json:"position"`
}

// Flatten lists every node of the tree in pre-order (parent before children,
// siblings left to right) using an explicit stack.
func Flatten(root *domain.Node) []Entry {
	if root == nil {
		return nil
	}
	var out []Entry
	stack := []*domain.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, Entry{
			Role:          n.Role,
			StackingOrder: n.StackingOrder,
			Ref:           n.Ref,
			Position:      len(out),
		})
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, &n.Children[i])
		}
	}
	return out
}

// Rank returns the entries sorted ascending by stacking order. Equal values
// keep their relative order. The sentinel participates as the integer -1.
// The input is not modified.
func Rank(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return int(a.StackingOrder) - int(b.StackingOrder)
	})
	return out
}

// Top returns the n entries with the highest stacking order, highest first.
// Ties keep pre-order. n larger than the input returns everything; n <= 0
// returns nothing.
func Top(entries []Entry, n int) []Entry {
	if n <= 0 {
		return nil
	}
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return int(b.StackingOrder) - int(a.StackingOrder)
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Applicable drops entries carrying the sentinel.
func Applicable(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.StackingOrder != domain.StackingSentinel {
			out = append(out, e)
		}
	}
	return out
}
