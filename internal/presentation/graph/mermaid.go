package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Overlay highlights nodes on the generated graph.
type Overlay struct {
	// Highlight lists the nodes to emphasise, e.g. the top of a z-order ranking.
	Highlight []domain.NodeRef
}

// GenerateMermaid produces a Mermaid flowchart of the tree rooted at root.
// Node shapes follow the role:
// - Application: ((Circle))
// - Frame/Window/Dialog: [[Subroutine]]
// - Default: [Rectangle]
// Nodes are numbered in pre-order; labels carry the role and, when present,
// the stacking order.
func GenerateMermaid(root *domain.Node, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	type frame struct {
		node   *domain.Node
		parent string
	}
	ids := make(map[domain.NodeRef]string)
	seq := 0
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := fmt.Sprintf("n%d", seq)
		seq++
		ids[f.node.Ref] = id

		opener, closer := "[", "]"
		switch f.node.Role {
		case domain.RoleApplication:
			opener, closer = "((", "))"
		case domain.RoleFrame, domain.RoleWindow, domain.RoleDialog:
			opener, closer = "[[", "]]"
		}

		label := f.node.Role.String()
		if f.node.HasStacking() {
			label = fmt.Sprintf("%s <br/> z=%d", label, f.node.StackingOrder)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escapeLabel(label), closer)
		if f.parent != "" {
			fmt.Fprintf(&sb, "    %s --> %s\n", f.parent, id)
		}

		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: &f.node.Children[i], parent: id})
		}
	}

	if overlay != nil && len(overlay.Highlight) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef highlight fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		seen := make(map[string]bool)
		for _, ref := range overlay.Highlight {
			id, ok := ids[ref]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s highlight;\n", id)
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
