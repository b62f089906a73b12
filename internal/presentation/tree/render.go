// Package tree draws a built accessibility tree as connector-drawn text.
package tree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Style is a set of connector glyphs.
type Style struct {
	Name       string
	Branch     string // child that has later siblings
	End        string // last child
	Vertical   string // continuation under a non-last ancestor
	Horizontal string // filler between connector and label
}

var (
	Unicode = Style{Name: "unicode", Branch: "├", End: "└", Vertical: "│", Horizontal: "─"}
	ASCII   = Style{Name: "ascii", Branch: "|", End: "`", Vertical: "|", Horizontal: "-"}
	Rounded = Style{Name: "rounded", Branch: "├", End: "╰", Vertical: "│", Horizontal: "─"}
)

// Styles lists the built-in presets by name.
var Styles = map[string]Style{
	Unicode.Name: Unicode,
	ASCII.Name:   ASCII,
	Rounded.Name: Rounded,
}

// StyleByName resolves a preset. An empty name selects Unicode.
func StyleByName(name string) (Style, error) {
	if name == "" {
		return Unicode, nil
	}
	s, ok := Styles[strings.ToLower(name)]
	if !ok {
		return Style{}, fmt.Errorf("unknown tree style %q", name)
	}
	return s, nil
}

// Options controls rendering.
type Options struct {
	Style Style

	// ShowStacking appends the stacking order to nodes that carry one.
	ShowStacking bool
}

// Render writes one line per node: the ancestors' continuation columns, a
// connector, two filler glyphs, a space and the role. The root has no
// ancestors and no connector, so its line starts at the filler glyphs.
func Render(w io.Writer, root *domain.Node, opts Options) error {
	if opts.Style == (Style{}) {
		opts.Style = Unicode
	}
	bw := bufio.NewWriter(w)
	r := &renderer{w: bw, opts: opts}
	r.line(opts.Style.Horizontal+opts.Style.Horizontal+" ", root)
	for i := range root.Children {
		r.node(&root.Children[i], "", i == len(root.Children)-1)
	}
	if r.err != nil {
		return r.err
	}
	return bw.Flush()
}

// String renders to a string.
func String(root *domain.Node, opts Options) string {
	var sb strings.Builder
	_ = Render(&sb, root, opts)
	return sb.String()
}

type renderer struct {
	w    *bufio.Writer
	opts Options
	err  error
}

func (r *renderer) node(n *domain.Node, prefix string, last bool) {
	s := r.opts.Style
	connector := s.Branch
	next := prefix + s.Vertical + "   "
	if last {
		connector = s.End
		next = prefix + "    "
	}
	r.line(prefix+connector+s.Horizontal+s.Horizontal+" ", n)
	for i := range n.Children {
		r.node(&n.Children[i], next, i == len(n.Children)-1)
	}
}

func (r *renderer) line(lead string, n *domain.Node) {
	if r.err != nil {
		return
	}
	label := n.Role.String()
	if r.opts.ShowStacking && n.HasStacking() {
		label = fmt.Sprintf("%s (z=%d)", label, n.StackingOrder)
	}
	_, r.err = fmt.Fprintf(r.w, "%s%s\n", lead, label)
}
