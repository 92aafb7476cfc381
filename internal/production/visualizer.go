package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/comalice/markupx/render"
)

// DefaultVisualizer is the stdlib-only trace visualizer.
type DefaultVisualizer struct{}

type traceNode struct {
	rec      render.ElementRecord
	children []*traceNode
}

// ExportDOT generates Graphviz DOT source for a render trace, one node per
// element with nesting edges.
func (v *DefaultVisualizer) ExportDOT(snapshot render.RenderSnapshot) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Render {
  rankdir=TB;
  node [shape=box, fontsize=10, style=rounded];
`)

	roots := buildTree(snapshot.Elements)
	for _, root := range roots {
		renderNode(&buf, root)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the render trace to JSON.
func (v *DefaultVisualizer) ExportJSON(snapshot render.RenderSnapshot) ([]byte, error) {
	return json.MarshalIndent(snapshot, "", "  ")
}

// buildTree reconstructs element nesting from the trace's completion order:
// records appear post-order, so every element at depth d adopts the elements
// pending at depth d+1 as its children.
func buildTree(elements []render.ElementRecord) []*traceNode {
	pending := make(map[int][]*traceNode)

	for _, rec := range elements {
		n := &traceNode{rec: rec, children: pending[rec.Depth+1]}
		pending[rec.Depth+1] = nil
		pending[rec.Depth] = append(pending[rec.Depth], n)
	}

	return pending[0]
}

func renderNode(buf *bytes.Buffer, n *traceNode) {
	fmt.Fprintf(buf, "  %q [label=\"<%s>\"];\n", n.rec.UniqueID, n.rec.Tag)
	for _, c := range n.children {
		fmt.Fprintf(buf, "  %q -> %q;\n", n.rec.UniqueID, c.rec.UniqueID)
		renderNode(buf, c)
	}
}
