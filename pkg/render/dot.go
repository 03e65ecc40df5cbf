// Package render converts a laid-out layered graph to Graphviz DOT and
// renders it to SVG. The DOT output pins both the layer assignment
// (rank=same groups) and the within-layer ordering (invisible chains), so
// the picture shows exactly the arrangement a heuristic produced.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mfms-ncsu/layercross/pkg/layered"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes layer and position in node labels.
	Detailed bool
}

// ToDOT converts a layered graph to DOT. Each layer becomes a rank=same
// group whose nodes are chained with invisible edges in position order;
// Graphviz then reproduces the stored ordering instead of choosing its own.
func ToDOT(g *layered.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontsize=12];\n")
	buf.WriteString("\n")

	for l := range g.Layers {
		fmt.Fprintf(&buf, "  { rank=same;")
		for _, idx := range g.Layers[l].Nodes {
			fmt.Fprintf(&buf, " %q;", label(g, idx, opts.Detailed))
		}
		buf.WriteString(" }\n")
		for i := 0; i+1 < len(g.Layers[l].Nodes); i++ {
			fmt.Fprintf(&buf, "  %q -> %q [style=invis];\n",
				label(g, g.Layers[l].Nodes[i], opts.Detailed),
				label(g, g.Layers[l].Nodes[i+1], opts.Detailed))
		}
	}

	buf.WriteString("\n")
	for ei := range g.Edges {
		e := &g.Edges[ei]
		fmt.Fprintf(&buf, "  %q -> %q [arrowhead=none];\n",
			label(g, e.Down, opts.Detailed), label(g, e.Up, opts.Detailed))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(g *layered.Graph, idx int, detailed bool) string {
	n := &g.Nodes[idx]
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("%d", n.ID)
	}
	if !detailed {
		return name
	}
	parts := []string{name, fmt.Sprintf("layer: %d", n.Layer), fmt.Sprintf("pos: %d", n.Position)}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
