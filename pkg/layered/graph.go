package layered

import (
	stderrors "errors"

	"github.com/mfms-ncsu/layercross/pkg/errors"
)

var (
	// ErrUnknownNode is returned by AddEdge when an endpoint index is out
	// of range.
	ErrUnknownNode = stderrors.New("unknown node index")

	// ErrSameLayerEdge is returned by AddEdge when both endpoints are on
	// the same layer.
	ErrSameLayerEdge = stderrors.New("edge endpoints on the same layer")

	// ErrNonadjacentLayers is returned by AddEdge when the endpoints are
	// more than one layer apart. All edges must connect consecutive layers.
	ErrNonadjacentLayers = stderrors.New("edge endpoints on non-adjacent layers")

	// ErrUnknownLayer is returned by AddNode when the layer index is
	// negative.
	ErrUnknownLayer = stderrors.New("negative layer index")
)

// Graph is the triple (layers, master node list, master edge list) plus a
// name and a free-form comment buffer. Elements are created by the parsers
// and never added or removed by the engine; only positions, layer node
// sequences, scratch fields, and cached counts mutate afterwards.
//
// Graph is not safe for concurrent use; a heuristic run owns it exclusively.
type Graph struct {
	Name     string
	Comments []string

	Nodes  []Node
	Edges  []Edge
	Layers []Layer
}

// NewGraph creates an empty graph with the given name.
func NewGraph(name string) *Graph {
	return &Graph{Name: name}
}

// AddComment appends one line to the comment buffer. Comments accumulate
// (typically the command line) and propagate unchanged to every output file.
func (g *Graph) AddComment(line string) {
	g.Comments = append(g.Comments, line)
}

// AddNode appends a node on the given layer at the next free position and
// returns its index. Layers are grown on demand; callers that need an
// explicit position order (SGF input) add nodes in position order.
func (g *Graph) AddNode(id int, name string, layer int) (int, error) {
	if layer < 0 {
		return 0, ErrUnknownLayer
	}
	for len(g.Layers) <= layer {
		g.Layers = append(g.Layers, Layer{})
	}
	idx := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{
		ID:       id,
		Name:     name,
		Layer:    layer,
		Position: len(g.Layers[layer].Nodes),
	})
	g.Layers[layer].Nodes = append(g.Layers[layer].Nodes, idx)
	return idx, nil
}

// AddEdge connects two existing nodes on consecutive layers and returns the
// edge index. The endpoints may be given in either order; the edge is
// stored with Down on the lower layer. Returns ErrSameLayerEdge or
// ErrNonadjacentLayers when the layer constraint is violated.
func (g *Graph) AddEdge(a, b int) (int, error) {
	if a < 0 || a >= len(g.Nodes) || b < 0 || b >= len(g.Nodes) {
		return 0, ErrUnknownNode
	}
	down, up := a, b
	switch g.Nodes[b].Layer - g.Nodes[a].Layer {
	case 1:
		// already down, up
	case -1:
		down, up = b, a
	case 0:
		return 0, ErrSameLayerEdge
	default:
		return 0, ErrNonadjacentLayers
	}
	idx := len(g.Edges)
	g.Edges = append(g.Edges, Edge{Down: down, Up: up})
	g.Nodes[down].UpEdges = append(g.Nodes[down].UpEdges, idx)
	g.Nodes[up].DownEdges = append(g.Nodes[up].DownEdges, idx)
	return idx, nil
}

// NodeAt returns the index of the node at the given position of a layer.
func (g *Graph) NodeAt(layer, position int) int {
	return g.Layers[layer].Nodes[position]
}

// NumLayers returns the number of layers.
func (g *Graph) NumLayers() int { return len(g.Layers) }

// NumChannels returns the number of channels (pairs of adjacent layers).
func (g *Graph) NumChannels() int {
	if len(g.Layers) == 0 {
		return 0
	}
	return len(g.Layers) - 1
}

// IsolatedNodes returns the number of nodes with no incident edges.
func (g *Graph) IsolatedNodes() int {
	count := 0
	for i := range g.Nodes {
		if g.Nodes[i].Degree() == 0 {
			count++
		}
	}
	return count
}

// SwapPositions exchanges the nodes at positions i and j of a layer and
// updates their Position fields. The nodes need not be adjacent.
// Out-of-range arguments panic: callers compute positions from the layer
// itself, so a bad index is a programming error.
func (g *Graph) SwapPositions(layer, i, j int) {
	l := &g.Layers[layer]
	if i < 0 || i >= len(l.Nodes) || j < 0 || j >= len(l.Nodes) {
		errors.Panicf("SwapPositions(%d, %d, %d): layer has %d nodes", layer, i, j, len(l.Nodes))
	}
	if i == j {
		return
	}
	l.Nodes[i], l.Nodes[j] = l.Nodes[j], l.Nodes[i]
	g.Nodes[l.Nodes[i]].Position = i
	g.Nodes[l.Nodes[j]].Position = j
}

// RepositionNode moves a node to a new position on its layer, shifting the
// intervening nodes by one. The update is atomic with respect to invariant 1:
// on return every node's Position on the affected layer matches its index.
func (g *Graph) RepositionNode(node, newPosition int) {
	n := &g.Nodes[node]
	l := &g.Layers[n.Layer]
	if newPosition < 0 || newPosition >= len(l.Nodes) {
		errors.Panicf("RepositionNode(%d, %d): layer %d has %d nodes", node, newPosition, n.Layer, len(l.Nodes))
	}
	old := n.Position
	if l.Nodes[old] != node {
		errors.Panicf("RepositionNode(%d): position %d on layer %d holds node %d", node, old, n.Layer, l.Nodes[old])
	}
	if old == newPosition {
		return
	}
	if old < newPosition {
		copy(l.Nodes[old:], l.Nodes[old+1:newPosition+1])
	} else {
		copy(l.Nodes[newPosition+1:old+1], l.Nodes[newPosition:old])
	}
	l.Nodes[newPosition] = node
	lo, hi := min(old, newPosition), max(old, newPosition)
	for p := lo; p <= hi; p++ {
		g.Nodes[l.Nodes[p]].Position = p
	}
}

// ClearFixedNodes resets the Fixed flag of every node.
func (g *Graph) ClearFixedNodes() {
	for i := range g.Nodes {
		g.Nodes[i].Fixed = false
	}
}

// ClearFixedEdges resets the Fixed flag of every edge.
func (g *Graph) ClearFixedEdges() {
	for i := range g.Edges {
		g.Edges[i].Fixed = false
	}
}

// ClearFixedLayers resets the Fixed flag of every layer.
func (g *Graph) ClearFixedLayers() {
	for i := range g.Layers {
		g.Layers[i].Fixed = false
	}
}

// AllNodesFixed reports whether every node has its Fixed flag set.
func (g *Graph) AllNodesFixed() bool {
	for i := range g.Nodes {
		if !g.Nodes[i].Fixed {
			return false
		}
	}
	return true
}

// Check verifies the structural invariants and returns nil if they hold.
// It is used by tests after every public engine call; production code relies
// on the mutators preserving the invariants instead.
func (g *Graph) Check() error {
	seen := make([]bool, len(g.Nodes))
	for l := range g.Layers {
		for i, idx := range g.Layers[l].Nodes {
			if idx < 0 || idx >= len(g.Nodes) {
				return errors.New(errors.ErrCodeInvariantViolation, "layer %d position %d: node index %d out of range", l, i, idx)
			}
			if seen[idx] {
				return errors.New(errors.ErrCodeInvariantViolation, "node %d appears on more than one layer position", idx)
			}
			seen[idx] = true
			n := &g.Nodes[idx]
			if n.Layer != l {
				return errors.New(errors.ErrCodeInvariantViolation, "node %d on layer %d records layer %d", idx, l, n.Layer)
			}
			if n.Position != i {
				return errors.New(errors.ErrCodeInvariantViolation, "node %d at position %d records position %d", idx, i, n.Position)
			}
		}
	}
	for i := range g.Nodes {
		if !seen[i] {
			return errors.New(errors.ErrCodeInvariantViolation, "node %d missing from its layer", i)
		}
	}
	for ei := range g.Edges {
		e := &g.Edges[ei]
		if g.Nodes[e.Up].Layer-g.Nodes[e.Down].Layer != 1 {
			return errors.New(errors.ErrCodeInvariantViolation, "edge %d connects layers %d and %d", ei, g.Nodes[e.Down].Layer, g.Nodes[e.Up].Layer)
		}
		if countOf(g.Nodes[e.Down].UpEdges, ei) != 1 || countOf(g.Nodes[e.Up].DownEdges, ei) != 1 {
			return errors.New(errors.ErrCodeInvariantViolation, "edge %d not listed exactly once on both endpoints", ei)
		}
	}
	return nil
}

func countOf(list []int, x int) int {
	count := 0
	for _, v := range list {
		if v == x {
			count++
		}
	}
	return count
}
