package layered

import "github.com/mfms-ncsu/layercross/pkg/errors"

// Snapshot is a saved permutation of the graph: node indices in layer-major,
// position-major order, plus metadata recorded by the objective tracker at
// capture time. Snapshots are opaque to everything but SaveOrder and
// RestoreOrder.
type Snapshot struct {
	Iteration int     // iteration at which the snapshot was captured
	Value     float64 // objective value at capture

	order []int
}

// SaveOrder captures the current vertex arrangement. The snapshot is
// independent of later mutations.
func (g *Graph) SaveOrder() *Snapshot {
	order := make([]int, 0, len(g.Nodes))
	for l := range g.Layers {
		order = append(order, g.Layers[l].Nodes...)
	}
	return &Snapshot{order: order}
}

// RestoreOrder replays a snapshot taken from this graph, restoring every
// node's Position and the layer node sequences exactly as they were at save
// time. A snapshot from a different graph panics.
func (g *Graph) RestoreOrder(s *Snapshot) {
	if len(s.order) != len(g.Nodes) {
		errors.Panicf("RestoreOrder: snapshot holds %d nodes, graph has %d", len(s.order), len(g.Nodes))
	}
	i := 0
	for l := range g.Layers {
		nodes := g.Layers[l].Nodes
		for p := range nodes {
			idx := s.order[i]
			i++
			if g.Nodes[idx].Layer != l {
				errors.Panicf("RestoreOrder: node %d belongs to layer %d, snapshot places it on %d", idx, g.Nodes[idx].Layer, l)
			}
			nodes[p] = idx
			g.Nodes[idx].Position = p
		}
	}
}
