package engine

import "github.com/mfms-ncsu/layercross/pkg/errors"

// EdgeStretch returns the stretch of an edge: the absolute difference of
// its endpoints' normalized positions. An edge touching a layer with fewer
// than two nodes has stretch 0.
func (e *Engine) EdgeStretch(ei int) float64 {
	ed := &e.g.Edges[ei]
	down, up := &e.g.Nodes[ed.Down], &e.g.Nodes[ed.Up]
	return stretchBetween(down.Position, e.g.Layers[down.Layer].Len(), up.Position, e.g.Layers[up.Layer].Len())
}

func stretchBetween(downPos, downLen, upPos, upLen int) float64 {
	if downLen < 2 || upLen < 2 {
		return 0
	}
	s := float64(downPos)/float64(downLen-1) - float64(upPos)/float64(upLen-1)
	if s < 0 {
		return -s
	}
	return s
}

// TotalStretch recomputes the total stretch over all edges.
func (e *Engine) TotalStretch() float64 {
	var total float64
	for ei := range e.g.Edges {
		total += e.EdgeStretch(ei)
	}
	return total
}

// BottleneckStretch returns the maximum stretch over all edges.
func (e *Engine) BottleneckStretch() float64 {
	var m float64
	for ei := range e.g.Edges {
		if s := e.EdgeStretch(ei); s > m {
			m = s
		}
	}
	return m
}

// MaxStretchEdge returns the edge with the largest stretch, smallest index
// on ties, or -1 for an edgeless graph.
func (e *Engine) MaxStretchEdge() int {
	best := -1
	bestValue := -1.0
	for ei := range e.g.Edges {
		if s := e.EdgeStretch(ei); s > bestValue {
			best, bestValue = ei, s
		}
	}
	return best
}

// maxUnfixedStretchEdge returns the unfixed edge with the largest stretch,
// or -1 when every edge is fixed.
func (e *Engine) maxUnfixedStretchEdge() int {
	best := -1
	bestValue := -1.0
	for ei := range e.g.Edges {
		if e.g.Edges[ei].Fixed {
			continue
		}
		if s := e.EdgeStretch(ei); s > bestValue {
			best, bestValue = ei, s
		}
	}
	return best
}

// stretchAround returns, for every candidate position in the window, the
// total-stretch delta if v were inserted there. The walk swaps v past one
// neighbor at a time, so each step touches only the edges of the two nodes
// exchanging positions.
func (e *Engine) stretchAround(v, left, right int) []float64 {
	g := e.g
	n := &g.Nodes[v]
	nodes := g.Layers[n.Layer].Nodes
	if left < 0 || right >= len(nodes) || left > right || n.Position < left || n.Position > right {
		errors.Panicf("stretchAround(%d, %d, %d): position %d, layer size %d", v, left, right, n.Position, len(nodes))
	}

	layerLen := len(nodes)

	// nodeStretchAt sums the stretch of z's edges with z at an overridden
	// position.
	nodeStretchAt := func(z, pos int) float64 {
		zn := &g.Nodes[z]
		var total float64
		for _, ei := range zn.UpEdges {
			up := &g.Nodes[g.Edges[ei].Up]
			total += stretchBetween(pos, layerLen, up.Position, g.Layers[up.Layer].Len())
		}
		for _, ei := range zn.DownEdges {
			down := &g.Nodes[g.Edges[ei].Down]
			total += stretchBetween(down.Position, g.Layers[down.Layer].Len(), pos, layerLen)
		}
		return total
	}

	deltas := make([]float64, right-left+1)
	var acc float64
	vPos := n.Position
	for q := n.Position - 1; q >= left; q-- {
		y := nodes[q]
		acc += nodeStretchAt(v, q) - nodeStretchAt(v, vPos)
		acc += nodeStretchAt(y, vPos) - nodeStretchAt(y, q)
		vPos = q
		deltas[q-left] = acc
	}
	acc = 0
	vPos = n.Position
	for q := n.Position + 1; q <= right; q++ {
		y := nodes[q]
		acc += nodeStretchAt(v, q) - nodeStretchAt(v, vPos)
		acc += nodeStretchAt(y, vPos) - nodeStretchAt(y, q)
		vPos = q
		deltas[q-left] = acc
	}
	return deltas
}
