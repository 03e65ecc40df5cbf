package engine

import (
	"sort"
)

// Orientation selects which neighbors a weight assignment is based on.
type Orientation int

const (
	// OrientDown bases weights on neighbors in the layer below.
	OrientDown Orientation = iota
	// OrientUp bases weights on neighbors in the layer above.
	OrientUp
	// OrientBoth combines both directions.
	OrientBoth
)

// noNeighborWeight marks nodes with no neighbors in the chosen direction;
// adjustWeights replaces it according to the configured policy.
const noNeighborWeight = -1.0

// LayerSort stably sorts a layer by ascending weight and reassigns
// positions to match the new order. Stability is what makes equal-weight
// tie-breaking reproducible across runs.
func (e *Engine) LayerSort(layer int) {
	nodes := e.g.Layers[layer].Nodes
	sort.SliceStable(nodes, func(i, j int) bool {
		return e.g.Nodes[nodes[i]].Weight < e.g.Nodes[nodes[j]].Weight
	})
	for p, idx := range nodes {
		e.g.Nodes[idx].Position = p
	}
}

// barycenterWeights assigns each node of the layer the mean position of
// its neighbors in the chosen orientation. With OrientBoth the weight is
// either the mean over all neighbors or, when balanced weighting is on,
// the mean of the two directed means.
func (e *Engine) barycenterWeights(layer int, o Orientation) {
	for _, idx := range e.g.Layers[layer].Nodes {
		n := &e.g.Nodes[idx]
		upSum, upDeg := e.neighborPositionSum(idx, OrientUp)
		downSum, downDeg := e.neighborPositionSum(idx, OrientDown)
		switch o {
		case OrientUp:
			n.Weight = meanOrSentinel(upSum, upDeg)
		case OrientDown:
			n.Weight = meanOrSentinel(downSum, downDeg)
		case OrientBoth:
			if e.opts.BalancedWeight {
				up := meanOrSentinel(upSum, upDeg)
				down := meanOrSentinel(downSum, downDeg)
				switch {
				case up == noNeighborWeight:
					n.Weight = down
				case down == noNeighborWeight:
					n.Weight = up
				default:
					n.Weight = (up + down) / 2
				}
			} else {
				n.Weight = meanOrSentinel(upSum+downSum, upDeg+downDeg)
			}
		}
	}
	e.adjustWeights(layer)
}

func (e *Engine) neighborPositionSum(v int, o Orientation) (sum float64, degree int) {
	n := &e.g.Nodes[v]
	if o == OrientUp {
		for _, ei := range n.UpEdges {
			sum += float64(e.g.Nodes[e.g.Edges[ei].Up].Position)
		}
		return sum, len(n.UpEdges)
	}
	for _, ei := range n.DownEdges {
		sum += float64(e.g.Nodes[e.g.Edges[ei].Down].Position)
	}
	return sum, len(n.DownEdges)
}

func meanOrSentinel(sum float64, degree int) float64 {
	if degree == 0 {
		return noNeighborWeight
	}
	return sum / float64(degree)
}

// medianWeights assigns each node the median position of its neighbors in
// the chosen orientation. For an even neighbor count the middle position
// closer to the node's current position wins, the lower one on an exact
// tie.
func (e *Engine) medianWeights(layer int, o Orientation) {
	for _, idx := range e.g.Layers[layer].Nodes {
		n := &e.g.Nodes[idx]
		var positions []int
		switch o {
		case OrientUp:
			positions = e.upPositions(idx)
		case OrientDown:
			positions = e.downPositions(idx)
		case OrientBoth:
			positions = append(e.upPositions(idx), e.downPositions(idx)...)
			sort.Ints(positions)
		}
		if len(positions) == 0 {
			n.Weight = noNeighborWeight
			continue
		}
		if len(positions)%2 == 1 {
			n.Weight = float64(positions[len(positions)/2])
			continue
		}
		lo, hi := positions[len(positions)/2-1], positions[len(positions)/2]
		if abs(hi-n.Position) < abs(lo-n.Position) {
			n.Weight = float64(hi)
		} else {
			n.Weight = float64(lo)
		}
	}
	e.adjustWeights(layer)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// adjustWeights replaces the sentinel weight of isolated nodes according
// to the configured policy. Every policy is total and deterministic.
func (e *Engine) adjustWeights(layer int) {
	nodes := e.g.Layers[layer].Nodes
	switch e.opts.WeightPolicy {
	case WeightLeft:
		// The node follows its left neighbor; chains of isolated nodes
		// stay together. The leftmost isolated node anchors at 0.
		for i, idx := range nodes {
			n := &e.g.Nodes[idx]
			if n.Weight != noNeighborWeight {
				continue
			}
			if i == 0 {
				n.Weight = 0
			} else {
				n.Weight = e.g.Nodes[nodes[i-1]].Weight
			}
		}
	case WeightAvg:
		for i, idx := range nodes {
			n := &e.g.Nodes[idx]
			if n.Weight != noNeighborWeight {
				continue
			}
			left, leftOK := nearestWeighted(e, nodes, i, -1)
			right, rightOK := nearestWeighted(e, nodes, i, +1)
			switch {
			case leftOK && rightOK:
				n.Weight = (left + right) / 2
			case leftOK:
				n.Weight = left
			case rightOK:
				n.Weight = right
			default:
				n.Weight = float64(n.Position)
			}
		}
	case WeightNone:
		// Keep isolated nodes where they are.
		for _, idx := range nodes {
			n := &e.g.Nodes[idx]
			if n.Weight == noNeighborWeight {
				n.Weight = float64(n.Position)
			}
		}
	}
}

func nearestWeighted(e *Engine, nodes []int, from, dir int) (float64, bool) {
	for i := from + dir; i >= 0 && i < len(nodes); i += dir {
		if w := e.g.Nodes[nodes[i]].Weight; w != noNeighborWeight {
			return w, true
		}
	}
	return 0, false
}
