package engine

import (
	"sort"

	"github.com/mfms-ncsu/layercross/pkg/errors"
)

// FullRecount recomputes every edge's crossing count, every channel total,
// and the running total from scratch. Cost is roughly the channel sizes
// plus the number of inversions.
func (e *Engine) FullRecount() {
	e.total = 0
	for c := range e.channels {
		e.channels[c] = 0
		e.recountChannel(c)
	}
}

// RecountChannel refreshes the bookkeeping for the channel between layers
// c and c+1 only. Heuristics call this after a local move so the rest of
// the graph keeps its cached counts.
func (e *Engine) RecountChannel(c int) {
	if c < 0 || c >= len(e.channels) {
		errors.Panicf("RecountChannel(%d): graph has %d channels", c, len(e.channels))
	}
	e.recountChannel(c)
}

// recountChannelsAround refreshes the channel(s) incident on a layer.
func (e *Engine) recountChannelsAround(layer int) {
	if layer > 0 {
		e.recountChannel(layer - 1)
	}
	if layer < len(e.channels) {
		e.recountChannel(layer)
	}
}

// recountChannel lists, in down-layer position order, the up-layer
// positions of every edge endpoint (ties within a node resolved by
// adjacency-list order) and counts inversions with an insertion sort,
// charging each inversion to both edges. The sort runs in O(edges +
// inversions), which beats the Fenwick count exactly when the channel is
// already nearly sorted, the common case mid-run.
func (e *Engine) recountChannel(c int) {
	g := e.g
	var seq []int
	for _, nidx := range g.Layers[c].Nodes {
		start := len(seq)
		seq = append(seq, g.Nodes[nidx].UpEdges...)
		// Edges sharing a down node never cross, so list them by up
		// position; the stable sort keeps adjacency order for equal ones.
		own := seq[start:]
		sort.SliceStable(own, func(i, j int) bool {
			return g.Nodes[g.Edges[own[i]].Up].Position < g.Nodes[g.Edges[own[j]].Up].Position
		})
	}
	for _, ei := range seq {
		g.Edges[ei].Crossings = 0
	}

	var inversions int64
	for i := 1; i < len(seq); i++ {
		cur := seq[i]
		curPos := g.Nodes[g.Edges[cur].Up].Position
		j := i - 1
		for j >= 0 && g.Nodes[g.Edges[seq[j]].Up].Position > curPos {
			g.Edges[seq[j]].Crossings++
			g.Edges[cur].Crossings++
			inversions++
			seq[j+1] = seq[j]
			j--
		}
		seq[j+1] = cur
	}

	e.total += inversions - e.channels[c]
	e.channels[c] = inversions

	for _, nidx := range g.Layers[c].Nodes {
		n := &g.Nodes[nidx]
		up := 0
		for _, ei := range n.UpEdges {
			up += g.Edges[ei].Crossings
		}
		n.UpCrossings = up
	}
	for _, nidx := range g.Layers[c+1].Nodes {
		n := &g.Nodes[nidx]
		down := 0
		for _, ei := range n.DownEdges {
			down += g.Edges[ei].Crossings
		}
		n.DownCrossings = down
	}
}

// ChannelCrossings counts the crossings in channel c without touching any
// cached state, using a Fenwick tree over the up-layer positions. This is
// the independent count VerifyCounts checks the incremental bookkeeping
// against.
func (e *Engine) ChannelCrossings(c int) int64 {
	g := e.g
	upLen := g.Layers[c+1].Len()
	fenwick := make([]int64, upLen+1)

	var crossings, total int64
	for _, nidx := range g.Layers[c].Nodes {
		ups := g.Nodes[nidx].UpEdges
		// Query every edge of the node before inserting any of them, so
		// edges sharing this down node are not counted against each other.
		for _, ei := range ups {
			pos := g.Nodes[g.Edges[ei].Up].Position
			var lessOrEqual int64
			for q := pos + 1; q > 0; q -= q & (-q) {
				lessOrEqual += fenwick[q]
			}
			crossings += total - lessOrEqual
		}
		for _, ei := range ups {
			pos := g.Nodes[g.Edges[ei].Up].Position
			total++
			for idx := pos + 1; idx < len(fenwick); idx += idx & (-idx) {
				fenwick[idx]++
			}
		}
	}
	return crossings
}

// VerifyCounts cross-checks the cached counters: the per-channel totals
// against an independent Fenwick recount, and the invariant that the sum
// of per-edge counts is exactly twice the sum of the channel totals.
func (e *Engine) VerifyCounts() error {
	var channelSum int64
	for c := range e.channels {
		independent := e.ChannelCrossings(c)
		if e.channels[c] != independent {
			return errors.New(errors.ErrCodeInvariantViolation,
				"channel %d caches %d crossings, recount finds %d", c, e.channels[c], independent)
		}
		channelSum += e.channels[c]
	}
	if e.total != channelSum {
		return errors.New(errors.ErrCodeInvariantViolation,
			"total caches %d crossings, channels sum to %d", e.total, channelSum)
	}
	var edgeSum int64
	for ei := range e.g.Edges {
		edgeSum += int64(e.g.Edges[ei].Crossings)
	}
	if edgeSum != 2*e.total {
		return errors.New(errors.ErrCodeInvariantViolation,
			"edge counts sum to %d, expected twice the total %d", edgeSum, e.total)
	}
	return nil
}

// upPositions returns the up-layer positions of v's up neighbors, sorted.
func (e *Engine) upPositions(v int) []int {
	n := &e.g.Nodes[v]
	out := make([]int, 0, len(n.UpEdges))
	for _, ei := range n.UpEdges {
		out = append(out, e.g.Nodes[e.g.Edges[ei].Up].Position)
	}
	sort.Ints(out)
	return out
}

// downPositions returns the down-layer positions of v's down neighbors,
// sorted.
func (e *Engine) downPositions(v int) []int {
	n := &e.g.Nodes[v]
	out := make([]int, 0, len(n.DownEdges))
	for _, ei := range n.DownEdges {
		out = append(out, e.g.Nodes[e.g.Edges[ei].Down].Position)
	}
	sort.Ints(out)
	return out
}

// countGreaterPairs counts pairs (pa, pb) with pa in a, pb in b, pa > pb.
// Both slices must be sorted ascending.
func countGreaterPairs(a, b []int) int64 {
	var count int64
	j := 0
	for _, pa := range a {
		for j < len(b) && b[j] < pa {
			j++
		}
		count += int64(j)
	}
	return count
}

// nodeCrossings counts the crossings between edges incident on a and edges
// incident on b, in both channels, assuming a sits to the left of b on
// their shared layer. It is pure: positions are never touched.
func (e *Engine) nodeCrossings(a, b int) int64 {
	return countGreaterPairs(e.upPositions(a), e.upPositions(b)) +
		countGreaterPairs(e.downPositions(a), e.downPositions(b))
}

// CrossingsIfSwapped returns the total number of crossings the graph would
// have if the two nodes, adjacent on the same layer, exchanged positions.
// Only the edges incident on the pair are examined; the function is pure.
func (e *Engine) CrossingsIfSwapped(n1, n2 int) int64 {
	a, b := &e.g.Nodes[n1], &e.g.Nodes[n2]
	if a.Layer != b.Layer {
		errors.Panicf("CrossingsIfSwapped(%d, %d): nodes on layers %d and %d", n1, n2, a.Layer, b.Layer)
	}
	left, right := n1, n2
	if a.Position > b.Position {
		left, right = n2, n1
	}
	if e.g.Nodes[right].Position-e.g.Nodes[left].Position != 1 {
		errors.Panicf("CrossingsIfSwapped(%d, %d): nodes not adjacent", n1, n2)
	}
	return e.total - e.nodeCrossings(left, right) + e.nodeCrossings(right, left)
}

// CrossingsAround returns, for every candidate position in the window
// [left, right] on v's layer, the total-crossings delta if v were inserted
// there, relative to its current position. After a pre-pass that sorts v's
// neighbor positions, the walk costs the window size times the degrees
// involved; no candidate is re-evaluated from scratch.
func (e *Engine) CrossingsAround(v, left, right int) []int64 {
	g := e.g
	n := &g.Nodes[v]
	nodes := g.Layers[n.Layer].Nodes
	if left < 0 || right >= len(nodes) || left > right || n.Position < left || n.Position > right {
		errors.Panicf("CrossingsAround(%d, %d, %d): position %d, layer size %d", v, left, right, n.Position, len(nodes))
	}

	vUp := e.upPositions(v)
	vDown := e.downPositions(v)
	pairs := func(y int) (whenVLeft, whenVRight int64) {
		yUp := e.upPositions(y)
		yDown := e.downPositions(y)
		whenVLeft = countGreaterPairs(vUp, yUp) + countGreaterPairs(vDown, yDown)
		whenVRight = countGreaterPairs(yUp, vUp) + countGreaterPairs(yDown, vDown)
		return
	}

	deltas := make([]int64, right-left+1)
	var acc int64
	for q := n.Position - 1; q >= left; q-- {
		whenVLeft, whenVRight := pairs(nodes[q])
		acc += whenVLeft - whenVRight
		deltas[q-left] = acc
	}
	acc = 0
	for q := n.Position + 1; q <= right; q++ {
		whenVLeft, whenVRight := pairs(nodes[q])
		acc += whenVRight - whenVLeft
		deltas[q-left] = acc
	}
	return deltas
}

// edgeCrossingsAround walks the candidate window and tracks, per candidate
// position, the maximum crossings borne by any edge incident on v together
// with the total-crossings delta (the edge sifter's tie-breaker). The
// per-edge counts start from the cached values, which must be fresh.
func (e *Engine) edgeCrossingsAround(v, left, right int) (maxes []int, totals []int64) {
	g := e.g
	n := &g.Nodes[v]
	nodes := g.Layers[n.Layer].Nodes
	if left < 0 || right >= len(nodes) || left > right || n.Position < left || n.Position > right {
		errors.Panicf("edgeCrossingsAround(%d, %d, %d): position %d, layer size %d", v, left, right, n.Position, len(nodes))
	}

	incident := make([]int, 0, n.Degree())
	incident = append(incident, n.UpEdges...)
	incident = append(incident, n.DownEdges...)

	size := right - left + 1
	maxes = make([]int, size)
	totals = make([]int64, size)

	counts := make([]int, len(incident))
	reset := func() {
		for i, ei := range incident {
			counts[i] = g.Edges[ei].Crossings
		}
	}
	maxCount := func() int {
		m := 0
		for _, c := range counts {
			if c > m {
				m = c
			}
		}
		return m
	}

	// step updates the per-edge counts and returns the total delta for
	// moving v across y. vGoesLeft says whether v ends up left of y.
	step := func(y int, vGoesLeft bool) int64 {
		var delta int64
		yn := &g.Nodes[y]
		for i, ei := range incident {
			farV, upChannel := g.Edges[ei].Up, true
			if g.Edges[ei].Up == v {
				farV, upChannel = g.Edges[ei].Down, false
			}
			posV := g.Nodes[farV].Position
			yEdges := yn.UpEdges
			if !upChannel {
				yEdges = yn.DownEdges
			}
			for _, ej := range yEdges {
				farY := g.Edges[ej].Up
				if !upChannel {
					farY = g.Edges[ej].Down
				}
				posY := g.Nodes[farY].Position
				crossedWhenVLeft := posV > posY
				crossedWhenVRight := posY > posV
				var before, after bool
				if vGoesLeft {
					before, after = crossedWhenVRight, crossedWhenVLeft
				} else {
					before, after = crossedWhenVLeft, crossedWhenVRight
				}
				if before && !after {
					counts[i]--
					delta--
				} else if !before && after {
					counts[i]++
					delta++
				}
			}
		}
		return delta
	}

	reset()
	maxes[n.Position-left] = maxCount()
	var acc int64
	for q := n.Position - 1; q >= left; q-- {
		acc += step(nodes[q], true)
		maxes[q-left] = maxCount()
		totals[q-left] = acc
	}
	reset()
	acc = 0
	for q := n.Position + 1; q <= right; q++ {
		acc += step(nodes[q], false)
		maxes[q-left] = maxCount()
		totals[q-left] = acc
	}
	return maxes, totals
}

// EdgeCrossingsAround returns, for every candidate position in the window,
// the maximum crossings that would be borne by any edge incident on node
// if it were inserted there. The edge argument names the edge that chose
// the node and must be incident on it.
func (e *Engine) EdgeCrossingsAround(edge, node, left, right int) []int {
	if e.g.Edges[edge].Up != node && e.g.Edges[edge].Down != node {
		errors.Panicf("EdgeCrossingsAround: edge %d not incident on node %d", edge, node)
	}
	maxes, _ := e.edgeCrossingsAround(node, left, right)
	return maxes
}

// bottleneckCrossings returns the maximum crossings on any single edge.
func (e *Engine) bottleneckCrossings() int {
	m := 0
	for ei := range e.g.Edges {
		if e.g.Edges[ei].Crossings > m {
			m = e.g.Edges[ei].Crossings
		}
	}
	return m
}

// MaxCrossingsEdge returns the edge with the most crossings, smallest
// index on ties, or -1 for an edgeless graph.
func (e *Engine) MaxCrossingsEdge() int {
	best := -1
	for ei := range e.g.Edges {
		if best < 0 || e.g.Edges[ei].Crossings > e.g.Edges[best].Crossings {
			best = ei
		}
	}
	return best
}

// MaxCrossingsNode returns the node whose incident edges have the most
// crossings, smallest index on ties, or -1 for an empty graph.
func (e *Engine) MaxCrossingsNode() int {
	best := -1
	for v := range e.g.Nodes {
		if best < 0 || e.g.Nodes[v].Crossings() > e.g.Nodes[best].Crossings() {
			best = v
		}
	}
	return best
}

// MaxCrossingsLayer returns the layer whose incident channels have the
// most crossings, smallest index on ties.
func (e *Engine) MaxCrossingsLayer() int {
	best := -1
	var bestValue int64 = -1
	for l := range e.g.Layers {
		v := e.layerCrossings(l)
		if v > bestValue {
			best, bestValue = l, v
		}
	}
	return best
}

// layerCrossings sums the crossings of the channel(s) incident on a layer.
func (e *Engine) layerCrossings(l int) int64 {
	var v int64
	if l > 0 {
		v += e.channels[l-1]
	}
	if l < len(e.channels) {
		v += e.channels[l]
	}
	return v
}

// maxUnfixedCrossingsEdge returns the unfixed edge with the most
// crossings, or -1 when every edge is fixed.
func (e *Engine) maxUnfixedCrossingsEdge() int {
	best := -1
	for ei := range e.g.Edges {
		if e.g.Edges[ei].Fixed {
			continue
		}
		if best < 0 || e.g.Edges[ei].Crossings > e.g.Edges[best].Crossings {
			best = ei
		}
	}
	return best
}

// maxUnfixedCrossingsNode returns the unfixed node with the most incident
// crossings, or -1 when every node is fixed.
func (e *Engine) maxUnfixedCrossingsNode() int {
	best := -1
	for v := range e.g.Nodes {
		if e.g.Nodes[v].Fixed {
			continue
		}
		if best < 0 || e.g.Nodes[v].Crossings() > e.g.Nodes[best].Crossings() {
			best = v
		}
	}
	return best
}

// maxUnfixedCrossingsLayer returns the unfixed layer with the most
// incident crossings, or -1 when every layer is fixed.
func (e *Engine) maxUnfixedCrossingsLayer() int {
	best := -1
	var bestValue int64 = -1
	for l := range e.g.Layers {
		if e.g.Layers[l].Fixed {
			continue
		}
		if v := e.layerCrossings(l); v > bestValue {
			best, bestValue = l, v
		}
	}
	return best
}
