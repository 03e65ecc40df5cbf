package engine

import "fmt"

// runPreprocessor executes the configured one-shot preprocessor.
func (e *Engine) runPreprocessor() {
	switch e.opts.Preprocessor {
	case PreprocessNone:
	case PreprocessBFS:
		e.breadthFirstSearch()
	case PreprocessDFS:
		e.depthFirstSearch()
	case PreprocessMDS:
		e.middleDegreeSort()
	}
}

// runHeuristic executes the configured heuristic until the termination
// predicate fires.
func (e *Engine) runHeuristic() {
	switch e.opts.Heuristic {
	case HeuristicNone:
	case HeuristicMedian:
		e.median()
	case HeuristicBarycenter:
		e.barycenter()
	case HeuristicModBarycenter:
		e.modifiedBarycenter()
	case HeuristicMCN:
		e.maximumCrossingsNode()
	case HeuristicSifting:
		e.sifting()
	case HeuristicMCE:
		e.maximumCrossingsEdge()
	case HeuristicMCESifting:
		e.maximumCrossingsEdgeWithSifting()
	case HeuristicMSE:
		e.maximumStretchEdge()
	}
}

// sortSweep sorts one layer with the given weight assigner and refreshes
// the bookkeeping. Returns true when the iteration bounds were reached.
func (e *Engine) sortSweep(layer int, assign func(int, Orientation), o Orientation, msg string) bool {
	assign(layer, o)
	e.LayerSort(layer)
	e.recountChannelsAround(layer)
	e.trace(layer, msg)
	return e.endOfIteration()
}

// barycenterUpSweep sorts layers start..L-1 using downward neighbors.
func (e *Engine) barycenterUpSweep(start int) bool {
	for l := start; l < e.g.NumLayers(); l++ {
		if e.sortSweep(l, e.barycenterWeights, OrientDown, "bary up sweep") {
			return true
		}
	}
	return false
}

// barycenterDownSweep sorts layers start..0 using upward neighbors.
func (e *Engine) barycenterDownSweep(start int) bool {
	for l := start; l >= 0; l-- {
		if e.sortSweep(l, e.barycenterWeights, OrientUp, "bary down sweep") {
			return true
		}
	}
	return false
}

func (e *Engine) medianUpSweep(start int) bool {
	for l := start; l < e.g.NumLayers(); l++ {
		if e.sortSweep(l, e.medianWeights, OrientDown, "median up sweep") {
			return true
		}
	}
	return false
}

func (e *Engine) medianDownSweep(start int) bool {
	for l := start; l >= 0; l-- {
		if e.sortSweep(l, e.medianWeights, OrientUp, "median down sweep") {
			return true
		}
	}
	return false
}

// median alternates upward and downward median sweeps until the
// termination predicate fires.
func (e *Engine) median() {
	e.trace(-1, "start median")
	for !e.terminate() {
		if e.medianUpSweep(1) {
			return
		}
		if e.medianDownSweep(e.g.NumLayers() - 2) {
			return
		}
		e.trace(-1, "median end of pass")
	}
}

// barycenter alternates upward and downward barycenter sweeps until the
// termination predicate fires.
func (e *Engine) barycenter() {
	e.trace(-1, "start barycenter")
	for !e.terminate() {
		if e.barycenterUpSweep(1) {
			return
		}
		if e.barycenterDownSweep(e.g.NumLayers() - 2) {
			return
		}
		e.trace(-1, "bary end of pass")
	}
}

// modifiedBarycenter repeatedly picks the unfixed layer with the most
// crossings, sorts it by both-neighbor weights, and sweeps outward from
// it. A pass ends when every layer has been fixed.
func (e *Engine) modifiedBarycenter() {
	e.trace(-1, "start modified barycenter")
	for !e.terminate() {
		e.g.ClearFixedLayers()
		for {
			layer := e.maxUnfixedCrossingsLayer()
			if layer == -1 {
				break
			}
			e.g.Layers[layer].Fixed = true

			e.barycenterWeights(layer, OrientBoth)
			e.LayerSort(layer)
			e.recountChannelsAround(layer)

			e.trace(layer, "max crossings layer")
			if e.endOfIteration() {
				return
			}
			if e.barycenterUpSweep(layer + 1) {
				return
			}
			if e.barycenterDownSweep(layer - 1) {
				return
			}
			e.trace(-1, "mod_bary end of pass")
		}
		e.trace(-1, "mod_bary, all layers fixed")
	}
}

// siftIteration sifts one node for total crossings and runs the shared
// bookkeeping. Returns true when the iteration bounds were reached.
func (e *Engine) siftIteration(v int) bool {
	e.sift(v)
	e.g.Nodes[v].Fixed = true
	e.trace(e.g.Nodes[v].Layer, fmt.Sprintf("%s, node = %d", e.opts.Heuristic, e.g.Nodes[v].ID))
	return e.endOfIteration()
}

// maximumCrossingsNode repeatedly sifts the unfixed node whose incident
// edges have the most crossings. A pass ends when all nodes are fixed.
func (e *Engine) maximumCrossingsNode() {
	e.trace(-1, "start maximum crossings node")
	for !e.terminate() {
		e.g.ClearFixedNodes()
		for {
			v := e.maxUnfixedCrossingsNode()
			if v == -1 {
				break
			}
			if e.siftIteration(v) {
				return
			}
		}
		e.trace(-1, "mcn, all nodes fixed")
	}
}

// edgeSiftIteration sifts none, one, or both endpoints of the chosen edge
// according to the mce option, using the edge sifter. Returns true when
// the iteration bounds were reached.
func (e *Engine) edgeSiftIteration(edge int) bool {
	up, down := e.g.Edges[edge].Up, e.g.Edges[edge].Down

	siftUp, siftDown := false, false
	if e.opts.MCEOption == MCEEdges {
		siftUp, siftDown = true, true
	}
	if !e.g.Nodes[up].Fixed {
		siftUp = true
	}
	if !e.g.Nodes[down].Fixed {
		siftDown = true
	}
	if e.opts.MCEOption == MCEOneNode && siftUp && siftDown {
		// Only the endpoint with the most incident crossings moves.
		if e.g.Nodes[down].Crossings() > e.g.Nodes[up].Crossings() {
			siftUp = false
		} else {
			siftDown = false
		}
	}

	for _, v := range []int{up, down} {
		if (v == up && !siftUp) || (v == down && !siftDown) {
			continue
		}
		e.siftForEdgeCrossings(edge, v)
		// Under EDGES the pass runs until every edge is fixed and nodes are
		// revisited freely, so they stay unfixed.
		if e.opts.MCEOption != MCEEdges {
			e.g.Nodes[v].Fixed = true
		}
		e.trace(e.g.Nodes[v].Layer,
			fmt.Sprintf("%s, node = %d, position = %d", e.opts.Heuristic, e.g.Nodes[v].ID, e.g.Nodes[v].Position))
		if e.endOfIteration() {
			return true
		}
	}
	return false
}

// endMCEPass reports whether the current mce pass should end, based on the
// configured option.
func (e *Engine) endMCEPass(edge int) bool {
	if edge == -1 {
		return true
	}
	if e.opts.MCEOption == MCEEarly &&
		e.g.Nodes[e.g.Edges[edge].Up].Fixed && e.g.Nodes[e.g.Edges[edge].Down].Fixed {
		return true
	}
	if e.opts.MCEOption == MCENodes && e.g.AllNodesFixed() {
		return true
	}
	return false
}

// maximumCrossingsEdge repeatedly picks the unfixed edge with the most
// crossings and edge-sifts its endpoints.
func (e *Engine) maximumCrossingsEdge() {
	e.trace(-1, "start maximum crossings edge")
	for !e.terminate() {
		e.g.ClearFixedNodes()
		e.g.ClearFixedEdges()
		for {
			edge := e.maxUnfixedCrossingsEdge()
			if edge == -1 {
				break
			}
			e.trace(e.g.Nodes[e.g.Edges[edge].Up].Layer,
				fmt.Sprintf("mce, edge %d -> %d", e.g.Nodes[e.g.Edges[edge].Down].ID, e.g.Nodes[e.g.Edges[edge].Up].ID))
			if e.endMCEPass(edge) {
				break
			}
			if e.edgeSiftIteration(edge) {
				return
			}
			e.g.Edges[edge].Fixed = true
		}
		e.trace(-1, "mce, end pass")
	}
}

// maximumCrossingsEdgeWithSifting is mce with the total-crossings sifter
// applied to each unfixed endpoint of the chosen edge.
func (e *Engine) maximumCrossingsEdgeWithSifting() {
	e.trace(-1, "start maximum crossings edge with sifting")
	for !e.terminate() {
		e.g.ClearFixedNodes()
		e.g.ClearFixedEdges()
		for {
			edge := e.maxUnfixedCrossingsEdge()
			if edge == -1 || e.g.AllNodesFixed() {
				break
			}
			up, down := e.g.Edges[edge].Up, e.g.Edges[edge].Down
			e.trace(e.g.Nodes[up].Layer,
				fmt.Sprintf("mce_s, edge %d -> %d", e.g.Nodes[down].ID, e.g.Nodes[up].ID))
			if !e.g.Nodes[up].Fixed {
				if e.siftIteration(up) {
					return
				}
			}
			if !e.g.Nodes[down].Fixed {
				if e.siftIteration(down) {
					return
				}
			}
			e.g.Edges[edge].Fixed = true
		}
		e.trace(-1, "mce with sifting, end pass")
	}
}

// maximumStretchEdge is the stretch analogue of mce: the unfixed edge with
// the largest stretch is chosen and its endpoints are moved to minimize
// total stretch.
func (e *Engine) maximumStretchEdge() {
	e.trace(-1, "start maximum stretch edge")
	for !e.terminate() {
		e.g.ClearFixedNodes()
		e.g.ClearFixedEdges()
		for {
			edge := e.maxUnfixedStretchEdge()
			if edge == -1 || e.g.AllNodesFixed() {
				break
			}
			up, down := e.g.Edges[edge].Up, e.g.Edges[edge].Down
			e.trace(e.g.Nodes[up].Layer,
				fmt.Sprintf("mse, edge %d -> %d", e.g.Nodes[down].ID, e.g.Nodes[up].ID))
			if !e.g.Nodes[up].Fixed {
				if e.totalStretchSiftIteration(up) {
					return
				}
			}
			if !e.g.Nodes[down].Fixed {
				if e.totalStretchSiftIteration(down) {
					return
				}
			}
			e.g.Edges[edge].Fixed = true
		}
		e.trace(-1, "mse, end pass")
	}
}

func (e *Engine) totalStretchSiftIteration(v int) bool {
	e.siftForTotalStretch(v)
	e.g.Nodes[v].Fixed = true
	e.trace(e.g.Nodes[v].Layer,
		fmt.Sprintf("%s, node = %d, position = %d", e.opts.Heuristic, e.g.Nodes[v].ID, e.g.Nodes[v].Position))
	return e.endOfIteration()
}

// maxSiftFails is the failure tolerance from the Matuszewski et al. sifting
// scheme: one unproductive pass ends the run under standard termination.
const maxSiftFails = 1

// siftPass sifts every node of the list in the given direction (true =
// decreasing degree). It reports whether the pass improved on the
// crossings at its start and whether the iteration bounds were reached.
func (e *Engine) siftPass(decreasing bool, initialCrossings int64) (improved, done bool) {
	order := e.nodeOrder
	for i := range order {
		v := order[i]
		if decreasing {
			v = order[len(order)-1-i]
		}
		e.sift(v)
		e.trace(e.g.Nodes[v].Layer, fmt.Sprintf("sift, node = %d, pos = %d", e.g.Nodes[v].ID, e.g.Nodes[v].Position))
		if e.endOfIteration() {
			done = true
			break
		}
	}
	return e.total < initialCrossings, done
}

// sifting sorts the node list by ascending degree and sifts nodes in
// decreasing-degree passes; after an unproductive pass the next one runs
// in increasing order. Under standard termination a single unproductive
// pass ends the run.
func (e *Engine) sifting() {
	e.sortByDegree(e.nodeOrder)

	reshuffle := func() {
		if e.opts.Randomize {
			e.permuteNodeOrder()
			e.sortByDegree(e.nodeOrder)
		}
	}

	failCount := 0
	for !(e.standard && failCount >= maxSiftFails) && !e.terminate() {
		crossingsBefore := e.total
		reshuffle()
		improved, done := e.siftPass(true, crossingsBefore)
		if done || e.iteration >= e.maxIterations {
			return
		}
		e.trace(-1, "end of sifting pass")
		fail := !improved
		if fail {
			failCount++
			reshuffle()
			improved, done = e.siftPass(false, crossingsBefore)
			if done {
				return
			}
		} else {
			reshuffle()
			improved, done = e.siftPass(true, crossingsBefore)
			if done {
				return
			}
		}
		e.trace(-1, "end of sifting pass")
		if !improved {
			failCount++
		}
	}
}
