package engine

// swappingIteration considers every swap of nodes i, i+1 on layers with the
// given parity, for i of the same parity, and commits each swap that
// strictly reduces the crossings in the two incident channels. Returns the
// updated running total.
func (e *Engine) swappingIteration(crossings int64, parity int) int64 {
	for layer := parity; layer < e.g.NumLayers(); layer += 2 {
		nodes := e.g.Layers[layer].Nodes
		for i := parity; i < len(nodes)-1; i += 2 {
			before := e.nodeCrossings(nodes[i], nodes[i+1])
			after := e.nodeCrossings(nodes[i+1], nodes[i])
			if diff := before - after; diff > 0 {
				e.g.SwapPositions(layer, i, i+1)
				crossings -= diff
			}
		}
		e.trace(layer, "swapping")
	}
	return crossings
}

// swapping is the post-processing optimizer: alternating even and odd
// passes of adjacent swaps, looping until neither parity improves. Every
// tracker is refreshed at the end of each parity pass, so bottleneck,
// stretch, and Pareto state stay consistent with the committed swaps.
func (e *Engine) swapping() {
	e.postCrossings = e.total
	previousBest := e.postCrossings
	e.postIteration = 0

	e.trace(-1, "start swapping")
	improved := true
	for improved {
		improved = false
		for _, parity := range []int{0, 1} {
			e.postCrossings = e.swappingIteration(e.postCrossings, parity)
			e.postIteration++
			e.FullRecount()
			e.updateBestAll()
			if e.postCrossings < previousBest {
				improved = true
				previousBest = e.postCrossings
			}
		}
		e.trace(-1, "end of swapping pass")
	}
}
