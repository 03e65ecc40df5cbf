package engine

import "sort"

// rootOrder returns the layer-0 nodes in ascending id order, the fixed
// starting points of the deterministic traversals.
func (e *Engine) rootOrder() []int {
	if e.g.NumLayers() == 0 {
		return nil
	}
	roots := append([]int(nil), e.g.Layers[0].Nodes...)
	sort.Slice(roots, func(i, j int) bool { return e.g.Nodes[roots[i]].ID < e.g.Nodes[roots[j]].ID })
	return roots
}

// unmarkedOrder returns every node index in (layer, id) order, used to
// continue a traversal past components unreachable from layer 0.
func (e *Engine) unmarkedOrder() []int {
	order := make([]int, 0, len(e.g.Nodes))
	for l := range e.g.Layers {
		order = append(order, e.g.Layers[l].Nodes...)
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := &e.g.Nodes[order[i]], &e.g.Nodes[order[j]]
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		return a.ID < b.ID
	})
	return order
}

// assignDFSPreorder numbers every node by a depth-first pre-order rooted at
// the layer-0 nodes in ascending id order, traversing up edges then down
// edges in adjacency order, and copies the number into the weight field.
func (e *Engine) assignDFSPreorder() {
	for i := range e.g.Nodes {
		e.g.Nodes[i].Marked = false
	}
	counter := 0
	var visit func(v int)
	visit = func(v int) {
		n := &e.g.Nodes[v]
		n.Marked = true
		n.Preorder = counter
		n.Weight = float64(counter)
		counter++
		for _, ei := range n.UpEdges {
			if w := e.g.Edges[ei].Up; !e.g.Nodes[w].Marked {
				visit(w)
			}
		}
		for _, ei := range n.DownEdges {
			if w := e.g.Edges[ei].Down; !e.g.Nodes[w].Marked {
				visit(w)
			}
		}
	}
	for _, r := range e.rootOrder() {
		if !e.g.Nodes[r].Marked {
			visit(r)
		}
	}
	for _, v := range e.unmarkedOrder() {
		if !e.g.Nodes[v].Marked {
			visit(v)
		}
	}
}

// depthFirstSearch assigns DFS pre-order weights and sorts every layer by
// them.
func (e *Engine) depthFirstSearch() {
	e.assignDFSPreorder()
	for l := 0; l < e.g.NumLayers(); l++ {
		e.LayerSort(l)
	}
}

// breadthFirstSearch assigns BFS visit-order weights, rooted the same way
// as the depth-first traversal, and sorts every layer by them.
func (e *Engine) breadthFirstSearch() {
	for i := range e.g.Nodes {
		e.g.Nodes[i].Marked = false
	}
	counter := 0
	var queue []int
	enqueue := func(v int) {
		n := &e.g.Nodes[v]
		n.Marked = true
		n.Weight = float64(counter)
		counter++
		queue = append(queue, v)
	}
	drain := func() {
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			n := &e.g.Nodes[v]
			for _, ei := range n.UpEdges {
				if w := e.g.Edges[ei].Up; !e.g.Nodes[w].Marked {
					enqueue(w)
				}
			}
			for _, ei := range n.DownEdges {
				if w := e.g.Edges[ei].Down; !e.g.Nodes[w].Marked {
					enqueue(w)
				}
			}
		}
	}
	for _, r := range e.rootOrder() {
		if !e.g.Nodes[r].Marked {
			enqueue(r)
			drain()
		}
	}
	for _, v := range e.unmarkedOrder() {
		if !e.g.Nodes[v].Marked {
			enqueue(v)
			drain()
		}
	}
	for l := 0; l < e.g.NumLayers(); l++ {
		e.LayerSort(l)
	}
}

// middleDegreeSort reorders every layer so that the highest-degree node
// lands in the middle and degree falls off toward both ends.
func (e *Engine) middleDegreeSort() {
	for l := 0; l < e.g.NumLayers(); l++ {
		e.sortByDegree(e.g.Layers[l].Nodes)
		e.weightFirstToMiddle(l)
		e.LayerSort(l)
	}
}

// weightFirstToMiddle assigns weights so that, after a layer sort, the
// last node of the layer moves to the middle, the next-to-last to one
// side, the one before to the other, and so on.
func (e *Engine) weightFirstToMiddle(layer int) {
	nodes := e.g.Layers[layer].Nodes
	n := len(nodes)
	for position, idx := range nodes {
		fromLast := n - position - 1
		if fromLast%2 == 0 {
			e.g.Nodes[idx].Weight = float64(n/2 - fromLast)
		} else {
			e.g.Nodes[idx].Weight = float64(n/2 + fromLast)
		}
	}
}
