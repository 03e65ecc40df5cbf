package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func layerIDs(e *Engine, layer int) []int {
	ids := make([]int, 0, e.g.Layers[layer].Len())
	for _, idx := range e.g.Layers[layer].Nodes {
		ids = append(ids, e.g.Nodes[idx].ID)
	}
	return ids
}

func TestBarycenterWeightsDownOrientation(t *testing.T) {
	e := newTestEngine(t, shuffle44(t), Options{})

	e.barycenterWeights(1, OrientDown)
	// up nodes 5,6,7,8 have single down neighbors at positions 3,2,1,0
	want := []float64{3, 2, 1, 0}
	for i, idx := range e.g.Layers[1].Nodes {
		require.Equal(t, want[i], e.g.Nodes[idx].Weight)
	}

	e.LayerSort(1)
	require.Equal(t, []int{8, 7, 6, 5}, layerIDs(e, 1))
	e.recountChannelsAround(1)
	require.Equal(t, int64(0), e.TotalCrossings())
}

func TestBarycenterBothBalancedVersusPlain(t *testing.T) {
	// middle node with one up neighbor (position 2) and two down
	// neighbors (positions 0, 1)
	g := buildGraph(t,
		[][]int{{1, 2, 3}, {4, 9}, {5, 6, 7}},
		[][2]int{{1, 4}, {2, 4}, {4, 7}, {3, 9}, {9, 5}})
	e := newTestEngine(t, g, Options{})
	e.barycenterWeights(1, OrientBoth)
	// plain: (0 + 1 + 2) / 3
	require.InDelta(t, 1.0, e.g.Nodes[e.g.Layers[1].Nodes[0]].Weight, 1e-9)

	e2 := newTestEngine(t, g, Options{BalancedWeight: true})
	e2.barycenterWeights(1, OrientBoth)
	// balanced: mean of directed means: (0.5 + 2) / 2
	require.InDelta(t, 1.25, e2.g.Nodes[e2.g.Layers[1].Nodes[0]].Weight, 1e-9)
}

func TestWeightPolicies(t *testing.T) {
	build := func() *Engine {
		// node 9 on layer 1 has no down neighbors
		g := buildGraph(t,
			[][]int{{1, 2}, {4, 9, 5}},
			[][2]int{{1, 4}, {2, 5}})
		return newTestEngine(t, g, Options{})
	}

	t.Run("Left", func(t *testing.T) {
		e := build()
		e.opts.WeightPolicy = WeightLeft
		e.barycenterWeights(1, OrientDown)
		nodes := e.g.Layers[1].Nodes
		// 9 follows its left neighbor 4
		require.Equal(t, e.g.Nodes[nodes[0]].Weight, e.g.Nodes[nodes[1]].Weight)
	})
	t.Run("Avg", func(t *testing.T) {
		e := build()
		e.opts.WeightPolicy = WeightAvg
		e.barycenterWeights(1, OrientDown)
		nodes := e.g.Layers[1].Nodes
		require.InDelta(t, 0.5, e.g.Nodes[nodes[1]].Weight, 1e-9)
	})
	t.Run("None", func(t *testing.T) {
		e := build()
		e.opts.WeightPolicy = WeightNone
		e.barycenterWeights(1, OrientDown)
		nodes := e.g.Layers[1].Nodes
		require.Equal(t, 1.0, e.g.Nodes[nodes[1]].Weight, "isolated node keeps its position")
	})
}

func TestMedianWeights(t *testing.T) {
	// down node 1 at position 0 with three up neighbors at positions 0, 1, 2;
	// down node 2 with two up neighbors at positions 0 and 2
	g := buildGraph(t,
		[][]int{{1, 2}, {3, 4, 5}},
		[][2]int{{1, 3}, {1, 4}, {1, 5}, {2, 3}, {2, 5}})
	e := newTestEngine(t, g, Options{})

	e.medianWeights(0, OrientUp)
	n1 := &e.g.Nodes[e.g.Layers[0].Nodes[0]]
	require.Equal(t, 1.0, n1.Weight, "odd count takes the middle")

	n2 := &e.g.Nodes[e.g.Layers[0].Nodes[1]]
	// even count: positions 0 and 2; node 2 sits at position 1,
	// equidistant, so the lower median wins
	require.Equal(t, 0.0, n2.Weight)
}

func TestLayerSortIsStable(t *testing.T) {
	e := newTestEngine(t, shuffle44(t), Options{})
	for _, idx := range e.g.Layers[1].Nodes {
		e.g.Nodes[idx].Weight = 1 // all equal
	}
	before := layerIDs(e, 1)
	e.LayerSort(1)
	require.Equal(t, before, layerIDs(e, 1), "equal weights must keep relative order")
	require.NoError(t, e.g.Check())
}

func TestDFSPreorderDeterministic(t *testing.T) {
	g := tri33(t)
	e := newTestEngine(t, g, Options{})
	e.assignDFSPreorder()
	seen := map[int]bool{}
	for i := range g.Nodes {
		require.False(t, seen[g.Nodes[i].Preorder], "preorder numbers must be unique")
		seen[g.Nodes[i].Preorder] = true
		require.True(t, g.Nodes[i].Marked)
	}
	// root is the smallest-id layer-0 node
	require.Equal(t, 0, g.Nodes[0].Preorder)
}

func TestMiddleDegreeSortCentersHighDegree(t *testing.T) {
	// node 3 has degree 3, others degree 1
	g := buildGraph(t,
		[][]int{{1, 2, 3}, {4, 5, 6}},
		[][2]int{{3, 4}, {3, 5}, {3, 6}, {1, 4}, {2, 5}})
	e := newTestEngine(t, g, Options{})
	e.middleDegreeSort()
	require.NoError(t, e.g.Check())
	middle := e.g.Layers[0].Nodes[1]
	require.Equal(t, 3, e.g.Nodes[middle].ID, "highest degree node lands in the middle")
}
