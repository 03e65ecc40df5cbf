package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSiftMovesNodeToMinimizer(t *testing.T) {
	e := newTestEngine(t, shuffle44(t), Options{})
	require.Equal(t, int64(6), e.TotalCrossings())

	// sifting node 8 (up layer, position 3) to position 0 removes its
	// three crossings
	v := e.g.Layers[1].Nodes[3]
	require.Equal(t, 8, e.g.Nodes[v].ID)
	e.sift(v)
	require.Equal(t, 0, e.g.Nodes[v].Position)
	require.Equal(t, int64(3), e.TotalCrossings())
	require.NoError(t, e.VerifyCounts())
	require.NoError(t, e.g.Check())
}

func TestSiftKeepsPositionOnTie(t *testing.T) {
	e := newTestEngine(t, k33(t), Options{})
	// complete bipartite: every position is equivalent, so nothing moves
	for v := range e.g.Nodes {
		before := e.g.Nodes[v].Position
		e.sift(v)
		require.Equal(t, before, e.g.Nodes[v].Position, "node %d moved on a tie", v)
	}
	require.Equal(t, int64(9), e.TotalCrossings())
}

func TestSiftNeverWorsens(t *testing.T) {
	e := newTestEngine(t, tangle55(t), Options{})
	for v := range e.g.Nodes {
		before := e.TotalCrossings()
		e.sift(v)
		require.LessOrEqual(t, e.TotalCrossings(), before, "sift of %d worsened the total", v)
		require.NoError(t, e.VerifyCounts())
	}
}

func TestSiftForEdgeCrossingsMinimizesBottleneck(t *testing.T) {
	e := newTestEngine(t, tangle55(t), Options{})
	for v := range e.g.Nodes {
		n := &e.g.Nodes[v]
		var edge int
		if len(n.UpEdges) > 0 {
			edge = n.UpEdges[0]
		} else {
			edge = n.DownEdges[0]
		}
		bottleneckBefore := 0
		for _, ei := range append(append([]int{}, n.UpEdges...), n.DownEdges...) {
			if e.g.Edges[ei].Crossings > bottleneckBefore {
				bottleneckBefore = e.g.Edges[ei].Crossings
			}
		}
		e.siftForEdgeCrossings(edge, v)
		e.FullRecount()
		bottleneckAfter := 0
		for _, ei := range append(append([]int{}, n.UpEdges...), n.DownEdges...) {
			if e.g.Edges[ei].Crossings > bottleneckAfter {
				bottleneckAfter = e.g.Edges[ei].Crossings
			}
		}
		require.LessOrEqual(t, bottleneckAfter, bottleneckBefore, "edge sift of %d worsened its bottleneck", v)
		require.NoError(t, e.VerifyCounts())
	}
}

func TestSiftForTotalStretchNeverWorsens(t *testing.T) {
	e := newTestEngine(t, tangle55(t), Options{})
	for v := range e.g.Nodes {
		before := e.TotalStretch()
		e.siftForTotalStretch(v)
		require.LessOrEqual(t, e.TotalStretch(), before+1e-9, "stretch sift of %d worsened the total", v)
		require.NoError(t, e.VerifyCounts(), "crossing counters must stay fresh after a stretch sift")
	}
}

func TestSiftSingletonLayerIsNoOp(t *testing.T) {
	e := newTestEngine(t, path5(t), Options{})
	e.sift(e.g.Layers[2].Nodes[0])
	require.Equal(t, int64(0), e.TotalCrossings())
	require.NoError(t, e.g.Check())
}
