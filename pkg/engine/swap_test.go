package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwappingIterationCommitsOnlyImprovingSwaps(t *testing.T) {
	e := newTestEngine(t, tangle55(t), Options{TraceFrequency: -1})
	before := e.TotalCrossings()

	after := e.swappingIteration(before, 0)
	e.FullRecount()
	require.Equal(t, e.TotalCrossings(), after, "running total must match the recount")
	require.LessOrEqual(t, after, before)
	require.NoError(t, e.g.Check())
}

func TestSwappingConverges(t *testing.T) {
	e := newTestEngine(t, tangle55(t), Options{TraceFrequency: -1})
	e.updateBestAll()
	before := e.TotalCrossings()

	e.swapping()

	require.LessOrEqual(t, e.postCrossings, before)
	require.NoError(t, e.VerifyCounts())

	// the pairs the pass parity covers must all be non-improving now
	for layer := 0; layer < e.g.NumLayers(); layer += 2 {
		nodes := e.g.Layers[layer].Nodes
		for i := 0; i+1 < len(nodes); i += 2 {
			require.GreaterOrEqual(t,
				e.nodeCrossings(nodes[i+1], nodes[i]), e.nodeCrossings(nodes[i], nodes[i+1]),
				"layer %d pair %d still improvable", layer, i)
		}
	}
}

func TestSwappingRefreshesAllTrackers(t *testing.T) {
	e := newTestEngine(t, tangle55(t), Options{TraceFrequency: -1})
	e.updateBestAll()

	e.swapping()

	trk := e.Tracker()
	require.Equal(t, float64(e.TotalCrossings()), trk.Record(TotalCrossings).Current,
		"total tracker must reflect the swapped ordering")
	require.Equal(t, float64(e.bottleneckCrossings()), trk.Record(BottleneckCrossings).Current,
		"bottleneck tracker must be refreshed, not just the total")
	require.InDelta(t, e.TotalStretch(), trk.Record(TotalStretch).Current, 1e-9,
		"stretch tracker must be refreshed as well")
}
