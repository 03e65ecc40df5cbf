package engine

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mfms-ncsu/layercross/pkg/layered"
)

// endOfPassTraceThreshold mirrors the long-standing behavior that
// end-of-pass trace lines appear only at low trace frequencies.
const endOfPassTraceThreshold = 2

// Engine bundles the graph, the counters, the objective tracker, and the
// run configuration. Construct with New, run with Run. An Engine is
// single-use: it accumulates iteration state across its lifetime.
type Engine struct {
	g    *layered.Graph
	opts Options

	// crossings bookkeeping
	channels []int64 // crossings per channel (layer l to l+1)
	total    int64

	trk *Tracker

	iteration int
	pass      int

	postIteration int64
	postCrossings int64

	// nodeOrder is the master node list used by sifting; it may be sorted
	// by degree or permuted between passes.
	nodeOrder []int

	favored []bool // per-edge favored flag; nil unless FavoredEdges

	maxIterations int
	maxPasses     int
	maxRuntime    time.Duration
	standard      bool

	rng    *rand.Rand
	logger *log.Logger
	clock  func() time.Time
	start  time.Time

	bannerPrinted      bool
	lastTraceIteration int
}

// New creates an engine that borrows g for the duration of the run.
// The graph must be fully built; the engine never adds or removes elements.
func New(g *layered.Graph, opts Options) *Engine {
	e := &Engine{
		g:             g,
		opts:          opts,
		channels:      make([]int64, g.NumChannels()),
		maxIterations: opts.MaxIterations,
		maxPasses:     opts.MaxPasses,
		maxRuntime:    opts.MaxRuntime,
		logger:        opts.Logger,
		clock:         opts.Clock,
	}
	if e.maxIterations <= 0 {
		e.maxIterations = math.MaxInt
	}
	if e.maxPasses <= 0 {
		e.maxPasses = math.MaxInt
	}
	if e.maxRuntime <= 0 {
		e.maxRuntime = time.Duration(math.MaxInt64)
	}
	e.standard = opts.MaxIterations <= 0 && opts.MaxPasses <= 0 && opts.MaxRuntime <= 0
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	e.rng = rand.New(rand.NewSource(opts.Seed))

	e.nodeOrder = make([]int, len(g.Nodes))
	for i := range e.nodeOrder {
		e.nodeOrder[i] = i
	}

	if opts.FavoredEdges {
		e.favored = make([]bool, len(g.Edges))
		e.markFavoredFanout()
	}

	e.trk = newTracker(g, opts.Pareto)
	return e
}

// Graph returns the borrowed graph. Callers may inspect it only after Run
// has returned.
func (e *Engine) Graph() *layered.Graph { return e.g }

// Tracker returns the objective tracker with the best-so-far snapshots.
func (e *Engine) Tracker() *Tracker { return e.trk }

// Iteration returns the number of iterations completed so far.
func (e *Engine) Iteration() int { return e.iteration }

// TotalCrossings returns the cached total number of crossings.
func (e *Engine) TotalCrossings() int64 { return e.total }

// StageStats records the objective values observed at one stage boundary of
// a run.
type StageStats struct {
	TotalCrossings      int64
	BottleneckCrossings int
	TotalStretch        float64
	BottleneckStretch   float64
}

// Result summarizes a completed run. The best orderings themselves live in
// the tracker's snapshots.
type Result struct {
	Beginning      StageStats
	Preprocessing  StageStats
	Heuristic      StageStats
	PostProcessing StageStats

	Iterations     int
	Passes         int
	PostIterations int64

	// HeuristicOrder is the best total-crossings snapshot as of the end of
	// the heuristic stage, before post-processing could improve on it.
	HeuristicOrder *layered.Snapshot

	Pareto []ParetoPoint
}

// Run executes the configured preprocessor, heuristic, and post-processor
// and returns the stage statistics. On return the graph holds the best
// total-crossings ordering found.
func (e *Engine) Run() (*Result, error) {
	e.start = e.clock()

	res := &Result{}
	e.FullRecount()
	res.Beginning = e.currentStats()

	e.runPreprocessor()
	e.FullRecount()
	res.Preprocessing = e.currentStats()

	// Iteration 0 ends here; it records the post-preprocessing state as
	// the initial best.
	if !e.endOfIteration() {
		e.runHeuristic()
	}
	res.Heuristic = e.bestStats()
	res.HeuristicOrder = e.trk.BestSnapshot(TotalCrossings)

	e.g.RestoreOrder(e.trk.BestSnapshot(TotalCrossings))
	e.FullRecount()

	if e.opts.PostProcess {
		e.swapping()
		e.g.RestoreOrder(e.trk.BestSnapshot(TotalCrossings))
		e.FullRecount()
	}
	res.PostProcessing = e.bestStats()

	res.Iterations = e.iteration
	res.Passes = e.pass
	res.PostIterations = e.postIteration
	res.Pareto = e.trk.Frontier()
	return res, nil
}

func (e *Engine) currentStats() StageStats {
	return StageStats{
		TotalCrossings:      e.total,
		BottleneckCrossings: e.bottleneckCrossings(),
		TotalStretch:        e.TotalStretch(),
		BottleneckStretch:   e.BottleneckStretch(),
	}
}

func (e *Engine) bestStats() StageStats {
	return StageStats{
		TotalCrossings:      int64(e.trk.Best(TotalCrossings)),
		BottleneckCrossings: int(e.trk.Best(BottleneckCrossings)),
		TotalStretch:        e.trk.Best(TotalStretch),
		BottleneckStretch:   e.trk.Best(BottleneckStretch),
	}
}

func (e *Engine) runtime() time.Duration {
	return e.clock().Sub(e.start)
}

// updateBestAll refreshes the tracker from the cached counters. Counters
// must be fresh; the caller is responsible for recounting after any move.
func (e *Engine) updateBestAll() {
	var values [numObjectives]float64
	values[TotalCrossings] = float64(e.total)
	values[BottleneckCrossings] = float64(e.bottleneckCrossings())
	values[TotalStretch] = e.TotalStretch()
	values[BottleneckStretch] = e.BottleneckStretch()
	values[FavoredCrossings] = float64(e.favoredCrossings())
	e.trk.UpdateAll(e.iteration, values)
}

// endOfIteration runs the shared per-iteration bookkeeping: optional
// capture, tracker refresh, and the iteration/runtime bound check. It
// returns true when the bounds have been reached; drivers return
// immediately in that case so that no iteration straddles the predicate.
func (e *Engine) endOfIteration() bool {
	if e.opts.Capture != nil && e.opts.CaptureIteration == e.iteration {
		if err := e.opts.Capture(e.iteration); err != nil {
			e.logger.Warnf("capture at iteration %d failed: %v", e.iteration, err)
		}
	}
	e.updateBestAll()
	done := false
	if e.iteration >= e.maxIterations || e.runtime() >= e.maxRuntime {
		done = true
		if !e.noImprovement() {
			e.logger.Warnf("still improving but max iterations or runtime reached: iteration %d, graph %s",
				e.iteration, e.g.Name)
		}
	}
	e.iteration++
	return done
}

// noImprovement reports whether none of the tracked objectives improved
// since the last check. Every objective is consulted so that the per-record
// bookkeeping advances uniformly.
func (e *Engine) noImprovement() bool {
	betterTotal := e.trk.HasImproved(TotalCrossings)
	betterBottleneck := e.trk.HasImproved(BottleneckCrossings)
	betterStretch := e.trk.HasImproved(TotalStretch)
	betterBottleneckStretch := e.trk.HasImproved(BottleneckStretch)
	betterFavored := e.trk.HasImproved(FavoredCrossings)
	return !betterTotal && !betterBottleneck && !betterStretch && !betterBottleneckStretch && !betterFavored
}

// terminate is consulted at the top of every pass. It also prints, exactly
// once, the point at which standard termination would have fired, so that
// iteration-bounded runs still reveal their natural stopping point.
func (e *Engine) terminate() bool {
	noImprovementSeen := e.noImprovement()
	if noImprovementSeen && !e.bannerPrinted {
		e.logger.Warnf("standard termination here: iteration %d crossings %d bottleneck %d graph %s",
			e.iteration, int64(e.trk.Best(TotalCrossings)), int(e.trk.Best(BottleneckCrossings)), e.g.Name)
		e.bannerPrinted = true
	}
	if e.standard && noImprovementSeen {
		return true
	}
	if e.iteration >= e.maxIterations {
		return true
	}
	if e.pass >= e.maxPasses {
		return true
	}
	e.pass++
	return false
}

// trace prints one trace line, subject to the configured frequency. A
// negative layer marks pass-boundary messages, which are printed only at
// low frequencies.
func (e *Engine) trace(layer int, msg string) {
	freq := e.opts.TraceFrequency
	print := false
	switch {
	case freq > 0 && e.iteration%freq == 0 && e.iteration > e.lastTraceIteration:
		print = true
		if layer >= 0 {
			e.lastTraceIteration = e.iteration
		}
	case freq >= 0 && freq <= endOfPassTraceThreshold && layer < 0:
		print = true
	}
	if !print {
		return
	}
	e.FullRecount()
	e.logger.Infof("iteration %4d | layer %2d | crossings %4d | best %4d | bottleneck %3d | best %3d | stretch %6.2f | best %6.2f | %s",
		e.iteration, layer, e.total, int64(e.trk.Best(TotalCrossings)),
		e.bottleneckCrossings(), int(e.trk.Best(BottleneckCrossings)),
		e.TotalStretch(), e.trk.Best(TotalStretch), msg)
}

// markFavoredFanout marks the edges reachable from the middle node of the
// middle layer, walking up from it and down from it. These are the favored
// edges whose crossings the fifth objective tracks.
func (e *Engine) markFavoredFanout() {
	if len(e.g.Layers) == 0 {
		return
	}
	middleLayer := &e.g.Layers[len(e.g.Layers)/2]
	if middleLayer.Len() == 0 {
		return
	}
	start := middleLayer.Nodes[middleLayer.Len()/2]

	// Walk upward, then downward, marking every edge on the fan-out.
	frontier := []int{start}
	for len(frontier) > 0 {
		var next []int
		for _, v := range frontier {
			for _, ei := range e.g.Nodes[v].UpEdges {
				if !e.favored[ei] {
					e.favored[ei] = true
					next = append(next, e.g.Edges[ei].Up)
				}
			}
		}
		frontier = next
	}
	frontier = []int{start}
	for len(frontier) > 0 {
		var next []int
		for _, v := range frontier {
			for _, ei := range e.g.Nodes[v].DownEdges {
				if !e.favored[ei] {
					e.favored[ei] = true
					next = append(next, e.g.Edges[ei].Down)
				}
			}
		}
		frontier = next
	}
}

// favoredCrossings returns the number of crossings on favored edges, or 0
// when no favored set is configured.
func (e *Engine) favoredCrossings() int64 {
	if e.favored == nil {
		return 0
	}
	var total int64
	for ei := range e.g.Edges {
		if e.favored[ei] {
			total += int64(e.g.Edges[ei].Crossings)
		}
	}
	return total
}

// sortByDegree stably sorts a node index list by ascending degree.
func (e *Engine) sortByDegree(ids []int) {
	sort.SliceStable(ids, func(i, j int) bool {
		return e.g.Nodes[ids[i]].Degree() < e.g.Nodes[ids[j]].Degree()
	})
}

// permuteNodeOrder shuffles the master node list using the injected
// generator. Used between sifting passes when randomization is on.
func (e *Engine) permuteNodeOrder() {
	e.rng.Shuffle(len(e.nodeOrder), func(i, j int) {
		e.nodeOrder[i], e.nodeOrder[j] = e.nodeOrder[j], e.nodeOrder[i]
	})
}
