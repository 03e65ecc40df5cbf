package engine

import (
	"time"

	"github.com/charmbracelet/log"
)

// Heuristic names the iterative heuristic a run executes. The empty value
// runs no heuristic, which is useful for preprocessor-only runs.
type Heuristic string

const (
	HeuristicNone          Heuristic = ""
	HeuristicMedian        Heuristic = "median"
	HeuristicBarycenter    Heuristic = "bary"
	HeuristicModBarycenter Heuristic = "mod_bary"
	HeuristicMCN           Heuristic = "mcn"
	HeuristicSifting       Heuristic = "sifting"
	HeuristicMCE           Heuristic = "mce"
	HeuristicMCESifting    Heuristic = "mce_s"
	HeuristicMSE           Heuristic = "mse"
)

// Heuristics lists every recognized heuristic name.
var Heuristics = []Heuristic{
	HeuristicMedian, HeuristicBarycenter, HeuristicModBarycenter,
	HeuristicMCN, HeuristicSifting, HeuristicMCE, HeuristicMCESifting,
	HeuristicMSE,
}

// Preprocessor names the optional one-shot preprocessing step.
type Preprocessor string

const (
	PreprocessNone Preprocessor = ""
	PreprocessBFS  Preprocessor = "bfs"
	PreprocessDFS  Preprocessor = "dfs"
	PreprocessMDS  Preprocessor = "mds"
)

// MCEOption selects how a pass of the maximum-crossings-edge heuristic
// ends and which endpoints get sifted.
type MCEOption int

const (
	// MCENodes sifts each unfixed endpoint; the pass ends when all nodes
	// are fixed. This is the default and the variant that works best.
	MCENodes MCEOption = iota
	// MCEEdges sifts both endpoints every time; the pass ends when all
	// edges are fixed.
	MCEEdges
	// MCEEarly ends the pass as soon as both endpoints of the chosen edge
	// are already fixed.
	MCEEarly
	// MCEOneNode sifts only the endpoint whose incident edges have more
	// crossings.
	MCEOneNode
)

// WeightPolicy decides the weight of a node that has no neighbors in the
// direction a sort is based on.
type WeightPolicy int

const (
	// WeightLeft gives the node the weight of its left neighbor, keeping
	// runs of isolated nodes together. The default.
	WeightLeft WeightPolicy = iota
	// WeightAvg gives the node the average of the nearest weighted
	// neighbors on both sides.
	WeightAvg
	// WeightNone keeps the node at its current position.
	WeightNone
)

// ParetoMode selects the pair of objectives whose Pareto frontier the
// tracker maintains.
type ParetoMode int

const (
	ParetoNone ParetoMode = iota
	// ParetoBottleneckTotal tracks (bottleneck crossings, total crossings).
	ParetoBottleneckTotal
	// ParetoStretchTotal tracks (total stretch, total crossings).
	ParetoStretchTotal
	// ParetoBottleneckStretch tracks (bottleneck crossings, total stretch).
	ParetoBottleneckStretch
)

// CaptureFunc receives the iteration number when the configured capture
// iteration is reached. The engine performs no I/O itself; callers inject a
// writer that snapshots the current ordering however they see fit.
type CaptureFunc func(iteration int) error

// Options configures a heuristic run. The zero value runs no preprocessor
// and no heuristic under standard termination.
type Options struct {
	Heuristic    Heuristic
	Preprocessor Preprocessor

	// MaxIterations and MaxRuntime bound the run; values <= 0 mean
	// unbounded. When neither is set (and MaxPasses is unset), standard
	// termination applies: the run stops after a whole pass without
	// improvement on any tracked objective.
	MaxIterations int
	MaxPasses     int
	MaxRuntime    time.Duration

	// WeightPolicy and BalancedWeight tune the barycenter/median weight
	// assigners; see the constants for the semantics.
	WeightPolicy   WeightPolicy
	BalancedWeight bool

	MCEOption MCEOption
	Pareto    ParetoMode

	// Randomize permutes the node list between sifting passes to break
	// ties differently; Seed feeds the injected deterministic generator.
	Randomize bool
	Seed      int64

	// CaptureIteration requests a capture of the ordering at the end of
	// the given iteration; negative means never. Capture may be nil.
	CaptureIteration int
	Capture          CaptureFunc

	// PostProcess enables the swap optimizer after the heuristic, run on
	// the best total-crossings ordering.
	PostProcess bool

	// FavoredEdges marks the fan-out of the middle node of the middle
	// layer as favored and tracks their crossings as a fifth objective.
	FavoredEdges bool

	// TraceFrequency controls trace lines: -1 disables them, 0 prints at
	// the end of each pass only, n > 0 prints every nth iteration.
	TraceFrequency int

	Logger *log.Logger

	// Clock is injectable for tests; defaults to time.Now.
	Clock func() time.Time
}
