package engine

import (
	"math"
	"sort"

	"github.com/mfms-ncsu/layercross/pkg/layered"
)

// Objective identifies one tracked minimization objective.
type Objective int

const (
	TotalCrossings Objective = iota
	BottleneckCrossings
	TotalStretch
	BottleneckStretch
	FavoredCrossings
	numObjectives
)

// String returns the short tag used in output file names.
func (o Objective) String() string {
	switch o {
	case TotalCrossings:
		return "t"
	case BottleneckCrossings:
		return "b"
	case TotalStretch:
		return "s"
	case BottleneckStretch:
		return "bs"
	case FavoredCrossings:
		return "f"
	}
	return "?"
}

// Record holds the tracking state of one objective: the current value, the
// best seen, the iteration that first achieved the best, and the snapshot
// captured at that iteration.
type Record struct {
	Current       float64
	Best          float64
	BestIteration int
	Snapshot      *layered.Snapshot

	// previous is the best value at the last HasImproved call; it drives
	// the pass-level no-improvement check.
	previous float64
}

// ParetoPoint is one point of the maintained frontier, with the ordering
// that achieved it.
type ParetoPoint struct {
	X, Y     float64
	Snapshot *layered.Snapshot
}

// Tracker keeps the best-so-far state for every objective and, when a
// Pareto pair is configured, the Pareto frontier between the two.
//
// The first iteration to achieve a given best value wins; later equal
// values never displace it, which keeps runs deterministic for a fixed
// seed.
type Tracker struct {
	g        *layered.Graph
	mode     ParetoMode
	records  [numObjectives]Record
	frontier []ParetoPoint
}

func newTracker(g *layered.Graph, mode ParetoMode) *Tracker {
	t := &Tracker{g: g, mode: mode}
	for i := range t.records {
		t.records[i].Current = math.Inf(1)
		t.records[i].Best = math.Inf(1)
		t.records[i].BestIteration = -1
		t.records[i].previous = math.Inf(1)
	}
	return t
}

// UpdateAll records the current objective values, which the caller has
// computed from fresh counters. Any objective strictly better than its
// best updates the best, the iteration-of-best, and re-saves the snapshot.
func (t *Tracker) UpdateAll(iteration int, values [numObjectives]float64) {
	for o := Objective(0); o < numObjectives; o++ {
		rec := &t.records[o]
		rec.Current = values[o]
		if values[o] < rec.Best {
			rec.Best = values[o]
			rec.BestIteration = iteration
			snap := t.g.SaveOrder()
			snap.Iteration = iteration
			snap.Value = values[o]
			rec.Snapshot = snap
		}
	}
	t.paretoUpdate(iteration, values)
}

// HasImproved reports whether the objective's best has strictly decreased
// since the last HasImproved call for it. The termination predicate calls
// this once per objective per pass.
func (t *Tracker) HasImproved(o Objective) bool {
	rec := &t.records[o]
	improved := rec.Best < rec.previous
	rec.previous = rec.Best
	return improved
}

// Record returns a copy of the tracking state for an objective.
func (t *Tracker) Record(o Objective) Record { return t.records[o] }

// Best returns the best value seen for an objective.
func (t *Tracker) Best(o Objective) float64 { return t.records[o].Best }

// BestSnapshot returns the snapshot captured when the objective's best was
// last improved, or nil before the first update.
func (t *Tracker) BestSnapshot(o Objective) *layered.Snapshot {
	return t.records[o].Snapshot
}

// Frontier returns the current Pareto frontier, sorted by decreasing X.
// Since no point dominates another, Y strictly increases along the
// sequence.
func (t *Tracker) Frontier() []ParetoPoint { return t.frontier }

// paretoUpdate inserts the current (x, y) pair into the frontier if no
// existing point dominates it, removing any points it dominates.
func (t *Tracker) paretoUpdate(iteration int, values [numObjectives]float64) {
	var x, y float64
	switch t.mode {
	case ParetoNone:
		return
	case ParetoBottleneckTotal:
		x, y = values[BottleneckCrossings], values[TotalCrossings]
	case ParetoStretchTotal:
		x, y = values[TotalStretch], values[TotalCrossings]
	case ParetoBottleneckStretch:
		x, y = values[BottleneckCrossings], values[TotalStretch]
	}

	for _, p := range t.frontier {
		if p.X <= x && p.Y <= y {
			return // dominated (or duplicated) by an existing point
		}
	}
	kept := t.frontier[:0]
	for _, p := range t.frontier {
		if x <= p.X && y <= p.Y {
			continue // dominated by the new point
		}
		kept = append(kept, p)
	}
	snap := t.g.SaveOrder()
	snap.Iteration = iteration
	snap.Value = y
	t.frontier = append(kept, ParetoPoint{X: x, Y: y, Snapshot: snap})
	sort.SliceStable(t.frontier, func(i, j int) bool { return t.frontier[i].X > t.frontier[j].X })
}
