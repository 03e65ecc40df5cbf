// Package engine implements the heuristic core of the workbench: the
// incremental crossing and stretch counters, the objective tracker with its
// best-order snapshots and Pareto frontier, the sorting and sifting
// primitives, and the named heuristic drivers (median, bary, mod_bary,
// sifting, mcn, mce, mce_s, mse) plus the post-processing swap optimizer.
//
// An Engine borrows a layered.Graph for the duration of a run and owns it
// exclusively; no other code may read or mutate the graph until Run
// returns. The engine is strictly single-threaded: every driver runs to
// completion, consulting the termination predicate only at iteration
// boundaries.
//
// # Counters
//
// Crossing counts are kept at three granularities that must stay
// consistent: per edge, per channel (pair of adjacent layers), and the
// running total. Heuristics mutate positions through the store's
// primitives and then refresh only the affected channels; VerifyCounts
// cross-checks the cached counts against an independent Fenwick-tree
// recount and is the backbone of the incremental-equals-full test suite.
//
// # Determinism
//
// Randomization, where requested, is drawn from a generator seeded once at
// construction. Two runs with identical inputs, options, and seed produce
// identical orderings.
package engine
