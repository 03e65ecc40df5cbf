// Package layered implements the graph store shared by every crossing
// heuristic: nodes partitioned into numbered layers, edges restricted to
// consecutive layers, and an explicit position for every node within its
// layer.
//
// The store is deliberately passive. It owns the element arrays and the
// mutation primitives (SwapPositions, RepositionNode, SaveOrder/RestoreOrder)
// and it enforces the structural invariants, but it knows nothing about
// crossings, stretch, or objectives; those live in the engine package.
//
// # Representation
//
// Nodes and edges are stored in two flat slices and referenced only by
// integer index. Adjacency lists are index lists. This keeps the cyclic
// node↔edge references cheap and makes order snapshots a flat []int.
//
// # Invariants
//
// At every externally observable moment:
//
//  1. Layers[l].Nodes[i] has Position == i, for every layer l.
//  2. Every edge connects a node on layer l to a node on layer l+1.
//  3. Every edge appears exactly once in each endpoint's adjacency list.
//  4. Up/down degrees equal the adjacency list lengths.
//
// Mutators that would break an invariant panic with an
// INVARIANT_VIOLATION error; a violation is a programming error, never a
// recoverable condition.
package layered
