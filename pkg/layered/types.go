package layered

// Node is a vertex of a layered graph. Identity (ID, Name) is immutable
// after construction; Layer and Position are maintained by the store's
// mutation primitives. The remaining fields are scratch space for
// individual heuristics and carry no meaning between heuristic runs.
type Node struct {
	ID   int    // external identifier from the input file
	Name string // optional textual name (DOT/ORD inputs); "" when absent

	Layer    int // 0-based layer index
	Position int // 0-based position within the layer

	UpEdges   []int // edges to layer+1, in insertion order
	DownEdges []int // edges to layer-1, in insertion order

	// Scratch fields used by heuristics.
	Weight   float64
	Fixed    bool
	Marked   bool
	Preorder int

	// Cached crossing counts, maintained by the engine's counters.
	UpCrossings   int
	DownCrossings int
}

// UpDegree returns the number of edges to the layer above.
func (n *Node) UpDegree() int { return len(n.UpEdges) }

// DownDegree returns the number of edges to the layer below.
func (n *Node) DownDegree() int { return len(n.DownEdges) }

// Degree returns the total degree of the node.
func (n *Node) Degree() int { return len(n.UpEdges) + len(n.DownEdges) }

// Crossings returns the cached number of crossings on edges incident to
// the node. Valid only while the engine keeps the counters fresh.
func (n *Node) Crossings() int { return n.UpCrossings + n.DownCrossings }

// Edge connects a node on layer l (Down) to a node on layer l+1 (Up).
// Crossings is maintained by the engine's crossing counter; Fixed is
// scratch space for heuristics that fix edges within a pass.
type Edge struct {
	Down int // node index on the lower layer
	Up   int // node index on the upper layer

	Crossings int
	Fixed     bool
}

// Layer is an ordered sequence of node indices, sorted by Position
// ascending with no duplicates. Fixed is scratch space for heuristics
// that fix whole layers within a pass.
type Layer struct {
	Nodes []int
	Fixed bool
}

// Len returns the number of nodes on the layer.
func (l *Layer) Len() int { return len(l.Nodes) }
