// Package sgf reads and writes the single-file SGF text format.
//
// An SGF file is line-based (blank lines are skipped):
//
//	c comment line 1
//	...
//	c comment line k
//	t graph_name nodes edges layers
//	n id_1 layer_1 position_1
//	...
//	e source_1 target_1
//	...
//
// The header counts are advisory only; Read warns when they disagree with
// the actual records but never rejects for that reason. Duplicate positions
// within a layer, edges between non-adjacent layers, and dangling endpoints
// are fatal.
package sgf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mfms-ncsu/layercross/pkg/errors"
	"github.com/mfms-ncsu/layercross/pkg/layered"
)

// Header is the decoded t-line of an SGF file.
type Header struct {
	Name   string
	Nodes  int
	Edges  int
	Layers int
}

// NodeRecord is one n-line.
type NodeRecord struct {
	ID       int
	Layer    int
	Position int
}

// EdgeRecord is one e-line. Source is on the lower layer by convention,
// but Read accepts either orientation.
type EdgeRecord struct {
	Source int
	Target int
}

// Record is one data line of an SGF file: Kind is 'n' or 'e' and the
// matching field is populated.
type Record struct {
	Kind byte
	Node NodeRecord
	Edge EdgeRecord
}

// Scanner is a streaming SGF reader that explicitly owns its parse state.
// It exists for callers (chiefly test fixtures) that want record-level
// access; Read is the one-shot entry point for everything else.
type Scanner struct {
	s        *bufio.Scanner
	line     int
	comments []string
	header   *Header
	err      error
}

// NewScanner creates a scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{s: bufio.NewScanner(r)}
}

// Comments returns the comment lines seen before the header, with the
// leading "c " stripped. Valid after Header returns.
func (sc *Scanner) Comments() []string { return sc.comments }

// Header reads past the comments and decodes the t-line. It may be called
// once, before the first Next.
func (sc *Scanner) Header() (Header, error) {
	if sc.header != nil {
		return *sc.header, nil
	}
	for sc.scan() {
		text := strings.TrimSpace(sc.s.Text())
		if text == "" {
			continue
		}
		if text[0] == 'c' {
			sc.comments = append(sc.comments, strings.TrimPrefix(strings.TrimPrefix(text, "c"), " "))
			continue
		}
		var h Header
		count, err := fmt.Sscanf(text, "t %s %d %d %d", &h.Name, &h.Nodes, &h.Edges, &h.Layers)
		if err != nil || count != 4 {
			return Header{}, errors.New(errors.ErrCodeInvalidHeader, "line %d: expected 't name nodes edges layers', got %q", sc.line, text)
		}
		sc.header = &h
		return h, nil
	}
	if sc.err != nil {
		return Header{}, sc.err
	}
	return Header{}, errors.New(errors.ErrCodeInvalidHeader, "missing header line")
}

// Next returns the next node or edge record. The second result is false at
// end of input.
func (sc *Scanner) Next() (Record, bool, error) {
	if sc.header == nil {
		if _, err := sc.Header(); err != nil {
			return Record{}, false, err
		}
	}
	for sc.scan() {
		text := strings.TrimSpace(sc.s.Text())
		if text == "" {
			continue
		}
		switch text[0] {
		case 'n':
			var rec NodeRecord
			count, err := fmt.Sscanf(text, "n %d %d %d", &rec.ID, &rec.Layer, &rec.Position)
			if err != nil || count != 3 {
				return Record{}, false, errors.New(errors.ErrCodeTruncatedRecord, "line %d: malformed node record %q", sc.line, text)
			}
			return Record{Kind: 'n', Node: rec}, true, nil
		case 'e':
			var rec EdgeRecord
			count, err := fmt.Sscanf(text, "e %d %d", &rec.Source, &rec.Target)
			if err != nil || count != 2 {
				return Record{}, false, errors.New(errors.ErrCodeTruncatedRecord, "line %d: malformed edge record %q", sc.line, text)
			}
			return Record{Kind: 'e', Edge: rec}, true, nil
		default:
			return Record{}, false, errors.New(errors.ErrCodeInvalidFormat, "line %d: unexpected record %q", sc.line, text)
		}
	}
	return Record{}, false, sc.err
}

func (sc *Scanner) scan() bool {
	if sc.err != nil {
		return false
	}
	if !sc.s.Scan() {
		sc.err = sc.s.Err()
		return false
	}
	sc.line++
	return true
}

// Read decodes a complete SGF graph from r. It returns the graph, any
// advisory warnings (header counts disagreeing with the records), and the
// first fatal error. The engine never runs on a partially built graph: a
// non-nil error means the graph result is nil.
func Read(r io.Reader) (*layered.Graph, []string, error) {
	sc := NewScanner(r)
	h, err := sc.Header()
	if err != nil {
		return nil, nil, err
	}

	var nodes []NodeRecord
	var edges []EdgeRecord
	for {
		rec, ok, err := sc.Next()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}
		switch rec.Kind {
		case 'n':
			nodes = append(nodes, rec.Node)
		case 'e':
			edges = append(edges, rec.Edge)
		}
	}

	g := layered.NewGraph(h.Name)
	g.Comments = sc.Comments()

	// Group records by layer, order by the positions given in the file, and
	// reject duplicates. The resulting store positions are always 0..k-1
	// even when the file's positions have gaps.
	byLayer := map[int][]NodeRecord{}
	maxLayer := -1
	for _, rec := range nodes {
		if rec.Layer < 0 {
			return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "node %d: negative layer %d", rec.ID, rec.Layer)
		}
		byLayer[rec.Layer] = append(byLayer[rec.Layer], rec)
		if rec.Layer > maxLayer {
			maxLayer = rec.Layer
		}
	}
	index := make(map[int]int, len(nodes))
	for layer := 0; layer <= maxLayer; layer++ {
		recs := byLayer[layer]
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Position < recs[j].Position })
		for i := 1; i < len(recs); i++ {
			if recs[i].Position == recs[i-1].Position {
				return nil, nil, errors.New(errors.ErrCodeDuplicatePosition,
					"layer %d: nodes %d and %d share position %d", layer, recs[i-1].ID, recs[i].ID, recs[i].Position)
			}
		}
		for _, rec := range recs {
			if _, dup := index[rec.ID]; dup {
				return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate node id %d", rec.ID)
			}
			idx, err := g.AddNode(rec.ID, "", layer)
			if err != nil {
				return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d", rec.ID)
			}
			index[rec.ID] = idx
		}
	}

	for _, rec := range edges {
		src, ok := index[rec.Source]
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeDanglingEndpoint, "edge %d -> %d: unknown source", rec.Source, rec.Target)
		}
		dst, ok := index[rec.Target]
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeDanglingEndpoint, "edge %d -> %d: unknown target", rec.Source, rec.Target)
		}
		if _, err := g.AddEdge(src, dst); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeNonadjacentLayers, err, "edge %d -> %d", rec.Source, rec.Target)
		}
	}

	var warnings []string
	if h.Nodes != len(nodes) {
		warnings = append(warnings, fmt.Sprintf("header claims %d nodes, file has %d", h.Nodes, len(nodes)))
	}
	if h.Edges != len(edges) {
		warnings = append(warnings, fmt.Sprintf("header claims %d edges, file has %d", h.Edges, len(edges)))
	}
	if h.Layers != g.NumLayers() {
		warnings = append(warnings, fmt.Sprintf("header claims %d layers, file has %d", h.Layers, g.NumLayers()))
	}
	return g, warnings, nil
}

// Import reads an SGF file at path. Warnings are returned, not logged;
// the caller decides how to surface them.
func Import(path string) (*layered.Graph, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes the graph in SGF form: comments first, then the header,
// then nodes in layer-major position order, then edges in edge-list order.
// Output written by Write round-trips through Read.
func Write(g *layered.Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, c := range g.Comments {
		fmt.Fprintf(bw, "c %s\n", c)
	}
	fmt.Fprintf(bw, "t %s %d %d %d\n", g.Name, len(g.Nodes), len(g.Edges), g.NumLayers())
	for l := range g.Layers {
		for _, idx := range g.Layers[l].Nodes {
			n := &g.Nodes[idx]
			fmt.Fprintf(bw, "n %d %d %d\n", n.ID, n.Layer, n.Position)
		}
	}
	for ei := range g.Edges {
		e := &g.Edges[ei]
		fmt.Fprintf(bw, "e %d %d\n", g.Nodes[e.Down].ID, g.Nodes[e.Up].ID)
	}
	return bw.Flush()
}

// Export writes the graph to an SGF file at path.
func Export(g *layered.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}
