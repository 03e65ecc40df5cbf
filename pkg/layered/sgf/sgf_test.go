package sgf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mfms-ncsu/layercross/pkg/errors"
)

const sample = `c generated for tests
c second comment

t sample 4 3 2
n 1 0 0
n 2 0 1
n 3 1 0
n 4 1 1

e 1 4
e 2 3
e 1 3
`

func TestReadSample(t *testing.T) {
	g, warnings, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if g.Name != "sample" {
		t.Errorf("name = %q", g.Name)
	}
	if len(g.Nodes) != 4 || len(g.Edges) != 3 || g.NumLayers() != 2 {
		t.Errorf("got %d nodes, %d edges, %d layers", len(g.Nodes), len(g.Edges), g.NumLayers())
	}
	if len(g.Comments) != 2 || g.Comments[0] != "generated for tests" {
		t.Errorf("comments = %v", g.Comments)
	}
	if err := g.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestReadWarnsOnHeaderMismatch(t *testing.T) {
	input := "t lying 9 9 9\nn 1 0 0\nn 2 1 0\ne 1 2\n"
	g, warnings, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(warnings) != 3 {
		t.Errorf("warnings = %v, want 3", warnings)
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Errorf("graph sized from header, not records: %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
}

func TestReadSingleEdge(t *testing.T) {
	// A one-edge graph: the transition from node lines to edge lines must
	// not lose the first (and only) edge.
	input := "t one 2 1 2\nn 1 0 0\nn 2 1 0\ne 1 2\n"
	g, _, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(g.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(g.Edges))
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{
			"MissingHeader",
			"c only comments\n",
			errors.ErrCodeInvalidHeader,
		},
		{
			"MalformedHeader",
			"t incomplete 3\n",
			errors.ErrCodeInvalidHeader,
		},
		{
			"TruncatedNode",
			"t g 1 0 1\nn 1 0\n",
			errors.ErrCodeTruncatedRecord,
		},
		{
			"DuplicatePosition",
			"t g 2 0 1\nn 1 0 0\nn 2 0 0\n",
			errors.ErrCodeDuplicatePosition,
		},
		{
			"DanglingEndpoint",
			"t g 2 1 2\nn 1 0 0\nn 2 1 0\ne 1 9\n",
			errors.ErrCodeDanglingEndpoint,
		},
		{
			"SameLayerEdge",
			"t g 2 1 1\nn 1 0 0\nn 2 0 1\ne 1 2\n",
			errors.ErrCodeNonadjacentLayers,
		},
		{
			"NonadjacentEdge",
			"t g 2 1 3\nn 1 0 0\nn 2 2 0\ne 1 2\n",
			errors.ErrCodeNonadjacentLayers,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Read(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Read accepted bad input")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %s, want %s (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	g, _, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	g2, warnings, err := Read(&buf)
	if err != nil {
		t.Fatalf("re-Read: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("round-trip warnings: %v", warnings)
	}
	if len(g2.Nodes) != len(g.Nodes) || len(g2.Edges) != len(g.Edges) || g2.NumLayers() != g.NumLayers() {
		t.Fatalf("round-trip changed shape")
	}
	for l := range g.Layers {
		for i := range g.Layers[l].Nodes {
			a := g.Nodes[g.Layers[l].Nodes[i]]
			b := g2.Nodes[g2.Layers[l].Nodes[i]]
			if a.ID != b.ID {
				t.Fatalf("layer %d position %d: id %d became %d", l, i, a.ID, b.ID)
			}
		}
	}
	if len(g2.Comments) != len(g.Comments) {
		t.Errorf("comments not propagated: %v", g2.Comments)
	}
}

func TestScannerStreams(t *testing.T) {
	sc := NewScanner(strings.NewReader(sample))
	h, err := sc.Header()
	if err != nil {
		t.Fatalf("Header: %v", err)
	}
	if h.Name != "sample" || h.Nodes != 4 || h.Edges != 3 || h.Layers != 2 {
		t.Errorf("header = %+v", h)
	}
	var nodes, edges int
	for {
		rec, ok, err := sc.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		switch rec.Kind {
		case 'n':
			nodes++
		case 'e':
			edges++
		}
	}
	if nodes != 4 || edges != 3 {
		t.Errorf("streamed %d nodes, %d edges", nodes, edges)
	}
}
