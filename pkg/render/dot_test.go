package render

import (
	"strings"
	"testing"

	"github.com/mfms-ncsu/layercross/pkg/layered"
)

func buildGraph(t *testing.T) *layered.Graph {
	t.Helper()
	g := layered.NewGraph("pic")
	a, _ := g.AddNode(0, "a", 0)
	b, _ := g.AddNode(1, "b", 0)
	c, _ := g.AddNode(2, "c", 1)
	if _, err := g.AddEdge(a, c); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(b, c); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOTPinsLayersAndOrder(t *testing.T) {
	dot := ToDOT(buildGraph(t), Options{})

	if !strings.Contains(dot, "rank=same") {
		t.Error("layers not pinned with rank=same")
	}
	if !strings.Contains(dot, `"a" -> "b" [style=invis];`) {
		t.Error("within-layer order not pinned with an invisible chain")
	}
	if !strings.Contains(dot, `"a" -> "c" [arrowhead=none];`) {
		t.Error("graph edges missing")
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	dot := ToDOT(buildGraph(t), Options{Detailed: true})
	if !strings.Contains(dot, "layer: 0") || !strings.Contains(dot, "pos: 1") {
		t.Errorf("detailed labels missing:\n%s", dot)
	}
}
