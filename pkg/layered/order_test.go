package layered

import "testing"

func TestSnapshotRoundTrip(t *testing.T) {
	g := buildTwoLayer(t)
	snap := g.SaveOrder()

	// arbitrary mutations
	g.SwapPositions(0, 0, 2)
	g.RepositionNode(3, 2)
	g.SwapPositions(1, 0, 1)

	g.RestoreOrder(snap)

	for l := range g.Layers {
		for i, idx := range g.Layers[l].Nodes {
			if idx != l*3+i {
				t.Fatalf("layer %d = %v after restore", l, g.Layers[l].Nodes)
			}
			if g.Nodes[idx].Position != i {
				t.Fatalf("node %d position %d after restore", idx, g.Nodes[idx].Position)
			}
		}
	}
	if err := g.Check(); err != nil {
		t.Fatalf("Check after restore: %v", err)
	}
}

func TestSnapshotIndependentOfLaterMutations(t *testing.T) {
	g := buildTwoLayer(t)
	snap := g.SaveOrder()
	g.SwapPositions(0, 0, 1)
	snap2 := g.SaveOrder()

	g.RestoreOrder(snap)
	if g.Layers[0].Nodes[0] != 0 {
		t.Fatalf("first snapshot clobbered: layer 0 = %v", g.Layers[0].Nodes)
	}
	g.RestoreOrder(snap2)
	if g.Layers[0].Nodes[0] != 1 {
		t.Fatalf("second snapshot wrong: layer 0 = %v", g.Layers[0].Nodes)
	}
}

func TestRestoreOrderPanicsOnForeignSnapshot(t *testing.T) {
	g := buildTwoLayer(t)
	other := NewGraph("other")
	other.AddNode(0, "", 0)
	snap := other.SaveOrder()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for foreign snapshot")
		}
	}()
	g.RestoreOrder(snap)
}
