package domtree

import (
	"testing"

	"github.com/corelift/pcode/pkg/cfg"
)

// diamond builds A -> {B, C} -> D directly (bypassing cfg.Build, which
// needs real P-code ops) to test the dominator/frontier algorithms in
// isolation against a known shape.
func diamond() *cfg.Graph {
	g := &cfg.Graph{Blocks: make([]cfg.Block, 4)}
	// 0=A 1=B 2=C 3=D
	g.Blocks[0].Succs = []int{1, 2}
	g.Blocks[1].Preds = []int{0}
	g.Blocks[1].Succs = []int{3}
	g.Blocks[2].Preds = []int{0}
	g.Blocks[2].Succs = []int{3}
	g.Blocks[3].Preds = []int{1, 2}
	return g
}

func TestIdomDiamond(t *testing.T) {
	g := diamond()
	tree := Build(g)
	if tree.Idom[0] != 0 {
		t.Fatalf("expected entry to dominate itself, got %d", tree.Idom[0])
	}
	if tree.Idom[1] != 0 || tree.Idom[2] != 0 {
		t.Fatalf("expected B and C idom'd by A, got %d %d", tree.Idom[1], tree.Idom[2])
	}
	if tree.Idom[3] != 0 {
		t.Fatalf("expected D idom'd by A (merge point), got %d", tree.Idom[3])
	}
	if !tree.Dominates(0, 3) {
		t.Fatalf("expected A to dominate D")
	}
	if tree.Dominates(1, 3) {
		t.Fatalf("expected B to NOT dominate D (C is an alternate path)")
	}
}

func TestDominanceFrontierDiamond(t *testing.T) {
	g := diamond()
	tree := Build(g)
	df := Frontier(g, tree)
	if len(df[1]) != 1 || df[1][0] != 3 {
		t.Fatalf("expected DF(B) = {D}, got %v", df[1])
	}
	if len(df[2]) != 1 || df[2][0] != 3 {
		t.Fatalf("expected DF(C) = {D}, got %v", df[2])
	}
	if len(df[0]) != 0 {
		t.Fatalf("expected DF(A) = {}, got %v", df[0])
	}
}

func TestDominatesIsReflexive(t *testing.T) {
	g := diamond()
	tree := Build(g)
	for i := range g.Blocks {
		if !tree.Dominates(i, i) {
			t.Fatalf("expected block %d to dominate itself", i)
		}
	}
}

func TestChildren(t *testing.T) {
	g := diamond()
	tree := Build(g)
	kids := tree.Children(0)
	if len(kids) != 3 {
		t.Fatalf("expected A to have 3 dominator-tree children (B, C, D), got %v", kids)
	}
}
