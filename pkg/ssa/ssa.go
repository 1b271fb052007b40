package ssa

import (
	"github.com/corelift/pcode/pkg/cfg"
	"github.com/corelift/pcode/pkg/domtree"
)

// Construct runs phi insertion followed by renaming over g, mutating its
// blocks in place. t and df are the dominator tree and dominance
// frontier produced by package domtree for the same g.
func Construct(g *cfg.Graph, t *domtree.Tree, df [][]int) {
	InsertPhis(g, df)
	Rename(g, t)
}
