// Package ssa builds static single assignment form over a cfg.Graph
// already annotated with dominators and dominance frontiers (SPEC_FULL
// §4.5 / C5): phi (multi-equal) insertion at the iterated dominance
// frontier followed by a dominator-tree-walk renaming pass.
package ssa

import (
	"github.com/corelift/pcode/pkg/cfg"
	"github.com/corelift/pcode/pkg/pcode"
)

// loc identifies a storage location independent of SSA version — the
// same notion as Varnode.SameAddress, pulled out as a map key since
// Varnode itself isn't comparable-safe for map use beyond its exported
// fields (it is, but a named key type keeps intent explicit).
type loc struct {
	Space  pcode.Space
	Offset uint64
	Size   uint8
}

func keyOf(v pcode.Varnode) loc {
	return loc{Space: v.Space, Offset: v.Offset, Size: v.Size}
}

// InsertPhis seeds a worklist with every block that writes some
// location V, then inserts a multi-equal op at the top of each block in
// the iterated dominance frontier of the worklist, per SPEC_FULL §4.5.
// df[b] is the dominance frontier of block b, as produced by
// package domtree.
func InsertPhis(g *cfg.Graph, df [][]int) {
	defs := map[loc]map[int]bool{}
	for bi := range g.Blocks {
		for _, op := range g.Blocks[bi].Ops {
			out, ok := op.OutVar()
			if !ok {
				continue
			}
			l := keyOf(out)
			if defs[l] == nil {
				defs[l] = map[int]bool{}
			}
			defs[l][bi] = true
		}
	}

	for l, defBlocks := range defs {
		hasPhi := map[int]bool{}
		worklist := make([]int, 0, len(defBlocks))
		for b := range defBlocks {
			worklist = append(worklist, b)
		}
		for len(worklist) > 0 {
			n := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			if n >= len(df) {
				continue
			}
			for _, d := range df[n] {
				if hasPhi[d] {
					continue
				}
				insertPhi(g, d, l)
				hasPhi[d] = true
				if !defBlocks[d] {
					defBlocks[d] = true
					worklist = append(worklist, d)
				}
			}
		}
	}
}

func insertPhi(g *cfg.Graph, blockIdx int, l loc) {
	out := pcode.Varnode{Space: l.Space, Offset: l.Offset, Size: l.Size}
	phi := pcode.Op{
		Opcode:  pcode.MultiEqual,
		Output:  &out,
		Inputs:  make([]pcode.Varnode, len(g.Blocks[blockIdx].Preds)),
		Address: g.Blocks[blockIdx].StartAddress,
	}
	g.Blocks[blockIdx].Ops = append([]pcode.Op{phi}, g.Blocks[blockIdx].Ops...)
}
