package ssa

import (
	"github.com/corelift/pcode/pkg/cfg"
	"github.com/corelift/pcode/pkg/domtree"
	"github.com/corelift/pcode/pkg/pcode"
)

// renamer holds the per-location value stacks and version counters
// threaded through the dominator-tree walk. One renamer is used per
// function and discarded.
type renamer struct {
	stacks  map[loc][]pcode.Varnode
	nextVer map[loc]uint32
}

func newRenamer() *renamer {
	return &renamer{stacks: map[loc][]pcode.Varnode{}, nextVer: map[loc]uint32{}}
}

// top returns the current definition for l, lazily materializing the
// function-entry value (version 0) if nothing has been pushed yet — the
// "fresh input Varnode" case in SPEC_FULL §4.5. The entry value is never
// popped: it is the permanent base for this location across the whole
// function.
func (r *renamer) top(l loc) pcode.Varnode {
	st := r.stacks[l]
	if len(st) == 0 {
		v := pcode.Varnode{Space: l.Space, Offset: l.Offset, Size: l.Size, Version: 0}
		if r.nextVer[l] == 0 {
			r.nextVer[l] = 1
		}
		r.stacks[l] = append(st, v)
		return v
	}
	return st[len(st)-1]
}

func (r *renamer) push(l loc, size uint8) pcode.Varnode {
	v := pcode.Varnode{Space: l.Space, Offset: l.Offset, Size: size, Version: r.nextVer[l]}
	r.nextVer[l]++
	r.stacks[l] = append(r.stacks[l], v)
	return v
}

func (r *renamer) pop(l loc) {
	st := r.stacks[l]
	r.stacks[l] = st[:len(st)-1]
}

// Rename performs the dominator-tree-walk renaming pass described in
// SPEC_FULL §4.5, starting from block 0 (entry). g must already have
// phis inserted (InsertPhis) and t must be its dominator tree.
func Rename(g *cfg.Graph, t *domtree.Tree) {
	if len(g.Blocks) == 0 {
		return
	}
	r := newRenamer()
	r.renameBlock(g, t, 0)
}

func (r *renamer) renameBlock(g *cfg.Graph, t *domtree.Tree, b int) {
	var pushed []loc

	for i := range g.Blocks[b].Ops {
		op := &g.Blocks[b].Ops[i]
		if op.IsPhi() {
			if op.Output != nil {
				l := keyOf(*op.Output)
				nv := r.push(l, op.Output.Size)
				op.Output = &nv
				pushed = append(pushed, l)
			}
			continue
		}
		for j := range op.Inputs {
			in := op.Inputs[j]
			if in.IsConst() {
				continue
			}
			op.Inputs[j] = r.top(keyOf(in))
		}
		if op.Output != nil {
			l := keyOf(*op.Output)
			nv := r.push(l, op.Output.Size)
			op.Output = &nv
			pushed = append(pushed, l)
		}
	}

	for _, s := range g.Blocks[b].Succs {
		edge := predIndex(g.Blocks[s].Preds, b)
		if edge < 0 {
			continue
		}
		for i := range g.Blocks[s].Ops {
			op := &g.Blocks[s].Ops[i]
			if !op.IsPhi() {
				break // phis are always inserted at the top of a block
			}
			if op.Output == nil {
				continue
			}
			l := keyOf(*op.Output)
			if edge >= len(op.Inputs) {
				continue
			}
			op.Inputs[edge] = r.top(l)
		}
	}

	for _, child := range t.Children(b) {
		r.renameBlock(g, t, child)
	}

	for i := len(pushed) - 1; i >= 0; i-- {
		r.pop(pushed[i])
	}
}

func predIndex(preds []int, b int) int {
	for i, p := range preds {
		if p == b {
			return i
		}
	}
	return -1
}
