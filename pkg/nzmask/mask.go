// Package nzmask computes a non-zero-bit-mask lattice over an SSA op
// list (SPEC_FULL §4.6 / C6): for each Varnode, an upper bound on which
// bits can ever be set. It feeds the rewrite engine's and-mask/or-mask
// rules the same way the teacher's opReads/opWrites register masks feed
// pruner.go's pruning decisions, generalized from "which registers does
// this instruction touch" to "which bits can this value ever have set".
package nzmask

import "github.com/corelift/pcode/pkg/pcode"

// MaxPasses bounds the fixed-point iteration (SPEC_FULL §4.6: "bounded,
// e.g. 5 passes").
const MaxPasses = 5

// loc mirrors package ssa's unversioned location key; duplicated rather
// than imported since nzmask operates purely on Varnode identity and
// importing package ssa for one type would invert the natural dependency
// direction (ssa runs before nzmask in the pipeline, not the other way).
type loc struct {
	Space  pcode.Space
	Offset uint64
	Size   uint8
}

func keyOf(v pcode.Varnode) loc { return loc{Space: v.Space, Offset: v.Offset, Size: v.Size} }

// Masks is the analysis result: each Varnode's upper-bound bit mask,
// keyed by its full SSA identity (including version) since different
// versions of the same location legitimately carry different masks.
type Masks map[pcode.Varnode]uint64

// top returns the all-ones mask for a value of the given byte size.
func top(size uint8) uint64 { return pcode.SizeMask(size) }

// Analyze runs the bounded fixed-point iteration described in SPEC_FULL
// §4.6 over ops and returns the resulting Masks. If MaxPasses is reached
// while a pass still reports a change, every Varnode touched in that
// final round falls back to the top mask rather than being reported as a
// possibly-unsound partial result (the resolved Open Question b, §9).
func Analyze(ops []pcode.Op) Masks {
	m := Masks{}

	for pass := 0; pass < MaxPasses; pass++ {
		changed := false
		touched := map[pcode.Varnode]bool{}
		for _, op := range ops {
			out, ok := op.OutVar()
			if !ok {
				continue
			}
			newMask, known := rule(op, m)
			if !known {
				newMask = top(out.Size)
			}
			newMask &= top(out.Size)
			if cur, seen := m[out]; !seen || cur != newMask {
				m[out] = newMask
				changed = true
				touched[out] = true
			}
		}
		if !changed {
			return m
		}
		if pass == MaxPasses-1 {
			for v := range touched {
				m[v] = top(v.Size)
			}
		}
	}
	return m
}

// maskOf returns the known mask for v, or the all-ones mask if v is not
// yet tracked (e.g. an input Varnode with no prior def, or a constant).
func maskOf(m Masks, v pcode.Varnode) uint64 {
	if v.IsConst() {
		return v.ConstValue() & top(v.Size)
	}
	if mask, ok := m[v]; ok {
		return mask
	}
	return top(v.Size)
}
