package defuse

import "github.com/corelift/pcode/pkg/pcode"

// TraceCopySource walks v's defining op chain through copies: if the
// definition is a copy, recurse on its input; stop at a non-copy, a
// constant, or a revisited Varnode (cycle). A phi (multi-equal) is never
// chased through — it is a merge point, not a copy, and picking one
// predecessor arbitrarily would silently lose information (the resolved
// Open Question a, §9). Returns v unchanged if there is no definition,
// the chain hits a phi, or a cycle is detected.
func TraceCopySource(v pcode.Varnode, c *Chain) pcode.Varnode {
	if v.IsConst() {
		return v
	}
	visited := map[pcode.Varnode]bool{}
	cur := v
	for {
		if visited[cur] {
			return v // cycle: give up, return the original
		}
		visited[cur] = true

		def, ok := c.Def[cur]
		if !ok {
			return cur // no definition (function-entry value): terminate here
		}
		if def.IsPhi() {
			return cur // never chase through a merge point
		}
		if !def.IsCopy() {
			return cur
		}
		if len(def.Inputs) != 1 {
			return cur
		}
		src := def.Inputs[0]
		if src.IsConst() {
			return src
		}
		cur = src
	}
}

// Propagate substitutes every op input with its traced copy source where
// that differs from the current input, and returns the number of
// substitutions performed.
func Propagate(ops []pcode.Op, c *Chain) int {
	count := 0
	for i := range ops {
		op := &ops[i]
		for j := range op.Inputs {
			in := op.Inputs[j]
			if in.IsConst() {
				continue
			}
			traced := TraceCopySource(in, c)
			if traced != in {
				op.Inputs[j] = traced
				count++
			}
		}
	}
	return count
}
