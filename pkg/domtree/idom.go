// Package domtree computes immediate dominators and dominance frontiers
// over a cfg.Graph (SPEC_FULL §4.4 / C4), the Cooper/Harvey/Kennedy
// iterative algorithm the teacher has no direct analog for — grounded
// instead on the spec's own description of the reverse-postorder,
// two-pointer intersection walk.
package domtree

import "github.com/corelift/pcode/pkg/cfg"

// Tree holds the immediate-dominator relation for one function's Graph,
// indexed by block index. Idom[entry] == entry (a dominator tree root
// dominates itself, per the reflexive contract in SPEC_FULL §4.4).
type Tree struct {
	Idom []int
	rpo  []int
	pos  []int // block index -> position in rpo, -1 if unreachable
}

// Build computes immediate dominators for g, rooted at block 0 (the
// entry block by cfg.Build's own convention). Unreachable blocks are
// left with Idom == -1.
func Build(g *cfg.Graph) *Tree {
	n := len(g.Blocks)
	t := &Tree{Idom: make([]int, n), pos: make([]int, n)}
	for i := range t.Idom {
		t.Idom[i] = -1
		t.pos[i] = -1
	}
	if n == 0 {
		return t
	}

	t.rpo = reversePostorder(g, 0)
	for i, b := range t.rpo {
		t.pos[b] = i
	}
	t.Idom[0] = 0

	changed := true
	for changed {
		changed = false
		for _, b := range t.rpo {
			if b == 0 {
				continue
			}
			newIdom := -1
			for _, p := range g.Blocks[b].Preds {
				if t.pos[p] < 0 || t.Idom[p] < 0 {
					continue // predecessor not yet processed or unreachable
				}
				if newIdom == -1 {
					newIdom = p
					continue
				}
				newIdom = intersect(t, newIdom, p)
			}
			if newIdom != -1 && t.Idom[b] != newIdom {
				t.Idom[b] = newIdom
				changed = true
			}
		}
	}
	return t
}

// intersect walks two idom chains upward in RPO-descending order until
// the pointers meet, the standard Cooper/Harvey/Kennedy two-finger walk.
func intersect(t *Tree, a, b int) int {
	for a != b {
		for t.pos[a] > t.pos[b] {
			a = t.Idom[a]
		}
		for t.pos[b] > t.pos[a] {
			b = t.Idom[b]
		}
	}
	return a
}

// Dominates reports whether a dominates b (reflexively: a dominates a).
func (t *Tree) Dominates(a, b int) bool {
	if a < 0 || a >= len(t.Idom) || b < 0 || b >= len(t.Idom) {
		return false
	}
	for b != a {
		if t.Idom[b] < 0 {
			return false
		}
		if t.Idom[b] == b {
			return false // reached an unlinked root without finding a
		}
		b = t.Idom[b]
	}
	return true
}

// Children returns the dominator-tree children of block idx, in
// ascending block-index order.
func (t *Tree) Children(idx int) []int {
	var out []int
	for b, d := range t.Idom {
		if b != idx && d == idx {
			out = append(out, b)
		}
	}
	return out
}

func reversePostorder(g *cfg.Graph, entry int) []int {
	visited := make([]bool, len(g.Blocks))
	var post []int
	var visit func(int)
	visit = func(b int) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range g.Blocks[b].Succs {
			visit(s)
		}
		post = append(post, b)
	}
	visit(entry)
	rpo := make([]int, len(post))
	for i, b := range post {
		rpo[len(post)-1-i] = b
	}
	return rpo
}
