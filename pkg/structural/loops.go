// Package structural folds a CFG with dominators into a tree of
// structured control constructs — if/else, while, do-while, switch —
// for the pseudocode printer to walk (SPEC_FULL §4.11 / C11).
package structural

import (
	"github.com/corelift/pcode/pkg/cfg"
	"github.com/corelift/pcode/pkg/domtree"
	"github.com/corelift/pcode/pkg/pcode"
)

// LoopKind classifies a detected loop by its header's terminator.
type LoopKind int

const (
	While LoopKind = iota
	DoWhile
	InfiniteLoop
)

// Loop is one detected natural loop: a header block dominating every
// block in its body, reached by a back edge from some block in the body.
type Loop struct {
	Header int
	Body   []int // block indices in the loop, header included
	Kind   LoopKind
}

// DetectLoops finds every back edge u->v where v dominates u (v is then
// a loop header) and computes the loop body as the set of blocks that
// can reach u without passing through v, per SPEC_FULL §4.11.
func DetectLoops(g *cfg.Graph, t *domtree.Tree) []Loop {
	var loops []Loop
	seen := map[int]bool{}
	for u := range g.Blocks {
		for _, v := range g.Blocks[u].Succs {
			if !t.Dominates(v, u) || seen[v] {
				continue
			}
			seen[v] = true
			loops = append(loops, Loop{
				Header: v,
				Body:   loopBody(g, v, u),
				Kind:   classifyHeader(g, v),
			})
		}
	}
	return loops
}

// loopBody computes the set of blocks that reach u via a backward walk
// restricted to header's dominees, starting from u and header itself.
func loopBody(g *cfg.Graph, header, u int) []int {
	inBody := map[int]bool{header: true, u: true}
	stack := []int{u}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range g.Blocks[b].Preds {
			if !inBody[p] {
				inBody[p] = true
				stack = append(stack, p)
			}
		}
	}
	body := make([]int, 0, len(inBody))
	for b := range inBody {
		body = append(body, b)
	}
	return sortInts(body)
}

// classifyHeader reads the header block's last op: a conditional branch
// makes it a `while`, an unconditional branch makes it an
// `infinite-loop`, anything else (fallthrough into the body, tested at
// the bottom) makes it a `do-while`.
func classifyHeader(g *cfg.Graph, header int) LoopKind {
	ops := g.Blocks[header].Ops
	if len(ops) == 0 {
		return DoWhile
	}
	switch ops[len(ops)-1].Opcode {
	case pcode.CBranch:
		return While
	case pcode.Branch:
		return InfiniteLoop
	default:
		return DoWhile
	}
}

func sortInts(xs []int) []int {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
	return xs
}
