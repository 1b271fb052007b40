package structural

import (
	"github.com/corelift/pcode/pkg/cfg"
	"github.com/corelift/pcode/pkg/domtree"
)

// Kind discriminates the structure tree's node shapes.
type Kind int

const (
	KindBasicBlock Kind = iota
	KindSequence
	KindIfThen
	KindIfThenElse
	KindSwitch
	KindWhile
	KindDoWhile
	KindInfiniteLoop
	KindGoto
	KindBreak
	KindContinue
)

// Node is one structure-tree element. Block names the CFG block this
// node is anchored to: the block itself for a basic-block or goto leaf,
// the condition/header block for an if or loop. Children holds sequence
// members or switch case bodies (in successor order, without the
// default); Body/Else hold an if's or loop's nested structure, and a
// switch's Else holds its default (last-successor) case.
type Node struct {
	Kind     Kind
	Block    int
	Children []*Node
	Body     *Node
	Else     *Node
}

// noMerge marks a 2-successor fork whose arms never rejoin before the
// CFG is exhausted — the irreducible-region fallback (Open Question c,
// §9): both arms are emitted as goto leaves instead of looping forever
// hunting for a merge point that doesn't exist.
const noMerge = -1

// Fold builds the structure tree for g starting at its entry block
// (index 0), classifying natural loops from t first.
func Fold(g *cfg.Graph, t *domtree.Tree) *Node {
	return FoldWithLoops(g, DetectLoops(g, t))
}

// FoldWithLoops builds the structure tree given a precomputed loop list
// (the entry point DetectLoops' caller normally uses directly).
func FoldWithLoops(g *cfg.Graph, loops []Loop) *Node {
	headerOf := map[int]Loop{}
	inLoopBody := map[int]map[int]bool{}
	for _, l := range loops {
		headerOf[l.Header] = l
		set := map[int]bool{}
		for _, b := range l.Body {
			set[b] = true
		}
		inLoopBody[l.Header] = set
	}
	visited := map[int]bool{}
	return fold(g, headerOf, inLoopBody, 0, noMerge, visited, nil)
}

// fold recurses over the CFG reachable from block, stopping at stopAt (a
// merge point or loop header the caller already accounts for). enclosing
// is the innermost loop this block's code executes inside of, or nil when
// block lies outside any loop — it is what lets a two-way (or switch)
// fork recognize a branch arm that exits the loop early (break) or jumps
// straight back to its header (continue) instead of folding that arm as
// ordinary nested structure.
func fold(g *cfg.Graph, headerOf map[int]Loop, bodies map[int]map[int]bool, block, stopAt int, visited map[int]bool, enclosing *Loop) *Node {
	if block == noMerge || block == stopAt {
		return nil
	}
	if visited[block] {
		return &Node{Kind: KindGoto, Block: block}
	}
	visited[block] = true

	if loop, ok := headerOf[block]; ok {
		return foldLoop(g, headerOf, bodies, loop, stopAt, visited, enclosing)
	}

	succs := g.Blocks[block].Succs
	leaf := &Node{Kind: KindBasicBlock, Block: block}

	switch len(succs) {
	case 0:
		return leaf
	case 1:
		return sequence(leaf, fold(g, headerOf, bodies, succs[0], stopAt, visited, enclosing))
	case 2:
		a, b := succs[0], succs[1]
		aArm, bArm := exceptionalArm(bodies, enclosing, a), exceptionalArm(bodies, enclosing, b)
		if aArm != nil || bArm != nil {
			return sequence(leaf, forkEarlyExit(g, headerOf, bodies, block, a, b, aArm, bArm, stopAt, visited, enclosing))
		}
		merge, ok := findMerge(g, a, b)
		if !ok {
			ifNode := &Node{
				Kind:  KindIfThenElse,
				Block: block,
				Body:  &Node{Kind: KindGoto, Block: a},
				Else:  &Node{Kind: KindGoto, Block: b},
			}
			return sequence(leaf, ifNode)
		}
		then := fold(g, headerOf, bodies, a, merge, visited, enclosing)
		var elseBranch *Node
		kind := KindIfThen
		if b != merge {
			elseBranch = fold(g, headerOf, bodies, b, merge, visited, enclosing)
			kind = KindIfThenElse
		}
		ifNode := &Node{Kind: kind, Block: block, Body: then, Else: elseBranch}
		return sequence(leaf, sequence(ifNode, fold(g, headerOf, bodies, merge, stopAt, visited, enclosing)))
	default:
		cases := make([]*Node, 0, len(succs)-1)
		for _, s := range succs[:len(succs)-1] {
			cases = append(cases, foldArm(g, headerOf, bodies, s, stopAt, visited, enclosing))
		}
		def := foldArm(g, headerOf, bodies, succs[len(succs)-1], stopAt, visited, enclosing)
		swNode := &Node{Kind: KindSwitch, Block: block, Children: cases, Else: def}
		return sequence(leaf, swNode)
	}
}

// exceptionalArm reports whether target is an early exit from enclosing's
// body: KindContinue when it jumps straight back to the header, KindBreak
// when it leaves the body entirely. Returns nil for an ordinary successor
// (enclosing is nil, or target is just the next block within the body).
func exceptionalArm(bodies map[int]map[int]bool, enclosing *Loop, target int) *Node {
	if enclosing == nil {
		return nil
	}
	if target == enclosing.Header {
		return &Node{Kind: KindContinue, Block: target}
	}
	if !bodies[enclosing.Header][target] {
		return &Node{Kind: KindBreak, Block: target}
	}
	return nil
}

// foldArm folds a switch case's target, substituting a break/continue
// leaf in place of recursing when the target is an early exit from the
// enclosing loop's body.
func foldArm(g *cfg.Graph, headerOf map[int]Loop, bodies map[int]map[int]bool, target, stopAt int, visited map[int]bool, enclosing *Loop) *Node {
	if n := exceptionalArm(bodies, enclosing, target); n != nil {
		return n
	}
	return fold(g, headerOf, bodies, target, stopAt, visited, enclosing)
}

// forkEarlyExit builds the structure for a two-way fork where at least
// one arm is a break or continue out of the enclosing loop rather than
// ordinary control flow converging at a merge point. When only one arm
// is exceptional, the other is the natural continuation of the body —
// findMerge never needs to run, since an early exit and the code that
// follows it never rejoin. The condition text is never negated (matching
// this printer's other if-arm renderings): a block whose true arm keeps
// looping and whose false arm is the exceptional one still reads as
// "if (cond) { break/continue }" rather than its logical negation.
func forkEarlyExit(g *cfg.Graph, headerOf map[int]Loop, bodies map[int]map[int]bool, block, a, b int, aArm, bArm *Node, stopAt int, visited map[int]bool, enclosing *Loop) *Node {
	if aArm != nil && bArm != nil {
		return &Node{Kind: KindIfThenElse, Block: block, Body: aArm, Else: bArm}
	}
	if aArm != nil {
		cont := fold(g, headerOf, bodies, b, stopAt, visited, enclosing)
		return sequence(&Node{Kind: KindIfThen, Block: block, Body: aArm}, cont)
	}
	cont := fold(g, headerOf, bodies, a, stopAt, visited, enclosing)
	return sequence(&Node{Kind: KindIfThen, Block: block, Body: bArm}, cont)
}

// foldLoop folds a loop's body (its blocks minus the header, since the
// header itself is the loop's own anchor) and, for a while/do-while,
// finds the exit edge to continue folding past the loop. enclosing is the
// loop that contains this one, if any — threaded through to the
// post-loop continuation so a nested loop's exit still recognizes an
// outer loop's own break/continue targets.
func foldLoop(g *cfg.Graph, headerOf map[int]Loop, bodies map[int]map[int]bool, loop Loop, stopAt int, visited map[int]bool, enclosing *Loop) *Node {
	body := bodies[loop.Header]
	var bodyRoot *Node
	for _, succ := range g.Blocks[loop.Header].Succs {
		if body[succ] {
			bodyRoot = fold(g, headerOf, bodies, succ, loop.Header, visited, &loop)
			break
		}
	}
	kind := map[LoopKind]Kind{While: KindWhile, DoWhile: KindDoWhile, InfiniteLoop: KindInfiniteLoop}[loop.Kind]
	loopNode := &Node{Kind: kind, Block: loop.Header, Body: bodyRoot}

	exit := loopExit(g, loop.Header, body)
	return sequence(loopNode, fold(g, headerOf, bodies, exit, stopAt, visited, enclosing))
}

// loopExit finds the block execution reaches once the loop is done: the
// header's own non-body successor when it has one (a while loop's
// condition-false arm), or else the first non-body successor among the
// rest of the body in block-index order (a do-while's trailing test, or
// an infinite loop whose only way out is a break already folded
// elsewhere). Scanning in a fixed order rather than map iteration keeps
// the result deterministic when more than one body block branches out —
// which a loop containing a break always does.
func loopExit(g *cfg.Graph, header int, body map[int]bool) int {
	if exit := externalSucc(g, header, body); exit != noMerge {
		return exit
	}
	rest := make([]int, 0, len(body))
	for b := range body {
		if b != header {
			rest = append(rest, b)
		}
	}
	rest = sortInts(rest)
	for _, b := range rest {
		if exit := externalSucc(g, b, body); exit != noMerge {
			return exit
		}
	}
	return noMerge
}

func externalSucc(g *cfg.Graph, b int, body map[int]bool) int {
	for _, s := range g.Blocks[b].Succs {
		if !body[s] {
			return s
		}
	}
	return noMerge
}

// findMerge looks for the nearest block reachable from both a and b by
// expanding two BFS frontiers one level at a time and checking for
// intersection after each expansion (SPEC_FULL §4.11). Returns
// ok=false if the graph runs out of blocks to visit first — the
// irreducible-region case.
func findMerge(g *cfg.Graph, a, b int) (int, bool) {
	visitedA := map[int]bool{a: true}
	visitedB := map[int]bool{b: true}
	frontierA := []int{a}
	frontierB := []int{b}

	if visitedB[a] {
		return a, true
	}
	if visitedA[b] {
		return b, true
	}

	for len(frontierA) > 0 || len(frontierB) > 0 {
		var nextA []int
		for _, n := range frontierA {
			for _, s := range g.Blocks[n].Succs {
				if visitedB[s] {
					return s, true
				}
				if !visitedA[s] {
					visitedA[s] = true
					nextA = append(nextA, s)
				}
			}
		}
		frontierA = nextA

		var nextB []int
		for _, n := range frontierB {
			for _, s := range g.Blocks[n].Succs {
				if visitedA[s] {
					return s, true
				}
				if !visitedB[s] {
					visitedB[s] = true
					nextB = append(nextB, s)
				}
			}
		}
		frontierB = nextB
	}
	return 0, false
}

func sequence(first, rest *Node) *Node {
	if first == nil {
		return rest
	}
	if rest == nil {
		return first
	}
	children := make([]*Node, 0, 2)
	if first.Kind == KindSequence {
		children = append(children, first.Children...)
	} else {
		children = append(children, first)
	}
	if rest.Kind == KindSequence {
		children = append(children, rest.Children...)
	} else {
		children = append(children, rest)
	}
	return &Node{Kind: KindSequence, Children: children}
}
