package cfg

import "github.com/corelift/pcode/pkg/pcode"

// isControlFlowOp reports whether op ends a block per SPEC_FULL §4.3 —
// a broader set than pcode.Opcode.IsTerminator, which omits call-ind.
func isControlFlowOp(op pcode.Opcode) bool {
	switch op {
	case pcode.Branch, pcode.CBranch, pcode.BranchInd, pcode.Call, pcode.CallInd, pcode.Return:
		return true
	default:
		return false
	}
}

// directTarget returns the RAM address a Branch/CBranch/Call/CallInd
// targets directly (constant address known at lift time), or ok=false
// for an indirect transfer.
func directTarget(op pcode.Op) (uint64, bool) {
	if len(op.Inputs) == 0 {
		return 0, false
	}
	t := op.Inputs[0]
	if t.Space != pcode.SpaceRAM {
		return 0, false
	}
	return t.Offset, true
}

// Build partitions a flat op list into a Graph. Ops must already be in
// machine-address order (the lifter's own output-ordering guarantee).
func Build(ops []pcode.Op) *Graph {
	g := &Graph{}
	if len(ops) == 0 {
		return g
	}

	leaders := map[int]bool{0: true}
	for i, op := range ops {
		if isControlFlowOp(op.Opcode) && i+1 < len(ops) {
			leaders[i+1] = true
		}
	}
	addrIndex := make(map[uint64]int, len(ops))
	for i, op := range ops {
		if _, seen := addrIndex[op.Address]; !seen {
			addrIndex[op.Address] = i
		}
	}
	for _, op := range ops {
		switch op.Opcode {
		case pcode.Branch, pcode.CBranch, pcode.Call:
			if target, ok := directTarget(op); ok {
				if idx, found := addrIndex[target]; found {
					leaders[idx] = true
				}
			}
		}
	}

	starts := make([]int, 0, len(leaders))
	for idx := range leaders {
		starts = append(starts, idx)
	}
	sortInts(starts)

	blockOfStart := make(map[int]int, len(starts))
	for bi, start := range starts {
		end := len(ops)
		if bi+1 < len(starts) {
			end = starts[bi+1]
		}
		g.Blocks = append(g.Blocks, Block{
			StartAddress: ops[start].Address,
			Ops:          ops[start:end],
		})
		blockOfStart[start] = bi
	}

	blockStartIndex := make(map[uint64]int, len(g.Blocks))
	for bi, b := range g.Blocks {
		blockStartIndex[b.StartAddress] = bi
	}

	addEdge := func(from, to int) {
		g.Blocks[from].Succs = append(g.Blocks[from].Succs, to)
		g.Blocks[to].Preds = append(g.Blocks[to].Preds, from)
	}

	for bi := range g.Blocks {
		ops := g.Blocks[bi].Ops
		last := ops[len(ops)-1]
		fallthroughIdx := bi + 1

		switch last.Opcode {
		case pcode.Branch:
			if target, ok := directTarget(last); ok {
				if dst, found := blockStartIndex[target]; found {
					addEdge(bi, dst)
				}
			}
		case pcode.CBranch:
			if target, ok := directTarget(last); ok {
				if dst, found := blockStartIndex[target]; found {
					addEdge(bi, dst)
				}
			}
			if fallthroughIdx < len(g.Blocks) {
				addEdge(bi, fallthroughIdx)
			}
		case pcode.BranchInd:
			// indirect; no edge until jump-table recovery adds one.
		case pcode.Call, pcode.CallInd:
			// a call returns control to the instruction after it.
			if fallthroughIdx < len(g.Blocks) {
				addEdge(bi, fallthroughIdx)
			}
		case pcode.Return:
			// no successors.
		default:
			if fallthroughIdx < len(g.Blocks) {
				addEdge(bi, fallthroughIdx)
			}
		}
	}

	return g
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
