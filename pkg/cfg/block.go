// Package cfg partitions a lifted op list into basic blocks and the edges
// between them (SPEC_FULL §4.3 / C3), the control-flow counterpart to the
// teacher's flat instruction stream — here a stream of P-code ops instead
// of Z80 instructions, split at control-transfer boundaries instead of
// analyzed in place.
package cfg

import "github.com/corelift/pcode/pkg/pcode"

// Block is a maximal straight-line run of ops: no op inside it other than
// the last is a control-flow transfer, and every predecessor/successor is
// recorded by block index into the owning Graph's Blocks slice.
type Block struct {
	StartAddress uint64
	Ops          []pcode.Op
	Preds        []int
	Succs        []int
}

// Graph is the set of blocks for one function, indexed by discovery
// order with block 0 always the entry block.
type Graph struct {
	Blocks []Block
}

// BlockAt returns the index of the block starting at addr, or -1.
func (g *Graph) BlockAt(addr uint64) int {
	for i := range g.Blocks {
		if g.Blocks[i].StartAddress == addr {
			return i
		}
	}
	return -1
}
