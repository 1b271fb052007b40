// Package jumptable recognizes the indirect-branch pattern a compiler
// emits for a dense switch statement and recovers its case table
// (SPEC_FULL §4.9 / C9).
package jumptable

import (
	"github.com/corelift/pcode/pkg/defuse"
	"github.com/corelift/pcode/pkg/pcode"
)

// Table describes one recovered jump table: its base address in the
// image, an entry count (exact when derivable, a conservative estimate
// otherwise), the width of each entry, and the Varnode carrying the
// selector value that indexes into it. BranchAddress is the machine
// address of the branch-ind op the table was recovered from — distinct
// from Index (the selector register several def-use hops upstream) and
// needed by callers that must find that op's own block again, e.g. to
// wire recovered destinations as CFG edges out of it.
type Table struct {
	BaseAddress   uint64
	NumEntries    int
	EntrySize     uint8
	Index         pcode.Varnode
	Estimated     bool
	BranchAddress uint64
}

// defaultEstimatedEntries is used when the table's entry count cannot be
// bounded from the op sequence alone (no statically visible comparison
// against the index caps it). It is deliberately small: ReadDestinations
// reads at most this many entries and stops early at the end of the
// section's data; relocations are not consulted.
const defaultEstimatedEntries = 16

// Recover scans ops for branch-ind instructions matching the pattern
// branch-ind(load(ptr-add(const base, int-mult(index, const
// entry-size)))) and returns one Table per match. c must be the def-use
// Chain built over ops so the pattern can walk backward from the branch
// target through its defining ops.
func Recover(ops []pcode.Op, c *defuse.Chain) []Table {
	var tables []Table
	for i := range ops {
		op := &ops[i]
		if op.Opcode != pcode.BranchInd {
			continue
		}
		if t, ok := matchPattern(op.Inputs[0], c); ok {
			t.BranchAddress = op.Address
			tables = append(tables, t)
		}
	}
	return tables
}

// matchPattern walks target's defining chain looking for
// load(ptr-add(base-const, int-mult(index, entry-size-const))).
func matchPattern(target pcode.Varnode, c *defuse.Chain) (Table, bool) {
	loadOp, ok := c.Def[target]
	if !ok || loadOp.Opcode != pcode.Load || len(loadOp.Inputs) != 1 {
		return Table{}, false
	}

	addrOp, ok := c.Def[loadOp.Inputs[0]]
	if !ok || addrOp.Opcode != pcode.PtrAdd || len(addrOp.Inputs) != 2 {
		return Table{}, false
	}
	base, offset := addrOp.Inputs[0], addrOp.Inputs[1]
	if !base.IsConst() {
		base, offset = offset, base
	}
	if !base.IsConst() {
		return Table{}, false
	}

	mulOp, ok := c.Def[offset]
	if !ok || mulOp.Opcode != pcode.IntMult || len(mulOp.Inputs) != 2 {
		return Table{}, false
	}
	index, entrySize := mulOp.Inputs[0], mulOp.Inputs[1]
	if !entrySize.IsConst() {
		index, entrySize = entrySize, index
	}
	if !entrySize.IsConst() {
		return Table{}, false
	}

	return Table{
		BaseAddress: base.ConstValue(),
		NumEntries:  defaultEstimatedEntries,
		EntrySize:   uint8(entrySize.ConstValue()),
		Index:       index,
		Estimated:   true,
	}, true
}
