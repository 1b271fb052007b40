package jumptable

import (
	"encoding/binary"
	"testing"

	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/defuse"
	"github.com/corelift/pcode/pkg/pcode"
)

// buildSwitchOps constructs the canonical pattern:
//
//	addr   = ptr-add(const table, mul)
//	mul    = int-mult(index, const entrySize)
//	target = load(addr)
//	branch-ind(target)
func buildSwitchOps(table uint64, entrySize uint64, index pcode.Varnode) []pcode.Op {
	mul := pcode.Unique(1, 8)
	addr := pcode.Unique(2, 8)
	target := pcode.Unique(3, 8)
	return []pcode.Op{
		pcode.New2(pcode.IntMult, &mul, index, pcode.Const(entrySize, 8), 0x1000),
		pcode.New2(pcode.PtrAdd, &addr, pcode.Const(table, 8), mul, 0x1004),
		pcode.New1(pcode.Load, &target, addr, 0x1008),
		pcode.New1(pcode.BranchInd, nil, target, 0x100c),
	}
}

// TestRecoverMatchesCanonicalPattern covers scenario S7: a dense switch
// lowered to base + index*size table load resolves to a Table.
func TestRecoverMatchesCanonicalPattern(t *testing.T) {
	idx := pcode.Reg(0, 8)
	ops := buildSwitchOps(0x402000, 4, idx)
	c := defuse.Build(ops)

	tables := Recover(ops, c)
	if len(tables) != 1 {
		t.Fatalf("expected 1 recovered table, got %d", len(tables))
	}
	tbl := tables[0]
	if tbl.BaseAddress != 0x402000 {
		t.Fatalf("expected base 0x402000, got 0x%x", tbl.BaseAddress)
	}
	if tbl.EntrySize != 4 {
		t.Fatalf("expected entry size 4, got %d", tbl.EntrySize)
	}
	if !tbl.Index.Equal(idx) {
		t.Fatalf("expected index Varnode to be the selector register, got %+v", tbl.Index)
	}
}

func TestRecoverIgnoresNonMatchingBranchInd(t *testing.T) {
	target := pcode.Reg(0, 8)
	ops := []pcode.Op{
		pcode.New1(pcode.BranchInd, nil, target, 0x1000),
	}
	c := defuse.Build(ops)
	tables := Recover(ops, c)
	if len(tables) != 0 {
		t.Fatalf("expected no recovered tables for an unrelated branch-ind, got %d", len(tables))
	}
}

func TestReadDestinationsReadsLittleEndianWords(t *testing.T) {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint32(data[0:4], 0x401000)
	binary.LittleEndian.PutUint32(data[4:8], 0x401010)
	binary.LittleEndian.PutUint32(data[8:12], 0x401020)
	binary.LittleEndian.PutUint32(data[12:16], 0x401030)

	img := decode.Image{Sections: []decode.Section{
		{Name: ".rdata", VirtualAddr: 0x402000, VirtualSize: 16, RawSize: 16, Data: data},
	}}
	tbl := Table{BaseAddress: 0x402000, NumEntries: 4, EntrySize: 4}
	dests := ReadDestinations(img, tbl)
	want := []uint64{0x401000, 0x401010, 0x401020, 0x401030}
	if len(dests) != len(want) {
		t.Fatalf("expected %d destinations, got %d", len(want), len(dests))
	}
	for i, w := range want {
		if dests[i] != w {
			t.Fatalf("destination %d: expected 0x%x, got 0x%x", i, w, dests[i])
		}
	}
}

func TestReadDestinationsStopsAtSectionBoundary(t *testing.T) {
	data := make([]byte, 8) // only room for 2 four-byte entries
	img := decode.Image{Sections: []decode.Section{
		{Name: ".rdata", VirtualAddr: 0x402000, VirtualSize: 8, RawSize: 8, Data: data},
	}}
	tbl := Table{BaseAddress: 0x402000, NumEntries: 10, EntrySize: 4}
	dests := ReadDestinations(img, tbl)
	if len(dests) != 2 {
		t.Fatalf("expected reading to stop at the section boundary with 2 entries, got %d", len(dests))
	}
}

func TestBuildSwitchLabelsCasesByIndex(t *testing.T) {
	sw := BuildSwitch([]uint64{0x1000, 0x1010, 0x1020})
	if len(sw.Cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(sw.Cases))
	}
	for i, c := range sw.Cases {
		if c.Value != i {
			t.Fatalf("case %d: expected Value %d, got %d", i, i, c.Value)
		}
	}
	if sw.HasDefault {
		t.Fatalf("expected no default slot by default")
	}
	sw = sw.WithDefault(0x2000)
	if !sw.HasDefault || sw.Default != 0x2000 {
		t.Fatalf("expected WithDefault to set the default slot")
	}
}
