package cfg

import (
	"testing"

	"github.com/corelift/pcode/pkg/pcode"
)

// TestBuildBranchProducesTwoBlocks covers scenario S3: cmp; je +5; jmp +16 produces at
// least two blocks joined by a conditional branch.
func TestBuildBranchProducesTwoBlocks(t *testing.T) {
	zf := pcode.Unique(pcode.FlagZF, 1)
	cond := pcode.Unique(pcode.FlagZF, 1)
	ops := []pcode.Op{
		pcode.New2(pcode.IntSub, nil, pcode.Reg(0, 8), pcode.Reg(1, 8), 0x3000),
		pcode.New2(pcode.IntEqual, &zf, pcode.Reg(0, 8), pcode.Const(0, 8), 0x3000),
		pcode.New2(pcode.CBranch, nil, pcode.RAM(0x3010, 8), cond, 0x3006),
		pcode.New1(pcode.Branch, nil, pcode.RAM(0x3020, 8), 0x300b),
		pcode.New0(pcode.Return, 0x3010),
	}
	g := Build(ops)

	if len(g.Blocks) < 2 {
		t.Fatalf("expected at least 2 blocks, got %d", len(g.Blocks))
	}
	entry := g.Blocks[0]
	if len(entry.Succs) != 2 {
		t.Fatalf("expected conditional-branch block to have 2 successors, got %d", len(entry.Succs))
	}
	target := g.BlockAt(0x3010)
	if target < 0 {
		t.Fatalf("expected a block starting at the branch target 0x3010")
	}
	found := false
	for _, s := range entry.Succs {
		if s == target {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected entry block to branch to the 0x3010 block")
	}
}

func TestBuildReturnHasNoSuccessors(t *testing.T) {
	ops := []pcode.Op{
		pcode.New0(pcode.Return, 0x4000),
	}
	g := Build(ops)
	if len(g.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(g.Blocks))
	}
	if len(g.Blocks[0].Succs) != 0 {
		t.Fatalf("expected no successors after return, got %v", g.Blocks[0].Succs)
	}
}

func TestBuildFallthroughBetweenStraightLineBlocks(t *testing.T) {
	ops := []pcode.Op{
		pcode.New2(pcode.IntAdd, nil, pcode.Reg(0, 8), pcode.Reg(1, 8), 0x5000),
		pcode.New0(pcode.Return, 0x5003),
	}
	g := Build(ops)
	if len(g.Blocks) != 1 {
		t.Fatalf("expected ops sharing no control-flow boundary to stay in one block, got %d", len(g.Blocks))
	}
}
