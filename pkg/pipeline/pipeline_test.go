package pipeline

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/corelift/pcode/pkg/cache"
	"github.com/corelift/pcode/pkg/cfg"
	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/defuse"
	"github.com/corelift/pcode/pkg/diag"
	"github.com/corelift/pcode/pkg/domtree"
	"github.com/corelift/pcode/pkg/pcode"
	"github.com/corelift/pcode/pkg/printer"
	"github.com/corelift/pcode/pkg/structural"
)

const regRAX uint16 = 0
const regRBX uint16 = 3

// straightLineJob builds a job for: mov rax, 1; add rax, rbx; ret — no
// branches, a single basic block, covering the straight-line case
// (the function analyzes end to end with no diagnostics).
func straightLineJob() Job {
	d := decode.NewSliceDecoder([]decode.DecodedInstruction{
		{
			Mnemonic: "mov", Address: 0x1000, Length: 7,
			Operands: []decode.Operand{decode.Register(regRAX, 8), decode.Immediate(1, 8)},
		},
		{
			Mnemonic: "add", Address: 0x1007, Length: 3,
			Operands: []decode.Operand{decode.Register(regRAX, 8), decode.Register(regRBX, 8)},
		},
		{Mnemonic: "ret", Address: 0x100A, Length: 1},
	})
	return Job{BaseAddress: 0x1000, MaxInstructions: 0, Decoder: d}
}

// branchingJob builds a job with a conditional branch whose two arms
// each return without rejoining, which the structural analyzer folds to
// an if-then-else of goto leaves.
func branchingJob() Job {
	d := decode.NewSliceDecoder([]decode.DecodedInstruction{
		{
			Mnemonic: "cmp", Address: 0x2000, Length: 3,
			Operands: []decode.Operand{decode.Register(regRAX, 8), decode.Immediate(0, 8)},
		},
		{
			Mnemonic: "je", Address: 0x2003, Length: 2,
			Operands: []decode.Operand{decode.Immediate(0x2010, 8)},
		},
		{
			Mnemonic: "mov", Address: 0x2005, Length: 7,
			Operands: []decode.Operand{decode.Register(regRBX, 8), decode.Immediate(2, 8)},
		},
		{Mnemonic: "ret", Address: 0x200C, Length: 1},
		{
			Mnemonic: "mov", Address: 0x2010, Length: 7,
			Operands: []decode.Operand{decode.Register(regRBX, 8), decode.Immediate(3, 8)},
		},
		{Mnemonic: "ret", Address: 0x2017, Length: 1},
	})
	return Job{BaseAddress: 0x2000, MaxInstructions: 0, Decoder: d}
}

func TestAnalyzeStraightLineFunctionProducesNoDiagnostics(t *testing.T) {
	res, err := Analyze(straightLineJob(), DefaultConfig(), nil, diag.NewLogger(nil), 1000)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.BlockCount != 1 {
		t.Fatalf("expected a single block, got %d", res.BlockCount)
	}
	if res.PCodeCount == 0 {
		t.Fatalf("expected a non-empty op list")
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", res.Diagnostics)
	}
	if res.ControlStructure == "" {
		t.Fatalf("expected non-empty rendered pseudocode")
	}
}

func TestAnalyzeBranchingFunctionFoldsToIfThenElse(t *testing.T) {
	res, err := Analyze(branchingJob(), DefaultConfig(), nil, diag.NewLogger(nil), 1000)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.BlockCount < 3 {
		t.Fatalf("expected at least 3 blocks for a branch with two arms, got %d", res.BlockCount)
	}
	if res.ControlStructure == "" {
		t.Fatalf("expected non-empty rendered pseudocode")
	}
	if !strings.Contains(res.ControlStructure, "} else {") {
		t.Fatalf("expected an if-then-else in the rendered pseudocode, got:\n%s", res.ControlStructure)
	}
}

func TestAnalyzeCacheHitReportsSameCachedAt(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.New(dir, 4)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}

	job := straightLineJob()
	first, err := Analyze(job, DefaultConfig(), c, diag.NewLogger(nil), 1000)
	if err != nil {
		t.Fatalf("Analyze (miss): %v", err)
	}

	// A fresh decoder: the first one has already been drained.
	job2 := straightLineJob()
	second, err := Analyze(job2, DefaultConfig(), c, diag.NewLogger(nil), 2000)
	if err != nil {
		t.Fatalf("Analyze (hit): %v", err)
	}

	if first.ControlStructure != second.ControlStructure {
		t.Fatalf("expected a cache hit to reproduce the same rendered structure")
	}

	fp, err := fingerprintJob(job2, DefaultConfig().HashStrategy)
	if err != nil {
		t.Fatalf("fingerprintJob: %v", err)
	}
	entry, ok := c.Get(fp, cache.Key{FunctionAddress: job2.BaseAddress, InstructionBudget: job2.MaxInstructions})
	if !ok || entry.CachedAt != 1000 {
		t.Fatalf("expected the cached entry to keep the first run's CachedAt 1000, got %d (ok=%v)", entry.CachedAt, ok)
	}
}

func TestRunnerResultsAreIndependentOfWorkerCount(t *testing.T) {
	jobs := []Job{straightLineJob(), branchingJob(), straightLineJob()}

	r1 := NewRunner(DefaultConfig(), nil, diag.NewLogger(nil))
	r1.NumWorkers = 1
	results1, _ := r1.Run(jobs, 500)

	jobs2 := []Job{straightLineJob(), branchingJob(), straightLineJob()}
	r4 := NewRunner(DefaultConfig(), nil, diag.NewLogger(nil))
	r4.NumWorkers = 4
	results4, _ := r4.Run(jobs2, 500)

	if len(results1) != len(results4) {
		t.Fatalf("expected equal result counts, got %d and %d", len(results1), len(results4))
	}
	for i := range results1 {
		if results1[i].ControlStructure != results4[i].ControlStructure {
			t.Fatalf("result %d differs between worker counts: %q vs %q", i, results1[i].ControlStructure, results4[i].ControlStructure)
		}
		if results1[i].BlockCount != results4[i].BlockCount {
			t.Fatalf("result %d block count differs between worker counts", i)
		}
	}
}

// switchOps builds the canonical recovered-jump-table shape (the same
// pattern pkg/jumptable's own tests construct directly, since the
// lifter's current memory-operand addressing never emits the ptr-add
// opcode the matcher looks for) followed by four one-op destination
// blocks, so cfg.Build gives the branch-ind block zero successors until
// resolveJumpTables wires them in.
func switchOps(index pcode.Varnode) []pcode.Op {
	mul := pcode.Unique(1, 8)
	addr := pcode.Unique(2, 8)
	target := pcode.Unique(3, 8)
	return []pcode.Op{
		pcode.New2(pcode.IntMult, &mul, index, pcode.Const(4, 8), 0x1000),
		pcode.New2(pcode.PtrAdd, &addr, pcode.Const(0x402000, 8), mul, 0x1004),
		pcode.New1(pcode.Load, &target, addr, 0x1008),
		pcode.New1(pcode.BranchInd, nil, target, 0x100C),
		pcode.New0(pcode.Return, 0x2000),
		pcode.New0(pcode.Return, 0x2010),
		pcode.New0(pcode.Return, 0x2020),
		pcode.New0(pcode.Return, 0x2030),
	}
}

func switchImage() decode.Image {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint32(data[0:4], 0x2000)
	binary.LittleEndian.PutUint32(data[4:8], 0x2010)
	binary.LittleEndian.PutUint32(data[8:12], 0x2020)
	binary.LittleEndian.PutUint32(data[12:16], 0x2030)
	return decode.Image{Sections: []decode.Section{
		{Name: ".rdata", VirtualAddr: 0x402000, VirtualSize: 16, RawSize: 16, Data: data},
	}}
}

// TestResolveJumpTablesWiresSwitchIntoRenderedOutput covers scenario S7
// end to end through the pipeline's own edge-wiring and rendering
// stages: a recovered table's destinations must turn into real CFG
// successor edges out of the branch-ind block (not a silent no-op), so
// that structural folding sees >=3 successors and the printer renders a
// switch. resolveJumpTables and branchIndBlockAt are exercised directly
// (this file is package pipeline) since Job/Analyze only drives
// instructions through pkg/lift, whose current addressing mode never
// reaches the ptr-add shape jump-table recovery matches on.
func TestResolveJumpTablesWiresSwitchIntoRenderedOutput(t *testing.T) {
	idx := pcode.Reg(0, 8)
	ops := switchOps(idx)

	g := cfg.Build(ops)
	branchBlock := g.BlockAt(0x1000)
	if branchBlock < 0 {
		t.Fatalf("expected a block starting at 0x1000")
	}
	if len(g.Blocks[branchBlock].Succs) != 0 {
		t.Fatalf("expected the branch-ind block to start with no successors, got %v", g.Blocks[branchBlock].Succs)
	}

	chain := defuse.Build(ops)
	resolveJumpTables(g, switchImage(), ops, chain)

	if got := len(g.Blocks[branchBlock].Succs); got != 4 {
		t.Fatalf("expected resolveJumpTables to wire 4 successor edges, got %d", got)
	}

	t_ := domtree.Build(g)
	loops := structural.DetectLoops(g, t_)
	root := structural.FoldWithLoops(g, loops)
	rendered := printer.Print(g, root)

	if !strings.Contains(rendered, "switch") {
		t.Fatalf("expected rendered output to contain a switch, got:\n%s", rendered)
	}
}
