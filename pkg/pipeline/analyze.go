package pipeline

import (
	"github.com/corelift/pcode/pkg/cache"
	"github.com/corelift/pcode/pkg/cfg"
	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/defuse"
	"github.com/corelift/pcode/pkg/diag"
	"github.com/corelift/pcode/pkg/domtree"
	"github.com/corelift/pcode/pkg/jumptable"
	"github.com/corelift/pcode/pkg/lift"
	"github.com/corelift/pcode/pkg/pcode"
	"github.com/corelift/pcode/pkg/printer"
	"github.com/corelift/pcode/pkg/rewrite"
	"github.com/corelift/pcode/pkg/ssa"
	"github.com/corelift/pcode/pkg/structural"
	"github.com/corelift/pcode/pkg/typeinfer"
)

// AnalysisResult is the pipeline's single output shape (SPEC_FULL §6):
// the four component counts a caller uses to gauge function complexity,
// the rendered pseudocode, and whatever non-fatal diagnostics the run
// produced.
type AnalysisResult struct {
	PCodeCount       int
	BlockCount       int
	TypeCount        int
	LoopCount        int
	ControlStructure string
	// Diagnostics is the rendered (Kind: message) form of whatever
	// Diagnostic values the run produced — the same strings a cached
	// entry persists, so a cache hit reports the same diagnostics a
	// fresh run would rather than silently dropping them.
	Diagnostics []string
}

// Job is one unit of batch work: the bytes backing a function (used for
// cache fingerprinting), the address they start at, the instruction
// budget, and the decoder that supplies instructions for it. Image is
// optional — nil unless the function contains an indirect branch that
// jump-table recovery needs real section bytes to resolve.
type Job struct {
	CodeBytes       []byte
	BaseAddress     uint64
	MaxInstructions int
	Decoder         decode.Decoder
	Image           *decode.Image
	SourcePath      string // canonical absolute path, for metadata fingerprinting
}

// Analyze runs the full synchronous pipeline — lift, CFG, dominators,
// SSA, rewrite, def-use/copy-propagation, jump-table recovery, type
// inference, structural folding, pseudocode printing — against one
// job, consulting c (if non-nil) before recomputing and storing the
// result afterward. nowUnix stamps a freshly computed entry's CachedAt;
// a cache hit returns the stored entry untouched (SPEC_FULL §8 S6).
func Analyze(job Job, cfg_ Config, c *cache.Cache, logger diag.Logger, nowUnix int64) (AnalysisResult, error) {
	compute := func() (cache.Entry, error) { return runPipeline(job, cfg_, logger) }

	if c == nil {
		entry, err := compute()
		if err != nil {
			return AnalysisResult{}, err
		}
		entry.CachedAt = nowUnix
		return entryToResult(entry), nil
	}

	fp, err := fingerprintJob(job, cfg_.HashStrategy)
	if err != nil {
		// fingerprinting failed (e.g. no SourcePath and empty code
		// bytes): fall back to an uncached run rather than failing the
		// whole analysis.
		entry, err := compute()
		if err != nil {
			return AnalysisResult{}, err
		}
		entry.CachedAt = nowUnix
		return entryToResult(entry), nil
	}

	key := cache.Key{FunctionAddress: job.BaseAddress, InstructionBudget: job.MaxInstructions}
	entry, err := c.GetOrCompute(fp, key, nowUnix, compute)
	if err != nil {
		return AnalysisResult{}, err
	}
	return entryToResult(entry), nil
}

func fingerprintJob(job Job, strategy cache.Strategy) (uint64, error) {
	if job.SourcePath != "" {
		return cache.FingerprintFile(job.SourcePath, strategy)
	}
	return cache.Compute(strategy, int64(len(job.CodeBytes)), 0, "", job.CodeBytes), nil
}

func entryToResult(e cache.Entry) AnalysisResult {
	return AnalysisResult{
		PCodeCount:       e.PCodeCount,
		BlockCount:       e.BlockCount,
		TypeCount:        e.TypeCount,
		LoopCount:        e.LoopCount,
		ControlStructure: e.ControlStructure,
		Diagnostics:      e.Diagnostics,
	}
}

// runPipeline performs one uncached analysis end to end, in the fixed
// order SPEC_FULL §5 mandates: lift, CFG, dominators/frontier, SSA,
// bounded NZ-mask + rewrite iteration, def-use and copy propagation,
// jump-table recovery, type inference, structural folding, printing.
func runPipeline(job Job, cfg_ Config, logger diag.Logger) (cache.Entry, error) {
	ops, diags := lift.Lift(job.Decoder, job.MaxInstructions)
	for _, d := range diags {
		d.FunctionAddress = job.BaseAddress
		logger.Emit(d)
	}

	g := cfg.Build(ops)
	t := domtree.Build(g)
	df := domtree.Frontier(g, t)
	ssa.Construct(g, t, df)

	flat := flatten(g)
	rewrite.NewEngine().Run(flat)

	chain := defuse.Build(flat)
	defuse.Propagate(flat, chain)

	if job.Image != nil {
		resolveJumpTables(g, *job.Image, flat, chain)
	}

	cs := typeinfer.Collect(flat)
	types := typeinfer.Resolve(cs)

	loops := structural.DetectLoops(g, t)
	root := structural.FoldWithLoops(g, loops)

	rendered := printer.New(types).Print(g, root)

	return cache.Entry{
		PCodeCount:       len(flat),
		BlockCount:       len(g.Blocks),
		TypeCount:        len(types),
		LoopCount:        len(loops),
		ControlStructure: rendered,
		Diagnostics:      diagnosticStrings(diags),
	}, nil
}

// flatten concatenates every block's ops back into one address-ordered
// slice. Rewrite, def-use, and jump-table recovery all operate on the
// flat op list rather than per-block, exactly as they do before cfg.Build
// ever splits it; SSA mutates blocks in place, so this must run after
// ssa.Construct to see the renamed/phi'd ops.
func flatten(g *cfg.Graph) []pcode.Op {
	total := 0
	for i := range g.Blocks {
		total += len(g.Blocks[i].Ops)
	}
	out := make([]pcode.Op, 0, total)
	for i := range g.Blocks {
		out = append(out, g.Blocks[i].Ops...)
	}
	return out
}

// resolveJumpTables recovers indirect-branch tables from flat and reads
// their real destinations out of img, wiring each recovered destination
// as a CFG successor edge from the branch-ind block so structural
// folding sees the switch's arms as ordinary reachable blocks.
func resolveJumpTables(g *cfg.Graph, img decode.Image, flat []pcode.Op, chain *defuse.Chain) {
	tables := jumptable.Recover(flat, chain)
	for _, tbl := range tables {
		from := branchIndBlockAt(g, tbl.BranchAddress)
		if from < 0 {
			continue
		}
		dests := jumptable.ReadDestinations(img, tbl)
		for _, addr := range dests {
			to := g.BlockAt(addr)
			if to < 0 {
				continue
			}
			addSuccessorOnce(g, from, to)
		}
	}
}

// branchIndBlockAt finds the block whose terminating op is the
// branch-ind at branchAddr — the block a recovered table's edges
// originate from. Matching on the op's own machine address (rather than
// any of its Varnode operands) is the only identity a table and its
// originating block both carry, since the table's Index is the selector
// register several def-use hops upstream of the branch-ind's own target
// operand, not the target itself.
func branchIndBlockAt(g *cfg.Graph, branchAddr uint64) int {
	for i := range g.Blocks {
		ops := g.Blocks[i].Ops
		if len(ops) == 0 {
			continue
		}
		last := ops[len(ops)-1]
		if last.Opcode == pcode.BranchInd && last.Address == branchAddr {
			return i
		}
	}
	return -1
}

func addSuccessorOnce(g *cfg.Graph, from, to int) {
	for _, s := range g.Blocks[from].Succs {
		if s == to {
			return
		}
	}
	g.Blocks[from].Succs = append(g.Blocks[from].Succs, to)
	g.Blocks[to].Preds = append(g.Blocks[to].Preds, from)
}

func diagnosticStrings(diags []diag.Diagnostic) []string {
	if len(diags) == 0 {
		return nil
	}
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.String()
	}
	return out
}
