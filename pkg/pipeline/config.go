// Package pipeline wires the core's components — lift, cfg, domtree,
// ssa, nzmask, rewrite, defuse, jumptable, typeinfer, structural,
// printer, cache — into the single synchronous analysis SPEC_FULL §5
// describes, plus the multi-function batch runner of §4.14.
package pipeline

import "github.com/corelift/pcode/pkg/cache"

// IterationLimits holds the fixed-point pass caps carried in Config.
// DefaultConfig's values equal nzmask.MaxPasses and rewrite.MaxPasses.
// The pipeline does not read these fields: NZ-mask analysis and the
// rewrite engine always run with their package constants, so changing
// them does not change the caps.
type IterationLimits struct {
	NZMask  int
	Rewrite int
}

// Config is the plain, once-constructed configuration struct SPEC_FULL
// §6 specifies: a hash strategy, a cache directory, iteration caps, and
// a worker count for the batch runner.
type Config struct {
	HashStrategy  cache.Strategy
	CacheDir      string
	MaxIterations IterationLimits
	MaxWorkers    int
	CacheMemSize  int
}

// DefaultConfig returns the documented defaults: sampling fingerprints,
// a cache directory under the working directory, the spec's 5/10
// iteration caps, and one worker per CPU (resolved to runtime.NumCPU()
// by Runner when MaxWorkers <= 0, not here, so a zero-value Config
// outside of tests still means "auto").
func DefaultConfig() Config {
	return Config{
		HashStrategy:  cache.Sampling,
		CacheDir:      "pcodec-cache",
		MaxIterations: IterationLimits{NZMask: 5, Rewrite: 10},
		MaxWorkers:    0,
		CacheMemSize:  128,
	}
}
