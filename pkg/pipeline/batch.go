package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corelift/pcode/pkg/cache"
	"github.com/corelift/pcode/pkg/diag"
)

// Runner owns a fixed-size pool of goroutines analyzing independent
// Jobs, the multi-function generalization of §5's "independent
// pipelines in parallel threads" guarantee (SPEC_FULL §4.14 / C14),
// grounded directly on the teacher's WorkerPool shape: a worker count,
// atomic progress counters, and an optional ticker-driven reporter.
type Runner struct {
	NumWorkers int
	Verbose    bool
	Config     Config
	Cache      *cache.Cache
	Logger     diag.Logger

	completed atomic.Int64
	diagCount atomic.Int64
}

// NewRunner builds a Runner. numWorkers <= 0 resolves to
// runtime.NumCPU(), the same fallback the teacher's NewWorkerPool uses.
func NewRunner(cfg Config, c *cache.Cache, logger diag.Logger) *Runner {
	n := cfg.MaxWorkers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Runner{NumWorkers: n, Config: cfg, Cache: c, Logger: logger}
}

// Stats returns the running totals: jobs completed and diagnostics
// emitted so far.
func (r *Runner) Stats() (completed, diagnostics int64) {
	return r.completed.Load(), r.diagCount.Load()
}

// Run analyzes every job, at most r.NumWorkers concurrently, each
// against its own pipeline instance — no mutable state is shared across
// workers beyond the Cache and Logger, which are themselves safe for
// concurrent use (SPEC_FULL §5's "shares nothing mutable" guarantee).
// nowUnix stamps every freshly computed entry. Results are returned in
// the same order as jobs; a job that errors contributes its zero-value
// AnalysisResult and a synthesized diagnostic rather than aborting the
// batch (testable property 13: the result multiset is the same
// regardless of NumWorkers, since workers never interact).
func (r *Runner) Run(jobs []Job, nowUnix int64) ([]AnalysisResult, []diag.Diagnostic) {
	results := make([]AnalysisResult, len(jobs))
	var diagsMu sync.Mutex
	var allDiags []diag.Diagnostic

	type indexed struct {
		idx int
		job Job
	}
	work := make(chan indexed, len(jobs))
	for i, j := range jobs {
		work <- indexed{idx: i, job: j}
	}
	close(work)

	done := make(chan struct{})
	if r.Verbose {
		go r.reportProgress(len(jobs), done)
	}

	var wg sync.WaitGroup
	numWorkers := r.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				res, err := Analyze(item.job, r.Config, r.Cache, r.Logger, nowUnix)
				if err != nil {
					d := diag.Diagnostic{
						Kind:            diag.IOFailure,
						Message:         err.Error(),
						FunctionAddress: item.job.BaseAddress,
					}
					diagsMu.Lock()
					allDiags = append(allDiags, d)
					diagsMu.Unlock()
					r.diagCount.Add(1)
				}
				results[item.idx] = res
				r.diagCount.Add(int64(len(res.Diagnostics)))
				r.completed.Add(1)
			}
		}()
	}
	wg.Wait()
	close(done)

	return results, allDiags
}

// reportProgress prints a completion line every 10 seconds, the same
// cadence idiom as the teacher's search.WorkerPool reporter, generalized
// from "checks/found" to "jobs completed" — purely informational, never
// required for correctness and never routed through the Logger (a
// progress line is not a Diagnostic and has no severity to map to).
func (r *Runner) reportProgress(total int, done <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	start := time.Now()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			comp := r.completed.Load()
			fmt.Printf("  [%s] %d/%d functions analyzed\n", time.Since(start).Round(time.Second), comp, total)
		}
	}
}
