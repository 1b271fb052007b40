// Package rewrite applies the declarative peephole rule set from
// SPEC_FULL §4.7 / C7 to a lifted (optionally SSA'd) op list, iterating
// to a fixed point or a hard pass cap. The rule-driven architecture and
// its per-rule application counter mirror the teacher's rule-scoring
// pipeline (pkg/result.Table), generalized from "bytes/cycles saved per
// candidate" to "times applied per rule name".
package rewrite

import (
	"sort"
	"sync"

	"github.com/corelift/pcode/pkg/nzmask"
	"github.com/corelift/pcode/pkg/pcode"
)

// MaxPasses bounds the rewrite driver's iteration (SPEC_FULL §4.7:
// "a hard iteration cap (e.g., 10)").
const MaxPasses = 10

// Rule is one declarative rewrite: Opcodes restricts which ops it is
// tried against (empty means any opcode), and Apply either mutates *op
// in place and returns true, or leaves it untouched and returns false.
type Rule struct {
	Name    string
	Opcodes []pcode.Opcode
	Apply   func(op *pcode.Op, masks nzmask.Masks) bool
}

func (r Rule) matches(op pcode.Op) bool {
	if len(r.Opcodes) == 0 {
		return true
	}
	for _, oc := range r.Opcodes {
		if oc == op.Opcode {
			return true
		}
	}
	return false
}

// Stats is a mutex-protected per-rule application counter, the same
// accessor shape as the teacher's result.Table: queryable sorted by
// count.
type Stats struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewStats creates an empty Stats table.
func NewStats() *Stats { return &Stats{counts: map[string]int{}} }

func (s *Stats) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[name]++
}

// Count returns how many times rule name has fired.
func (s *Stats) Count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[name]
}

// RuleCount is one row of Stats.Sorted's output.
type RuleCount struct {
	Name  string
	Count int
}

// Sorted returns every rule that has fired at least once, descending by
// application count then ascending by name for ties.
func (s *Stats) Sorted() []RuleCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RuleCount, 0, len(s.counts))
	for name, c := range s.counts {
		if c > 0 {
			out = append(out, RuleCount{Name: name, Count: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Engine drives the rule set to a fixed point over an op list.
type Engine struct {
	rules []Rule
	stats *Stats
}

// NewEngine builds an Engine with the default rule set (rules.go) and a
// fresh Stats table.
func NewEngine() *Engine {
	return &Engine{rules: defaultRules(), stats: NewStats()}
}

// Stats exposes the engine's application-count table.
func (e *Engine) Stats() *Stats { return e.stats }

// Run iterates over ops, applying every matching rule to every op, until
// a full pass produces no change or MaxPasses is reached. NZ-masks are
// recomputed once per pass since a rewrite can change what the mask
// analysis would conclude about a Varnode. Returns the number of passes
// actually run.
func (e *Engine) Run(ops []pcode.Op) int {
	pass := 0
	for ; pass < MaxPasses; pass++ {
		masks := nzmask.Analyze(ops)
		changed := false
		for i := range ops {
			for _, r := range e.rules {
				if !r.matches(ops[i]) {
					continue
				}
				if r.Apply(&ops[i], masks) {
					e.stats.record(r.Name)
					changed = true
				}
			}
		}
		if !changed {
			return pass + 1
		}
	}
	return pass
}
