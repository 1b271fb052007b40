// Package defuse builds def-use chains over an SSA op list and traces
// copy sources for propagation (SPEC_FULL §4.8 / C8), generalizing the
// teacher's fixed-register opReads/opWrites helpers (pkg/search/pruner.go)
// from an 8-register bitmask to an unbounded Varnode space backed by maps.
package defuse

import "github.com/corelift/pcode/pkg/pcode"

// Chain is the def-use graph for one op list: each Varnode maps to the
// single op that defines it (SSA: exactly one, or none for an input
// value) and to every op that reads it.
type Chain struct {
	Def map[pcode.Varnode]*pcode.Op
	Use map[pcode.Varnode][]*pcode.Op
}

// Build performs a single linear pass over ops (SPEC_FULL §4.8): for
// each op, record output→op in Def and append the op to each non-const
// input's Use list. ops must already be in SSA form — Build assumes
// exactly one definition per non-constant, non-input Varnode.
func Build(ops []pcode.Op) *Chain {
	c := &Chain{Def: map[pcode.Varnode]*pcode.Op{}, Use: map[pcode.Varnode][]*pcode.Op{}}
	for i := range ops {
		op := &ops[i]
		if out, ok := op.OutVar(); ok {
			c.Def[out] = op
		}
		for _, in := range op.Inputs {
			if in.IsConst() {
				continue
			}
			c.Use[in] = append(c.Use[in], op)
		}
	}
	return c
}

// Stats summarizes a Chain: total ops/defs/uses plus the unused- and
// single-use-definition counts SPEC_FULL §4.8 calls for.
type Stats struct {
	TotalOps             int
	TotalDefinitions     int
	TotalUses            int
	UnusedDefinitions    int
	SingleUseDefinitions int
}

// Analyze computes Stats for ops given its Chain.
func Analyze(ops []pcode.Op, c *Chain) Stats {
	s := Stats{TotalOps: len(ops), TotalDefinitions: len(c.Def)}
	for v := range c.Def {
		uses := len(c.Use[v])
		s.TotalUses += uses
		switch uses {
		case 0:
			s.UnusedDefinitions++
		case 1:
			s.SingleUseDefinitions++
		}
	}
	return s
}
