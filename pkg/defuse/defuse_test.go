package defuse

import (
	"testing"

	"github.com/corelift/pcode/pkg/pcode"
)

func TestBuildRecordsDefsAndUses(t *testing.T) {
	a := pcode.Reg(0, 8)
	b := pcode.Unique(1, 8)
	ops := []pcode.Op{
		pcode.New1(pcode.Copy, &b, a, 0x1000),
	}
	c := Build(ops)
	if c.Def[b] != &ops[0] {
		t.Fatalf("expected b to be defined by ops[0]")
	}
	uses := c.Use[a]
	if len(uses) != 1 || uses[0] != &ops[0] {
		t.Fatalf("expected a to be used once by ops[0], got %v", uses)
	}
}

func TestAnalyzeCountsUnusedAndSingleUse(t *testing.T) {
	a := pcode.Reg(0, 8)
	unused := pcode.Unique(1, 8)
	used := pcode.Unique(2, 8)
	consumer := pcode.Unique(3, 8)
	ops := []pcode.Op{
		pcode.New1(pcode.Copy, &unused, a, 0x1000),
		pcode.New1(pcode.Copy, &used, a, 0x1004),
		pcode.New1(pcode.Copy, &consumer, used, 0x1008),
	}
	c := Build(ops)
	s := Analyze(ops, c)
	if s.TotalOps != 3 {
		t.Fatalf("expected 3 ops, got %d", s.TotalOps)
	}
	if s.UnusedDefinitions != 2 {
		t.Fatalf("expected 2 unused definitions (unused, consumer), got %d", s.UnusedDefinitions)
	}
	if s.SingleUseDefinitions != 1 {
		t.Fatalf("expected 1 single-use definition (used), got %d", s.SingleUseDefinitions)
	}
}

// TestTraceCopySourceChasesThroughCopies mirrors chained copies
// x := y; z := x; w := z, and expects tracing w's source to land on y.
func TestTraceCopySourceChasesThroughCopies(t *testing.T) {
	y := pcode.Reg(0, 8)
	x := pcode.Unique(1, 8)
	z := pcode.Unique(2, 8)
	w := pcode.Unique(3, 8)
	ops := []pcode.Op{
		pcode.New1(pcode.Copy, &x, y, 0x1000),
		pcode.New1(pcode.Copy, &z, x, 0x1004),
		pcode.New1(pcode.Copy, &w, z, 0x1008),
	}
	c := Build(ops)
	got := TraceCopySource(w, c)
	if !got.Equal(y) {
		t.Fatalf("expected trace to reach register y, got %+v", got)
	}
}

func TestTraceCopySourceStopsAtConstant(t *testing.T) {
	x := pcode.Unique(1, 8)
	ops := []pcode.Op{
		pcode.New1(pcode.Copy, &x, pcode.Const(42, 8), 0x1000),
	}
	c := Build(ops)
	got := TraceCopySource(x, c)
	if !got.IsConst() || got.ConstValue() != 42 {
		t.Fatalf("expected trace to reach constant 42, got %+v", got)
	}
}

// TestTraceCopySourceNeverChasesThroughPhi covers the Open Question a
// resolution: a multi-equal definition is a merge point and must never
// be chased through, even though it looks superficially like a copy.
func TestTraceCopySourceNeverChasesThroughPhi(t *testing.T) {
	p0 := pcode.Reg(0, 8)
	p1 := pcode.Reg(1, 8)
	merged := pcode.Unique(1, 8)
	consumer := pcode.Unique(2, 8)
	ops := []pcode.Op{
		pcode.NewN(pcode.MultiEqual, &merged, []pcode.Varnode{p0, p1}, 0x1000),
		pcode.New1(pcode.Copy, &consumer, merged, 0x1004),
	}
	c := Build(ops)
	got := TraceCopySource(consumer, c)
	if !got.Equal(merged) {
		t.Fatalf("expected trace to stop at the phi output, got %+v", got)
	}
}

func TestTraceCopySourceDetectsCycle(t *testing.T) {
	a := pcode.Unique(1, 8)
	b := pcode.Unique(2, 8)
	ops := []pcode.Op{
		pcode.New1(pcode.Copy, &a, b, 0x1000),
		pcode.New1(pcode.Copy, &b, a, 0x1004),
	}
	c := Build(ops)
	got := TraceCopySource(a, c)
	if !got.Equal(a) {
		t.Fatalf("expected cycle detection to give up and return the original, got %+v", got)
	}
}

// TestPropagateSubstitutesIntoPhiInputs covers the distinction between
// TraceCopySource refusing to chase through a phi (it is a merge point)
// and Propagate still being free to rewrite a phi op's own inputs in
// place when one of them happens to be a traceable copy.
func TestPropagateSubstitutesIntoPhiInputs(t *testing.T) {
	r := pcode.Reg(0, 8)
	copied := pcode.Unique(1, 8)
	p1 := pcode.Reg(1, 8)
	merged := pcode.Unique(2, 8)
	ops := []pcode.Op{
		pcode.New1(pcode.Copy, &copied, r, 0x1000),
		pcode.NewN(pcode.MultiEqual, &merged, []pcode.Varnode{copied, p1}, 0x1004),
	}
	c := Build(ops)
	n := Propagate(ops, c)
	if n != 1 {
		t.Fatalf("expected 1 substitution, got %d", n)
	}
	if !ops[1].Inputs[0].Equal(r) {
		t.Fatalf("expected phi's first input to be replaced with r, got %+v", ops[1].Inputs[0])
	}
}

func TestPropagateSkipsConstantInputs(t *testing.T) {
	out := pcode.Unique(1, 8)
	ops := []pcode.Op{
		pcode.New1(pcode.Copy, &out, pcode.Const(5, 8), 0x1000),
	}
	c := Build(ops)
	n := Propagate(ops, c)
	if n != 0 {
		t.Fatalf("expected no substitutions for a constant input, got %d", n)
	}
}
