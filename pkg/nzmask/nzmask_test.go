package nzmask

import (
	"testing"

	"github.com/corelift/pcode/pkg/pcode"
)

// TestAndWithZeroMaskIsZero covers the mask half of scenario S4: the
// output of int-and(V, 0) has a fully-known mask of 0 regardless of V.
func TestAndWithZeroMaskIsZero(t *testing.T) {
	out := pcode.Unique(100, 8)
	ops := []pcode.Op{
		pcode.New2(pcode.IntAnd, &out, pcode.Reg(0, 8), pcode.Const(0, 8), 0x1000),
	}
	m := Analyze(ops)
	if m[out] != 0 {
		t.Fatalf("expected mask 0 for int-and with constant 0, got %#x", m[out])
	}
}

func TestConstantShiftMask(t *testing.T) {
	a := pcode.Unique(1, 1)
	shifted := pcode.Unique(2, 1)
	ops := []pcode.Op{
		pcode.New1(pcode.Copy, &a, pcode.Const(0x0F, 1), 0x2000),
		pcode.New2(pcode.IntLeft, &shifted, a, pcode.Const(4, 1), 0x2000),
	}
	m := Analyze(ops)
	if m[shifted] != 0xF0 {
		t.Fatalf("expected shl-by-4 of 0x0F mask to be 0xF0, got %#x", m[shifted])
	}
}

func TestAddFallsBackToTop(t *testing.T) {
	out := pcode.Unique(3, 2)
	ops := []pcode.Op{
		pcode.New2(pcode.IntAdd, &out, pcode.Reg(0, 2), pcode.Reg(1, 2), 0x3000),
	}
	m := Analyze(ops)
	if m[out] != pcode.SizeMask(2) {
		t.Fatalf("expected add to fall back to top mask, got %#x", m[out])
	}
}

func TestComparisonMaskIsOneBit(t *testing.T) {
	out := pcode.Unique(4, 1)
	ops := []pcode.Op{
		pcode.New2(pcode.IntEqual, &out, pcode.Reg(0, 8), pcode.Reg(1, 8), 0x4000),
	}
	m := Analyze(ops)
	if m[out] != 1 {
		t.Fatalf("expected comparison mask of 1, got %#x", m[out])
	}
}

func TestConsumeAndNarrowsToMaskBits(t *testing.T) {
	v := pcode.Reg(0, 8)
	ops := []pcode.Op{
		pcode.New2(pcode.IntAnd, nil, v, pcode.Const(0xFF, 8), 0x5000),
	}
	c := ConsumeAnalyze(ops)
	if c[v] != 0xFF {
		t.Fatalf("expected consumed bits 0xFF for v & 0xFF, got %#x", c[v])
	}
}
