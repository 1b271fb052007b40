package pcode

import "testing"

func TestConstMasksOffset(t *testing.T) {
	tests := []struct {
		value uint64
		size  uint8
		want  uint64
	}{
		{0x1FF, 1, 0xFF},
		{0xFFFFFFFF, 2, 0xFFFF},
		{0x42, 8, 0x42},
	}
	for _, tc := range tests {
		v := Const(tc.value, tc.size)
		if v.Offset != tc.want {
			t.Errorf("Const(%#x,%d).Offset = %#x, want %#x", tc.value, tc.size, v.Offset, tc.want)
		}
		if !v.IsConst() {
			t.Error("Const value should report IsConst")
		}
	}
}

func TestVarnodeSameAddressIgnoresVersion(t *testing.T) {
	a := Reg(0, 8)
	b := a
	b.Version = 3
	if !a.SameAddress(b) {
		t.Error("SameAddress should ignore version")
	}
	if a.Equal(b) {
		t.Error("Equal should not ignore version")
	}
}

func TestOpcodeCommutativity(t *testing.T) {
	if !IntAdd.Commutative() {
		t.Error("int-add should be commutative")
	}
	if IntSub.Commutative() {
		t.Error("int-sub should not be commutative")
	}
}

func TestOpIsCopyAndPhi(t *testing.T) {
	out := Reg(0, 8)
	cp := New1(Copy, &out, Const(1, 8), 0x1000)
	if !cp.IsCopy() {
		t.Error("expected IsCopy")
	}
	phi := NewN(MultiEqual, &out, []Varnode{Reg(0, 8), Reg(0, 8)}, 0x1000)
	if !phi.IsPhi() {
		t.Error("expected IsPhi")
	}
}

func TestTerminatorClassification(t *testing.T) {
	for _, op := range []Opcode{Branch, CBranch, BranchInd, Return, Call} {
		if !op.IsTerminator() {
			t.Errorf("%s should be a terminator", op)
		}
	}
	if IntAdd.IsTerminator() {
		t.Error("int-add should not be a terminator")
	}
}
