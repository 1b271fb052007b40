package lift

import "github.com/corelift/pcode/pkg/pcode"

// Flag Varnodes are always 1-byte unique-space cells at the reserved
// offsets in package pcode, mirroring the teacher's fixed-bit-position
// flag register (flags.go's FlagC/FlagZ/... constants) but as individually
// addressable SSA-able storage instead of bits packed into one byte.
func cfVar() pcode.Varnode { return pcode.Unique(pcode.FlagCF, 1) }
func pfVar() pcode.Varnode { return pcode.Unique(pcode.FlagPF, 1) }
func afVar() pcode.Varnode { return pcode.Unique(pcode.FlagAF, 1) }
func zfVar() pcode.Varnode { return pcode.Unique(pcode.FlagZF, 1) }
func sfVar() pcode.Varnode { return pcode.Unique(pcode.FlagSF, 1) }
func ofVar() pcode.Varnode { return pcode.Unique(pcode.FlagOF, 1) }

// writeZF emits ZF = (result == 0).
func (lf *Lifter) writeZF(result pcode.Varnode, addr uint64) {
	zf := zfVar()
	lf.emit(pcode.New2(pcode.IntEqual, &zf, result, pcode.Const(0, result.Size), addr))
}

// writeSF emits SF = (result s< 0), i.e. the sign bit.
func (lf *Lifter) writeSF(result pcode.Varnode, addr uint64) {
	sf := sfVar()
	lf.emit(pcode.New2(pcode.IntSLess, &sf, result, pcode.Const(0, result.Size), addr))
}

// writePF emits PF = popcount(result & 0xFF) is even, matching the x86
// parity flag's "low byte" scope.
func (lf *Lifter) writePF(result pcode.Varnode, addr uint64) {
	low := lf.temp(1)
	lf.emit(pcode.New2(pcode.SubPiece, &low, result, pcode.Const(0, 1), addr))
	count := lf.temp(1)
	lf.emit(pcode.New1(pcode.PopCount, &count, low, addr))
	bit0 := lf.temp(1)
	lf.emit(pcode.New2(pcode.IntAnd, &bit0, count, pcode.Const(1, 1), addr))
	pf := pfVar()
	lf.emit(pcode.New2(pcode.IntEqual, &pf, bit0, pcode.Const(0, 1), addr))
}

// writeArithmeticFlags writes ZF, SF and PF for an arithmetic result and
// leaves CF/OF conservatively unmodified, per SPEC_FULL §4.2's flag
// model. Its callers in liftArithmetic do not write CF/OF either; only
// liftMul writes CF/OF, and it does not call this.
func (lf *Lifter) writeArithmeticFlags(result pcode.Varnode, addr uint64) {
	lf.writeZF(result, addr)
	lf.writeSF(result, addr)
	lf.writePF(result, addr)
}

// writeLogicalFlags writes ZF, SF and PF and clears CF and OF, per the
// logical-op flag model.
func (lf *Lifter) writeLogicalFlags(result pcode.Varnode, addr uint64) {
	lf.writeZF(result, addr)
	lf.writeSF(result, addr)
	lf.writePF(result, addr)
	cf := cfVar()
	lf.emit(pcode.New1(pcode.Copy, &cf, pcode.Const(0, 1), addr))
	of := ofVar()
	lf.emit(pcode.New1(pcode.Copy, &of, pcode.Const(0, 1), addr))
}

// writeCarryAdd computes CF for a+b at the given width using int-carry,
// the P-code primitive for unsigned overflow detection.
func (lf *Lifter) writeCarryAdd(a, b pcode.Varnode, addr uint64) {
	cf := cfVar()
	lf.emit(pcode.New2(pcode.IntCarry, &cf, a, b, addr))
}

// writeOverflowAdd computes OF for a+b using int-scarry, the P-code
// primitive for signed overflow detection.
func (lf *Lifter) writeOverflowAdd(a, b pcode.Varnode, addr uint64) {
	of := ofVar()
	lf.emit(pcode.New2(pcode.IntSCarry, &of, a, b, addr))
}

// writeBorrowSub computes CF for a-b (borrow) using int-less (unsigned
// a < b means a borrow occurred).
func (lf *Lifter) writeBorrowSub(a, b pcode.Varnode, addr uint64) {
	cf := cfVar()
	lf.emit(pcode.New2(pcode.IntLess, &cf, a, b, addr))
}

// writeOverflowSub computes OF for a-b using int-sborrow.
func (lf *Lifter) writeOverflowSub(a, b pcode.Varnode, addr uint64) {
	of := ofVar()
	lf.emit(pcode.New2(pcode.IntSBorrow, &of, a, b, addr))
}
