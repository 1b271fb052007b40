package lift

import (
	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/pcode"
)

func isLogicalMnemonic(m string) bool {
	switch m {
	case "and", "or", "xor", "not", "shl", "shr", "sar":
		return true
	}
	return false
}

// liftLogical handles and/or/xor (flags: ZF/SF/PF, CF/OF cleared), not
// (a bitwise complement that writes no flag) and
// shl/shr/sar (flags only affected when the shift count is nonzero — this
// lifter writes them unconditionally, which is the sound-but-imprecise
// choice noted for shift-by-CL forms in SPEC_FULL §4.2).
func (lf *Lifter) liftLogical(mnem string, in decode.DecodedInstruction) {
	addr := in.Address
	switch mnem {
	case "and", "or", "xor":
		if !lf.requireOperands(in, 2) {
			return
		}
		dst, src := in.Operands[0], in.Operands[1]
		a := lf.readOperand(dst, addr)
		b := lf.readOperand(src, addr)
		var op pcode.Opcode
		switch mnem {
		case "and":
			op = pcode.IntAnd
		case "or":
			op = pcode.IntOr
		case "xor":
			op = pcode.IntXor
		}
		result, commit := lf.destVarnode(dst, a.Size)
		lf.emit(pcode.New2(op, &result, a, b, addr))
		lf.writeLogicalFlags(result, addr)
		commit(addr)

	case "not":
		if !lf.requireOperands(in, 1) {
			return
		}
		dst := in.Operands[0]
		a := lf.readOperand(dst, addr)
		result, commit := lf.destVarnode(dst, a.Size)
		lf.emit(pcode.New1(pcode.IntNot, &result, a, addr))
		// not does not touch any flag.
		commit(addr)

	case "shl", "shr", "sar":
		lf.liftShift(mnem, in)
	}
}

func (lf *Lifter) liftShift(mnem string, in decode.DecodedInstruction) {
	addr := in.Address
	if !lf.requireOperands(in, 2) {
		return
	}
	dst, count := in.Operands[0], in.Operands[1]
	a := lf.readOperand(dst, addr)
	c := lf.readOperand(count, addr)
	var op pcode.Opcode
	switch mnem {
	case "shl":
		op = pcode.IntLeft
	case "shr":
		op = pcode.IntRight
	case "sar":
		op = pcode.IntSRight
	}
	result, commit := lf.destVarnode(dst, a.Size)
	lf.emit(pcode.New2(op, &result, a, c, addr))
	lf.writeZF(result, addr)
	lf.writeSF(result, addr)
	lf.writePF(result, addr)
	commit(addr)
}
