package lift

import (
	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/diag"
	"github.com/corelift/pcode/pkg/pcode"
)

func isArithmeticMnemonic(m string) bool {
	switch m {
	case "add", "sub", "inc", "dec", "neg", "mul", "imul", "div", "idiv":
		return true
	}
	return false
}

// liftArithmetic handles add/sub/inc/dec/neg/mul/imul/div/idiv in their
// register-register, register-immediate and memory forms. The
// destination operand is always operand 0 for the two/three-operand
// forms, matching AT&T/Intel dest-first convention as the decoder
// presents it.
func (lf *Lifter) liftArithmetic(mnem string, in decode.DecodedInstruction) {
	addr := in.Address
	switch mnem {
	case "add", "sub":
		if !lf.requireOperands(in, 2) {
			return
		}
		dst, src := in.Operands[0], in.Operands[1]
		a := lf.readOperand(dst, addr)
		b := lf.readOperand(src, addr)
		op := pcode.IntAdd
		if mnem == "sub" {
			op = pcode.IntSub
		}
		result, commit := lf.destVarnode(dst, a.Size)
		lf.emit(pcode.New2(op, &result, a, b, addr))
		if mnem == "add" {
			lf.writeCarryAdd(a, b, addr)
			lf.writeOverflowAdd(a, b, addr)
		} else {
			lf.writeBorrowSub(a, b, addr)
			lf.writeOverflowSub(a, b, addr)
		}
		lf.writeArithmeticFlags(result, addr)
		commit(addr)

	case "inc", "dec":
		if !lf.requireOperands(in, 1) {
			return
		}
		dst := in.Operands[0]
		a := lf.readOperand(dst, addr)
		op := pcode.IntAdd
		if mnem == "dec" {
			op = pcode.IntSub
		}
		result, commit := lf.destVarnode(dst, a.Size)
		lf.emit(pcode.New2(op, &result, a, pcode.Const(1, a.Size), addr))
		// inc/dec leave CF unmodified by architectural definition.
		lf.writeZF(result, addr)
		lf.writeSF(result, addr)
		lf.writePF(result, addr)
		if mnem == "inc" {
			lf.writeOverflowAdd(a, pcode.Const(1, a.Size), addr)
		} else {
			lf.writeOverflowSub(a, pcode.Const(1, a.Size), addr)
		}
		commit(addr)

	case "neg":
		if !lf.requireOperands(in, 1) {
			return
		}
		dst := in.Operands[0]
		a := lf.readOperand(dst, addr)
		result, commit := lf.destVarnode(dst, a.Size)
		lf.emit(pcode.New1(pcode.IntNegate, &result, a, addr))
		lf.writeBorrowSub(pcode.Const(0, a.Size), a, addr)
		lf.writeOverflowSub(pcode.Const(0, a.Size), a, addr)
		lf.writeArithmeticFlags(result, addr)
		commit(addr)

	case "mul", "imul":
		lf.liftMul(mnem, in)

	case "div", "idiv":
		lf.liftDiv(mnem, in)
	}
}

// liftMul handles the 1-, 2- and 3-operand imul forms and the 1-operand
// mul form. The 1-operand forms implicitly multiply into the
// accumulator; that extension is the decoder's problem (it would present
// the implicit accumulator operand explicitly), so here every form is
// just "N operands, last two multiplied into the first".
func (lf *Lifter) liftMul(mnem string, in decode.DecodedInstruction) {
	addr := in.Address
	op := pcode.IntMult
	var dst, a, b decode.Operand
	switch len(in.Operands) {
	case 1:
		dst, a, b = in.Operands[0], in.Operands[0], in.Operands[0]
	case 2:
		dst, a, b = in.Operands[0], in.Operands[0], in.Operands[1]
	case 3:
		dst, a, b = in.Operands[0], in.Operands[1], in.Operands[2]
	default:
		lf.diagnose(diag.BadOperandShape, "unexpected operand count for "+mnem, addr)
		return
	}
	va := lf.readOperand(a, addr)
	vb := lf.readOperand(b, addr)
	result, commit := lf.destVarnode(dst, va.Size)
	lf.emit(pcode.New2(op, &result, va, vb, addr))
	// CF/OF signal whether the result overflowed the destination width;
	// modeled conservatively via scarry/carry against the same inputs.
	if mnem == "imul" {
		lf.writeOverflowAdd(va, vb, addr)
		cf := cfVar()
		of := ofVar()
		lf.emit(pcode.New1(pcode.Copy, &cf, of, addr))
	} else {
		lf.writeCarryAdd(va, vb, addr)
		cf := cfVar()
		of := ofVar()
		lf.emit(pcode.New1(pcode.Copy, &of, cf, addr))
	}
}

// liftDiv handles div/idiv: quotient into the destination, remainder
// discarded (a full model would also expose it as a second output; the
// P-code op model here only carries one Output per op, so the remainder
// is computed into its own temp and left unused unless a later rule
// needs it — that asymmetry is inherent to the single-output Op shape).
func (lf *Lifter) liftDiv(mnem string, in decode.DecodedInstruction) {
	addr := in.Address
	if !lf.requireOperands(in, 2) {
		return
	}
	dst, divisor := in.Operands[0], in.Operands[1]
	a := lf.readOperand(dst, addr)
	b := lf.readOperand(divisor, addr)
	quotOp, remOp := pcode.IntDiv, pcode.IntRem
	if mnem == "idiv" {
		quotOp, remOp = pcode.IntSDiv, pcode.IntSRem
	}
	quot, commit := lf.destVarnode(dst, a.Size)
	lf.emit(pcode.New2(quotOp, &quot, a, b, addr))
	rem := lf.temp(a.Size)
	lf.emit(pcode.New2(remOp, &rem, a, b, addr))
	commit(addr)
}
