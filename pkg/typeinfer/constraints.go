package typeinfer

import "github.com/corelift/pcode/pkg/pcode"

// Constraint ties one candidate Type to one Varnode. A Varnode
// accumulates zero or more constraints as the op list is walked; Resolve
// reduces each Varnode's list to a single Type.
type Constraint struct {
	Varnode pcode.Varnode
	Type    Type
}

// Collect walks ops and emits the constraints SPEC_FULL §4.10 assigns per
// opcode family: integer ops constrain their operands to int(size,
// signed) — signed for the sdiv/srem/sright/sext family, unsigned
// otherwise; float ops constrain to float(size); load/store constrain
// the address operand to a pointer to a type sized like the
// loaded/stored value; copy propagates its input's constraint to its
// output; comparisons force a 1-byte boolean (unsigned int) output and
// leave their integer inputs unconstrained beyond "integer".
func Collect(ops []pcode.Op) []Constraint {
	var cs []Constraint
	emit := func(v pcode.Varnode, t Type) {
		if v != (pcode.Varnode{}) {
			cs = append(cs, Constraint{Varnode: v, Type: t})
		}
	}
	emitOperands := func(op *pcode.Op, t Type) {
		if out, ok := op.OutVar(); ok {
			emit(out, t)
		}
		for _, in := range op.Inputs {
			if !in.IsConst() {
				emit(in, t)
			}
		}
	}

	for i := range ops {
		op := &ops[i]
		switch op.Opcode {
		case pcode.IntAdd, pcode.IntSub, pcode.IntMult, pcode.IntAnd, pcode.IntOr, pcode.IntXor,
			pcode.IntNegate, pcode.IntNot, pcode.IntLeft:
			emitOperands(op, intTypeForOp(op, false))
		case pcode.IntDiv, pcode.IntRem, pcode.IntRight, pcode.IntZExt:
			emitOperands(op, intTypeForOp(op, false))
		case pcode.IntSDiv, pcode.IntSRem, pcode.IntSRight, pcode.IntSExt:
			emitOperands(op, intTypeForOp(op, true))

		case pcode.FloatAdd, pcode.FloatSub, pcode.FloatMult, pcode.FloatDiv, pcode.FloatNeg,
			pcode.FloatAbs, pcode.FloatSqrt, pcode.FloatTrunc, pcode.FloatCeil, pcode.FloatFloor,
			pcode.FloatRound:
			if out, ok := op.OutVar(); ok {
				emitOperands(op, floatType(out.Size))
			}

		case pcode.Load:
			if out, ok := op.OutVar(); ok && len(op.Inputs) == 1 {
				emit(op.Inputs[0], pointerTo(intType(out.Size, false)))
				emit(out, unknown())
			}
		case pcode.Store:
			if len(op.Inputs) == 2 {
				emit(op.Inputs[0], pointerTo(intType(op.Inputs[1].Size, false)))
			}

		case pcode.Copy:
			if out, ok := op.OutVar(); ok && len(op.Inputs) == 1 {
				emit(out, unknown())
				emit(op.Inputs[0], unknown())
			}

		case pcode.IntEqual, pcode.IntNotEqual, pcode.IntLess, pcode.IntSLess,
			pcode.IntLessEqual, pcode.IntSLessEqual,
			pcode.FloatEqual, pcode.FloatNotEqual, pcode.FloatLess, pcode.FloatLessEqual:
			if out, ok := op.OutVar(); ok {
				emit(out, intType(out.Size, false))
			}
			for _, in := range op.Inputs {
				if !in.IsConst() {
					emit(in, Type{Kind: KindInt})
				}
			}

		case pcode.PtrAdd, pcode.PtrSub:
			if out, ok := op.OutVar(); ok {
				emit(out, pointerTo(unknown()))
			}
		}
	}

	// copy: the output also takes every candidate type its input collected.
	n := len(cs)
	for i := range ops {
		op := &ops[i]
		out, ok := op.OutVar()
		if op.Opcode != pcode.Copy || !ok || len(op.Inputs) != 1 {
			continue
		}
		for _, c := range cs[:n] {
			if c.Varnode == op.Inputs[0] {
				cs = append(cs, Constraint{Varnode: out, Type: c.Type})
			}
		}
	}
	return cs
}

func intTypeForOp(op *pcode.Op, signed bool) Type {
	if out, ok := op.OutVar(); ok {
		return intType(out.Size, signed)
	}
	if len(op.Inputs) > 0 {
		return intType(op.Inputs[0].Size, signed)
	}
	return unknown()
}
