package lift

import "github.com/corelift/pcode/pkg/decode"
import "github.com/corelift/pcode/pkg/pcode"

// regVar maps a decoded register operand onto its Varnode. Register IDs
// are opaque identifiers assigned by the external decoder; the lifter
// only needs them to be stable and distinct per architectural register.
func regVar(op decode.Operand) pcode.Varnode {
	return pcode.Reg(uint64(op.RegID), op.RegSize)
}

// effectiveAddress computes base + index*scale + disp for a memory
// operand into a temporary Varnode, emitting the int-add/int-mult ops
// that do so. Memory addressing always goes through a temp before any
// load/store (SPEC_FULL §4.2 tie-break).
func (lf *Lifter) effectiveAddress(op decode.Operand, addr uint64) pcode.Varnode {
	const addrSize = 8
	var base pcode.Varnode
	haveBase := false
	if op.MemBase != nil {
		base = pcode.Reg(uint64(*op.MemBase), addrSize)
		haveBase = true
	}

	var indexTerm pcode.Varnode
	haveIndex := false
	if op.MemIndex != nil {
		idx := pcode.Reg(uint64(*op.MemIndex), addrSize)
		if op.MemScale > 1 {
			scaled := lf.temp(addrSize)
			lf.emit(pcode.New2(pcode.IntMult, &scaled, idx, pcode.Const(uint64(op.MemScale), addrSize), addr))
			indexTerm = scaled
		} else {
			indexTerm = idx
		}
		haveIndex = true
	}

	acc := base
	haveAcc := haveBase
	if haveIndex {
		if haveAcc {
			sum := lf.temp(addrSize)
			lf.emit(pcode.New2(pcode.IntAdd, &sum, acc, indexTerm, addr))
			acc = sum
		} else {
			acc = indexTerm
			haveAcc = true
		}
	}

	if op.MemDisp != 0 || !haveAcc {
		dispConst := pcode.Const(uint64(op.MemDisp), addrSize)
		if haveAcc {
			sum := lf.temp(addrSize)
			lf.emit(pcode.New2(pcode.IntAdd, &sum, acc, dispConst, addr))
			acc = sum
		} else {
			acc = dispConst
			haveAcc = true
		}
	}
	return acc
}

// readOperand produces a Varnode carrying an operand's value, emitting a
// load op first if it is a memory operand.
func (lf *Lifter) readOperand(op decode.Operand, addr uint64) pcode.Varnode {
	switch op.Kind {
	case decode.OperandRegister:
		return regVar(op)
	case decode.OperandImmediate:
		return pcode.Const(op.ImmValue, op.ImmSize)
	case decode.OperandMemory:
		eaddr := lf.effectiveAddress(op, addr)
		val := lf.temp(op.MemAccSize)
		lf.emit(pcode.New1(pcode.Load, &val, eaddr, addr))
		return val
	default:
		return pcode.Const(0, 1)
	}
}

// writeOperand stores value into a register or memory destination
// operand, emitting a store op for memory. A register write emits a copy
// only when value does not already live in that register; it returns
// nothing (destVarnode is what lets a caller's op target a register
// directly).
func (lf *Lifter) writeOperand(op decode.Operand, value pcode.Varnode, addr uint64) {
	switch op.Kind {
	case decode.OperandRegister:
		if !value.SameAddress(regVar(op)) {
			dst := regVar(op)
			lf.emit(pcode.New1(pcode.Copy, &dst, value, addr))
		}
	case decode.OperandMemory:
		eaddr := lf.effectiveAddress(op, addr)
		lf.emit(pcode.New2(pcode.Store, nil, eaddr, value, addr))
	}
}

// destVarnode returns the Varnode an op's result should be written
// directly into when the destination is a register (avoiding a redundant
// copy), or a fresh temp plus a commit step when it's memory.
func (lf *Lifter) destVarnode(op decode.Operand, size uint8) (dst pcode.Varnode, commit func(addr uint64)) {
	if op.Kind == decode.OperandRegister {
		return regVar(op), func(uint64) {}
	}
	tmp := lf.temp(size)
	return tmp, func(addr uint64) {
		eaddr := lf.effectiveAddress(op, addr)
		lf.emit(pcode.New2(pcode.Store, nil, eaddr, tmp, addr))
	}
}
