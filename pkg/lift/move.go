package lift

import (
	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/diag"
	"github.com/corelift/pcode/pkg/pcode"
)

func isMoveMnemonic(m string) bool {
	switch m {
	case "mov", "movzx", "movsx", "lea", "xchg":
		return true
	}
	return false
}

// liftMove handles mov (plain copy/load/store), movzx/movsx (width
// extension with the source read at its own narrower size), lea (address
// computation with no memory access) and xchg (two operands swapped
// through a temp).
func (lf *Lifter) liftMove(mnem string, in decode.DecodedInstruction) {
	addr := in.Address
	switch mnem {
	case "mov":
		if !lf.requireOperands(in, 2) {
			return
		}
		dst, src := in.Operands[0], in.Operands[1]
		val := lf.readOperand(src, addr)
		lf.writeOperand(dst, val, addr)

	case "movzx", "movsx":
		if !lf.requireOperands(in, 2) {
			return
		}
		dst, src := in.Operands[0], in.Operands[1]
		narrow := lf.readOperand(src, addr)
		op := pcode.IntZExt
		if mnem == "movsx" {
			op = pcode.IntSExt
		}
		wide, commit := lf.destVarnode(dst, wideSize(dst))
		lf.emit(pcode.New1(op, &wide, narrow, addr))
		commit(addr)

	case "lea":
		if !lf.requireOperands(in, 2) {
			return
		}
		dst, src := in.Operands[0], in.Operands[1]
		if src.Kind != decode.OperandMemory {
			lf.diagnose(diag.BadOperandShape, "lea source is not a memory operand", addr)
			return
		}
		eaddr := lf.effectiveAddress(src, addr)
		lf.writeOperand(dst, eaddr, addr)

	case "xchg":
		if !lf.requireOperands(in, 2) {
			return
		}
		x, y := in.Operands[0], in.Operands[1]
		vx := lf.readOperand(x, addr)
		vy := lf.readOperand(y, addr)
		tmp := lf.temp(vx.Size)
		lf.emit(pcode.New1(pcode.Copy, &tmp, vx, addr))
		lf.writeOperand(x, vy, addr)
		lf.writeOperand(y, tmp, addr)
	}
}

// wideSize returns the destination operand's size in bytes, falling back
// to register size for register destinations and the memory access size
// otherwise.
func wideSize(dst decode.Operand) uint8 {
	if dst.Kind == decode.OperandRegister {
		return dst.RegSize
	}
	return dst.MemAccSize
}
