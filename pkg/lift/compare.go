package lift

import (
	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/pcode"
)

// liftCompare handles cmp (subtract, discard result, set flags) and test
// (and, discard result, set flags) across register-register,
// register-immediate, memory-register and memory-immediate forms — the
// shared shape is just "read both operands, compute into a throwaway
// temp, write flags, emit nothing else".
func (lf *Lifter) liftCompare(mnem string, in decode.DecodedInstruction) {
	addr := in.Address
	if !lf.requireOperands(in, 2) {
		return
	}
	a := lf.readOperand(in.Operands[0], addr)
	b := lf.readOperand(in.Operands[1], addr)

	if mnem == "cmp" {
		result := lf.temp(a.Size)
		lf.emit(pcode.New2(pcode.IntSub, &result, a, b, addr))
		lf.writeBorrowSub(a, b, addr)
		lf.writeOverflowSub(a, b, addr)
		lf.writeArithmeticFlags(result, addr)
		return
	}

	// test
	result := lf.temp(a.Size)
	lf.emit(pcode.New2(pcode.IntAnd, &result, a, b, addr))
	lf.writeLogicalFlags(result, addr)
}
