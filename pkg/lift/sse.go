package lift

import (
	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/pcode"
)

const sseWidth = 16

func isSSEMnemonic(m string) bool {
	switch m {
	case "movaps", "movups", "xorps", "andps", "orps":
		return true
	}
	return false
}

// liftSSE handles the packed-single-precision instructions this lifter
// models: movaps/movups as plain 128-bit copies (the alignment-fault
// distinction between them is a decoder concern, not a semantic one at
// the P-code level) and xorps/andps/orps as bitwise ops over the full
// 128-bit operand, reusing the integer bitwise opcodes since P-code makes
// no distinction between integer and packed-float bit patterns.
func (lf *Lifter) liftSSE(mnem string, in decode.DecodedInstruction) {
	addr := in.Address
	if !lf.requireOperands(in, 2) {
		return
	}
	dst, src := in.Operands[0], in.Operands[1]
	a := lf.readOperand(dst, addr)
	b := lf.readOperand(src, addr)

	switch mnem {
	case "movaps", "movups":
		lf.writeOperand(dst, b, addr)
		return
	}

	var op pcode.Opcode
	switch mnem {
	case "xorps":
		op = pcode.IntXor
	case "andps":
		op = pcode.IntAnd
	case "orps":
		op = pcode.IntOr
	}
	result, commit := lf.destVarnode(dst, sseWidth)
	lf.emit(pcode.New2(op, &result, a, b, addr))
	commit(addr)
}
