package lift

import (
	"strings"

	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/diag"
	"github.com/corelift/pcode/pkg/pcode"
)

const lockPrefix = "lock "

func isAtomicMnemonic(m string) bool {
	return strings.HasPrefix(m, lockPrefix)
}

// liftAtomic handles lock-prefixed add/xadd/inc/dec on a memory operand.
// The lock prefix itself carries no independent P-code semantics here —
// this lifter models straight-line dataflow, not interleavings — so the
// underlying read-modify-write is lifted exactly as its unlocked
// counterpart and the prefix is only consulted to strip it off.
func (lf *Lifter) liftAtomic(mnem string, in decode.DecodedInstruction) {
	inner := strings.TrimPrefix(mnem, lockPrefix)
	addr := in.Address

	switch inner {
	case "xadd":
		if !lf.requireOperands(in, 2) {
			return
		}
		dst, src := in.Operands[0], in.Operands[1]
		a := lf.readOperand(dst, addr)
		b := lf.readOperand(src, addr)
		sum, commit := lf.destVarnode(dst, a.Size)
		lf.emit(pcode.New2(pcode.IntAdd, &sum, a, b, addr))
		lf.writeCarryAdd(a, b, addr)
		lf.writeOverflowAdd(a, b, addr)
		lf.writeArithmeticFlags(sum, addr)
		commit(addr)
		lf.writeOperand(src, a, addr)

	case "add", "inc", "dec":
		lf.liftArithmetic(inner, in)

	default:
		lf.diagnose(diag.UnsupportedInstruction, "unsupported locked instruction: "+mnem, addr)
	}
}
