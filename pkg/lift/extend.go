package lift

import (
	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/pcode"
)

func isExtendMnemonic(m string) bool {
	switch m {
	case "cdq", "cqo", "cbw", "cwde", "cdqe":
		return true
	}
	return false
}

// liftExtend handles the implicit-operand sign-extension instructions.
// Each reads the accumulator at its narrow width and writes the
// sign-extended result either into the accumulator itself (cbw/cwde/cdqe
// widen in place) or into the paired high register (cdq/cqo split the
// extension into edx:eax / rdx:rax).
func (lf *Lifter) liftExtend(mnem string, in decode.DecodedInstruction) {
	addr := in.Address
	const (
		regAX  = 0
		regDX  = 2
		sizeB  = 1
		sizeW  = 2
		sizeD  = 4
		sizeQ  = 8
	)
	switch mnem {
	case "cbw":
		lf.extendInPlace(regAX, sizeB, sizeW, addr)
	case "cwde":
		lf.extendInPlace(regAX, sizeW, sizeD, addr)
	case "cdqe":
		lf.extendInPlace(regAX, sizeD, sizeQ, addr)
	case "cdq":
		lf.extendHigh(regAX, regDX, sizeD, addr)
	case "cqo":
		lf.extendHigh(regAX, regDX, sizeQ, addr)
	}
}

func (lf *Lifter) extendInPlace(reg uint64, narrow, wide uint8, addr uint64) {
	src := pcode.Reg(reg, narrow)
	dst := pcode.Reg(reg, wide)
	lf.emit(pcode.New1(pcode.IntSExt, &dst, src, addr))
}

// extendHigh sign-extends the low register into a full 2*size value and
// splits it across low:high, modeled as a sign-extend to double width
// followed by two sub-piece extractions rather than a single wide op, so
// the high half remains an independently-versioned Varnode for SSA.
func (lf *Lifter) extendHigh(lowReg, highReg uint64, size uint8, addr uint64) {
	src := pcode.Reg(lowReg, size)
	wide := lf.temp(size * 2)
	lf.emit(pcode.New1(pcode.IntSExt, &wide, src, addr))
	low := pcode.Reg(lowReg, size)
	lf.emit(pcode.New2(pcode.SubPiece, &low, wide, pcode.Const(0, 1), addr))
	high := pcode.Reg(highReg, size)
	lf.emit(pcode.New2(pcode.SubPiece, &high, wide, pcode.Const(uint64(size), 1), addr))
}
