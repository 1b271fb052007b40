package lift

import (
	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/pcode"
)

const ptrSize = 8

func isStackMnemonic(m string) bool {
	switch m {
	case "push", "pop", "enter", "leave":
		return true
	}
	return false
}

func rspVar() pcode.Varnode { return pcode.Reg(uint64(decode.RegRSP), ptrSize) }
func rbpVar() pcode.Varnode { return pcode.Reg(uint64(decode.RegRBP), ptrSize) }

// liftStack handles push/pop (decrement/increment RSP, store/load at the
// new top of stack) and enter/leave (the compiler-generated frame
// prologue/epilogue pair). Stack contents are modeled as an ordinary RAM
// store/load through RSP rather than SpaceStack, since their address is
// only known at analysis time through RSP's value, not statically.
func (lf *Lifter) liftStack(mnem string, in decode.DecodedInstruction) {
	addr := in.Address
	switch mnem {
	case "push":
		if !lf.requireOperands(in, 1) {
			return
		}
		val := lf.readOperand(in.Operands[0], addr)
		lf.decrementRSP(ptrSize, addr)
		sp := rspVar()
		lf.emit(pcode.New2(pcode.Store, nil, sp, val, addr))

	case "pop":
		if !lf.requireOperands(in, 1) {
			return
		}
		sp := rspVar()
		val := lf.temp(ptrSize)
		lf.emit(pcode.New1(pcode.Load, &val, sp, addr))
		lf.writeOperand(in.Operands[0], val, addr)
		lf.incrementRSP(ptrSize, addr)

	case "enter":
		// push rbp; mov rbp, rsp; sub rsp, <frame size from operand 0>.
		oldRbp := rbpVar()
		lf.decrementRSP(ptrSize, addr)
		sp := rspVar()
		lf.emit(pcode.New2(pcode.Store, nil, sp, oldRbp, addr))
		newRbp := rbpVar()
		curSp := rspVar()
		lf.emit(pcode.New1(pcode.Copy, &newRbp, curSp, addr))
		if len(in.Operands) >= 1 {
			frameSize := lf.readOperand(in.Operands[0], addr)
			sp := rspVar()
			lf.emit(pcode.New2(pcode.IntSub, &sp, sp, frameSize, addr))
		}

	case "leave":
		// mov rsp, rbp; pop rbp.
		rbp := rbpVar()
		sp := rspVar()
		lf.emit(pcode.New1(pcode.Copy, &sp, rbp, addr))
		restored := lf.temp(ptrSize)
		spAfter := rspVar()
		lf.emit(pcode.New1(pcode.Load, &restored, spAfter, addr))
		newRbp := rbpVar()
		lf.emit(pcode.New1(pcode.Copy, &newRbp, restored, addr))
		lf.incrementRSP(ptrSize, addr)
	}
}

func (lf *Lifter) decrementRSP(n uint8, addr uint64) {
	sp := rspVar()
	cur := rspVar()
	lf.emit(pcode.New2(pcode.IntSub, &sp, cur, pcode.Const(uint64(n), ptrSize), addr))
}

func (lf *Lifter) incrementRSP(n uint8, addr uint64) {
	sp := rspVar()
	cur := rspVar()
	lf.emit(pcode.New2(pcode.IntAdd, &sp, cur, pcode.Const(uint64(n), ptrSize), addr))
}
