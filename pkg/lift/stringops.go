package lift

import (
	"strings"

	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/pcode"
)

func isStringMnemonic(m string) bool {
	switch m {
	case "lodsb", "lodsw", "lodsd", "lodsq",
		"stosb", "stosw", "stosd", "stosq",
		"movsb", "movsw", "movsd", "movsq":
		return true
	}
	return false
}

const (
	regSI  uint64 = 6
	regDI  uint64 = 7
	regAX2 uint64 = 0
)

func stringOpSize(mnem string) uint8 {
	switch {
	case strings.HasSuffix(mnem, "b"):
		return 1
	case strings.HasSuffix(mnem, "w"):
		return 2
	case strings.HasSuffix(mnem, "d"):
		return 4
	case strings.HasSuffix(mnem, "q"):
		return 8
	default:
		return 1
	}
}

// liftString handles lods/stos/movs at every operand width: load
// from/store to [rsi]/[rdi] and advance the pointer register by the
// operation's size. The direction flag (DF) governs whether the pointer
// advances or retreats on real hardware; this lifter always advances,
// the same simplifying assumption SPEC_FULL §4.2 makes for shift-flag
// precision (DF-aware lifting is not modeled).
func (lf *Lifter) liftString(mnem string, in decode.DecodedInstruction) {
	addr := in.Address
	size := stringOpSize(mnem)
	switch {
	case strings.HasPrefix(mnem, "lods"):
		si := pcode.Reg(regSI, ptrSize)
		val := lf.temp(size)
		lf.emit(pcode.New1(pcode.Load, &val, si, addr))
		ax := pcode.Reg(regAX2, size)
		lf.emit(pcode.New1(pcode.Copy, &ax, val, addr))
		lf.advancePointer(regSI, size, addr)

	case strings.HasPrefix(mnem, "stos"):
		di := pcode.Reg(regDI, ptrSize)
		ax := pcode.Reg(regAX2, size)
		lf.emit(pcode.New2(pcode.Store, nil, di, ax, addr))
		lf.advancePointer(regDI, size, addr)

	case strings.HasPrefix(mnem, "movs"):
		si := pcode.Reg(regSI, ptrSize)
		di := pcode.Reg(regDI, ptrSize)
		val := lf.temp(size)
		lf.emit(pcode.New1(pcode.Load, &val, si, addr))
		lf.emit(pcode.New2(pcode.Store, nil, di, val, addr))
		lf.advancePointer(regSI, size, addr)
		lf.advancePointer(regDI, size, addr)
	}
}

func (lf *Lifter) advancePointer(reg uint64, size uint8, addr uint64) {
	p := pcode.Reg(reg, ptrSize)
	lf.emit(pcode.New2(pcode.IntAdd, &p, p, pcode.Const(uint64(size), ptrSize), addr))
}
