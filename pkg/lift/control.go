package lift

import (
	"strings"

	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/diag"
	"github.com/corelift/pcode/pkg/pcode"
)

var jccSuffixes = []string{
	"e", "z", "ne", "nz",
	"l", "nge", "ge", "nl",
	"le", "ng", "g", "nle",
	"b", "nae", "c", "ae", "nb", "nc",
	"be", "na", "a", "nbe",
	"s", "ns", "o", "no",
	"p", "pe", "np", "po",
}

func jccSuffix(mnem, prefix string) (string, bool) {
	if !strings.HasPrefix(mnem, prefix) {
		return "", false
	}
	suf := mnem[len(prefix):]
	for _, s := range jccSuffixes {
		if s == suf {
			return suf, true
		}
	}
	return "", false
}

func isControlMnemonic(m string) bool {
	if m == "jmp" || m == "call" || m == "ret" {
		return true
	}
	if _, ok := jccSuffix(m, "j"); ok {
		return true
	}
	if _, ok := jccSuffix(m, "set"); ok {
		return true
	}
	return false
}

// liftControl handles unconditional and conditional jumps (direct,
// register-indirect, memory-indirect), calls (same three forms), ret
// (with and without an immediate stack-adjustment operand), and setcc.
func (lf *Lifter) liftControl(mnem string, in decode.DecodedInstruction) {
	addr := in.Address
	switch {
	case mnem == "jmp":
		lf.liftJump(in)
	case mnem == "call":
		lf.liftCall(in)
	case mnem == "ret":
		lf.liftRet(in)
	default:
		if suf, ok := jccSuffix(mnem, "j"); ok {
			lf.liftCondJump(suf, in)
			return
		}
		if suf, ok := jccSuffix(mnem, "set"); ok {
			lf.liftSetcc(suf, in)
			return
		}
		lf.diagnose(diag.UnsupportedInstruction, "unrecognized control mnemonic: "+mnem, addr)
	}
}

func (lf *Lifter) liftJump(in decode.DecodedInstruction) {
	addr := in.Address
	if !lf.requireOperands(in, 1) {
		return
	}
	target := in.Operands[0]
	if target.Kind == decode.OperandImmediate {
		dst := pcode.RAM(target.ImmValue, ptrSize)
		lf.emit(pcode.New1(pcode.Branch, nil, dst, addr))
		return
	}
	v := lf.readOperand(target, addr)
	lf.emit(pcode.New1(pcode.BranchInd, nil, v, addr))
}

func (lf *Lifter) liftCall(in decode.DecodedInstruction) {
	addr := in.Address
	if !lf.requireOperands(in, 1) {
		return
	}
	target := in.Operands[0]
	if target.Kind == decode.OperandImmediate {
		dst := pcode.RAM(target.ImmValue, ptrSize)
		lf.emit(pcode.New1(pcode.Call, nil, dst, addr))
		return
	}
	v := lf.readOperand(target, addr)
	lf.emit(pcode.New1(pcode.CallInd, nil, v, addr))
}

func (lf *Lifter) liftRet(in decode.DecodedInstruction) {
	addr := in.Address
	if len(in.Operands) == 1 {
		n := lf.readOperand(in.Operands[0], addr)
		lf.incrementRSPBy(n, addr)
	}
	lf.emit(pcode.New0(pcode.Return, addr))
}

func (lf *Lifter) incrementRSPBy(n pcode.Varnode, addr uint64) {
	sp := rspVar()
	lf.emit(pcode.New2(pcode.IntAdd, &sp, sp, n, addr))
}

func (lf *Lifter) liftCondJump(suffix string, in decode.DecodedInstruction) {
	addr := in.Address
	if !lf.requireOperands(in, 1) {
		return
	}
	cond := lf.evalCondition(suffix, addr)
	target := in.Operands[0]
	if target.Kind == decode.OperandImmediate {
		dst := pcode.RAM(target.ImmValue, ptrSize)
		lf.emit(pcode.New2(pcode.CBranch, nil, dst, cond, addr))
		return
	}
	v := lf.readOperand(target, addr)
	lf.emit(pcode.New2(pcode.CBranch, nil, v, cond, addr))
}

func (lf *Lifter) liftSetcc(suffix string, in decode.DecodedInstruction) {
	addr := in.Address
	if !lf.requireOperands(in, 1) {
		return
	}
	cond := lf.evalCondition(suffix, addr)
	wide, commit := lf.destVarnode(in.Operands[0], 1)
	lf.emit(pcode.New1(pcode.IntZExt, &wide, cond, addr))
	commit(addr)
}

// evalCondition computes the boolean (1-byte) condition for a jcc/setcc
// suffix purely from the flag Varnodes previously written by a compare or
// arithmetic op, matching the x86 condition-code table.
func (lf *Lifter) evalCondition(suffix string, addr uint64) pcode.Varnode {
	zf, sf, of, cf, pf := zfVar(), sfVar(), ofVar(), cfVar(), pfVar()
	switch suffix {
	case "e", "z":
		return zf
	case "ne", "nz":
		return lf.boolNot(zf, addr)
	case "l", "nge":
		return lf.boolNotEqual(sf, of, addr)
	case "ge", "nl":
		return lf.boolEqual(sf, of, addr)
	case "le", "ng":
		return lf.boolOr(zf, lf.boolNotEqual(sf, of, addr), addr)
	case "g", "nle":
		return lf.boolAnd(lf.boolNot(zf, addr), lf.boolEqual(sf, of, addr), addr)
	case "b", "nae", "c":
		return cf
	case "ae", "nb", "nc":
		return lf.boolNot(cf, addr)
	case "be", "na":
		return lf.boolOr(cf, zf, addr)
	case "a", "nbe":
		return lf.boolAnd(lf.boolNot(cf, addr), lf.boolNot(zf, addr), addr)
	case "s":
		return sf
	case "ns":
		return lf.boolNot(sf, addr)
	case "o":
		return of
	case "no":
		return lf.boolNot(of, addr)
	case "p", "pe":
		return pf
	case "np", "po":
		return lf.boolNot(pf, addr)
	default:
		return pcode.Const(0, 1)
	}
}

func (lf *Lifter) boolNot(a pcode.Varnode, addr uint64) pcode.Varnode {
	out := lf.temp(1)
	lf.emit(pcode.New1(pcode.BoolNegate, &out, a, addr))
	return out
}

func (lf *Lifter) boolAnd(a, b pcode.Varnode, addr uint64) pcode.Varnode {
	out := lf.temp(1)
	lf.emit(pcode.New2(pcode.BoolAnd, &out, a, b, addr))
	return out
}

func (lf *Lifter) boolOr(a, b pcode.Varnode, addr uint64) pcode.Varnode {
	out := lf.temp(1)
	lf.emit(pcode.New2(pcode.BoolOr, &out, a, b, addr))
	return out
}

func (lf *Lifter) boolEqual(a, b pcode.Varnode, addr uint64) pcode.Varnode {
	out := lf.temp(1)
	lf.emit(pcode.New2(pcode.IntEqual, &out, a, b, addr))
	return out
}

func (lf *Lifter) boolNotEqual(a, b pcode.Varnode, addr uint64) pcode.Varnode {
	out := lf.temp(1)
	lf.emit(pcode.New2(pcode.IntNotEqual, &out, a, b, addr))
	return out
}
