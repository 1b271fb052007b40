package printer

import (
	"fmt"

	"github.com/corelift/pcode/pkg/pcode"
)

// infixOps maps a binary opcode to its C infix operator text.
var infixOps = map[pcode.Opcode]string{
	pcode.IntAdd: "+", pcode.IntSub: "-", pcode.IntMult: "*",
	pcode.IntDiv: "/", pcode.IntSDiv: "/", pcode.IntRem: "%", pcode.IntSRem: "%",
	pcode.IntAnd: "&", pcode.IntOr: "|", pcode.IntXor: "^",
	pcode.IntLeft: "<<", pcode.IntRight: ">>", pcode.IntSRight: ">>",
	pcode.IntEqual: "==", pcode.IntNotEqual: "!=",
	pcode.IntLess: "<", pcode.IntSLess: "<",
	pcode.IntLessEqual: "<=", pcode.IntSLessEqual: "<=",
	pcode.BoolAnd: "&&", pcode.BoolOr: "||", pcode.BoolXor: "^",
	pcode.FloatAdd: "+", pcode.FloatSub: "-", pcode.FloatMult: "*", pcode.FloatDiv: "/",
	pcode.FloatEqual: "==", pcode.FloatNotEqual: "!=",
	pcode.FloatLess: "<", pcode.FloatLessEqual: "<=",
}

// prefixOps maps a unary opcode to its C prefix operator text.
var prefixOps = map[pcode.Opcode]string{
	pcode.IntNegate: "-", pcode.IntNot: "~", pcode.BoolNegate: "!", pcode.FloatNeg: "-",
}

// operand renders one input Varnode as source text: its literal value
// if constant, its display name otherwise.
func operand(v pcode.Varnode) string {
	if v.IsConst() {
		return fmt.Sprintf("0x%x", v.ConstValue())
	}
	return VarName(v)
}

// Expr renders op's right-hand-side expression text. Parenthesization is
// conservative: every binary expression is wrapped regardless of
// precedence (SPEC_FULL §4.13).
func Expr(op pcode.Op) string {
	if sym, ok := infixOps[op.Opcode]; ok && len(op.Inputs) == 2 {
		return fmt.Sprintf("(%s %s %s)", operand(op.Inputs[0]), sym, operand(op.Inputs[1]))
	}
	if sym, ok := prefixOps[op.Opcode]; ok && len(op.Inputs) == 1 {
		return fmt.Sprintf("%s%s", sym, operand(op.Inputs[0]))
	}

	switch op.Opcode {
	case pcode.Copy:
		return operand(op.Inputs[0])
	case pcode.Load:
		return fmt.Sprintf("*(T*)%s", operand(op.Inputs[0]))
	case pcode.IntZExt, pcode.IntSExt, pcode.FloatInt2Float, pcode.FloatFloat2Float, pcode.Cast:
		return fmt.Sprintf("(T)%s", operand(op.Inputs[0]))
	case pcode.SubPiece:
		if len(op.Inputs) == 2 {
			return fmt.Sprintf("((%s >> (%s * 8)) & T_MASK)", operand(op.Inputs[0]), operand(op.Inputs[1]))
		}
	case pcode.Piece:
		if len(op.Inputs) == 2 {
			return fmt.Sprintf("(((uint64_t)%s << 32) | %s)", operand(op.Inputs[0]), operand(op.Inputs[1]))
		}
	case pcode.PtrAdd:
		if len(op.Inputs) == 2 {
			return fmt.Sprintf("(%s + %s)", operand(op.Inputs[0]), operand(op.Inputs[1]))
		}
	case pcode.PtrSub:
		if len(op.Inputs) == 2 {
			return fmt.Sprintf("(%s - %s)", operand(op.Inputs[0]), operand(op.Inputs[1]))
		}
	case pcode.MultiEqual:
		args := make([]string, len(op.Inputs))
		for i, in := range op.Inputs {
			args[i] = operand(in)
		}
		return fmt.Sprintf("phi(%v)", args)
	case pcode.PopCount:
		return fmt.Sprintf("popcount(%s)", operand(op.Inputs[0]))
	case pcode.LZCount:
		return fmt.Sprintf("clz(%s)", operand(op.Inputs[0]))
	case pcode.FloatAbs:
		return fmt.Sprintf("fabs(%s)", operand(op.Inputs[0]))
	case pcode.FloatSqrt:
		return fmt.Sprintf("sqrt(%s)", operand(op.Inputs[0]))
	}
	return fmt.Sprintf("/* unhandled %s */", op.Opcode.Name())
}

// Statement renders op as a standalone statement when it has no output
// (store, branch family, call, return) or assigns Expr's result to its
// output's declared name otherwise.
func Statement(op pcode.Op) string {
	if out, ok := op.OutVar(); ok {
		return fmt.Sprintf("%s = %s;", VarName(out), Expr(op))
	}
	switch op.Opcode {
	case pcode.Store:
		if len(op.Inputs) == 2 {
			return fmt.Sprintf("*(T*)%s = %s;", operand(op.Inputs[0]), operand(op.Inputs[1]))
		}
	case pcode.Branch:
		return fmt.Sprintf("goto %s;", branchLabel(op))
	case pcode.CBranch:
		return fmt.Sprintf("if (%s) goto %s;", operand(op.Inputs[1]), branchLabel(op))
	case pcode.BranchInd:
		return fmt.Sprintf("goto *%s;", operand(op.Inputs[0]))
	case pcode.Call:
		return fmt.Sprintf("%s();", branchLabel(op))
	case pcode.CallInd:
		return fmt.Sprintf("(*%s)();", operand(op.Inputs[0]))
	case pcode.Return:
		return "return;"
	}
	return fmt.Sprintf("/* unhandled %s */;", op.Opcode.Name())
}

// branchLabel renders a direct branch/call target as a synthesized
// label; an indirect target falls back to its operand text.
func branchLabel(op pcode.Op) string {
	if len(op.Inputs) == 0 {
		return "?"
	}
	t := op.Inputs[0]
	if t.Space == pcode.SpaceRAM {
		return fmt.Sprintf("L_%x", t.Offset)
	}
	return operand(t)
}
