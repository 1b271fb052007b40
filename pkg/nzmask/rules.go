package nzmask

import "github.com/corelift/pcode/pkg/pcode"

// rule applies the per-opcode mask rule from SPEC_FULL §4.6 to op, given
// the masks already known for its inputs. known=false means "no
// improvement over top" — add/sub/mul, non-constant shift amounts, and
// any opcode not named below.
func rule(op pcode.Op, m Masks) (mask uint64, known bool) {
	out, ok := op.OutVar()
	if !ok {
		return 0, false
	}
	sizeMask := top(out.Size)

	in := func(i int) pcode.Varnode {
		if i < len(op.Inputs) {
			return op.Inputs[i]
		}
		return pcode.Varnode{}
	}

	switch op.Opcode {
	case pcode.Copy:
		return maskOf(m, in(0)), true

	case pcode.IntAnd:
		return maskOf(m, in(0)) & maskOf(m, in(1)), true

	case pcode.IntOr, pcode.IntXor:
		return maskOf(m, in(0)) | maskOf(m, in(1)), true

	case pcode.IntNegate:
		// SPEC_FULL §4.6's literal rule: negate keeps the input's mask.
		// int-negate is two's-complement negation, so this is not an
		// upper bound on the result's bits: an input of 1 (mask 0x1)
		// negates to all ones.
		return maskOf(m, in(0)), true

	case pcode.IntLeft:
		c, isConst := in(1), in(1).IsConst()
		if !isConst {
			return 0, false
		}
		shift := c.ConstValue()
		if shift >= 64 {
			return 0, true
		}
		return (maskOf(m, in(0)) << shift) & sizeMask, true

	case pcode.IntRight, pcode.IntSRight:
		c, isConst := in(1), in(1).IsConst()
		if !isConst {
			return 0, false
		}
		shift := c.ConstValue()
		if shift >= 64 {
			return 0, true
		}
		return maskOf(m, in(0)) >> shift, true

	case pcode.IntZExt:
		return maskOf(m, in(0)), true

	case pcode.IntSExt:
		a := in(0)
		am := maskOf(m, a)
		signBit := uint64(1) << (uint(a.Size)*8 - 1)
		if am&signBit == 0 {
			return am, true
		}
		return sizeMask, true

	case pcode.SubPiece:
		off, isConst := in(1), in(1).IsConst()
		if !isConst {
			return 0, false
		}
		shift := off.ConstValue() * 8
		if shift >= 64 {
			return 0, true
		}
		return (maskOf(m, in(0)) >> shift) & sizeMask, true

	case pcode.IntEqual, pcode.IntNotEqual, pcode.IntLess, pcode.IntSLess,
		pcode.IntLessEqual, pcode.IntSLessEqual,
		pcode.BoolAnd, pcode.BoolOr, pcode.BoolXor, pcode.BoolNegate:
		return 1, true

	default:
		return 0, false
	}
}
