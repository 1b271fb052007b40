package nzmask

import "github.com/corelift/pcode/pkg/pcode"

// Consume is the dual analysis to Masks: for each Varnode, the union
// over its use sites of which bits can influence the observed result
// there (SPEC_FULL §4.6's "consume-mask"). Used to detect dead bits a
// definition computes but no use ever reads.
type Consume map[pcode.Varnode]uint64

// ConsumeAnalyze runs a single linear pass over ops, accumulating each
// input Varnode's consumed-bit set from the opcode it feeds. Most
// opcodes consume every bit of every non-constant input (the
// conservative default); int-and and sub-piece narrow that to the bits
// that can actually reach the result.
func ConsumeAnalyze(ops []pcode.Op) Consume {
	c := Consume{}
	add := func(v pcode.Varnode, bits uint64) {
		if v.IsConst() {
			return
		}
		c[v] |= bits & pcode.SizeMask(v.Size)
	}

	for _, op := range ops {
		switch op.Opcode {
		case pcode.IntAnd:
			if len(op.Inputs) != 2 {
				continue
			}
			a, b := op.Inputs[0], op.Inputs[1]
			if b.IsConst() {
				add(a, b.ConstValue())
			} else {
				add(a, pcode.SizeMask(a.Size))
			}
			if a.IsConst() {
				add(b, a.ConstValue())
			} else {
				add(b, pcode.SizeMask(b.Size))
			}

		case pcode.SubPiece:
			if len(op.Inputs) != 2 {
				continue
			}
			a, off := op.Inputs[0], op.Inputs[1]
			if !off.IsConst() {
				add(a, pcode.SizeMask(a.Size))
				continue
			}
			shift := off.ConstValue() * 8
			outSize := uint8(0)
			if out, ok := op.OutVar(); ok {
				outSize = out.Size
			}
			if shift >= 64 {
				continue
			}
			add(a, pcode.SizeMask(outSize)<<shift)

		default:
			for _, in := range op.Inputs {
				add(in, pcode.SizeMask(in.Size))
			}
		}
	}
	return c
}
