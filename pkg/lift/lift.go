// Package lift maps decoded x86-64 instructions onto P-code op sequences
// (SPEC_FULL §4.2 / C2). It is the largest component of the pipeline: one
// handler family per instruction class, dispatched off the decoded
// mnemonic the way the teacher's cpu.Exec dispatches off inst.OpCode, but
// fanning one mnemonic out into a handful of semantically-precise P-code
// ops instead of mutating a fixed register struct in place.
package lift

import (
	"strings"

	"github.com/corelift/pcode/pkg/decode"
	"github.com/corelift/pcode/pkg/diag"
	"github.com/corelift/pcode/pkg/pcode"
)

// Lifter holds the mutable state of one lift: the growing op list, a
// unique-temporary counter, and the diagnostic log. One Lifter is used
// per function and then discarded — nothing here is shared across
// concurrent analyses (SPEC_FULL §5).
type Lifter struct {
	ops      []pcode.Op
	nextTemp uint64
	diags    []diag.Diagnostic
}

// New creates a Lifter with its unique-temp counter past the reserved
// flag offsets (pcode.FirstFreeUniqueOffset).
func New() *Lifter {
	return &Lifter{nextTemp: pcode.FirstFreeUniqueOffset}
}

// temp allocates a fresh unique-space Varnode of the given size.
func (lf *Lifter) temp(size uint8) pcode.Varnode {
	v := pcode.Unique(lf.nextTemp, size)
	lf.nextTemp++
	return v
}

// emit appends an op to the output list. Ops are already in
// machine-address order because instructions arrive from the decoder in
// that order and each instruction only ever appends (SPEC_FULL property
// 1: lifter output-address ordering).
func (lf *Lifter) emit(op pcode.Op) { lf.ops = append(lf.ops, op) }

func (lf *Lifter) diagnose(kind diag.Kind, msg string, addr uint64) {
	lf.diags = append(lf.diags, diag.Diagnostic{Kind: kind, Message: msg, MachineAddress: addr})
}

// Lift drains decoder, translating every instruction into zero or more
// P-code ops, and returns the flat op list plus any diagnostics raised
// along the way. maxInstructions bounds how many instructions are
// consumed (0 means unbounded); address-out-of-bounds and
// decoder-failure handling are the caller's responsibility (package
// pipeline) since they concern the byte slice / decoder, not the lift
// of an individual instruction.
func Lift(d decode.Decoder, maxInstructions int) ([]pcode.Op, []diag.Diagnostic) {
	lf := New()
	count := 0
	for {
		if maxInstructions > 0 && count >= maxInstructions {
			break
		}
		in, ok := d.Next()
		if !ok {
			break
		}
		lf.liftOne(in)
		count++
	}
	return lf.ops, lf.diags
}

// liftOne dispatches a single decoded instruction to its handler family
// by mnemonic. An unrecognized mnemonic emits no ops and a diagnostic
// (SPEC_FULL §4.2 error condition); int3 is special-cased to a no-op
// rather than an error.
func (lf *Lifter) liftOne(in decode.DecodedInstruction) {
	mnem := strings.ToLower(in.Mnemonic)
	switch {
	case mnem == "nop" || mnem == "int3":
		// modeled as empty — no ops, no diagnostic.
		return
	case isMoveMnemonic(mnem):
		lf.liftMove(mnem, in)
	case isStackMnemonic(mnem):
		lf.liftStack(mnem, in)
	case isArithmeticMnemonic(mnem):
		lf.liftArithmetic(mnem, in)
	case isLogicalMnemonic(mnem):
		lf.liftLogical(mnem, in)
	case mnem == "cmp" || mnem == "test":
		lf.liftCompare(mnem, in)
	case isControlMnemonic(mnem):
		lf.liftControl(mnem, in)
	case isExtendMnemonic(mnem):
		lf.liftExtend(mnem, in)
	case isStringMnemonic(mnem):
		lf.liftString(mnem, in)
	case isSSEMnemonic(mnem):
		lf.liftSSE(mnem, in)
	case isAtomicMnemonic(mnem):
		lf.liftAtomic(mnem, in)
	default:
		lf.diagnose(diag.UnsupportedInstruction, "unsupported mnemonic: "+in.Mnemonic, in.Address)
	}
}

// requireOperands checks an instruction's operand count against a shape
// contract (e.g. xchg requires exactly two operands); a mismatch is a
// bad-operand-shape diagnostic and the instruction is skipped
// (SPEC_FULL §4.2, §7).
func (lf *Lifter) requireOperands(in decode.DecodedInstruction, n int) bool {
	if len(in.Operands) != n {
		lf.diagnose(diag.BadOperandShape,
			"expected "+itoa(n)+" operands for "+in.Mnemonic, in.Address)
		return false
	}
	return true
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
