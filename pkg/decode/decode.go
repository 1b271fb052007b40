// Package decode defines the adapter boundary between the core and an
// external x86-64 disassembler: the shapes the lifter consumes, never the
// decoding logic itself (SPEC_FULL §1, §6).
package decode

// OperandKind is the closed tag for the Operand union.
type OperandKind uint8

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandMemory
)

// Operand is a tagged union over the three x86-64 operand shapes the
// lifter understands. Only the fields matching Kind are meaningful.
type Operand struct {
	Kind OperandKind

	// OperandRegister
	RegID   uint16
	RegSize uint8

	// OperandImmediate
	ImmValue uint64
	ImmSize  uint8

	// OperandMemory
	MemBase    *uint16 // register id, nil if absent
	MemIndex   *uint16 // register id, nil if absent
	MemScale   uint8   // one of {1,2,4,8}, 0 if no index
	MemDisp    int64
	MemAccSize uint8
}

// Reserved register IDs for the stack and frame pointers, numbered the
// way the x86-64 ModRM/SIB encoding numbers the integer register file
// (RAX=0 ... RDI=7, R8-R15=8-15). The lifter's stack and call/ret
// handling needs to recognize these two specifically; every other
// register is opaque to it.
const (
	RegRSP uint16 = 4
	RegRBP uint16 = 5
)

// Register builds a register operand.
func Register(id uint16, size uint8) Operand {
	return Operand{Kind: OperandRegister, RegID: id, RegSize: size}
}

// Immediate builds an immediate operand.
func Immediate(value uint64, size uint8) Operand {
	return Operand{Kind: OperandImmediate, ImmValue: value, ImmSize: size}
}

// Memory builds a memory operand: base + index*scale + disp.
func Memory(base, index *uint16, scale uint8, disp int64, accessSize uint8) Operand {
	return Operand{
		Kind:       OperandMemory,
		MemBase:    base,
		MemIndex:   index,
		MemScale:   scale,
		MemDisp:    disp,
		MemAccSize: accessSize,
	}
}

// DecodedInstruction is one instruction as handed to the lifter by the
// external disassembler: mnemonic, structured operands, machine address
// and encoded length. The core never looks at raw bytes beyond what the
// decoder already parsed.
type DecodedInstruction struct {
	Mnemonic string
	Operands []Operand
	Address  uint64
	Length   uint32
}

// Decoder is the interface the lifter consumes. A real implementation
// wraps a third-party disassembler; tests supply a canned slice via
// SliceDecoder.
type Decoder interface {
	// Next returns the next decoded instruction in stream order, or
	// ok=false at end of stream / decode failure. A decoder
	// that fails mid-stream returns whatever it already buffered via
	// prior Next calls and then ok=false (decoder-failure, SPEC_FULL §7).
	Next() (DecodedInstruction, bool)
}

// SliceDecoder replays a fixed slice of already-decoded instructions. It
// is the adapter tests and the demo CLI use in place of a real
// disassembler.
type SliceDecoder struct {
	instrs []DecodedInstruction
	pos    int
}

// NewSliceDecoder wraps a pre-decoded instruction slice as a Decoder.
func NewSliceDecoder(instrs []DecodedInstruction) *SliceDecoder {
	return &SliceDecoder{instrs: instrs}
}

func (d *SliceDecoder) Next() (DecodedInstruction, bool) {
	if d.pos >= len(d.instrs) {
		return DecodedInstruction{}, false
	}
	in := d.instrs[d.pos]
	d.pos++
	return in, true
}
