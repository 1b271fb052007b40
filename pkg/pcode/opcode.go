package pcode

// Opcode is a compact identifier for a P-code operation kind. Unlike the
// teacher's Z80 OpCode (one entry per concrete encoded instruction), an
// Opcode here names a semantic primitive shared by many x86-64
// instructions — the lifter's job is mapping many mnemonics onto few
// opcodes, not the other way around.
type Opcode uint8

// The closed set of ~74 P-code opcodes, grouped the way the teacher groups
// its instruction set by "implementation wave" (SPEC_FULL §3).
const (
	// --- data movement ---
	Copy Opcode = iota
	Load
	Store

	// --- control flow ---
	Branch
	CBranch
	BranchInd
	Call
	CallInd
	CallOther
	Return

	// --- integer arithmetic ---
	IntAdd
	IntSub
	IntMult
	IntDiv
	IntSDiv
	IntRem
	IntSRem
	IntNegate
	IntCarry
	IntSCarry
	IntSBorrow

	// --- integer compare ---
	IntEqual
	IntNotEqual
	IntLess
	IntSLess
	IntLessEqual
	IntSLessEqual

	// --- bitwise / shift ---
	IntAnd
	IntOr
	IntXor
	IntNot
	IntLeft
	IntRight
	IntSRight

	// --- extension ---
	IntZExt
	IntSExt

	// --- boolean ---
	BoolAnd
	BoolOr
	BoolXor
	BoolNegate

	// --- floating point ---
	FloatAdd
	FloatSub
	FloatMult
	FloatDiv
	FloatNeg
	FloatAbs
	FloatSqrt
	FloatEqual
	FloatNotEqual
	FloatLess
	FloatLessEqual
	FloatNaN
	FloatInt2Float
	FloatFloat2Float
	FloatTrunc
	FloatCeil
	FloatFloor
	FloatRound

	// --- SSA ---
	MultiEqual // phi
	Indirect

	// --- piece/sub-piece/cast ---
	Piece
	SubPiece
	Cast

	// --- pointer arithmetic ---
	PtrAdd
	PtrSub

	// --- misc ---
	Segment
	ConstantPool
	New
	Insert
	Extract
	PopCount
	LZCount

	opcodeCount
)

// Info is static per-opcode metadata, the IR analog of the teacher's
// per-instruction Catalog entry (mnemonic + bytes + T-states): a single
// array indexed by the opcode, populated once in init().
type Info struct {
	Name        string
	Arity       int // -1 means variable arity (MultiEqual)
	HasOutput   bool
	Commutative bool
}

var catalog [opcodeCount]Info

func reg(op Opcode, name string, arity int, hasOutput, commutative bool) {
	catalog[op] = Info{Name: name, Arity: arity, HasOutput: hasOutput, Commutative: commutative}
}

func init() {
	reg(Copy, "copy", 1, true, false)
	reg(Load, "load", 1, true, false)
	reg(Store, "store", 2, false, false)

	reg(Branch, "branch", 1, false, false)
	reg(CBranch, "cbranch", 2, false, false)
	reg(BranchInd, "branch-ind", 1, false, false)
	reg(Call, "call", 1, false, false)
	reg(CallInd, "call-ind", 1, false, false)
	reg(CallOther, "call-other", -1, false, false)
	reg(Return, "return", 0, false, false)

	reg(IntAdd, "int-add", 2, true, true)
	reg(IntSub, "int-sub", 2, true, false)
	reg(IntMult, "int-mult", 2, true, true)
	reg(IntDiv, "int-div", 2, true, false)
	reg(IntSDiv, "int-sdiv", 2, true, false)
	reg(IntRem, "int-rem", 2, true, false)
	reg(IntSRem, "int-srem", 2, true, false)
	reg(IntNegate, "int-negate", 1, true, false)
	reg(IntCarry, "int-carry", 2, true, true)
	reg(IntSCarry, "int-scarry", 2, true, true)
	reg(IntSBorrow, "int-sborrow", 2, true, false)

	reg(IntEqual, "int-equal", 2, true, true)
	reg(IntNotEqual, "int-not-equal", 2, true, true)
	reg(IntLess, "int-less", 2, true, false)
	reg(IntSLess, "int-sless", 2, true, false)
	reg(IntLessEqual, "int-lessequal", 2, true, false)
	reg(IntSLessEqual, "int-slessequal", 2, true, false)

	reg(IntAnd, "int-and", 2, true, true)
	reg(IntOr, "int-or", 2, true, true)
	reg(IntXor, "int-xor", 2, true, true)
	reg(IntNot, "int-not", 1, true, false)
	reg(IntLeft, "int-left", 2, true, false)
	reg(IntRight, "int-right", 2, true, false)
	reg(IntSRight, "int-sright", 2, true, false)

	reg(IntZExt, "int-zext", 1, true, false)
	reg(IntSExt, "int-sext", 1, true, false)

	reg(BoolAnd, "bool-and", 2, true, true)
	reg(BoolOr, "bool-or", 2, true, true)
	reg(BoolXor, "bool-xor", 2, true, true)
	reg(BoolNegate, "bool-negate", 1, true, false)

	reg(FloatAdd, "float-add", 2, true, true)
	reg(FloatSub, "float-sub", 2, true, false)
	reg(FloatMult, "float-mult", 2, true, true)
	reg(FloatDiv, "float-div", 2, true, false)
	reg(FloatNeg, "float-neg", 1, true, false)
	reg(FloatAbs, "float-abs", 1, true, false)
	reg(FloatSqrt, "float-sqrt", 1, true, false)
	reg(FloatEqual, "float-equal", 2, true, true)
	reg(FloatNotEqual, "float-not-equal", 2, true, true)
	reg(FloatLess, "float-less", 2, true, false)
	reg(FloatLessEqual, "float-lessequal", 2, true, false)
	reg(FloatNaN, "float-nan", 1, true, false)
	reg(FloatInt2Float, "float-int2float", 1, true, false)
	reg(FloatFloat2Float, "float-float2float", 1, true, false)
	reg(FloatTrunc, "float-trunc", 1, true, false)
	reg(FloatCeil, "float-ceil", 1, true, false)
	reg(FloatFloor, "float-floor", 1, true, false)
	reg(FloatRound, "float-round", 1, true, false)

	reg(MultiEqual, "multi-equal", -1, true, false)
	reg(Indirect, "indirect", 2, true, false)

	reg(Piece, "piece", 2, true, false)
	reg(SubPiece, "sub-piece", 2, true, false)
	reg(Cast, "cast", 1, true, false)

	reg(PtrAdd, "ptr-add", 2, true, false)
	reg(PtrSub, "ptr-sub", 2, true, false)

	reg(Segment, "segment", 2, true, false)
	reg(ConstantPool, "constant-pool", -1, true, false)
	reg(New, "new", -1, true, false)
	reg(Insert, "insert", -1, true, false)
	reg(Extract, "extract", 2, true, false)
	reg(PopCount, "popcount", 1, true, false)
	reg(LZCount, "lzcount", 1, true, false)
}

// Name returns the opcode's canonical lowercase-hyphenated name.
func (op Opcode) Name() string {
	if int(op) < len(catalog) {
		return catalog[op].Name
	}
	return "op?"
}

func (op Opcode) String() string { return op.Name() }

// Commutative reports whether swapping the two inputs of a binary op
// preserves its semantics — consulted by the rewrite engine's term-order
// rule.
func (op Opcode) Commutative() bool {
	if int(op) < len(catalog) {
		return catalog[op].Commutative
	}
	return false
}

// IsTerminator reports whether op can end a basic block.
func (op Opcode) IsTerminator() bool {
	switch op {
	case Branch, CBranch, BranchInd, Return, Call:
		return true
	default:
		return false
	}
}
