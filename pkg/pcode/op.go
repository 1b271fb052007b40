package pcode

// Op is a single P-code operation: an opcode, an optional output Varnode,
// an ordered input list, and the machine address of the instruction it
// was lifted from. A single machine instruction expands to 0..N Ops
// sharing the same Address.
type Op struct {
	Opcode  Opcode
	Output  *Varnode
	Inputs  []Varnode
	Address uint64
}

// New0 builds a zero-input op (e.g. Return).
func New0(op Opcode, addr uint64) Op {
	return Op{Opcode: op, Address: addr}
}

// New1 builds a one-input op, optionally producing an output.
func New1(op Opcode, out *Varnode, in0 Varnode, addr uint64) Op {
	return Op{Opcode: op, Output: out, Inputs: []Varnode{in0}, Address: addr}
}

// New2 builds a two-input op, optionally producing an output.
func New2(op Opcode, out *Varnode, in0, in1 Varnode, addr uint64) Op {
	return Op{Opcode: op, Output: out, Inputs: []Varnode{in0, in1}, Address: addr}
}

// NewN builds a variable-arity op (MultiEqual, CallOther, New, Insert,
// ConstantPool), optionally producing an output.
func NewN(op Opcode, out *Varnode, ins []Varnode, addr uint64) Op {
	return Op{Opcode: op, Output: out, Inputs: ins, Address: addr}
}

// OutVar returns the output Varnode and true, or the zero Varnode and
// false if the op has no output.
func (o Op) OutVar() (Varnode, bool) {
	if o.Output == nil {
		return Varnode{}, false
	}
	return *o.Output, true
}

// SetOutput replaces the op's output Varnode in place, preserving its
// identity pointer semantics are not required: callers hold ops by value
// in a slice and write back via index, never via a shared pointer to Op.
func (o *Op) SetOutput(v Varnode) { o.Output = &v }

// IsCopy reports whether this op is a plain copy — the only opcode copy
// propagation chases through (SPEC_FULL §4.8).
func (o Op) IsCopy() bool { return o.Opcode == Copy }

// IsPhi reports whether this op is the SSA merge operator.
func (o Op) IsPhi() bool { return o.Opcode == MultiEqual }

func (o Op) String() string {
	s := o.Opcode.Name()
	if out, ok := o.OutVar(); ok {
		s = out.String() + " = " + s
	}
	for i, in := range o.Inputs {
		if i > 0 {
			s += ","
		}
		s += " " + in.String()
	}
	return s
}
