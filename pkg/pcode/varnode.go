package pcode

import "fmt"

// Varnode is the atom of the IR: a value-carrying cell identified by
// (space, offset, size, version). Two Varnodes are identical iff all four
// fields match. Version is 0 until SSA renaming assigns one; see package
// ssa.
type Varnode struct {
	Space   Space
	Offset  uint64
	Size    uint8
	Version uint32
}

// Reg constructs a register Varnode.
func Reg(offset uint64, size uint8) Varnode {
	return Varnode{Space: SpaceRegister, Offset: offset, Size: size}
}

// RAM constructs a RAM-space Varnode at an absolute address.
func RAM(addr uint64, size uint8) Varnode {
	return Varnode{Space: SpaceRAM, Offset: addr, Size: size}
}

// Const constructs a constant Varnode. The offset is masked to size so
// that, e.g., Const(0x1FF, 1) and Const(0xFF, 1) are identical — the
// invariant constant Varnodes have size in {1,2,4,8} and offset masked to
// that size.
func Const(value uint64, size uint8) Varnode {
	return Varnode{Space: SpaceConst, Offset: value & sizeMask(size), Size: size}
}

// Unique constructs a unique-space (temporary) Varnode.
func Unique(offset uint64, size uint8) Varnode {
	return Varnode{Space: SpaceUnique, Offset: offset, Size: size}
}

// Stack constructs a stack-space Varnode at a signed displacement from the
// entry stack pointer, stored as its two's-complement bit pattern.
func Stack(disp int64, size uint8) Varnode {
	return Varnode{Space: SpaceStack, Offset: uint64(disp), Size: size}
}

// IsConst reports whether v is a constant Varnode.
func (v Varnode) IsConst() bool { return v.Space == SpaceConst }

// ConstValue returns the constant's value. Callers must check IsConst first.
func (v Varnode) ConstValue() uint64 { return v.Offset }

// SameAddress reports whether two Varnodes name the same storage location,
// ignoring SSA version — the identity used for "per-address stacks" during
// renaming (SPEC_FULL §4.5).
func (v Varnode) SameAddress(o Varnode) bool {
	return v.Space == o.Space && v.Offset == o.Offset && v.Size == o.Size
}

// Equal reports full identity including SSA version.
func (v Varnode) Equal(o Varnode) bool {
	return v == o
}

func (v Varnode) String() string {
	switch v.Space {
	case SpaceConst:
		return fmt.Sprintf("#0x%x:%d", v.Offset, v.Size)
	case SpaceRegister:
		if v.Version > 0 {
			return fmt.Sprintf("r%d.%d:%d", v.Offset, v.Version, v.Size)
		}
		return fmt.Sprintf("r%d:%d", v.Offset, v.Size)
	case SpaceRAM:
		return fmt.Sprintf("ram[0x%x]:%d", v.Offset, v.Size)
	case SpaceUnique:
		if v.Version > 0 {
			return fmt.Sprintf("tmp%d.%d:%d", v.Offset, v.Version, v.Size)
		}
		return fmt.Sprintf("tmp%d:%d", v.Offset, v.Size)
	case SpaceStack:
		return fmt.Sprintf("stack[%d]:%d", int64(v.Offset), v.Size)
	default:
		return fmt.Sprintf("?[%d]:%d", v.Offset, v.Size)
	}
}

func sizeMask(size uint8) uint64 {
	if size >= 8 {
		return ^uint64(0)
	}
	return (uint64(1) << (8 * size)) - 1
}

// SizeMask exposes the size-to-bitmask conversion used throughout the
// NZ-mask analyzer and rewrite engine so every package masks bytes the
// same way.
func SizeMask(size uint8) uint64 { return sizeMask(size) }
