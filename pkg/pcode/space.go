// Package pcode defines the architecture-independent register-transfer IR
// ("P-code") that the rest of the analysis pipeline operates on: address
// spaces, Varnodes, opcodes, and the operation record that ties them
// together.
package pcode

// Space tags the kind of storage a Varnode lives in. The set is closed —
// callers switch over it exhaustively rather than type-asserting an
// interface hierarchy.
type Space uint8

const (
	// SpaceRegister holds architectural registers, keyed by a stable
	// per-register offset (not the raw encoding bits).
	SpaceRegister Space = iota
	// SpaceRAM holds addressable process memory; constant RAM offsets
	// are absolute virtual addresses.
	SpaceRAM
	// SpaceConst holds immediate values; offset IS the value.
	SpaceConst
	// SpaceUnique holds compiler-invented temporaries with no
	// architectural meaning, scoped to a single lift.
	SpaceUnique
	// SpaceStack holds locations relative to the frame, keyed by signed
	// displacement from the stack pointer at function entry.
	SpaceStack
)

func (s Space) String() string {
	switch s {
	case SpaceRegister:
		return "register"
	case SpaceRAM:
		return "ram"
	case SpaceConst:
		return "const"
	case SpaceUnique:
		return "unique"
	case SpaceStack:
		return "stack"
	default:
		return "space?"
	}
}

// Reserved unique-space offsets for flag Varnodes written by the lifter.
// Kept in one place so every arithmetic/logical emitter agrees on where
// to find CF/PF/AF/ZF/SF/OF.
const (
	FlagCF uint64 = iota
	FlagPF
	FlagAF
	FlagZF
	FlagSF
	FlagOF
	// FirstFreeUniqueOffset is where the lifter's own scratch temporaries
	// start; offsets below it are reserved for flags.
	FirstFreeUniqueOffset
)
