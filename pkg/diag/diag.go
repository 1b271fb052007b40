// Package diag holds the structured, non-fatal diagnostic record type
// (SPEC_FULL §3, §7) and a thin zap-backed logger used to surface it.
// Every fallible-but-local operation in the pipeline appends a Diagnostic
// to its analysis's log and, if a logger is present, emits it there too;
// nothing in the core panics or returns an exception-like control path.
package diag

import "go.uber.org/zap"

// Kind is the closed set of error kinds from SPEC_FULL §7.
type Kind uint8

const (
	UnsupportedInstruction Kind = iota
	BadOperandShape
	AddressOutOfBounds
	DecoderFailure
	CacheCorruption
	IOFailure
)

func (k Kind) String() string {
	switch k {
	case UnsupportedInstruction:
		return "unsupported-instruction"
	case BadOperandShape:
		return "bad-operand-shape"
	case AddressOutOfBounds:
		return "address-out-of-bounds"
	case DecoderFailure:
		return "decoder-failure"
	case CacheCorruption:
		return "cache-corruption"
	case IOFailure:
		return "io-failure"
	default:
		return "unknown"
	}
}

// Diagnostic is a structured, non-fatal error record. It is always
// attached to the AnalysisResult it arose from; the pipeline never stops
// because one was produced.
type Diagnostic struct {
	Kind            Kind
	Message         string
	MachineAddress  uint64 // 0 if not applicable
	FunctionAddress uint64 // 0 if not applicable
}

func (d Diagnostic) String() string {
	return d.Kind.String() + ": " + d.Message
}

// Logger wraps *zap.Logger with the kind-to-level mapping from SPEC_FULL
// §4.15. It is always constructed explicitly and passed in, never read
// from a package-level global, so concurrent Runner workers (package
// pipeline) never share mutable logger state beyond what zap itself
// serializes.
type Logger struct {
	z *zap.Logger
}

// NewLogger wraps an existing zap logger. A nil argument yields a no-op
// Logger so callers that don't care about diagnostics don't have to wire
// one up.
func NewLogger(z *zap.Logger) Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return Logger{z: z}
}

// Emit logs d at the severity its Kind maps to.
func (l Logger) Emit(d Diagnostic) {
	fields := []zap.Field{
		zap.String("kind", d.Kind.String()),
		zap.Uint64("machine_address", d.MachineAddress),
		zap.Uint64("function_address", d.FunctionAddress),
	}
	switch d.Kind {
	case UnsupportedInstruction, BadOperandShape:
		l.z.Warn(d.Message, fields...)
	default:
		l.z.Error(d.Message, fields...)
	}
}

// Sync flushes any buffered log entries.
func (l Logger) Sync() error { return l.z.Sync() }
