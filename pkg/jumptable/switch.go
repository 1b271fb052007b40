package jumptable

// Case is one recovered switch arm: the selector value that reaches it
// and the address it branches to.
type Case struct {
	Value  int
	Target uint64
}

// Switch is a jump table resolved to concrete branch targets, ready for
// the structural analyzer to fold into a switch construct.
type Switch struct {
	Cases      []Case
	Default    uint64 // zero value means no default slot was supplied
	HasDefault bool
}

// BuildSwitch pairs each destination read from the image with its index
// as the case value (SPEC_FULL §4.9: "one case per recovered
// destination, labeled by index"). It leaves the default slot empty;
// callers that can establish a bounds-check fallthrough target fill it
// in with WithDefault.
func BuildSwitch(dests []uint64) Switch {
	sw := Switch{Cases: make([]Case, len(dests))}
	for i, d := range dests {
		sw.Cases[i] = Case{Value: i, Target: d}
	}
	return sw
}

// WithDefault returns a copy of sw with its default slot set to target.
func (sw Switch) WithDefault(target uint64) Switch {
	sw.Default = target
	sw.HasDefault = true
	return sw
}
