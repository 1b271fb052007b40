package decode

// Section describes one PE section as handed down by the external PE
// loader adapter (SPEC_FULL §6). The core never parses the PE container
// itself; jump-table recovery (package jumptable) reads raw table bytes
// out of a Section's backing slice via RVA-to-file-offset translation.
type Section struct {
	Name          string
	VirtualAddr   uint64
	VirtualSize   uint64
	RawFileOffset uint64
	RawSize       uint64
	Data          []byte // raw section bytes, length RawSize
}

// Export describes one exported symbol.
type Export struct {
	Name string
	RVA  uint64
}

// Image is the minimal PE summary the core consumes: an image base,
// section list, and export list. A real adapter is backed by a PE
// parser; tests build an Image literal directly in memory.
type Image struct {
	ImageBase uint64
	Sections  []Section
	Exports   []Export
}

// SectionContaining returns the section whose virtual address range
// covers addr, or ok=false if none does.
func (img Image) SectionContaining(addr uint64) (Section, bool) {
	for _, s := range img.Sections {
		if addr >= s.VirtualAddr && addr < s.VirtualAddr+s.VirtualSize {
			return s, true
		}
	}
	return Section{}, false
}

// ReadAt returns n bytes of raw section data at virtual address addr, or
// ok=false if the range falls outside any known section or outside that
// section's backing data (address-out-of-bounds, SPEC_FULL §7).
func (img Image) ReadAt(addr uint64, n int) ([]byte, bool) {
	s, ok := img.SectionContaining(addr)
	if !ok {
		return nil, false
	}
	off := addr - s.VirtualAddr
	if off+uint64(n) > uint64(len(s.Data)) {
		return nil, false
	}
	return s.Data[off : off+uint64(n)], true
}
