package jumptable

import (
	"encoding/binary"

	"github.com/corelift/pcode/pkg/decode"
)

// ReadDestinations fills in t's destination list by reading little-endian
// words of t.EntrySize bytes from the image at t.BaseAddress, the same
// bounded fixed-width decode idiom the teacher's CUDA harness uses for its
// binary candidate stream (length known up front, binary.LittleEndian per
// word, never past the buffer's end). Reading stops early, without error,
// the first time a read runs past the end of the backing section — t's
// entry count was an estimate, and the section boundary is the only
// trustworthy bound.
func ReadDestinations(img decode.Image, t Table) []uint64 {
	dests := make([]uint64, 0, t.NumEntries)
	for i := 0; i < t.NumEntries; i++ {
		addr := t.BaseAddress + uint64(i)*uint64(t.EntrySize)
		raw, ok := img.ReadAt(addr, int(t.EntrySize))
		if !ok {
			break
		}
		dests = append(dests, readWord(raw, t.EntrySize))
	}
	return dests
}

func readWord(raw []byte, size uint8) uint64 {
	switch size {
	case 4:
		return uint64(binary.LittleEndian.Uint32(raw))
	case 8:
		return binary.LittleEndian.Uint64(raw)
	default:
		var v uint64
		for i := 0; i < int(size); i++ {
			v |= uint64(raw[i]) << (8 * i)
		}
		return v
	}
}
