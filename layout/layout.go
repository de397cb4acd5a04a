// Package layout holds the alignment arithmetic and block-header placement
// shared by the arena and pool allocators: the two places in this module
// that hand out raw memory and need to recover {size, alignment} from a
// bare pointer later.
package layout

import "unsafe"

// AlignUp rounds value up to the nearest multiple of alignment, which must
// be a power of two.
func AlignUp(value int, alignment int) int {
	return (value + alignment - 1) &^ (alignment - 1)
}

// AlignDown rounds value down to the nearest multiple of alignment, which
// must be a power of two.
func AlignDown(value int, alignment int) int {
	return value &^ (alignment - 1)
}

// Header is the trailing block header placed immediately before every
// pointer this module's allocators hand back: it records enough to recover
// the block's size and the alignment the caller originally requested, since
// Realloc/Free are called with alignment = 0 and must recall it.
type Header struct {
	Size      int
	Alignment int
}

// HeaderSize and HeaderAlign describe Header's own footprint; both arena and
// pool use them when carving a header out of raw memory.
var (
	HeaderSize  = int(unsafe.Sizeof(Header{}))
	HeaderAlign = int(unsafe.Alignof(Header{}))
)

// PlaceHeader computes, for a tentative bump position start and a requested
// payload size/alignment, the header offset and payload offset that satisfy
// both "header is HeaderAlign-aligned" and "payload is alignment-aligned",
// with the header placed immediately before the payload (payload == header
// offset + HeaderSize, i.e. "user = header + 1" in the source library's
// terms). It returns (headerOffset, payloadOffset, newEnd).
func PlaceHeader(start int, size int, alignment int) (headerOffset, payloadOffset, newEnd int) {
	if alignment < 1 {
		alignment = 1
	}
	headerAligned := AlignUp(start, HeaderAlign)
	tentative := headerAligned + HeaderSize
	payloadOffset = AlignUp(tentative, alignment)
	headerOffset = payloadOffset - HeaderSize
	newEnd = payloadOffset + size
	return headerOffset, payloadOffset, newEnd
}

// HeaderFor recovers the Header immediately preceding a payload pointer:
// the header sits HeaderSize bytes before the payload, which is always
// where PlaceHeader put it.
func HeaderFor(payload unsafe.Pointer) *Header {
	return (*Header)(unsafe.Add(payload, -HeaderSize))
}
