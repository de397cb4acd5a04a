// Package arena implements the growable, reservation-backed bump allocator
// that backs the pool allocator's private chunk supply and the process-wide
// scratch arena. An Arena reserves a large virtual address range up front
// (via vmem) and commits pages into it only as its bump pointer ("mark")
// advances past the currently committed end ("capacity"), under a
// double-checked growth mutex.
package arena

import (
	"sync/atomic"
	"unsafe"

	"github.com/gofoundation/memsub/errs"
	"github.com/gofoundation/memsub/layout"
	"github.com/gofoundation/memsub/syncprim"
	"github.com/gofoundation/memsub/vmem"
)

const growthFraction = 1024

// reservation64 is ~1 TiB, the default reservation on 64-bit targets.
// reservation32 is ~100 MiB, the default on 32-bit targets.
const (
	reservation64 = 1 << 40
	reservation32 = 100 << 20
)

// DefaultReservationSize picks the reservation size spec.md §3 prescribes
// for the current target's pointer width.
func DefaultReservationSize() int {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return reservation64
	}
	return reservation32
}

// Arena is a bump allocator over a fixed virtual-memory reservation.
// The zero value is not usable; construct with New.
type Arena struct {
	mapping       *vmem.Mapping
	base          unsafe.Pointer
	reservation   int
	growthQuantum int

	mark     atomic.Int64 // bump position, offset from base
	capacity atomic.Int64 // committed end, offset from base
	growMu   syncprim.Mutex
}

// New reserves a virtual address range of the given size (0 selects
// DefaultReservationSize) and returns an Arena bumping into it. Nothing is
// committed until the first allocation requires it.
func New(reservationSize int) *Arena {
	if reservationSize <= 0 {
		reservationSize = DefaultReservationSize()
	}
	m := vmem.Reserve(reservationSize)
	quantum := layout.AlignUp(m.Len()/growthFraction, vmem.PageSize)
	if quantum < vmem.PageSize {
		quantum = vmem.PageSize
	}
	return &Arena{
		mapping:       m,
		base:          unsafe.Pointer(&m.Base()[0]),
		reservation:   m.Len(),
		growthQuantum: quantum,
	}
}

// Mark returns the current bump offset, for tests and diagnostics.
func (a *Arena) Mark() int { return int(a.mark.Load()) }

// Capacity returns the current committed offset, for tests and diagnostics.
func (a *Arena) Capacity() int { return int(a.capacity.Load()) }

// Alloc allocates size bytes aligned to at least alignment. It implements
// allocator.Allocator.
func (a *Arena) Alloc(size, alignment int) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	return a.bump(nil, size, alignment)
}

// Realloc resizes the block at ptr to size bytes, preserving contents up to
// min(old, new). If ptr is the arena's current tip, the resize happens in
// place; otherwise a fresh block is carved and the old contents copied. It
// implements allocator.Allocator.
func (a *Arena) Realloc(ptr unsafe.Pointer, size int) unsafe.Pointer {
	if ptr == nil {
		return a.Alloc(size, layout.HeaderAlign)
	}
	if size <= 0 {
		return nil
	}
	return a.bump(ptr, size, 0)
}

// Free is a no-op: the arena reclaims in bulk via Reset or Release, never
// block by block. It implements allocator.Allocator.
func (a *Arena) Free(ptr unsafe.Pointer) {}

// bump is the single allocate/reallocate routine described by spec.md
// §4.D: a CAS-retry loop over the mark, with an in-place fast path when the
// reallocated block is the arena's current tip.
func (a *Arena) bump(ptr unsafe.Pointer, size, alignment int) unsafe.Pointer {
	for {
		oldMark := a.mark.Load()

		if ptr != nil {
			hdr := layout.HeaderFor(ptr)
			payloadOffset := int(uintptr(ptr) - uintptr(a.base))
			if int64(payloadOffset+hdr.Size) == oldMark {
				newMark := payloadOffset + size
				if a.mark.CompareAndSwap(oldMark, int64(newMark)) {
					a.ensureCommitted(newMark)
					hdr.Size = size
					return ptr
				}
				continue
			}
			alignment = hdr.Alignment
		}

		headerOffset, payloadOffset, newMark := layout.PlaceHeader(int(oldMark), size, alignment)
		if !a.mark.CompareAndSwap(oldMark, int64(newMark)) {
			continue
		}
		a.ensureCommitted(newMark)

		hdr := (*layout.Header)(unsafe.Add(a.base, headerOffset))
		hdr.Size = size
		hdr.Alignment = alignment
		payload := unsafe.Add(a.base, payloadOffset)

		if ptr != nil {
			oldHdr := layout.HeaderFor(ptr)
			n := oldHdr.Size
			if n > size {
				n = size
			}
			copy(unsafe.Slice((*byte)(payload), n), unsafe.Slice((*byte)(ptr), n))
		}
		return payload
	}
}

// ensureCommitted grows the committed range to cover end, under a
// double-checked lock: the fast path (capacity already covers end) never
// takes growMu.
func (a *Arena) ensureCommitted(end int) {
	if int64(end) <= a.capacity.Load() {
		return
	}
	a.growMu.Lock()
	defer a.growMu.Unlock()

	cur := a.capacity.Load()
	if int64(end) <= cur {
		return
	}
	errs.RequireWrap(end <= a.reservation, errs.ErrArenaExhausted,
		"arena: need end %d, reservation is %d bytes", end, a.reservation)

	newCap := layout.AlignUp(end, a.growthQuantum)
	if newCap > a.reservation {
		newCap = a.reservation
	}
	a.mapping.Commit(int(cur), newCap-int(cur))
	a.capacity.Store(int64(newCap))
}

// Reset collapses the bump pointer back to the base of the reservation.
// Committed memory is retained for reuse. The caller must ensure no other
// goroutine is concurrently allocating from this Arena.
func (a *Arena) Reset() {
	a.mark.Store(0)
}

// Release unmaps the entire reservation. The Arena must not be used again.
func (a *Arena) Release() {
	a.mapping.Release()
}
