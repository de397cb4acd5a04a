// Package vmem is the OS virtual-memory provider: reserve an address range
// without backing it, commit pages within a reservation, and release the
// whole mapping. It is the leaf dependency for everything else in this
// module that grows memory over time (arena, and through it pool and
// scratch).
//
// Only a POSIX mmap-based provider is implemented, per the module's
// non-goals; ptr and size are rounded outward to the page boundary before
// any syscall, the way cznic's page allocator rounds allocation requests up
// to a page multiple.
package vmem

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// PageSize is the system's memory page size, queried once at init.
var PageSize = unix.Getpagesize()

// Mapping is a single reserved virtual address range. Reserve returns a
// Mapping that is addressable but not yet backed by physical memory; Commit
// promotes a sub-range to read/write; Release unmaps the entire reservation.
type Mapping struct {
	base      []byte
	committed int
}

// roundUp rounds n up to the next multiple of PageSize.
func roundUp(n int) int {
	return (n + PageSize - 1) &^ (PageSize - 1)
}

// Reserve maps n bytes (rounded up to a page multiple) as PROT_NONE,
// addressable but not backed. The reservation is infallible by design: an
// mmap failure (out of address space) is a fatal precondition violation for
// this library, not a recoverable error, so Reserve panics rather than
// returning one alongside a nil *Mapping.
func Reserve(n int) *Mapping {
	size := roundUp(n)
	if size == 0 {
		size = PageSize
	}
	b, err := unix.Mmap(-1, 0, size, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		panic(errors.Wrapf(err, "vmem: reserve %d bytes", size))
	}
	return &Mapping{base: b}
}

// AllocateCommitted reserves and immediately commits n bytes, for callers
// that have no use for the reserve/commit split.
func AllocateCommitted(n int) *Mapping {
	m := Reserve(n)
	m.Commit(0, len(m.base))
	return m
}

// Base returns the address of the start of the reservation.
func (m *Mapping) Base() []byte {
	return m.base
}

// Len returns the full reserved length, not the committed length.
func (m *Mapping) Len() int {
	return len(m.base)
}

// Committed returns how many bytes from the start of the reservation are
// currently backed by physical memory.
func (m *Mapping) Committed() int {
	return m.committed
}

// Commit promotes the byte range [off, off+n) to read/write, rounding the
// range outward to whole pages. off and n must fall within the reservation.
// Like Reserve, failure is treated as fatal.
func (m *Mapping) Commit(off, n int) {
	if n <= 0 {
		return
	}
	start := off &^ (PageSize - 1)
	end := roundUp(off + n)
	if end > len(m.base) {
		end = len(m.base)
	}
	if start >= end {
		return
	}
	err := unix.Mprotect(m.base[start:end], unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		panic(errors.Wrapf(err, "vmem: commit [%d,%d)", start, end))
	}
	if end > m.committed {
		m.committed = end
	}
}

// Release unmaps the entire reservation. The Mapping must not be used again.
func (m *Mapping) Release() {
	if m.base == nil {
		return
	}
	err := unix.Munmap(m.base)
	if err != nil {
		panic(errors.Wrap(err, "vmem: release"))
	}
	m.base = nil
	m.committed = 0
}
