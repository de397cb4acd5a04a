// Package scratch is the thread-local-ish scratch arena, talloc: a single
// process-global arena intended for per-frame or per-request temporary
// allocations. "Thread-local" here means "the caller treats it as if it
// were" — Go goroutines migrate between OS threads, so true TLS would fight
// the runtime; instead, as spec.md §4.F allows, concurrent allocation is
// safe (it inherits the arena's lock-free bump), and Reset is a caller-
// coordinated global event the same way spec.md requires callers to
// quiesce around it.
package scratch

import (
	"unsafe"

	"github.com/gofoundation/memsub/allocator"
	"github.com/gofoundation/memsub/arena"
)

var global = arena.New(0)

var _ allocator.Allocator = allocatorFuncs{}

// allocatorFuncs adapts the package-level functions below to
// allocator.Allocator, so scratch can itself be passed anywhere an
// Allocator collaborator is expected.
type allocatorFuncs struct{}

func (allocatorFuncs) Alloc(size, alignment int) unsafe.Pointer { return Alloc(size, alignment) }
func (allocatorFuncs) Realloc(ptr unsafe.Pointer, size int) unsafe.Pointer {
	return Realloc(ptr, size)
}
func (allocatorFuncs) Free(ptr unsafe.Pointer) { Free(ptr) }

// Allocator returns an allocator.Allocator backed by the process-global
// scratch arena, for passing to containers that want scratch-lifetime
// storage.
func Allocator() allocator.Allocator { return allocatorFuncs{} }

// Alloc allocates size bytes aligned to at least alignment from the
// process-global scratch arena.
func Alloc(size, alignment int) unsafe.Pointer {
	return global.Alloc(size, alignment)
}

// Realloc resizes a scratch-arena block.
func Realloc(ptr unsafe.Pointer, size int) unsafe.Pointer {
	return global.Realloc(ptr, size)
}

// Free is a no-op, like every arena free: scratch memory is reclaimed in
// bulk by Reset.
func Free(ptr unsafe.Pointer) {
	global.Free(ptr)
}

// Reset collapses the scratch arena back to empty. Concurrent allocation
// against a concurrent Reset is undefined; the caller must quiesce all
// other users of the scratch arena first.
func Reset() {
	global.Reset()
}
