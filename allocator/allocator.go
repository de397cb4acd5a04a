// Package allocator defines the single-callback allocator contract shared by
// every container and pool in this module (the "allocator callback ABI").
// It is its own package, rather than living inside pool, so that leaf
// consumers of the interface (dynarray, hashtable) do not have to import the
// concrete pool implementation to
// accept an allocator as a collaborator.
package allocator

import "unsafe"

// Allocator is the universal allocate/reallocate/free contract:
//
//   - Alloc(size, alignment) with size > 0 returns a block of at least size
//     bytes, aligned to at least alignment.
//   - Realloc(ptr, size) with ptr from a prior Alloc/Realloc and size > 0
//     resizes the block, preserving contents up to min(old, new); the
//     allocator remembers the original alignment internally.
//   - Free(ptr) releases a block previously returned by Alloc/Realloc.
//
// A concrete Allocator is safe for concurrent use from multiple goroutines
// iff its documentation says so; pool.Default and arena.Arena both are.
type Allocator interface {
	Alloc(size, alignment int) unsafe.Pointer
	Realloc(ptr unsafe.Pointer, size int) unsafe.Pointer
	Free(ptr unsafe.Pointer)
}
