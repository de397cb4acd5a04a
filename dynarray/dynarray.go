// Package dynarray implements a contiguous, growable sequence backed by a
// pluggable allocator.Allocator, in the spirit of the teacher's linear
// (bump) allocator metadata tracking but generalized to hold typed
// elements rather than suballocation records: capacity doubles from 16 on
// growth, shrink/resize reallocate through the same allocator, and Copy
// can retarget a different allocator entirely (e.g. moving a result out of
// scratch into the default pool before the scratch arena resets).
//
// All element storage comes from the allocator, not the Go heap, so the
// garbage collector does not see pointers held in elements. The type does not
// forbid a pointer-containing T; this module only instantiates it over plain
// data.
package dynarray

import (
	"unsafe"

	"github.com/gofoundation/memsub/allocator"
	"github.com/gofoundation/memsub/errs"
	"github.com/gofoundation/memsub/pool"
)

const initialCapacity = 16

// Array is a contiguous, growable sequence of T, allocated from an
// allocator.Allocator. It is not internally synchronized.
type Array[T any] struct {
	alloc    allocator.Allocator
	base     unsafe.Pointer
	length   int
	capacity int
}

// New constructs an empty Array backed by alloc. Passing nil defaults to
// pool.Default.
func New[T any](alloc allocator.Allocator) *Array[T] {
	if alloc == nil {
		alloc = pool.Default
	}
	return &Array[T]{alloc: alloc}
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int { return a.length }

// Capacity returns the number of elements the array can hold before its
// next growth.
func (a *Array[T]) Capacity() int { return a.capacity }

func elemSize[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func elemAlign[T any]() int {
	var zero T
	return int(unsafe.Alignof(zero))
}

func (a *Array[T]) slot(i int) *T {
	return (*T)(unsafe.Add(a.base, i*elemSize[T]()))
}

// At returns a pointer to the element at index i. i must be in
// [0, Len()); the precondition is asserted.
func (a *Array[T]) At(i int) *T {
	errs.Require(i >= 0 && i < a.length, "dynarray: index %d out of range [0,%d)", i, a.length)
	return a.slot(i)
}

// Slice returns a Go slice view over the array's live elements. The view
// aliases the array's storage: it is invalidated by any subsequent growth,
// shrink, or resize.
func (a *Array[T]) Slice() []T {
	if a.length == 0 {
		return nil
	}
	return unsafe.Slice((*T)(a.base), a.length)
}

// Reserve ensures the array can hold at least n elements without
// reallocating, growing (by at least doubling, per the teacher's bump-
// allocator growth policy) if necessary.
func (a *Array[T]) Reserve(n int) {
	if n <= a.capacity {
		return
	}
	newCap := a.capacity
	if newCap == 0 {
		newCap = initialCapacity
	}
	for newCap < n {
		newCap *= 2
	}
	a.realloc(newCap)
}

func (a *Array[T]) realloc(newCap int) {
	size := newCap * elemSize[T]()
	var newBase unsafe.Pointer
	if a.base == nil {
		newBase = a.alloc.Alloc(size, elemAlign[T]())
	} else {
		newBase = a.alloc.Realloc(a.base, size)
	}
	errs.Require(newBase != nil, "dynarray: allocator returned nil growing to capacity %d", newCap)
	a.base = newBase
	a.capacity = newCap
}

// Append adds v to the end, growing if necessary.
func (a *Array[T]) Append(v T) {
	a.Reserve(a.length + 1)
	*a.slot(a.length) = v
	a.length++
}

// InsertAt inserts v at index i, shifting elements at and after i one
// position to the right. i must be in [0, Len()].
func (a *Array[T]) InsertAt(i int, v T) {
	errs.Require(i >= 0 && i <= a.length, "dynarray: insert index %d out of range [0,%d]", i, a.length)
	a.Reserve(a.length + 1)
	for j := a.length; j > i; j-- {
		*a.slot(j) = *a.slot(j - 1)
	}
	*a.slot(i) = v
	a.length++
}

// Remove deletes the element at index i, shifting everything after it one
// position to the left. Use RemoveUnordered when element order does not
// matter and O(1) removal is wanted instead.
func (a *Array[T]) Remove(i int) {
	errs.Require(i >= 0 && i < a.length, "dynarray: remove index %d out of range [0,%d)", i, a.length)
	for j := i; j < a.length-1; j++ {
		*a.slot(j) = *a.slot(j + 1)
	}
	a.length--
}

// RemoveUnordered deletes the element at index i by moving the last
// element into its place, in O(1) at the cost of reordering.
func (a *Array[T]) RemoveUnordered(i int) {
	errs.Require(i >= 0 && i < a.length, "dynarray: remove index %d out of range [0,%d)", i, a.length)
	last := a.length - 1
	if i != last {
		*a.slot(i) = *a.slot(last)
	}
	a.length--
}

// Resize sets Len to n. Growing zero-initializes the new elements;
// shrinking simply drops the tail (it never reallocates down).
func (a *Array[T]) Resize(n int) {
	errs.Require(n >= 0, "dynarray: resize to negative length %d", n)
	if n > a.length {
		a.Reserve(n)
		var zero T
		for i := a.length; i < n; i++ {
			*a.slot(i) = zero
		}
	}
	a.length = n
}

// Shrink reallocates the backing storage down to exactly Len() elements
// (or the minimum initial capacity, whichever is larger), releasing
// whatever slack Reserve/Append growth left behind.
func (a *Array[T]) Shrink() {
	target := a.length
	if target < initialCapacity {
		target = initialCapacity
	}
	if target >= a.capacity {
		return
	}
	a.realloc(target)
}

// Copy duplicates the array's live elements into a new Array backed by
// dst, which may be a different allocator than the source's — e.g.
// promoting a scratch-arena-built array into the long-lived default pool.
func (a *Array[T]) Copy(dst allocator.Allocator) *Array[T] {
	out := New[T](dst)
	out.Reserve(a.length)
	for i := 0; i < a.length; i++ {
		out.Append(*a.slot(i))
	}
	return out
}

// Close releases the array's backing storage through its allocator. The
// Array must not be used again afterward.
func (a *Array[T]) Close() {
	if a.base != nil {
		a.alloc.Free(a.base)
	}
	a.base = nil
	a.length = 0
	a.capacity = 0
}
