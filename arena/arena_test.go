package arena_test

import (
	"testing"
	"unsafe"

	"github.com/gofoundation/memsub/arena"
	"github.com/gofoundation/memsub/vmem"
	"github.com/stretchr/testify/require"
)

func newTestArena(t *testing.T) *arena.Arena {
	a := arena.New(16 * vmem.PageSize)
	t.Cleanup(a.Release)
	return a
}

func TestAllocWritesAndReads(t *testing.T) {
	a := newTestArena(t)
	ptr := a.Alloc(64, 8)
	require.NotNil(t, ptr)
	b := unsafe.Slice((*byte)(ptr), 64)
	for i := range b {
		b[i] = byte(i)
	}
	for i := range b {
		require.Equal(t, byte(i), b[i])
	}
}

func TestReallocAtTipIsInPlace(t *testing.T) {
	a := newTestArena(t)
	ptr := a.Alloc(32, 8)
	b := unsafe.Slice((*byte)(ptr), 32)
	for i := range b {
		b[i] = byte(i + 1)
	}

	grown := a.Realloc(ptr, 64)
	require.Equal(t, ptr, grown, "in-place grow at the tip must return the same pointer")

	gb := unsafe.Slice((*byte)(grown), 32)
	for i := range gb {
		require.Equal(t, byte(i+1), gb[i])
	}
}

func TestReallocNotAtTipMovesAndCopies(t *testing.T) {
	a := newTestArena(t)
	first := a.Alloc(16, 8)
	fb := unsafe.Slice((*byte)(first), 16)
	for i := range fb {
		fb[i] = byte(i + 5)
	}

	// Allocate a second block so `first` is no longer the tip.
	_ = a.Alloc(16, 8)

	moved := a.Realloc(first, 32)
	require.NotEqual(t, first, moved)
	mb := unsafe.Slice((*byte)(moved), 16)
	for i := range mb {
		require.Equal(t, byte(i+5), mb[i])
	}
}

func TestMarkMonotonicAndCapacityMonotonic(t *testing.T) {
	a := newTestArena(t)
	lastMark, lastCap := a.Mark(), a.Capacity()
	for i := 0; i < 64; i++ {
		a.Alloc(256, 8)
		require.GreaterOrEqual(t, a.Mark(), lastMark)
		require.GreaterOrEqual(t, a.Capacity(), lastCap)
		lastMark, lastCap = a.Mark(), a.Capacity()
	}
}

func TestResetCollapsesMarkButKeepsCapacity(t *testing.T) {
	a := newTestArena(t)
	a.Alloc(1024, 8)
	capBefore := a.Capacity()
	a.Reset()
	require.Equal(t, 0, a.Mark())
	require.Equal(t, capBefore, a.Capacity())
}

func TestArenaExhaustionPanics(t *testing.T) {
	a := arena.New(vmem.PageSize)
	defer a.Release()

	require.Panics(t, func() {
		for i := 0; i < 1000; i++ {
			a.Alloc(vmem.PageSize, 8)
		}
	})
}

func TestFreeIsNoOp(t *testing.T) {
	a := newTestArena(t)
	ptr := a.Alloc(16, 8)
	markBefore := a.Mark()
	a.Free(ptr)
	require.Equal(t, markBefore, a.Mark())
}
