package dynarray_test

import (
	"testing"

	"github.com/gofoundation/memsub/dynarray"
	"github.com/gofoundation/memsub/pool"
	"github.com/stretchr/testify/require"
)

func TestAppendAndAt(t *testing.T) {
	a := dynarray.New[int](nil)
	for i := 0; i < 100; i++ {
		a.Append(i)
	}
	require.Equal(t, 100, a.Len())
	for i := 0; i < 100; i++ {
		require.Equal(t, i, *a.At(i))
	}
}

func TestCapacityDoublesFromSixteen(t *testing.T) {
	a := dynarray.New[int](nil)
	require.Equal(t, 0, a.Capacity())
	a.Append(1)
	require.Equal(t, 16, a.Capacity())
	for i := 0; i < 16; i++ {
		a.Append(i)
	}
	require.Equal(t, 32, a.Capacity())
}

func TestInsertAtShiftsRight(t *testing.T) {
	a := dynarray.New[int](nil)
	a.Append(1)
	a.Append(2)
	a.Append(4)
	a.InsertAt(2, 3)
	require.Equal(t, []int{1, 2, 3, 4}, a.Slice())
}

func TestRemoveShiftsLeft(t *testing.T) {
	a := dynarray.New[int](nil)
	for _, v := range []int{1, 2, 3, 4, 5} {
		a.Append(v)
	}
	a.Remove(1)
	require.Equal(t, []int{1, 3, 4, 5}, a.Slice())
}

func TestRemoveUnorderedMovesLastIntoHole(t *testing.T) {
	a := dynarray.New[int](nil)
	for _, v := range []int{1, 2, 3, 4, 5} {
		a.Append(v)
	}
	a.RemoveUnordered(1)
	require.Equal(t, []int{1, 5, 3, 4}, a.Slice())
}

func TestResizeGrowsZeroedAndShrinksTail(t *testing.T) {
	a := dynarray.New[int](nil)
	a.Append(7)
	a.Resize(5)
	require.Equal(t, []int{7, 0, 0, 0, 0}, a.Slice())
	a.Resize(2)
	require.Equal(t, []int{7, 0}, a.Slice())
}

func TestShrinkReleasesSlack(t *testing.T) {
	a := dynarray.New[int](nil)
	for i := 0; i < 40; i++ {
		a.Append(i)
	}
	require.Equal(t, 64, a.Capacity())
	a.Resize(3)
	a.Shrink()
	require.Equal(t, 16, a.Capacity())
	require.Equal(t, []int{0, 1, 2}, a.Slice())
}

func TestCopyToDifferentAllocator(t *testing.T) {
	src := dynarray.New[int](nil)
	for i := 0; i < 10; i++ {
		src.Append(i * i)
	}
	dstAlloc := pool.New()
	dst := src.Copy(dstAlloc)
	require.Equal(t, src.Slice(), dst.Slice())

	// mutating the source must not affect the copy
	*src.At(0) = 999
	require.Equal(t, 0, *dst.At(0))
}

func TestSliceIsEmptyForEmptyArray(t *testing.T) {
	a := dynarray.New[int](nil)
	require.Nil(t, a.Slice())
}
