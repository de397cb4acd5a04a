package scratch_test

import (
	"testing"
	"unsafe"

	"github.com/gofoundation/memsub/scratch"
	"github.com/stretchr/testify/require"
)

func TestAllocAndReset(t *testing.T) {
	ptr := scratch.Alloc(128, 8)
	require.NotNil(t, ptr)
	b := unsafe.Slice((*byte)(ptr), 128)
	for i := range b {
		b[i] = 0x42
	}
	scratch.Reset()

	ptr2 := scratch.Alloc(128, 8)
	require.Equal(t, ptr, ptr2, "after Reset the bump pointer should return to base")
}

func TestAllocatorAdapterSatisfiesInterface(t *testing.T) {
	a := scratch.Allocator()
	ptr := a.Alloc(16, 8)
	require.NotNil(t, ptr)
	a.Free(ptr)
}
