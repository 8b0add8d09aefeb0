package allocator_test

import (
	"testing"
	"unsafe"

	"github.com/memtools/memarena"
	"github.com/memtools/memarena/allocator"
	"github.com/stretchr/testify/require"
)

func TestDefaultAllocatesZeroedStorage(t *testing.T) {
	var alloc allocator.Default[uint64]

	values := alloc.Allocate(32)
	require.NotNil(t, values)

	slice := unsafe.Slice(values, 32)
	for i := range slice {
		require.Zero(t, slice[i])
		slice[i] = uint64(i)
	}
	require.Equal(t, uint64(31), slice[31])

	alloc.Free(values, 32)
}

func TestDefaultNeverReallocsInPlace(t *testing.T) {
	var alloc allocator.Default[byte]

	ptr := alloc.Allocate(100)
	require.NotNil(t, ptr)
	require.False(t, alloc.TryRealloc(ptr, 100, 50))
	require.False(t, alloc.TryRealloc(ptr, 100, 200))

	alloc.Free(ptr, 100)
}

func TestDefaultFreeNilIsNoop(t *testing.T) {
	var alloc allocator.Default[int]
	alloc.Free(nil, 10)
}

func TestDefaultDebugTracker(t *testing.T) {
	if !memarena.DebugChecksEnabled {
		t.Skip("live-allocation tracking requires the debug_mem_arena build tag")
	}

	var alloc allocator.Default[int32]
	before := allocator.LiveHeapAllocationCount()

	ptr := alloc.Allocate(4)
	require.Equal(t, before+1, allocator.LiveHeapAllocationCount())

	alloc.Free(ptr, 4)
	require.Equal(t, before, allocator.LiveHeapAllocationCount())

	// Double free is caught
	require.Panics(t, func() {
		alloc.Free(ptr, 4)
	})
}
