package allocator_test

import (
	"testing"
	"unsafe"

	"github.com/memtools/memarena/allocator"
	"github.com/stretchr/testify/require"
)

func TestVMemAdapterGrowsInPlace(t *testing.T) {
	alloc := allocator.NewVMem[int64](1<<20, 1<<16)
	defer alloc.Arena().Release()

	values := alloc.Allocate(128)
	require.NotNil(t, values)

	slice := unsafe.Slice(values, 128)
	for i := range slice {
		slice[i] = int64(i)
	}

	// The adapter's arena has a single client, so the block is always the top
	// allocation and growth succeeds in place past the first commit increment.
	require.True(t, alloc.TryRealloc(values, 128, 1<<14))

	grown := unsafe.Slice(values, 1<<14)
	require.Equal(t, int64(127), grown[127])

	alloc.Free(values, 1<<14)
	require.Equal(t, 0, alloc.Arena().Top())
}

func TestVMemAdapterCeiling(t *testing.T) {
	alloc := allocator.NewVMem[byte](1<<16, 1<<16)
	defer alloc.Arena().Release()

	ptr := alloc.Allocate(1 << 16)
	require.NotNil(t, ptr)
	require.Nil(t, alloc.Allocate(1))
	require.False(t, alloc.TryRealloc(ptr, 1<<16, 1<<17))
}
