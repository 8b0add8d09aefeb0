package arena_test

import (
	"testing"
	"unsafe"

	"github.com/memtools/memarena"
	"github.com/memtools/memarena/arena"
	"github.com/stretchr/testify/require"
)

func TestStackDiscipline(t *testing.T) {
	// Allocating and freeing in exact reverse order always returns the
	// cursor to zero, whatever the sizes are.
	a := arena.NewMemArena(4096)

	sizes := []int{1, 16, 100, 7, 333, 64}
	blocks := make([]memarena.MemBlock, 0, len(sizes))
	for _, size := range sizes {
		block := a.Alloc(size)
		require.False(t, block.IsNull())
		require.Equal(t, size, block.Size)
		blocks = append(blocks, block)
	}
	require.NoError(t, a.Validate())

	for i := len(blocks) - 1; i >= 0; i-- {
		a.Free(blocks[i])
	}

	require.Equal(t, 0, a.Top())
	require.Equal(t, 0, a.PendingFreeCount())
	require.NoError(t, a.Validate())
}

func TestCoalescingExactOffsets(t *testing.T) {
	a := arena.NewMemArena(320)

	blockA := a.Alloc(128)
	blockB := a.Alloc(64)
	blockC := a.Alloc(64)
	require.False(t, blockC.IsNull())
	require.Equal(t, 256, a.Top())

	// A is not the top allocation: it goes to the pending table
	a.Free(blockA)
	require.Equal(t, 256, a.Top())
	require.Equal(t, 1, a.PendingFreeCount())

	// C is the top allocation: plain LIFO retraction, A is not adjacent yet
	a.Free(blockC)
	require.Equal(t, 192, a.Top())
	require.Equal(t, 1, a.PendingFreeCount())

	// B retracts the cursor onto A's end, which coalesces A out of the table
	a.Free(blockB)
	require.Equal(t, 0, a.Top())
	require.Equal(t, 0, a.PendingFreeCount())
	require.NoError(t, a.Validate())
}

func TestCoalescingUnalignedSizes(t *testing.T) {
	// Same scenario with sizes that need alignment padding; only the end
	// state is asserted since the intermediate offsets depend on padding.
	a := arena.NewMemArena(300)

	blockA := a.Alloc(100)
	blockB := a.Alloc(50)
	blockC := a.Alloc(50)
	require.False(t, blockC.IsNull())

	a.Free(blockA)
	require.Equal(t, 1, a.PendingFreeCount())
	a.Free(blockC)
	a.Free(blockB)

	require.Equal(t, 0, a.Top())
	require.Equal(t, 0, a.PendingFreeCount())
}

func TestPendingTableOverflowLeaksUntilReset(t *testing.T) {
	const capacity = 512
	a := arena.NewMemArena(capacity, arena.WithMaxPendingFrees(2))

	blockA := a.Alloc(64)
	blockB := a.Alloc(64)
	blockC := a.Alloc(64)
	blockD := a.Alloc(64)
	require.False(t, blockD.IsNull())

	// Three out-of-order frees against a table of two: the third leaks
	a.Free(blockA)
	a.Free(blockB)
	a.Free(blockC)
	require.Equal(t, 2, a.PendingFreeCount())

	var stats memarena.Statistics
	a.AddStatistics(&stats)
	require.Equal(t, 1, stats.LeakedFreeCount)
	require.Equal(t, 64, stats.LeakedFreeBytes)

	// Freeing D retracts to C's end, but the leaked C blocks the coalescing
	// chain: the cursor cannot reach zero until Reset
	a.Free(blockD)
	require.Equal(t, 192, a.Top())
	require.Equal(t, 2, a.PendingFreeCount())

	a.Reset()
	require.Equal(t, 0, a.Top())
	require.Equal(t, 0, a.PendingFreeCount())

	fresh := a.Alloc(capacity)
	require.False(t, fresh.IsNull())
	require.Equal(t, capacity, a.Top())
}

func TestTryReallocOnlyGrowsTopAllocation(t *testing.T) {
	a := arena.NewMemArena(256)

	blockA := a.Alloc(64)
	blockB := a.Alloc(64)
	require.False(t, blockB.IsNull())

	// Not the most recent allocation: always false, capacity is irrelevant
	require.False(t, a.TryRealloc(blockA, 32))
	require.False(t, a.TryRealloc(blockA, 80))
	require.Equal(t, 128, a.Top())

	// Top allocation grows in place while it fits
	require.True(t, a.TryRealloc(blockB, 128))
	require.Equal(t, 192, a.Top())
	blockB.Size = 128

	// ...and fails once the new size exceeds remaining capacity
	require.False(t, a.TryRealloc(blockB, 256))
	require.Equal(t, 192, a.Top())

	// Shrinking the top allocation retracts the cursor
	require.True(t, a.TryRealloc(blockB, 16))
	require.Equal(t, 80, a.Top())
}

func TestTryReallocDoesNotMoveData(t *testing.T) {
	a := arena.NewMemArena(256)

	block := a.Alloc(16)
	require.False(t, block.IsNull())
	copy(block.Bytes(), "arena contents!!")

	require.True(t, a.TryRealloc(block, 64))
	grown := memarena.MemBlock{Ptr: block.Ptr, Size: 64}
	require.Equal(t, "arena contents!!", string(grown.Bytes()[:16]))
}

func TestAllocExhaustionReturnsNullBlock(t *testing.T) {
	a := arena.NewMemArena(64)

	block := a.Alloc(64)
	require.False(t, block.IsNull())

	overflow := a.Alloc(1)
	require.True(t, overflow.IsNull())
	require.Nil(t, overflow.Ptr)
	require.Equal(t, 0, overflow.Size)

	// Failure does not disturb the cursor
	require.Equal(t, 64, a.Top())
}

func TestOwns(t *testing.T) {
	a := arena.NewMemArena(128)
	other := arena.NewMemArena(128)

	block := a.Alloc(32)
	require.True(t, a.Owns(block.Ptr))
	require.True(t, a.Owns(unsafe.Add(block.Ptr, 127)))
	require.False(t, other.Owns(block.Ptr))
	require.False(t, a.Owns(nil))

	var local int
	require.False(t, a.Owns(unsafe.Pointer(&local)))
}

func TestFreeNullBlockIsNoop(t *testing.T) {
	a := arena.NewMemArena(128)
	a.Alloc(32)

	a.Free(memarena.MemBlock{})
	require.Equal(t, 32, a.Top())
}

func TestAlignmentPadding(t *testing.T) {
	a := arena.NewMemArena(128)

	blockA := a.Alloc(1)
	blockB := a.Alloc(1)
	require.False(t, blockB.IsNull())

	// Sizes are padded so every block offset stays aligned
	require.Equal(t, 16, memarena.PtrDiff(blockB.Ptr, blockA.Ptr))
	require.Equal(t, 32, a.Top())
}

func TestStatistics(t *testing.T) {
	a := arena.NewMemArena(512)
	blockA := a.Alloc(64)
	a.Alloc(64)
	a.Alloc(64)
	a.Free(blockA)

	var stats memarena.Statistics
	a.AddStatistics(&stats)

	require.Equal(t, 1, stats.ArenaCount)
	require.Equal(t, 512, stats.CapacityBytes)
	require.Equal(t, 512, stats.CommittedBytes)
	require.Equal(t, 192, stats.AllocationBytes)
	require.Equal(t, 1, stats.PendingFreeCount)
	require.Equal(t, 64, stats.PendingFreeBytes)
	require.Equal(t, 0, stats.LeakedFreeCount)
}
