package memarena_test

import (
	"encoding/json"
	"testing"
	"unsafe"

	"github.com/memtools/memarena"
	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	require.Equal(t, 0, memarena.AlignUp(0, 16))
	require.Equal(t, 16, memarena.AlignUp(1, 16))
	require.Equal(t, 16, memarena.AlignUp(16, 16))
	require.Equal(t, 32, memarena.AlignUp(17, 16))
	require.Equal(t, 8192, memarena.AlignUp(4097, 4096))
}

func TestAlignDown(t *testing.T) {
	require.Equal(t, 0, memarena.AlignDown(15, 16))
	require.Equal(t, 16, memarena.AlignDown(16, 16))
	require.Equal(t, 16, memarena.AlignDown(31, 16))
}

func TestIsAligned(t *testing.T) {
	require.True(t, memarena.IsAligned(0, 16))
	require.True(t, memarena.IsAligned(64, 16))
	require.False(t, memarena.IsAligned(65, 16))
}

func TestCheckPow2(t *testing.T) {
	require.NoError(t, memarena.CheckPow2(uint(4096), "pageSize"))
	err := memarena.CheckPow2(uint(100), "pageSize")
	require.ErrorIs(t, err, memarena.PowerOfTwoError)
	require.ErrorContains(t, err, "pageSize is 100")
}

func TestCheckPositive(t *testing.T) {
	require.NoError(t, memarena.CheckPositive(1, "capacity"))
	err := memarena.CheckPositive(-5, "capacity")
	require.ErrorIs(t, err, memarena.NotPositiveError)
	require.ErrorContains(t, err, "capacity is -5")
}

func TestMemBlock(t *testing.T) {
	var zero memarena.MemBlock
	require.True(t, zero.IsNull())
	require.Nil(t, zero.Bytes())
	require.False(t, zero.Contains(unsafe.Pointer(&zero)))

	storage := make([]byte, 64)
	block := memarena.MemBlock{Ptr: unsafe.Pointer(&storage[0]), Size: 64}
	require.False(t, block.IsNull())
	require.Equal(t, 64, memarena.PtrDiff(block.End(), block.Ptr))

	require.True(t, block.Contains(block.Ptr))
	require.True(t, block.Contains(unsafe.Pointer(&storage[63])))
	require.False(t, block.Contains(block.End()))
	require.False(t, block.Contains(nil))

	bytes := block.Bytes()
	require.Len(t, bytes, 64)
	bytes[10] = 0xAB
	require.Equal(t, byte(0xAB), storage[10])
}

func TestStatisticsAddAndClear(t *testing.T) {
	a := memarena.Statistics{ArenaCount: 1, CapacityBytes: 1024, AllocationBytes: 100}
	b := memarena.Statistics{ArenaCount: 2, CapacityBytes: 4096, LeakedFreeCount: 1, LeakedFreeBytes: 64}

	a.Add(&b)
	require.Equal(t, 3, a.ArenaCount)
	require.Equal(t, 5120, a.CapacityBytes)
	require.Equal(t, 100, a.AllocationBytes)
	require.Equal(t, 1, a.LeakedFreeCount)

	a.Clear()
	require.Equal(t, memarena.Statistics{}, a)
}

func TestStatisticsJson(t *testing.T) {
	stats := memarena.Statistics{
		ArenaCount:       2,
		CapacityBytes:    8192,
		CommittedBytes:   4096,
		AllocationBytes:  1024,
		PendingFreeCount: 3,
		PendingFreeBytes: 192,
		LeakedFreeCount:  1,
		LeakedFreeBytes:  64,
	}

	var decoded map[string]int
	require.NoError(t, json.Unmarshal([]byte(stats.JsonString()), &decoded))
	require.Equal(t, map[string]int{
		"Arenas":           2,
		"CapacityBytes":    8192,
		"CommittedBytes":   4096,
		"AllocationBytes":  1024,
		"PendingFrees":     3,
		"PendingFreeBytes": 192,
		"LeakedFrees":      1,
		"LeakedFreeBytes":  64,
	}, decoded)
}
