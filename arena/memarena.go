package arena

import (
	"context"
	"unsafe"

	"github.com/memtools/memarena"
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

// pendingFree records one out-of-order free awaiting coalescing. Sizes are
// stored already aligned so the coalescing comparison against the cursor is a
// plain equality check.
type pendingFree struct {
	offset int
	size   int
}

// MemArena is a contiguous byte region with a bump cursor. Allocation advances
// the cursor; freeing the most recent allocation retracts it. Out-of-order
// frees are recorded in a small fixed-capacity table and reclaimed when the
// blocks above them are retracted; once the table is full, further
// out-of-order frees leak until Reset. That trade-off targets short-lived,
// mostly-LIFO scratch memory, not long-lived allocations.
//
// MemArena performs no locking. Share one across goroutines only with
// external synchronization.
//
// The zero value owns no memory: every Alloc returns a null block. Use
// NewMemArena.
type MemArena struct {
	mem     []byte
	top     int
	pending []pendingFree

	maxPendingFrees int
	logger          *slog.Logger

	leakedFreeCount int
	leakedFreeBytes int
}

// NewMemArena creates a MemArena over a fresh heap buffer of the given
// capacity in bytes. Capacity must be positive.
func NewMemArena(capacity int, opts ...Option) *MemArena {
	err := memarena.CheckPositive(capacity, "capacity")
	if err != nil {
		panic(err)
	}

	cfg := config{maxPendingFrees: DefaultMaxPendingFrees}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.maxPendingFrees < 0 {
		cfg.maxPendingFrees = 0
	}

	m := &MemArena{
		mem:             make([]byte, capacity),
		maxPendingFrees: cfg.maxPendingFrees,
		logger:          cfg.logger,
	}
	if cfg.maxPendingFrees > 0 {
		m.pending = make([]pendingFree, 0, cfg.maxPendingFrees)
	}

	return m
}

// Alloc bumps the cursor by size bytes (rounded up to the arena alignment)
// and returns the carved block. Returns a null block when the region is
// exhausted.
func (m *MemArena) Alloc(size int) memarena.MemBlock {
	memarena.DebugAssert(size > 0, "allocation size must be greater than zero")
	if size <= 0 {
		return memarena.MemBlock{}
	}

	alignedSize := memarena.AlignUp(size, allocAlignment)
	if m.top+alignedSize > len(m.mem) {
		return memarena.MemBlock{}
	}

	block := memarena.MemBlock{
		Ptr:  unsafe.Pointer(&m.mem[m.top]),
		Size: size,
	}
	m.top += alignedSize
	memarena.DebugValidate(m)

	return block
}

// Free returns a block to the arena. If the block is the most recent
// allocation the cursor retracts past it, then keeps retracting through any
// pending entries that now back directly onto the cursor. Otherwise the block
// is recorded in the pending table; when the table is full the block leaks
// until Reset, which is the designed behavior rather than an error.
//
// Freeing a null block is a no-op. Freeing memory the arena does not own is a
// usage error caught by debug assertions only.
func (m *MemArena) Free(block memarena.MemBlock) {
	if block.IsNull() {
		return
	}
	memarena.DebugAssert(m.Owns(block.Ptr), "freed a block this arena does not own")

	offset := memarena.PtrDiff(block.Ptr, unsafe.Pointer(&m.mem[0]))
	alignedSize := memarena.AlignUp(block.Size, allocAlignment)
	memarena.DebugAssert(offset+alignedSize <= m.top, "freed a block beyond the bump cursor")
	memarena.DebugPoisonMemory(block)

	if offset+alignedSize == m.top {
		// True LIFO retraction
		m.top = offset
		m.coalescePending()
		memarena.DebugValidate(m)
		return
	}

	memarena.DebugAssert(m.maxPendingFrees > 0, "out-of-order free on an arena that tolerates none")
	if len(m.pending) < m.maxPendingFrees {
		m.pending = append(m.pending, pendingFree{offset: offset, size: alignedSize})
		memarena.DebugValidate(m)
		return
	}

	// Table full: the block stays unreachable until Reset
	m.leakedFreeCount++
	m.leakedFreeBytes += alignedSize
	if memarena.DebugChecksEnabled {
		m.logger.LogAttrs(context.Background(), slog.LevelDebug,
			"pending free table is full, leaking block until Reset",
			slog.Int("offset", offset),
			slog.Int("size", block.Size),
			slog.Int("maxPendingFrees", m.maxPendingFrees))
	}
}

// coalescePending retracts the cursor through pending entries that end exactly
// at it. The table is a small fixed array, so a repeated linear scan beats any
// ordered structure here.
func (m *MemArena) coalescePending() {
	for {
		merged := false
		for i := range m.pending {
			if m.pending[i].offset+m.pending[i].size == m.top {
				m.top = m.pending[i].offset
				m.pending[i] = m.pending[len(m.pending)-1]
				m.pending = m.pending[:len(m.pending)-1]
				merged = true
				break
			}
		}
		if !merged {
			return
		}
	}
}

// TryRealloc resizes block in place. It succeeds only when block is the most
// recent allocation and the new size still fits the region; data never moves.
// On failure the caller allocates elsewhere and copies.
//
// Reallocating a null block is a usage error: call Alloc for the first
// acquisition.
func (m *MemArena) TryRealloc(block memarena.MemBlock, newSize int) bool {
	memarena.DebugAssert(!block.IsNull(), "call Alloc for the first acquisition")
	memarena.DebugAssert(newSize > 0, "new size must be greater than zero")
	if block.IsNull() || newSize <= 0 {
		return false
	}
	memarena.DebugAssert(m.Owns(block.Ptr), "reallocated a block this arena does not own")

	offset := memarena.PtrDiff(block.Ptr, unsafe.Pointer(&m.mem[0]))
	alignedSize := memarena.AlignUp(block.Size, allocAlignment)
	if offset+alignedSize != m.top {
		// Not the most recent allocation, it cannot grow or shrink in place
		return false
	}

	newAlignedSize := memarena.AlignUp(newSize, allocAlignment)
	if offset+newAlignedSize > len(m.mem) {
		return false
	}

	m.top = offset + newAlignedSize
	memarena.DebugValidate(m)
	return true
}

// Owns returns true iff ptr falls within the arena's backing buffer.
func (m *MemArena) Owns(ptr unsafe.Pointer) bool {
	if ptr == nil || len(m.mem) == 0 {
		return false
	}

	base := uintptr(unsafe.Pointer(&m.mem[0]))
	return uintptr(ptr) >= base && uintptr(ptr) < base+uintptr(len(m.mem))
}

// Reset retracts the cursor to zero and clears the pending table, reclaiming
// any leaked out-of-order frees. Every outstanding block becomes invalid;
// callers must ensure nothing is alive before resetting.
func (m *MemArena) Reset() {
	m.top = 0
	m.pending = m.pending[:0]
	m.leakedFreeCount = 0
	m.leakedFreeBytes = 0
}

// Capacity returns the arena's total size in bytes.
func (m *MemArena) Capacity() int { return len(m.mem) }

// Top returns the current cursor offset: the number of bytes between the
// region base and the next allocation.
func (m *MemArena) Top() int { return m.top }

// PendingFreeCount returns the number of out-of-order frees currently
// recorded for later coalescing.
func (m *MemArena) PendingFreeCount() int { return len(m.pending) }

// Validate performs internal consistency checks on the arena. When the
// implementation is functioning correctly it should not be possible for this
// method to return an error.
func (m *MemArena) Validate() error {
	if m.top < 0 || m.top > len(m.mem) {
		return errors.Errorf("cursor %d is outside the region of %d bytes", m.top, len(m.mem))
	}
	if !memarena.IsAligned(m.top, allocAlignment) {
		return errors.Errorf("cursor %d is not %d-byte aligned", m.top, allocAlignment)
	}
	if len(m.pending) > m.maxPendingFrees {
		return errors.Errorf("%d pending frees recorded, but the table capacity is %d", len(m.pending), m.maxPendingFrees)
	}

	for i, entry := range m.pending {
		if entry.size <= 0 || !memarena.IsAligned(entry.size, allocAlignment) {
			return errors.Errorf("pending entry %d has invalid size %d", i, entry.size)
		}
		if entry.offset < 0 || entry.offset+entry.size >= m.top {
			// Entries ending exactly at the cursor must have been coalesced
			return errors.Errorf("pending entry %d at [%d,%d) is not strictly below the cursor %d", i, entry.offset, entry.offset+entry.size, m.top)
		}

		for j := i + 1; j < len(m.pending); j++ {
			other := m.pending[j]
			if entry.offset < other.offset+other.size && other.offset < entry.offset+entry.size {
				return errors.Errorf("pending entries %d and %d overlap: [%d,%d) and [%d,%d)", i, j, entry.offset, entry.offset+entry.size, other.offset, other.offset+other.size)
			}
		}
	}

	return nil
}

// AddStatistics sums this arena's current state into the provided aggregate.
func (m *MemArena) AddStatistics(stats *memarena.Statistics) {
	stats.ArenaCount++
	stats.CapacityBytes += len(m.mem)
	stats.CommittedBytes += len(m.mem)
	stats.AllocationBytes += m.top
	stats.PendingFreeCount += len(m.pending)
	for _, entry := range m.pending {
		stats.PendingFreeBytes += entry.size
	}
	stats.LeakedFreeCount += m.leakedFreeCount
	stats.LeakedFreeBytes += m.leakedFreeBytes
}
