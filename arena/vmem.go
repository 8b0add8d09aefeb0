package arena

import (
	"context"
	"unsafe"

	"github.com/memtools/memarena"
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

const (
	// DefaultReservedSize is the address-space reservation a VMemArena makes
	// when no explicit size is configured
	DefaultReservedSize = 64 * 1024 * 1024
	// DefaultCommitSize is how much additional memory a VMemArena commits
	// every time it grows, when no explicit size is configured
	DefaultCommitSize = 256 * 1024
)

// VMemArena is a MemArena whose region grows on demand. It reserves a fixed
// virtual address range up front and commits physical pages over a prefix of
// it as the cursor advances, so the region never moves and previously issued
// pointers stay valid across growth. Exhausting the reserved range is the hard
// capacity ceiling and fails the allocation.
//
// Construction reserves nothing: the reservation happens on first use, so
// default-constructed instances that never allocate cost nothing. By default
// the arena tolerates zero out-of-order frees, since a growable arena is
// normally private to a single owner that frees in LIFO order.
//
// The zero value is usable and resolves to DefaultReservedSize and
// DefaultCommitSize on first allocation.
type VMemArena struct {
	MemArena

	reserved     []byte
	reservedSize int
	commitSize   int
	pageSize     int
	pages        PageSource
}

// NewVMemArena creates a VMemArena that will reserve reservedSize bytes of
// address space on first use and commit in commitSize increments. Both sizes
// are rounded up to the page size; non-positive values select the defaults.
func NewVMemArena(reservedSize, commitSize int, opts ...Option) *VMemArena {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxPendingFrees < 0 {
		cfg.maxPendingFrees = 0
	}

	m := &VMemArena{
		reservedSize: reservedSize,
		commitSize:   commitSize,
		pages:        cfg.pages,
	}
	m.maxPendingFrees = cfg.maxPendingFrees
	m.logger = cfg.logger

	return m
}

// initialize resolves configuration defaults and reserves the address range.
// This is the one-way transition out of the lazy uninitialized state.
func (m *VMemArena) initialize() error {
	if m.pages == nil {
		m.pages = SystemPageSource()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.reservedSize <= 0 {
		m.reservedSize = DefaultReservedSize
	}
	if m.commitSize <= 0 {
		m.commitSize = DefaultCommitSize
	}

	m.pageSize = m.pages.PageSize()
	memarena.DebugCheckPow2(uint(m.pageSize), "page size")
	m.reservedSize = memarena.AlignUp(m.reservedSize, uint(m.pageSize))
	m.commitSize = memarena.AlignUp(m.commitSize, uint(m.pageSize))
	if m.commitSize > m.reservedSize {
		m.commitSize = m.reservedSize
	}

	reserved, err := m.pages.Reserve(m.reservedSize)
	if err != nil {
		return errors.Wrapf(err, "failed to reserve %d bytes of address space", m.reservedSize)
	}

	m.reserved = reserved
	m.mem = reserved[:0]
	if m.maxPendingFrees > 0 && m.pending == nil {
		m.pending = make([]pendingFree, 0, m.maxPendingFrees)
	}

	return nil
}

// commitUpTo extends the committed prefix to cover at least needed bytes,
// growing in multiples of the commit increment and clamping at the reserved
// ceiling. The caller has already checked that needed fits the reservation.
func (m *VMemArena) commitUpTo(needed int) error {
	newCommitted := (needed + m.commitSize - 1) / m.commitSize * m.commitSize
	newCommitted = memarena.AlignUp(newCommitted, uint(m.pageSize))
	if newCommitted > len(m.reserved) {
		newCommitted = len(m.reserved)
	}

	err := m.pages.Commit(m.reserved[len(m.mem):newCommitted])
	if err != nil {
		return errors.Wrapf(err, "failed to commit %d additional bytes", newCommitted-len(m.mem))
	}

	m.mem = m.reserved[:newCommitted]
	return nil
}

// Alloc carves size bytes out of the committed prefix, committing additional
// pages first when the prefix is exhausted. Returns a null block only once
// the reserved range itself cannot hold the allocation, or if the platform
// refuses to reserve or commit.
func (m *VMemArena) Alloc(size int) memarena.MemBlock {
	memarena.DebugAssert(size > 0, "allocation size must be greater than zero")
	if size <= 0 {
		return memarena.MemBlock{}
	}

	if m.reserved == nil {
		err := m.initialize()
		if err != nil {
			slog.Default().LogAttrs(context.Background(), slog.LevelError,
				"virtual arena initialization failed",
				slog.Any("error", err))
			return memarena.MemBlock{}
		}
	}

	alignedSize := memarena.AlignUp(size, allocAlignment)
	needed := m.top + alignedSize
	if needed > len(m.mem) {
		if needed > len(m.reserved) {
			// Hard ceiling: the reservation bounds how large this arena may grow
			return memarena.MemBlock{}
		}

		err := m.commitUpTo(needed)
		if err != nil {
			m.logger.LogAttrs(context.Background(), slog.LevelError,
				"virtual arena growth failed",
				slog.Any("error", err))
			return memarena.MemBlock{}
		}
	}

	return m.MemArena.Alloc(size)
}

// TryRealloc resizes block in place, committing additional pages when the
// grown block still fits the reservation. As with MemArena, only the most
// recent allocation can be resized and data never moves.
func (m *VMemArena) TryRealloc(block memarena.MemBlock, newSize int) bool {
	memarena.DebugAssert(!block.IsNull(), "call Alloc for the first acquisition")
	memarena.DebugAssert(newSize > 0, "new size must be greater than zero")
	if block.IsNull() || newSize <= 0 || m.reserved == nil {
		return false
	}
	memarena.DebugAssert(m.Owns(block.Ptr), "reallocated a block this arena does not own")

	offset := memarena.PtrDiff(block.Ptr, unsafe.Pointer(&m.reserved[0]))
	alignedSize := memarena.AlignUp(block.Size, allocAlignment)
	if offset+alignedSize != m.top {
		return false
	}

	needed := offset + memarena.AlignUp(newSize, allocAlignment)
	if needed > len(m.reserved) {
		return false
	}
	if needed > len(m.mem) {
		err := m.commitUpTo(needed)
		if err != nil {
			m.logger.LogAttrs(context.Background(), slog.LevelError,
				"virtual arena growth failed",
				slog.Any("error", err))
			return false
		}
	}

	m.top = needed
	memarena.DebugValidate(m)
	return true
}

// Release returns the reserved address range to the operating system and puts
// the arena back into its lazy uninitialized state. Every outstanding block
// becomes invalid. A later Alloc reserves a fresh range.
func (m *VMemArena) Release() {
	if m.reserved == nil {
		return
	}

	err := m.pages.Release(m.reserved)
	if err != nil {
		m.logger.LogAttrs(context.Background(), slog.LevelError,
			"failed to release reserved address range",
			slog.Any("error", err))
	}

	m.reserved = nil
	m.mem = nil
	m.Reset()
}

// Capacity returns the arena's hard ceiling: the size of the reserved address
// range, or the configured reservation size before first use.
func (m *VMemArena) Capacity() int {
	if m.reserved != nil {
		return len(m.reserved)
	}
	return m.reservedSize
}

// CommittedSize returns the number of reserved bytes currently backed by
// usable memory.
func (m *VMemArena) CommittedSize() int { return len(m.mem) }

// Validate performs internal consistency checks on the arena, covering the
// reserve/commit bookkeeping in addition to the cursor checks shared with
// MemArena.
func (m *VMemArena) Validate() error {
	if m.reserved == nil {
		if m.mem != nil || m.top != 0 {
			return errors.New("uninitialized virtual arena holds committed memory")
		}
		return nil
	}

	if len(m.mem) > len(m.reserved) {
		return errors.Errorf("committed prefix of %d bytes exceeds the %d byte reservation", len(m.mem), len(m.reserved))
	}
	if !memarena.IsAligned(len(m.mem), uint(m.pageSize)) {
		return errors.Errorf("committed prefix of %d bytes is not page aligned (page size %d)", len(m.mem), m.pageSize)
	}
	if len(m.mem) > 0 && unsafe.Pointer(&m.mem[0]) != unsafe.Pointer(&m.reserved[0]) {
		return errors.New("committed prefix does not share the reservation's base address")
	}

	return m.MemArena.Validate()
}

// AddStatistics sums this arena's current state into the provided aggregate.
// Capacity is the reservation; committed is the usable prefix.
func (m *VMemArena) AddStatistics(stats *memarena.Statistics) {
	m.MemArena.AddStatistics(stats)
	stats.CapacityBytes += len(m.reserved) - len(m.mem)
}
