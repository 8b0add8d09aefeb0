package allocator

import (
	"github.com/memtools/memarena"
	"github.com/memtools/memarena/arena"
)

// VMem allocates from a privately owned VMemArena. The zero value is usable:
// the arena reserves its address range lazily, on the first allocation, so
// default-constructed adapters that never allocate cost nothing. There is one
// reservation event per adapter, amortized across all later allocations.
//
// The owned arena tolerates no out-of-order frees; a VMem adapter is meant
// for a single container that frees in LIFO order. Not safe for concurrent
// use without external synchronization.
type VMem[T any] struct {
	arena arena.VMemArena
}

// NewVMem returns an adapter whose arena will reserve reservedSize bytes of
// address space on first use and commit in commitSize increments.
// Non-positive sizes select the arena defaults.
func NewVMem[T any](reservedSize, commitSize int, opts ...arena.Option) *VMem[T] {
	return &VMem[T]{arena: *arena.NewVMemArena(reservedSize, commitSize, opts...)}
}

// Allocate returns storage for count elements, growing the committed prefix
// as needed. Returns nil only once the reservation ceiling is reached.
func (v *VMem[T]) Allocate(count int) *T {
	memarena.DebugAssert(count > 0, "allocation count must be greater than zero")
	if count <= 0 {
		return nil
	}

	block := v.arena.Alloc(count * sizeOf[T]())
	if block.IsNull() {
		return nil
	}

	return (*T)(block.Ptr)
}

// Free always routes to the owned arena.
func (v *VMem[T]) Free(ptr *T, count int) {
	if ptr == nil {
		return
	}

	v.arena.Free(blockOf(ptr, count))
}

// TryRealloc always routes to the owned arena, which may commit further pages
// to satisfy in-place growth of the top allocation.
func (v *VMem[T]) TryRealloc(ptr *T, currentCount, newCount int) bool {
	memarena.DebugAssert(ptr != nil, "call Allocate for the first acquisition")
	if ptr == nil {
		return false
	}

	return v.arena.TryRealloc(blockOf(ptr, currentCount), newCount*sizeOf[T]())
}

// Arena exposes the owned arena for inspection, statistics, and Release.
func (v *VMem[T]) Arena() *arena.VMemArena {
	return &v.arena
}
