package allocator

import (
	"github.com/memtools/memarena"
	"github.com/memtools/memarena/arena"
)

// ArenaBacked allocates from an externally owned MemArena. There is no
// fallback: when the arena is exhausted, Allocate returns nil and the caller
// decides whether that is fatal. The caller also owns the arena's lifetime
// and reset cadence; the arena must outlive every adapter that references it.
type ArenaBacked[T any] struct {
	Arena *arena.MemArena
}

// NewArenaBacked returns an adapter that allocates from backing.
func NewArenaBacked[T any](backing *arena.MemArena) ArenaBacked[T] {
	return ArenaBacked[T]{Arena: backing}
}

// Allocate returns storage for count elements, or nil when the arena is
// exhausted.
func (a ArenaBacked[T]) Allocate(count int) *T {
	memarena.DebugAssert(a.Arena != nil, "adapter has no arena")
	memarena.DebugAssert(count > 0, "allocation count must be greater than zero")
	if count <= 0 {
		return nil
	}

	block := a.Arena.Alloc(count * sizeOf[T]())
	if block.IsNull() {
		return nil
	}

	return (*T)(block.Ptr)
}

// Free always routes to the referenced arena.
func (a ArenaBacked[T]) Free(ptr *T, count int) {
	if ptr == nil {
		return
	}

	a.Arena.Free(blockOf(ptr, count))
}

// TryRealloc always routes to the referenced arena.
func (a ArenaBacked[T]) TryRealloc(ptr *T, currentCount, newCount int) bool {
	memarena.DebugAssert(ptr != nil, "call Allocate for the first acquisition")
	if ptr == nil {
		return false
	}

	return a.Arena.TryRealloc(blockOf(ptr, currentCount), newCount*sizeOf[T]())
}
