package allocator

import (
	"unsafe"

	"github.com/memtools/memarena"
	"github.com/memtools/memarena/arena"
)

// DefaultTempRegionSize is the scratch capacity NewTempRegion uses when the
// caller passes a non-positive size.
const DefaultTempRegionSize = 1024 * 1024

// TempRegion owns the scratch MemArena behind Temp adapters. It is the Go
// rendition of a thread-local temp heap: the surrounding system creates one
// region per worker goroutine, hands it to the Temp allocators used on that
// goroutine, and calls Reset between work items once nothing allocated from
// it is alive. Because each goroutine has its own region there is no
// contention and no locking.
//
// The region must outlive every Temp adapter that references it.
type TempRegion struct {
	arena *arena.MemArena
}

// NewTempRegion creates a scratch region of the given capacity in bytes.
// Non-positive capacities select DefaultTempRegionSize.
func NewTempRegion(capacity int, opts ...arena.Option) *TempRegion {
	if capacity <= 0 {
		capacity = DefaultTempRegionSize
	}

	return &TempRegion{arena: arena.NewMemArena(capacity, opts...)}
}

// Reset reclaims the whole region, including any frees that leaked past the
// pending table. The owner calls this between work items; nothing allocated
// from the region may be alive across it.
func (r *TempRegion) Reset() {
	r.arena.Reset()
}

// Arena exposes the backing MemArena for inspection and statistics.
func (r *TempRegion) Arena() *arena.MemArena {
	return r.arena
}

// Owns returns true if ptr was served from this region rather than the heap
// fallback. Nil-safe so a zero-value Temp can route everything to the heap.
func (r *TempRegion) Owns(ptr unsafe.Pointer) bool {
	return r != nil && r.arena.Owns(ptr)
}

// Temp allocates from a TempRegion and falls back to the heap when the region
// is exhausted (or when Region is nil). Frees and reallocs are routed by
// asking the region whether it owns the pointer, so blocks served by the
// fallback take the heap path transparently.
type Temp[T any] struct {
	Region *TempRegion
}

// NewTemp returns a Temp adapter backed by the provided region.
func NewTemp[T any](region *TempRegion) Temp[T] {
	return Temp[T]{Region: region}
}

// Allocate returns storage for count elements, served from the region when it
// has room and from the heap otherwise.
func (t Temp[T]) Allocate(count int) *T {
	memarena.DebugAssert(count > 0, "allocation count must be greater than zero")
	if count <= 0 {
		return nil
	}

	if t.Region != nil {
		block := t.Region.arena.Alloc(count * sizeOf[T]())
		if !block.IsNull() {
			return (*T)(block.Ptr)
		}
	}

	return Default[T]{}.Allocate(count)
}

// Free routes the storage back to whichever allocator produced it.
func (t Temp[T]) Free(ptr *T, count int) {
	if ptr == nil {
		return
	}

	if t.Region.Owns(unsafe.Pointer(ptr)) {
		t.Region.arena.Free(blockOf(ptr, count))
		return
	}

	Default[T]{}.Free(ptr, count)
}

// TryRealloc resizes in place when the region owns the storage and the region
// can grow it; heap-served storage never resizes in place.
func (t Temp[T]) TryRealloc(ptr *T, currentCount, newCount int) bool {
	memarena.DebugAssert(ptr != nil, "call Allocate for the first acquisition")
	if ptr == nil {
		return false
	}

	if t.Region.Owns(unsafe.Pointer(ptr)) {
		return t.Region.arena.TryRealloc(blockOf(ptr, currentCount), newCount*sizeOf[T]())
	}

	return Default[T]{}.TryRealloc(ptr, currentCount, newCount)
}
