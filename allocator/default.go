package allocator

import (
	"unsafe"

	"github.com/memtools/memarena"
)

// Default allocates from the Go heap. It is the baseline strategy and the
// fallback for Temp: Free releases the adapter's claim and lets the collector
// reclaim the storage once the caller drops its pointer, and TryRealloc never
// succeeds because heap storage cannot grow in place.
//
// Default is stateless and safe for concurrent use.
type Default[T any] struct{}

// Allocate returns zeroed storage for count elements. Heap exhaustion is
// fatal (the runtime aborts), so a nil return only happens for non-positive
// counts, which are a usage error.
func (Default[T]) Allocate(count int) *T {
	memarena.DebugAssert(count > 0, "allocation count must be greater than zero")
	if count <= 0 {
		return nil
	}

	storage := make([]T, count)
	ptr := &storage[0]
	trackHeapAlloc(unsafe.Pointer(ptr), count*sizeOf[T]())

	return ptr
}

// Free releases storage obtained from Allocate. The memory itself is
// reclaimed by the collector; in debug builds the free is checked against the
// live-allocation tracker to catch double and foreign frees.
func (Default[T]) Free(ptr *T, count int) {
	if ptr == nil {
		return
	}

	untrackHeapAlloc(unsafe.Pointer(ptr), count*sizeOf[T]())
}

// TryRealloc always returns false: heap slices never grow in place.
func (Default[T]) TryRealloc(ptr *T, currentCount, newCount int) bool {
	memarena.DebugAssert(ptr != nil, "call Allocate for the first acquisition")
	return false
}
