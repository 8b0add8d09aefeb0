//go:build !debug_mem_arena

package allocator

import "unsafe"

func trackHeapAlloc(ptr unsafe.Pointer, size int) {
}

func untrackHeapAlloc(ptr unsafe.Pointer, size int) {
}

// LiveHeapAllocationCount returns the number of Default allocations that have
// not been freed yet. Debug builds only; without the debug_mem_arena build
// tag it always returns zero.
func LiveHeapAllocationCount() int {
	return 0
}
