//go:build debug_mem_arena

package allocator

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/dolthub/swiss"
)

// liveHeapBlocks records every block Default hands out so frees can be
// checked for double frees, foreign pointers, and size mismatches. Debug
// builds only. Default is documented as safe for concurrent use, hence the
// lock; release builds have no tracker and no lock.
var liveHeapBlocks = struct {
	sync.Mutex
	blocks *swiss.Map[uintptr, int]
}{
	blocks: swiss.NewMap[uintptr, int](64),
}

func trackHeapAlloc(ptr unsafe.Pointer, size int) {
	liveHeapBlocks.Lock()
	defer liveHeapBlocks.Unlock()

	liveHeapBlocks.blocks.Put(uintptr(ptr), size)
}

func untrackHeapAlloc(ptr unsafe.Pointer, size int) {
	liveHeapBlocks.Lock()
	defer liveHeapBlocks.Unlock()

	trackedSize, live := liveHeapBlocks.blocks.Get(uintptr(ptr))
	if !live {
		panic(fmt.Sprintf("freed heap pointer %p that is not live (double free, or not allocated by Default)", ptr))
	}
	if trackedSize != size {
		panic(fmt.Sprintf("freed heap pointer %p with size %d, but it was allocated with size %d", ptr, size, trackedSize))
	}

	liveHeapBlocks.blocks.Delete(uintptr(ptr))
}

// LiveHeapAllocationCount returns the number of Default allocations that have
// not been freed yet. Debug builds only; tests use it to verify routing and
// to detect leaks.
func LiveHeapAllocationCount() int {
	liveHeapBlocks.Lock()
	defer liveHeapBlocks.Unlock()

	return liveHeapBlocks.blocks.Count()
}
