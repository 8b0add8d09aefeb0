//go:build debug_mem_arena

package memarena

import "unsafe"

// DebugChecksEnabled reports whether the debug_mem_arena build tag is present.
// Tests use it to skip scenarios that would trip a debug assertion on purpose.
const DebugChecksEnabled = true

// freedMemoryFillByte is written across freed ranges so stale reads are easy to
// spot in a debugger
const freedMemoryFillByte byte = 0xDD

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_mem_arena build tag is present
func DebugValidate(validatable Validatable) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}

// DebugAssert panics with the provided message when cond is false. This method
// no-ops unless the debug_mem_arena build tag is present. It guards usage
// errors (freeing foreign memory, reallocating nil, out-of-order frees on
// arenas that tolerate none), which are undefined behavior in release builds.
func DebugAssert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

// DebugCheckPow2 will verify that the numerical value passed in is a power of two, and panics if it is not.
// This method no-ops unless the debug_mem_arena build tag is present.
func DebugCheckPow2[T Number](value T, name string) {
	err := CheckPow2[T](value, name)
	if err != nil {
		panic(err)
	}
}

// DebugPoisonMemory overwrites the block with a recognizable fill pattern.
// This method no-ops unless the debug_mem_arena build tag is present.
func DebugPoisonMemory(block MemBlock) {
	if block.IsNull() {
		return
	}

	bytes := unsafe.Slice((*byte)(block.Ptr), block.Size)
	for i := range bytes {
		bytes[i] = freedMemoryFillByte
	}
}
