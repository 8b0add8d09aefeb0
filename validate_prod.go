//go:build !debug_mem_arena

package memarena

// DebugChecksEnabled reports whether the debug_mem_arena build tag is present.
// Tests use it to skip scenarios that would trip a debug assertion on purpose.
const DebugChecksEnabled = false

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_mem_arena build tag is present
func DebugValidate(validatable Validatable) {
}

// DebugAssert panics with the provided message when cond is false. This method
// no-ops unless the debug_mem_arena build tag is present. It guards usage
// errors (freeing foreign memory, reallocating nil, out-of-order frees on
// arenas that tolerate none), which are undefined behavior in release builds.
func DebugAssert(cond bool, msg string) {
}

// DebugCheckPow2 will verify that the numerical value passed in is a power of two, and panics if it is not.
// This method no-ops unless the debug_mem_arena build tag is present.
func DebugCheckPow2[T Number](value T, name string) {
}

// DebugPoisonMemory overwrites the block with a recognizable fill pattern.
// This method no-ops unless the debug_mem_arena build tag is present.
func DebugPoisonMemory(block MemBlock) {
}
