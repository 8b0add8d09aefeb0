package memarena

import "unsafe"

// MemBlock is the universal currency between arenas and allocators: a raw
// pointer plus a length in bytes. Allocators convert element counts to byte
// sizes before building one, so a MemBlock never knows about element types.
//
// A null MemBlock (nil Ptr, zero Size) is how allocation failure is reported.
// Callers must check IsNull before touching Ptr.
type MemBlock struct {
	Ptr  unsafe.Pointer
	Size int
}

// IsNull returns true when the block does not describe any memory.
func (b MemBlock) IsNull() bool {
	return b.Ptr == nil
}

// End returns the address one past the last byte of the block.
func (b MemBlock) End() unsafe.Pointer {
	return unsafe.Add(b.Ptr, b.Size)
}

// Contains returns true if ptr falls inside the block's byte range.
func (b MemBlock) Contains(ptr unsafe.Pointer) bool {
	if b.Ptr == nil || ptr == nil {
		return false
	}

	return uintptr(ptr) >= uintptr(b.Ptr) && uintptr(ptr) < uintptr(b.Ptr)+uintptr(b.Size)
}

// Bytes reinterprets the block as a byte slice. The slice aliases the block's
// memory and must not outlive the arena that produced it.
func (b MemBlock) Bytes() []byte {
	if b.Ptr == nil {
		return nil
	}

	return unsafe.Slice((*byte)(b.Ptr), b.Size)
}
