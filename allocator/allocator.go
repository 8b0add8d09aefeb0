// Package allocator provides the typed allocation strategies consumed by
// generic containers. All four adapters expose the same capability set -
// Allocate, Free, TryRealloc - over different backing storage: the Go heap
// (Default), a goroutine-scoped scratch arena with heap fallback (Temp), an
// externally owned MemArena (ArenaBacked), and a privately owned growable
// virtual-memory arena (VMem).
//
// Adapters operate in element counts and convert to byte sizes internally, so
// containers never deal in bytes. Containers should be parameterized on a
// concrete adapter type rather than the Allocator interface so delegation
// stays a static call.
package allocator

import (
	"unsafe"

	"github.com/memtools/memarena"
)

// Allocator is the capability contract every adapter implements.
type Allocator[T any] interface {
	// Allocate returns storage for count elements, or nil when the backing
	// strategy is exhausted. Whether nil is fatal is the caller's decision.
	Allocate(count int) *T
	// Free returns storage previously obtained from Allocate. count must be
	// the element count the storage currently holds.
	Free(ptr *T, count int)
	// TryRealloc resizes the storage in place and returns false when it
	// cannot; the caller then performs allocate/copy/free itself. Calling it
	// with a nil pointer is a usage error: use Allocate for the first
	// acquisition.
	TryRealloc(ptr *T, currentCount, newCount int) bool
}

var (
	_ Allocator[int] = Default[int]{}
	_ Allocator[int] = Temp[int]{}
	_ Allocator[int] = ArenaBacked[int]{}
	_ Allocator[int] = (*VMem[int])(nil)
)

func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// blockOf rebuilds the MemBlock an arena handed out for count elements at ptr.
func blockOf[T any](ptr *T, count int) memarena.MemBlock {
	return memarena.MemBlock{
		Ptr:  unsafe.Pointer(ptr),
		Size: count * sizeOf[T](),
	}
}
