// Package vector provides a contiguous growable array parameterized by an
// allocation strategy. It is the reference consumer of the allocator
// contract: growth first asks the adapter to resize in place, and only when
// that fails does it allocate new storage, copy, and free the old block
// through the same adapter.
package vector

import (
	"unsafe"

	"github.com/memtools/memarena/allocator"
	"github.com/memtools/memarena/span"
)

const minimumCapacity = 4

// Vector is a contiguous dynamic array whose storage comes from the adapter
// A. The adapter type is a type parameter so element access and delegation
// compile to static calls.
//
// A Vector must be destroyed through the same adapter value it was built
// with; for arena-backed adapters the arena must outlive the vector.
type Vector[T any, A allocator.Allocator[T]] struct {
	alloc    A
	data     *T
	size     int
	capacity int
}

// New returns an empty vector that allocates through alloc. No storage is
// acquired until the first insertion or Reserve call.
func New[T any, A allocator.Allocator[T]](alloc A) *Vector[T, A] {
	return &Vector[T, A]{alloc: alloc}
}

// Len returns the number of elements currently held.
func (v *Vector[T, A]) Len() int { return v.size }

// Cap returns the number of elements the current storage can hold.
func (v *Vector[T, A]) Cap() int { return v.capacity }

// Empty returns true when the vector holds no elements.
func (v *Vector[T, A]) Empty() bool { return v.size == 0 }

// Reserve grows the storage to hold at least capacity elements. It never
// shrinks.
func (v *Vector[T, A]) Reserve(capacity int) {
	if capacity > v.capacity {
		v.grow(capacity)
	}
}

// PushBack appends value, growing the storage when full.
func (v *Vector[T, A]) PushBack(value T) {
	if v.size == v.capacity {
		newCapacity := v.capacity * 2
		if newCapacity < minimumCapacity {
			newCapacity = minimumCapacity
		}
		v.grow(newCapacity)
	}

	*v.at(v.size) = value
	v.size++
}

// PopBack removes and returns the last element. Panics on an empty vector.
func (v *Vector[T, A]) PopBack() T {
	if v.size == 0 {
		panic("vector: PopBack on empty vector")
	}

	v.size--
	return *v.at(v.size)
}

// At returns a pointer to the i'th element. Panics when i is out of bounds.
func (v *Vector[T, A]) At(i int) *T {
	if i < 0 || i >= v.size {
		panic("vector: index out of range")
	}

	return v.at(i)
}

// Get returns the i'th element. Panics when i is out of bounds.
func (v *Vector[T, A]) Get(i int) T {
	return *v.At(i)
}

// Set overwrites the i'th element. Panics when i is out of bounds.
func (v *Vector[T, A]) Set(i int, value T) {
	*v.At(i) = value
}

// Clear drops all elements but keeps the storage for reuse.
func (v *Vector[T, A]) Clear() {
	v.size = 0
}

// Destroy returns the storage to the adapter and leaves the vector empty and
// reusable. Call it when the vector's adapter requires explicit frees (arena
// adapters reclaim LIFO frees immediately; the heap adapter does not care).
func (v *Vector[T, A]) Destroy() {
	if v.data != nil {
		v.alloc.Free(v.data, v.capacity)
		v.data = nil
		v.capacity = 0
	}
	v.size = 0
}

// Span returns a bounds-checked view of the current elements. The view is
// invalidated by any operation that grows or destroys the vector.
func (v *Vector[T, A]) Span() span.Span[T] {
	if v.size == 0 {
		return span.Span[T]{}
	}

	return span.New(v.data, v.size)
}

func (v *Vector[T, A]) at(i int) *T {
	return (*T)(unsafe.Add(unsafe.Pointer(v.data), uintptr(i)*unsafe.Sizeof(*v.data)))
}

// grow acquires storage for at least minCapacity elements, preferring
// in-place growth so arena-backed vectors extend their existing block for
// free when they were the most recent allocation.
func (v *Vector[T, A]) grow(minCapacity int) {
	if v.data != nil && v.alloc.TryRealloc(v.data, v.capacity, minCapacity) {
		v.capacity = minCapacity
		return
	}

	newData := v.alloc.Allocate(minCapacity)
	if newData == nil {
		panic("vector: allocator exhausted")
	}

	if v.data != nil {
		copy(unsafe.Slice(newData, v.size), unsafe.Slice(v.data, v.size))
		v.alloc.Free(v.data, v.capacity)
	}

	v.data = newData
	v.capacity = minCapacity
}
