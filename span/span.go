// Package span provides a non-owning, bounds-checked view over a contiguous
// element range. It is the shape containers use to hand buffers around
// without copying: the same pointer+count pair the allocation layer trades in
// MemBlocks, but typed and index-checked.
package span

import "unsafe"

// Span is a non-owning view of size contiguous elements. The viewed memory
// must outlive the span; a span never frees anything.
//
// The zero value is an empty span.
type Span[T any] struct {
	data *T
	size int
}

// New builds a span from a pointer to the first element and an element count.
func New[T any](data *T, size int) Span[T] {
	if size < 0 {
		panic("span: negative size")
	}
	if data == nil && size != 0 {
		panic("span: nil data with nonzero size")
	}

	return Span[T]{data: data, size: size}
}

// FromSlice views the elements of a slice without copying.
func FromSlice[T any](elems []T) Span[T] {
	if len(elems) == 0 {
		return Span[T]{}
	}

	return Span[T]{data: &elems[0], size: len(elems)}
}

// Len returns the number of elements viewed.
func (s Span[T]) Len() int { return s.size }

// Empty returns true when the span views no elements.
func (s Span[T]) Empty() bool { return s.size == 0 }

// Data returns the pointer to the first element, or nil for an empty span.
func (s Span[T]) Data() *T { return s.data }

// At returns a pointer to the i'th element. Panics when i is out of bounds.
func (s Span[T]) At(i int) *T {
	s.boundsCheck(i)
	return (*T)(unsafe.Add(unsafe.Pointer(s.data), uintptr(i)*unsafe.Sizeof(*s.data)))
}

// Get returns the i'th element. Panics when i is out of bounds.
func (s Span[T]) Get(i int) T {
	return *s.At(i)
}

// Set overwrites the i'th element. Panics when i is out of bounds.
func (s Span[T]) Set(i int, value T) {
	*s.At(i) = value
}

// First returns a view of the first count elements.
func (s Span[T]) First(count int) Span[T] {
	if count < 0 || count > s.size {
		panic("span: count out of range")
	}

	return Span[T]{data: s.data, size: count}
}

// Last returns a view of the last count elements.
func (s Span[T]) Last(count int) Span[T] {
	if count < 0 || count > s.size {
		panic("span: count out of range")
	}
	if count == 0 {
		return Span[T]{}
	}

	return Span[T]{data: s.At(s.size - count), size: count}
}

// SubSpan returns a view starting at position. count is clamped to the
// remaining length, so SubSpan(pos) with a large count views the whole tail.
func (s Span[T]) SubSpan(position, count int) Span[T] {
	if position < 0 || position > s.size {
		panic("span: position out of range")
	}
	if count < 0 {
		panic("span: negative count")
	}

	remaining := s.size - position
	if count > remaining {
		count = remaining
	}
	if count == 0 {
		return Span[T]{}
	}

	return Span[T]{data: s.At(position), size: count}
}

// Slice reinterprets the span as a Go slice aliasing the same memory.
func (s Span[T]) Slice() []T {
	if s.size == 0 {
		return nil
	}

	return unsafe.Slice(s.data, s.size)
}

func (s Span[T]) boundsCheck(i int) {
	if i < 0 || i >= s.size {
		panic("span: index out of range")
	}
}

// Equal reports whether two spans view element-wise equal contents. Identity
// of the underlying memory does not matter.
func Equal[T comparable](a, b Span[T]) bool {
	if a.size != b.size {
		return false
	}

	for i := 0; i < a.size; i++ {
		if a.Get(i) != b.Get(i) {
			return false
		}
	}

	return true
}
