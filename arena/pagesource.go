package arena

// PageSource abstracts the virtual-memory primitives VMemArena is built on:
// reserving a range of address space without backing it, committing physical
// pages over a prefix of it, and returning the whole range to the system.
// Production code uses SystemPageSource; tests substitute a fake to observe
// reserve and commit traffic deterministically.
type PageSource interface {
	// PageSize returns the commit granularity in bytes. Reservation and
	// commit sizes are rounded up to it.
	PageSize() int
	// Reserve claims size bytes of address space without committing physical
	// memory for it. The returned slice must not be read or written until the
	// relevant prefix has been passed to Commit.
	Reserve(size int) ([]byte, error)
	// Commit backs a reserved range with usable memory. mem must be a
	// page-aligned subslice of a slice previously returned by Reserve.
	Commit(mem []byte) error
	// Release returns a range to the operating system. mem must be exactly a
	// slice previously returned by Reserve.
	Release(mem []byte) error
}

// SystemPageSource returns the PageSource backed by the operating system's
// virtual memory facilities. On platforms without usable virtual-memory
// control it degrades to fully committed heap buffers.
func SystemPageSource() PageSource {
	return systemPageSource{}
}
