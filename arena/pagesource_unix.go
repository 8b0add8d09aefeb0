//go:build unix

package arena

import (
	"os"

	"golang.org/x/sys/unix"
)

// systemPageSource reserves with an anonymous PROT_NONE mapping and commits by
// flipping page protections to read/write. The mapping's address never
// changes, which is what lets VMemArena grow without invalidating pointers.
type systemPageSource struct{}

func (systemPageSource) PageSize() int {
	return os.Getpagesize()
}

func (systemPageSource) Reserve(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

func (systemPageSource) Commit(mem []byte) error {
	return unix.Mprotect(mem, unix.PROT_READ|unix.PROT_WRITE)
}

func (systemPageSource) Release(mem []byte) error {
	return unix.Munmap(mem)
}
