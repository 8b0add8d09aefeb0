//go:build !unix && !windows

package arena

import "os"

// systemPageSource on platforms without virtual-memory control falls back to
// fully committed heap buffers: Reserve allocates everything up front and
// Commit and Release are no-ops. VMemArena still behaves correctly, it just
// pays for its whole reservation immediately.
type systemPageSource struct{}

func (systemPageSource) PageSize() int {
	return os.Getpagesize()
}

func (systemPageSource) Reserve(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func (systemPageSource) Commit(mem []byte) error {
	return nil
}

func (systemPageSource) Release(mem []byte) error {
	return nil
}
