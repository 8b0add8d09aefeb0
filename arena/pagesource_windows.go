//go:build windows

package arena

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// systemPageSource reserves with VirtualAlloc MEM_RESERVE and commits regions
// of the reservation with MEM_COMMIT. The reserved base address never changes,
// which is what lets VMemArena grow without invalidating pointers.
type systemPageSource struct{}

func (systemPageSource) PageSize() int {
	return os.Getpagesize()
}

func (systemPageSource) Reserve(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, err
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func (systemPageSource) Commit(mem []byte) error {
	_, err := windows.VirtualAlloc(uintptr(unsafe.Pointer(&mem[0])), uintptr(len(mem)), windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err
}

func (systemPageSource) Release(mem []byte) error {
	return windows.VirtualFree(uintptr(unsafe.Pointer(&mem[0])), 0, windows.MEM_RELEASE)
}
