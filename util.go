package memarena

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint
}

func CheckPow2[T Number](number T, name string) error {
	if number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

func CheckPositive(value int, name string) error {
	if value <= 0 {
		return cerrors.Wrapf(NotPositiveError, "%s is %d", name, value)
	}
	return nil
}

func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

func AlignDown(value int, alignment uint) int {
	return value & int(^(alignment - 1))
}

func IsAligned(value int, alignment uint) bool {
	return value&int(alignment-1) == 0
}

// PtrDiff returns ptr's offset in bytes from base. The caller is responsible
// for ensuring both pointers refer into the same allocation.
func PtrDiff(ptr, base unsafe.Pointer) int {
	return int(uintptr(ptr) - uintptr(base))
}
