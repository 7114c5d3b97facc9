package memory

import (
	"errors"

	"github.com/ezrec/rvmatrix/translate"
)

var f = translate.From

var (
	ErrMemoryBounds    = errors.New(f("memory access out of bounds"))
	ErrMemoryAlignment = errors.New(f("memory access misaligned"))
	ErrMemorySize      = errors.New(f("memory allocation failed"))
)

// ErrAccess is an out of bounds word access.
type ErrAccess struct {
	Address uint32 // Address of the first byte of the access.
	Size    uint   // Access size in bytes.
	Write   bool   // Set for writes.
}

func (err *ErrAccess) Error() string {
	if err.Write {
		return f("memory write out of bounds: 0x%x+%d", err.Address, err.Size)
	}
	return f("memory read out of bounds: 0x%x+%d", err.Address, err.Size)
}

func (err *ErrAccess) Unwrap() error {
	return ErrMemoryBounds
}

// ErrMisaligned is an address that is not a multiple of MEMORY_ALIGNMENT.
type ErrMisaligned uint32

func (err ErrMisaligned) Error() string {
	return f("address 0x%x is not %d byte aligned", uint32(err), MEMORY_ALIGNMENT)
}

func (err ErrMisaligned) Unwrap() error {
	return ErrMemoryAlignment
}

// ErrSize is a memory size that cannot be allocated.
type ErrSize uint

func (err ErrSize) Error() string {
	return f("cannot allocate %d bytes of memory", uint(err))
}

func (err ErrSize) Unwrap() error {
	return ErrMemorySize
}
