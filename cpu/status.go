package cpu

import (
	"errors"

	"github.com/ezrec/rvmatrix/memory"
)

// Status classifies the outcome of Execute.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_OK           = Status(0) // ok
	STATUS_UNRECOGNIZED = Status(1) // unrecognized
	STATUS_BOUNDS       = Status(2) // bounds
	STATUS_ALIGNMENT    = Status(3) // alignment
	STATUS_FAULT        = Status(4) // fault
)

// StatusOf classifies an error returned by Execute.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return STATUS_OK
	case errors.Is(err, ErrInstructionInvalid):
		return STATUS_UNRECOGNIZED
	case errors.Is(err, memory.ErrMemoryAlignment):
		return STATUS_ALIGNMENT
	case errors.Is(err, memory.ErrMemoryBounds):
		return STATUS_BOUNDS
	}

	return STATUS_FAULT
}
