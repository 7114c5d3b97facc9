package emulator

import (
	"errors"

	"github.com/ezrec/rvmatrix/translate"
)

var f = translate.From

var (
	ErrArgument = errors.New(f("invalid argument"))
	ErrMatrix   = errors.New(f("matrix must be a 2x2 list of integers"))
	ErrWord     = errors.New(f("value is not a 32 bit word"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
