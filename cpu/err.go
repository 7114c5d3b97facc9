package cpu

import (
	"errors"

	"github.com/ezrec/rvmatrix/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrInstructionInvalid = errors.New(f("instruction invalid"))

	// Assembler errors
	ErrEquateSyntax      = errors.New(f(".equ syntax"))
	ErrEquateDuplicate   = errors.New(f(".equ duplicated"))
	ErrOpcodeExtraArgs   = errors.New(f("excessive arguments"))
	ErrOpcodeMissingArgs = errors.New(f("missing arguments"))
	ErrOpcodeInvalid     = errors.New(f("opcode invalid"))
	ErrRegisterInvalid   = errors.New(f("register invalid"))
	ErrInsnFormatInvalid = errors.New(f(".insn format invalid"))
	ErrFieldRange        = errors.New(f("field value out of range"))

	// CGEN description errors
	ErrCgenParens = errors.New(f("cgen: unbalanced parentheses"))
)

// ErrUnrecognized is an instruction word that does not decode to a
// known instruction.
type ErrUnrecognized Code

func (eu ErrUnrecognized) Error() string {
	return f("unrecognized instruction 0x%08x", uint32(eu))
}

func (eu ErrUnrecognized) Is(err error) (ok bool) {
	if err == ErrInstructionInvalid {
		return true
	}
	_, ok = err.(ErrUnrecognized)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrCgenMissing is a required CGEN define form that is absent.
type ErrCgenMissing string

func (err ErrCgenMissing) Error() string {
	return f("cgen: missing (%v ...)", string(err))
}

// ErrCgenField is an instruction field that is absent, or that does not
// match the instruction codec.
type ErrCgenField string

func (err ErrCgenField) Error() string {
	return f("cgen: field f-%v does not match the instruction layout", string(err))
}
