package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated instruction.
type Opcode struct {
	LineNo int
	Words  []string
	Code   Code
}

// Program is an assembled instruction listing.
type Program struct {
	Opcodes []Opcode
}

// Find returns the opcode assembled from a source line, or nil.
func (prog *Program) Find(lineno int) *Opcode {
	for n := range prog.Opcodes {
		if prog.Opcodes[n].LineNo == lineno {
			return &prog.Opcodes[n]
		}
	}

	return nil
}

// Binary returns the instruction words of the program.
func (prog *Program) Binary() (bins []uint32) {
	for _, code := range prog.Codes() {
		bins = append(bins, uint32(code))
	}

	return
}

// Codes iterates over the index and instruction word of each opcode.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(index int, code Code) bool) {
		for n, op := range prog.Opcodes {
			if !yield(n, op.Code) {
				return
			}
		}
	}
}
