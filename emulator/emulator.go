// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/rvmatrix/cpu"
	"github.com/ezrec/rvmatrix/internal"
	"github.com/ezrec/rvmatrix/memory"
)

var _emulator_defines = map[string]string{
	"DEFAULT_MEMORY_SIZE": fmt.Sprintf("%v", memory.DEFAULT_MEMORY_SIZE),
	"MEMORY_ALIGNMENT":    fmt.Sprintf("%v", memory.MEMORY_ALIGNMENT),
}

// Emulator state. CPU + check script environment.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.

	Trace *cpu.Trace // Trace of the last executed matmul.
}

// NewEmulator creates a new emulator with size bytes of memory.
func NewEmulator(size uint) (emu *Emulator, err error) {
	cp, err := cpu.NewCpu(size)
	if err != nil {
		return
	}

	emu = &Emulator{
		Cpu: cp,
	}

	return
}

// SetVerbose sets verbose logging for the emulator, CPU and memory.
func (emu *Emulator) SetVerbose(verbose bool) {
	emu.Verbose = verbose
	emu.Cpu.SetVerbose(verbose)
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	sized := map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("%v", emu.Cpu.Memory.Size()),
	}

	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		maps.All(sized),
		emu.Cpu.Defines(),
	)
}

// Reset the emulator state.
func (emu *Emulator) Reset() {
	emu.Cpu.Reset()
	emu.Trace = nil
}

// Execute executes a single instruction word, and keeps its trace.
func (emu *Emulator) Execute(code cpu.Code) (status cpu.Status, err error) {
	emu.Trace, err = emu.Cpu.Execute(code)
	status = cpu.StatusOf(err)

	if emu.Verbose {
		log.Printf("emulator: 0x%08x %v", uint32(code), status)
	}

	return
}

// Assembler returns an assembler with the emulator defines.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	return
}

// Run executes a Starlark check script, recording checks into tally.
// src is anything accepted by starlark.ExecFileOptions.
func (emu *Emulator) Run(filename string, src any, tally *Tally) (err error) {
	if tally == nil {
		tally = &Tally{}
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			log.Printf("%v: %v", filename, msg)
		},
	}

	predeclared := emu.builtins(tally)
	for key, value := range emu.Defines() {
		v64, perr := strconv.ParseInt(value, 0, 64)
		if perr != nil {
			continue
		}
		predeclared[key] = starlark.MakeInt64(v64)
	}

	opts := syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
	}

	_, err = starlark.ExecFileOptions(&opts, thread, filename, src, predeclared)

	return
}
