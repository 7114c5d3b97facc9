// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rvmatrix/matrix"
	"github.com/ezrec/rvmatrix/memory"
)

var _cpu_defines = map[string]string{
	"OPCODE_CUSTOM_1": fmt.Sprintf("%#x", OPCODE_CUSTOM_1),
	"FUNC3_MATMUL":    fmt.Sprintf("%#x", FUNC3_MATMUL),
	"FUNC7_MATMUL":    fmt.Sprintf("%#x", FUNC7_MATMUL),
	"REGISTER_COUNT":  fmt.Sprintf("%d", REGISTER_COUNT),
	"MATRIX_BYTES":    fmt.Sprintf("%d", matrix.MATRIX_BYTES),
}

// Trace records the stages of a single matmul execution.
type Trace struct {
	Rd, Rs1, Rs2 Reg // Decoded registers.

	AddrResult uint32 // Contents of rd.
	AddrA      uint32 // Contents of rs1.
	AddrB      uint32 // Contents of rs2.

	A      matrix.Matrix // Matrix read from AddrA.
	B      matrix.Matrix // Matrix read from AddrB.
	Result matrix.Matrix // Product written to AddrResult.
}

// Cpu is the processor state: register file and main memory.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	// Strict rejects a matmul, before any access, if a matrix address
	// is misaligned or any of its 16 bytes is out of bounds.
	Strict bool

	Register [REGISTER_COUNT]uint32 // Register bank. x0 is not hard-wired.
	Memory   *memory.Memory         // Main memory.
}

// NewCpu creates a new CPU with size bytes of memory.
func NewCpu(size uint) (cpu *Cpu, err error) {
	mem, err := memory.NewMemory(size)
	if err != nil {
		return
	}

	cpu = &Cpu{
		Memory: mem,
	}

	return
}

// SetVerbose sets verbose logging for the CPU and its memory.
func (cpu *Cpu) SetVerbose(verbose bool) {
	cpu.Verbose = verbose
	cpu.Memory.Verbose = verbose
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset clears the registers and memory.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Memory.Reset()
}

// ReadMatrix reads the matrix at addr.
func (cpu *Cpu) ReadMatrix(addr uint32) (m matrix.Matrix, err error) {
	return matrix.Read(cpu.Memory, addr)
}

// WriteMatrix writes the matrix at addr.
func (cpu *Cpu) WriteMatrix(addr uint32, m matrix.Matrix) (err error) {
	return matrix.Write(cpu.Memory, addr, m)
}

// Execute executes a single instruction word.
//
// An unrecognized word returns ErrUnrecognized and leaves the state
// untouched. A matmul returns its trace; out of bounds matrix words are
// reported in err but do not stop the execution.
func (cpu *Cpu) Execute(code Code) (trace *Trace, err error) {
	fields := code.Decode()
	if !fields.IsMatmul() {
		if cpu.Verbose {
			log.Printf("cpu: unknown instruction 0x%08x", uint32(code))
		}
		err = ErrUnrecognized(code)
		return
	}

	trace, err = cpu.executeMatmul(fields.Rd, fields.Rs1, fields.Rs2)

	return
}

// checkMatrix verifies alignment and bounds of a whole matrix.
func (cpu *Cpu) checkMatrix(addr uint32) error {
	return errors.Join(
		memory.CheckAlignment(addr),
		cpu.Memory.CheckBounds(addr, matrix.MATRIX_BYTES),
	)
}

// executeMatmul multiplies the matrices at the addresses held in rs1 and
// rs2, and writes the product to the address held in rd. Both operands
// are read completely before the product is written, so overlapping
// regions are permitted.
func (cpu *Cpu) executeMatmul(rd, rs1, rs2 Reg) (trace *Trace, err error) {
	trace = &Trace{
		Rd:         rd,
		Rs1:        rs1,
		Rs2:        rs2,
		AddrResult: cpu.Register[rd],
		AddrA:      cpu.Register[rs1],
		AddrB:      cpu.Register[rs2],
	}

	if cpu.Verbose {
		log.Printf("cpu: matmul %v, %v, %v", rd, rs1, rs2)
		log.Printf("cpu:   A 0x%x B 0x%x result 0x%x", trace.AddrA, trace.AddrB, trace.AddrResult)
	}

	if cpu.Strict {
		err = errors.Join(
			cpu.checkMatrix(trace.AddrA),
			cpu.checkMatrix(trace.AddrB),
			cpu.checkMatrix(trace.AddrResult),
		)
		if err != nil {
			if cpu.Verbose {
				log.Printf("cpu:   rejected: %v", err)
			}
			return
		}
	}

	a, err_a := matrix.Read(cpu.Memory, trace.AddrA)
	b, err_b := matrix.Read(cpu.Memory, trace.AddrB)
	result := matrix.Multiply(a, b)
	err_result := matrix.Write(cpu.Memory, trace.AddrResult, result)

	trace.A = a
	trace.B = b
	trace.Result = result

	if cpu.Verbose {
		log.Printf("cpu:   A      %v", a)
		log.Printf("cpu:   B      %v", b)
		log.Printf("cpu:   result %v", result)
	}

	err = errors.Join(err_a, err_b, err_result)

	return
}
