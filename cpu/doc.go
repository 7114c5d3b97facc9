// Package cpu implements the processor model and assembler for the RISC-V
// matrix extension.
//
// The processor consists of 32 general-purpose 32-bit registers (x0-x31)
// and a byte addressable main memory. It executes a single custom R-type
// instruction, matmul, which multiplies the 2x2 matrices addressed by rs1
// and rs2 and stores the product at the address held in rd.
//
// There is no program counter or fetch loop: each call to Cpu.Execute runs
// exactly one instruction word against the current state.
//
// The assembler accepts matmul, generic .insn r encodings and raw .word
// values, with Starlark evaluated $(...) expressions.
package cpu
