package cpu

import (
	"strconv"
	"strings"
)

const (
	REGISTER_COUNT = 32 // General purpose registers.
	REGISTER_BITS  = 5  // Bits in a register index.
)

// Reg is a general purpose register index.
type Reg uint8

//go:generate go tool stringer -linecomment -type=Reg
const (
	REG_ZERO = Reg(0)  // zero
	REG_RA   = Reg(1)  // ra
	REG_SP   = Reg(2)  // sp
	REG_GP   = Reg(3)  // gp
	REG_TP   = Reg(4)  // tp
	REG_T0   = Reg(5)  // t0
	REG_T1   = Reg(6)  // t1
	REG_T2   = Reg(7)  // t2
	REG_S0   = Reg(8)  // s0
	REG_S1   = Reg(9)  // s1
	REG_A0   = Reg(10) // a0
	REG_A1   = Reg(11) // a1
	REG_A2   = Reg(12) // a2
	REG_A3   = Reg(13) // a3
	REG_A4   = Reg(14) // a4
	REG_A5   = Reg(15) // a5
	REG_A6   = Reg(16) // a6
	REG_A7   = Reg(17) // a7
	REG_S2   = Reg(18) // s2
	REG_S3   = Reg(19) // s3
	REG_S4   = Reg(20) // s4
	REG_S5   = Reg(21) // s5
	REG_S6   = Reg(22) // s6
	REG_S7   = Reg(23) // s7
	REG_S8   = Reg(24) // s8
	REG_S9   = Reg(25) // s9
	REG_S10  = Reg(26) // s10
	REG_S11  = Reg(27) // s11
	REG_T3   = Reg(28) // t3
	REG_T4   = Reg(29) // t4
	REG_T5   = Reg(30) // t5
	REG_T6   = Reg(31) // t6
)

// abiMap maps ABI register names to registers.
var abiMap = func() map[string]Reg {
	names := map[string]Reg{"fp": REG_S0}
	for reg := range Reg(REGISTER_COUNT) {
		names[reg.String()] = reg
	}
	return names
}()

// ParseReg parses a register name, either 'xN' or an ABI name.
func ParseReg(name string) (reg Reg, err error) {
	name = strings.ToLower(name)

	reg, ok := abiMap[name]
	if ok {
		return
	}

	if !strings.HasPrefix(name, "x") {
		err = ErrRegisterInvalid
		return
	}

	index, perr := strconv.ParseUint(name[1:], 10, 8)
	if perr != nil || index >= REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	reg = Reg(index)

	return
}
