package cpu

// Code is a raw 32-bit instruction word.
type Code uint32

// Matmul instruction selectors.
const (
	OPCODE_CUSTOM_1 = 0x2B // custom-1 major opcode
	FUNC3_MATMUL    = 0x7
	FUNC7_MATMUL    = 0x1
)

// R-type field layout.
const (
	OPCODE_SHIFT = 0
	OPCODE_MASK  = 0x7f
	RD_SHIFT     = 7
	RD_MASK      = 0x1f
	FUNC3_SHIFT  = 12
	FUNC3_MASK   = 0x7
	RS1_SHIFT    = 15
	RS1_MASK     = 0x1f
	RS2_SHIFT    = 20
	RS2_MASK     = 0x1f
	FUNC7_SHIFT  = 25
	FUNC7_MASK   = 0x7f
)

// Fields are the decoded fields of an R-type instruction word.
type Fields struct {
	Opcode uint8
	Rd     Reg
	Func3  uint8
	Rs1    Reg
	Rs2    Reg
	Func7  uint8
}

// Encode packs the fields into an instruction word.
// Field values wider than their bit allocation are truncated.
func (fields Fields) Encode() Code {
	return Code((uint32(fields.Opcode)&OPCODE_MASK)<<OPCODE_SHIFT |
		(uint32(fields.Rd)&RD_MASK)<<RD_SHIFT |
		(uint32(fields.Func3)&FUNC3_MASK)<<FUNC3_SHIFT |
		(uint32(fields.Rs1)&RS1_MASK)<<RS1_SHIFT |
		(uint32(fields.Rs2)&RS2_MASK)<<RS2_SHIFT |
		(uint32(fields.Func7)&FUNC7_MASK)<<FUNC7_SHIFT)
}

// IsMatmul returns true if the fields select the matmul instruction.
func (fields Fields) IsMatmul() bool {
	return fields.Opcode == OPCODE_CUSTOM_1 &&
		fields.Func3 == FUNC3_MATMUL &&
		fields.Func7 == FUNC7_MATMUL
}

// MakeCodeInsnR creates an arbitrary R-type instruction.
func MakeCodeInsnR(opcode, func3, func7 uint8, rd, rs1, rs2 Reg) Code {
	return Fields{
		Opcode: opcode,
		Rd:     rd,
		Func3:  func3,
		Rs1:    rs1,
		Rs2:    rs2,
		Func7:  func7,
	}.Encode()
}

// MakeCodeMatmul creates a matmul instruction.
func MakeCodeMatmul(rd, rs1, rs2 Reg) Code {
	return MakeCodeInsnR(OPCODE_CUSTOM_1, FUNC3_MATMUL, FUNC7_MATMUL, rd, rs1, rs2)
}

// Opcode returns the major opcode.
func (code Code) Opcode() uint8 {
	return uint8((uint32(code) >> OPCODE_SHIFT) & OPCODE_MASK)
}

// Rd returns the destination register.
func (code Code) Rd() Reg {
	return Reg((uint32(code) >> RD_SHIFT) & RD_MASK)
}

// Func3 returns the 3-bit function select.
func (code Code) Func3() uint8 {
	return uint8((uint32(code) >> FUNC3_SHIFT) & FUNC3_MASK)
}

// Rs1 returns the first source register.
func (code Code) Rs1() Reg {
	return Reg((uint32(code) >> RS1_SHIFT) & RS1_MASK)
}

// Rs2 returns the second source register.
func (code Code) Rs2() Reg {
	return Reg((uint32(code) >> RS2_SHIFT) & RS2_MASK)
}

// Func7 returns the 7-bit function select.
func (code Code) Func7() uint8 {
	return uint8((uint32(code) >> FUNC7_SHIFT) & FUNC7_MASK)
}

// Decode returns all of the R-type fields of the instruction word.
func (code Code) Decode() Fields {
	return Fields{
		Opcode: code.Opcode(),
		Rd:     code.Rd(),
		Func3:  code.Func3(),
		Rs1:    code.Rs1(),
		Rs2:    code.Rs2(),
		Func7:  code.Func7(),
	}
}
