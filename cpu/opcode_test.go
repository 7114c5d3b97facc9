package cpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeCodeMatmul(t *testing.T) {
	assert := assert.New(t)

	code := MakeCodeMatmul(REG_RA, REG_SP, REG_GP)
	assert.Equal(Code(0x023170ab), code)

	fields := code.Decode()
	assert.Equal(Fields{
		Opcode: OPCODE_CUSTOM_1,
		Rd:     1,
		Func3:  FUNC3_MATMUL,
		Rs1:    2,
		Rs2:    3,
		Func7:  FUNC7_MATMUL,
	}, fields)
	assert.True(fields.IsMatmul())
}

func TestCode_Fields(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		code   Code
		fields Fields
	}){
		{"zero", 0x00000000, Fields{}},
		{"ones", 0xffffffff, Fields{0x7f, 31, 0x7, 31, 31, 0x7f}},
		{"opcode", 0x0000007f, Fields{Opcode: 0x7f}},
		{"rd", 0x00000f80, Fields{Rd: 31}},
		{"func3", 0x00007000, Fields{Func3: 0x7}},
		{"rs1", 0x000f8000, Fields{Rs1: 31}},
		{"rs2", 0x01f00000, Fields{Rs2: 31}},
		{"func7", 0xfe000000, Fields{Func7: 0x7f}},
		{"add", 0x003100b3, Fields{0x33, 1, 0, 2, 3, 0}},
	}

	for _, entry := range table {
		assert.Equal(entry.fields, entry.code.Decode(), entry.name)
		assert.Equal(entry.code, entry.fields.Encode(), entry.name)
		assert.Equal(entry.fields.Opcode, entry.code.Opcode(), entry.name)
		assert.Equal(entry.fields.Rd, entry.code.Rd(), entry.name)
		assert.Equal(entry.fields.Func3, entry.code.Func3(), entry.name)
		assert.Equal(entry.fields.Rs1, entry.code.Rs1(), entry.name)
		assert.Equal(entry.fields.Rs2, entry.code.Rs2(), entry.name)
		assert.Equal(entry.fields.Func7, entry.code.Func7(), entry.name)
	}
}

func TestFields_Truncate(t *testing.T) {
	assert := assert.New(t)

	fields := Fields{
		Opcode: 0xff,
		Rd:     0x21,
		Func3:  0x0f,
		Rs1:    0x42,
		Rs2:    0xe3,
		Func7:  0x81,
	}

	assert.Equal(Fields{0x7f, 1, 7, 2, 3, 1}, fields.Encode().Decode())
}

func TestFields_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	for opcode := range uint8(OPCODE_MASK + 1) {
		for reg := range Reg(REGISTER_COUNT) {
			fields := Fields{
				Opcode: opcode,
				Rd:     reg,
				Func3:  opcode & FUNC3_MASK,
				Rs1:    (reg + 7) % REGISTER_COUNT,
				Rs2:    (reg + 13) % REGISTER_COUNT,
				Func7:  opcode ^ 0x55,
			}
			assert.Equal(fields, fields.Encode().Decode())
		}
	}

	rands := rand.New(rand.NewSource(1))
	for range 4096 {
		code := Code(rands.Uint32())
		assert.Equal(code, code.Decode().Encode())
	}
}

func TestCode_DecodeIdempotent(t *testing.T) {
	assert := assert.New(t)

	code := Code(0x023170ab)
	first := code.Decode()
	cpu, err := NewCpu(64)
	assert.NoError(err)
	cpu.Register[1] = 0x1234
	second := code.Decode()
	assert.Equal(first, second)
}

func FuzzCode(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(0xffffffff))
	f.Add(uint32(MakeCodeMatmul(REG_RA, REG_SP, REG_GP)))

	f.Fuzz(func(t *testing.T, word uint32) {
		assert := assert.New(t)

		code := Code(word)
		fields := code.Decode()

		assert.Equal(code, fields.Encode())
		assert.Equal(fields, fields.Encode().Decode())
		assert.Equal(fields.IsMatmul(),
			(word&0x7f) == OPCODE_CUSTOM_1 && ((word>>12)&0x7) == FUNC3_MATMUL && (word>>25) == FUNC7_MATMUL)
	})
}
