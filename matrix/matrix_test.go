package matrix

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rvmatrix/memory"
)

func randomMatrix(rands *rand.Rand) (m Matrix) {
	for n := range MATRIX_SIZE {
		m[n/MATRIX_DIM][n%MATRIX_DIM] = int32(rands.Uint32())
	}
	return
}

func TestMultiply(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		a      Matrix
		b      Matrix
		result Matrix
	}){
		{"known", Matrix{{1, 2}, {3, 4}}, Matrix{{5, 6}, {7, 8}}, Matrix{{19, 22}, {43, 50}}},
		{"negative", Matrix{{-1, 2}, {-3, 4}}, Matrix{{1, -2}, {3, -4}}, Matrix{{5, -6}, {9, -10}}},
		{"large", Matrix{{1000, 2000}, {3000, 4000}}, Matrix{{100, 200}, {300, 400}},
			Matrix{{700000, 1000000}, {1500000, 2200000}}},
		{"wrap_mul", Matrix{{0x7fffffff, 0}, {0, 0}}, Matrix{{2, 0}, {0, 0}}, Matrix{{-2, 0}, {0, 0}}},
		{"wrap_add", Matrix{{0x40000000, 0x40000000}, {0, 0}}, Matrix{{2, 0}, {2, 0}}, Matrix{{0, 0}, {0, 0}}},
		{"identity_left", Identity(), Matrix{{9, -8}, {7, -6}}, Matrix{{9, -8}, {7, -6}}},
	}

	for _, entry := range table {
		assert.Equal(entry.result, Multiply(entry.a, entry.b), entry.name)
	}
}

func TestMultiply_Properties(t *testing.T) {
	assert := assert.New(t)

	rands := rand.New(rand.NewSource(1))
	zero := Matrix{}

	for range 256 {
		m := randomMatrix(rands)
		assert.Equal(m, Multiply(m, Identity()), m.String())
		assert.Equal(zero, Multiply(m, zero), m.String())
	}
}

func TestElements(t *testing.T) {
	assert := assert.New(t)

	m := Matrix{{1, 2}, {3, 4}}
	assert.Equal([MATRIX_SIZE]int32{1, 2, 3, 4}, m.Elements())
	assert.Equal(m, FromElements(m.Elements()))
	assert.Equal("[[1, 2], [3, 4]]", m.String())
}

func TestReadWrite(t *testing.T) {
	assert := assert.New(t)

	mem, err := memory.NewMemory(256)
	assert.NoError(err)

	m := Matrix{{1, -2}, {3, -4}}
	err = Write(mem, 0x40, m)
	assert.NoError(err)

	for n, value := range []int32{1, -2, 3, -4} {
		word, err := mem.ReadWord(0x40 + uint32(n*4))
		assert.NoError(err)
		assert.Equal(value, word)
	}

	got, err := Read(mem, 0x40)
	assert.NoError(err)
	assert.Equal(m, got)

	// Last matrix that fits.
	err = Write(mem, 256-MATRIX_BYTES, m)
	assert.NoError(err)
	got, err = Read(mem, 256-MATRIX_BYTES)
	assert.NoError(err)
	assert.Equal(m, got)
}

func TestRead_Partial(t *testing.T) {
	assert := assert.New(t)

	mem, err := memory.NewMemory(32)
	assert.NoError(err)

	assert.NoError(mem.WriteWord(24, 5))
	assert.NoError(mem.WriteWord(28, 6))

	got, err := Read(mem, 24)
	assert.Equal(Matrix{{5, 6}, {0, 0}}, got)
	assert.True(errors.Is(err, memory.ErrMemoryBounds))

	joined, ok := err.(interface{ Unwrap() []error })
	assert.True(ok)
	assert.Equal([]error{
		&memory.ErrAccess{Address: 32, Size: memory.WORD_BYTES},
		&memory.ErrAccess{Address: 36, Size: memory.WORD_BYTES},
	}, joined.Unwrap())
}

func TestWrite_Partial(t *testing.T) {
	assert := assert.New(t)

	mem, err := memory.NewMemory(32)
	assert.NoError(err)

	err = Write(mem, 20, Matrix{{1, 2}, {3, 4}})
	assert.True(errors.Is(err, memory.ErrMemoryBounds))

	joined, ok := err.(interface{ Unwrap() []error })
	assert.True(ok)
	assert.Equal([]error{
		&memory.ErrAccess{Address: 32, Size: memory.WORD_BYTES, Write: true},
	}, joined.Unwrap())

	for n, value := range []int32{1, 2, 3} {
		word, err := mem.ReadWord(20 + uint32(n*4))
		assert.NoError(err)
		assert.Equal(value, word)
	}
}

func TestRead_AddressWrap(t *testing.T) {
	assert := assert.New(t)

	mem, err := memory.NewMemory(64)
	assert.NoError(err)
	assert.NoError(mem.WriteWord(0, 99))
	assert.NoError(mem.WriteWord(4, 98))

	got, err := Read(mem, 0xfffffff8)
	assert.Equal(Matrix{}, got)
	assert.True(errors.Is(err, memory.ErrMemoryBounds))

	joined, ok := err.(interface{ Unwrap() []error })
	assert.True(ok)
	assert.Equal([]error{
		&memory.ErrAccess{Address: 0xfffffff8, Size: memory.WORD_BYTES},
		&memory.ErrAccess{Address: 0xfffffffc, Size: memory.WORD_BYTES},
		&memory.ErrAccess{Address: 0xfffffff8, Size: 12},
		&memory.ErrAccess{Address: 0xfffffff8, Size: 16},
	}, joined.Unwrap())

	before := mem.Snapshot()
	err = Write(mem, 0xfffffff8, Matrix{{1, 1}, {1, 1}})
	assert.Error(err)
	assert.Equal(before, mem.Snapshot())
}
