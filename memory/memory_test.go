package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMemory(t *testing.T) {
	assert := assert.New(t)

	mem, err := NewMemory(DEFAULT_MEMORY_SIZE)
	assert.NoError(err)
	assert.Equal(uint(DEFAULT_MEMORY_SIZE), mem.Size())
	assert.Equal(make([]byte, DEFAULT_MEMORY_SIZE), mem.Snapshot())

	for _, size := range []uint{0, MEMORY_SIZE_LIMIT + 1} {
		mem, err = NewMemory(size)
		assert.Nil(mem, size)
		assert.True(errors.Is(err, ErrMemorySize), size)
		assert.Equal(ErrSize(size), err, size)
	}
}

func TestMemory_Word(t *testing.T) {
	assert := assert.New(t)

	mem, err := NewMemory(64)
	assert.NoError(err)

	table := [](struct {
		name  string
		addr  uint32
		value int32
	}){
		{"first", 0, 0x12345678},
		{"unaligned", 5, -1},
		{"negative", 16, -0x7fffffff - 1},
		{"last", 60, 42},
	}

	for _, entry := range table {
		err = mem.WriteWord(entry.addr, entry.value)
		assert.NoError(err, entry.name)
		value, err := mem.ReadWord(entry.addr)
		assert.NoError(err, entry.name)
		assert.Equal(entry.value, value, entry.name)
	}
}

func TestMemory_Bounds(t *testing.T) {
	assert := assert.New(t)

	const size = 1024
	mem, err := NewMemory(size)
	assert.NoError(err)

	assert.NoError(mem.WriteWord(size-4, 7))
	value, err := mem.ReadWord(size - 4)
	assert.NoError(err)
	assert.Equal(int32(7), value)

	for _, addr := range []uint32{size - 3, size - 1, size, 0xfffffffd, 0xffffffff} {
		value, err = mem.ReadWord(addr)
		assert.Equal(int32(0), value, addr)
		assert.True(errors.Is(err, ErrMemoryBounds), addr)
		assert.Equal(&ErrAccess{Address: addr, Size: WORD_BYTES}, err, addr)
	}

	before := mem.Snapshot()
	err = mem.WriteWord(size-3, -1)
	assert.True(errors.Is(err, ErrMemoryBounds))
	assert.Equal(&ErrAccess{Address: size - 3, Size: WORD_BYTES, Write: true}, err)
	assert.Equal(before, mem.Snapshot())
}

func TestMemory_CheckBounds(t *testing.T) {
	assert := assert.New(t)

	mem, err := NewMemory(32)
	assert.NoError(err)

	assert.NoError(mem.CheckBounds(0, 32))
	assert.NoError(mem.CheckBounds(16, 16))
	assert.NoError(mem.CheckBounds(32, 0))
	assert.Error(mem.CheckBounds(17, 16))
	assert.Error(mem.CheckBounds(0, 33))
	assert.Error(mem.CheckBounds(0xfffffff0, 16))
}

func TestMemory_Reset(t *testing.T) {
	assert := assert.New(t)

	mem, err := NewMemory(16)
	assert.NoError(err)

	assert.NoError(mem.WriteWord(8, 0x55aa55aa))
	mem.Reset()
	assert.Equal(make([]byte, 16), mem.Snapshot())
	assert.Equal(uint(16), mem.Size())
}

func TestAlignment(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		addr    uint32
		aligned bool
		align   uint32
	}){
		{0, true, 0},
		{1, false, 4},
		{3, false, 4},
		{4, true, 4},
		{0x1001, false, 0x1004},
		{0x1040, true, 0x1040},
	}

	for _, entry := range table {
		assert.Equal(entry.aligned, IsAligned(entry.addr), entry.addr)
		assert.Equal(entry.align, Align(entry.addr), entry.addr)
		err := CheckAlignment(entry.addr)
		if entry.aligned {
			assert.NoError(err, entry.addr)
		} else {
			assert.True(errors.Is(err, ErrMemoryAlignment), entry.addr)
		}
	}
}
