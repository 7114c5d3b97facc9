// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the byte addressable main memory of the
// processor model.
//
// Words are four bytes wide and are stored in the host's native byte
// order. Images of memory are therefore only portable between hosts of
// the same endianness.
package memory

import (
	"encoding/binary"
	"log"
	"slices"
)

const (
	WORD_BYTES          = 4         // Size of a memory word.
	MEMORY_ALIGNMENT    = 4         // Natural alignment of a word.
	DEFAULT_MEMORY_SIZE = 64 * 1024 // 64K
	MEMORY_SIZE_LIMIT   = 1 << 30   // Largest memory that will be allocated.
)

// Memory is a fixed size, bounds checked byte store.
type Memory struct {
	Verbose bool // If set, logs out of bounds accesses.

	data []byte
}

// NewMemory allocates a zero filled memory of exactly size bytes.
func NewMemory(size uint) (mem *Memory, err error) {
	if size == 0 || size > MEMORY_SIZE_LIMIT {
		err = ErrSize(size)
		return
	}

	mem = &Memory{
		data: make([]byte, size),
	}

	return
}

// Size of the memory in bytes.
func (mem *Memory) Size() uint {
	return uint(len(mem.data))
}

// Reset zeros the memory contents. The buffer is not reallocated.
func (mem *Memory) Reset() {
	clear(mem.data)
}

// Snapshot returns a copy of the memory contents.
func (mem *Memory) Snapshot() []byte {
	return slices.Clone(mem.data)
}

// CheckBounds verifies that [addr, addr+size) lies within the memory.
func (mem *Memory) CheckBounds(addr uint32, size uint) (err error) {
	// 64 bit arithmetic, so addresses near 0xffffffff do not wrap.
	if uint64(addr)+uint64(size) > uint64(len(mem.data)) {
		err = &ErrAccess{Address: addr, Size: size}
	}

	return
}

// ReadWord reads the word at addr.
// An out of bounds read returns zero and an *ErrAccess.
func (mem *Memory) ReadWord(addr uint32) (value int32, err error) {
	err = mem.CheckBounds(addr, WORD_BYTES)
	if err != nil {
		if mem.Verbose {
			log.Printf("memory: %v", err)
		}
		return
	}

	value = int32(binary.NativeEndian.Uint32(mem.data[addr:]))

	return
}

// WriteWord writes the word at addr.
// An out of bounds write leaves memory untouched and returns an *ErrAccess.
func (mem *Memory) WriteWord(addr uint32, value int32) (err error) {
	err = mem.CheckBounds(addr, WORD_BYTES)
	if err != nil {
		err.(*ErrAccess).Write = true
		if mem.Verbose {
			log.Printf("memory: %v", err)
		}
		return
	}

	binary.NativeEndian.PutUint32(mem.data[addr:], uint32(value))

	return
}

// IsAligned returns true if addr is word aligned.
func IsAligned(addr uint32) bool {
	return (addr & (MEMORY_ALIGNMENT - 1)) == 0
}

// Align rounds addr up to the next word boundary.
func Align(addr uint32) uint32 {
	return (addr + (MEMORY_ALIGNMENT - 1)) & ^uint32(MEMORY_ALIGNMENT-1)
}

// CheckAlignment returns ErrMisaligned if addr is not word aligned.
func CheckAlignment(addr uint32) (err error) {
	if !IsAligned(addr) {
		err = ErrMisaligned(addr)
	}

	return
}
