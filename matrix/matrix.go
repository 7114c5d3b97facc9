// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package matrix implements the 2x2 signed word matrix used by the
// matmul extension, and its 16 byte row-major memory layout.
package matrix

import (
	"errors"
	"fmt"

	"github.com/ezrec/rvmatrix/memory"
)

const (
	MATRIX_DIM   = 2                               // Rows and columns.
	MATRIX_SIZE  = MATRIX_DIM * MATRIX_DIM         // Elements.
	MATRIX_BYTES = MATRIX_SIZE * memory.WORD_BYTES // Bytes in memory.
)

// Matrix is a 2x2 matrix of signed words. Element (row, col) is at
// row-major position row*MATRIX_DIM+col.
type Matrix [MATRIX_DIM][MATRIX_DIM]int32

// WordReader reads a memory word.
type WordReader interface {
	ReadWord(addr uint32) (value int32, err error)
}

// WordWriter writes a memory word.
type WordWriter interface {
	WriteWord(addr uint32, value int32) (err error)
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{{1, 0}, {0, 1}}
}

// FromElements builds a matrix from its row-major elements.
func FromElements(elems [MATRIX_SIZE]int32) (m Matrix) {
	for n, value := range elems {
		m[n/MATRIX_DIM][n%MATRIX_DIM] = value
	}
	return
}

// Elements returns the row-major elements of the matrix.
func (m Matrix) Elements() (elems [MATRIX_SIZE]int32) {
	for n := range elems {
		elems[n] = m[n/MATRIX_DIM][n%MATRIX_DIM]
	}
	return
}

func (m Matrix) String() string {
	return fmt.Sprintf("[[%d, %d], [%d, %d]]", m[0][0], m[0][1], m[1][0], m[1][1])
}

// Multiply returns the product a*b.
// Element overflow wraps, as with any int32 arithmetic.
func Multiply(a, b Matrix) (result Matrix) {
	for row := range MATRIX_DIM {
		for col := range MATRIX_DIM {
			var sum int32
			for k := range MATRIX_DIM {
				sum += a[row][k] * b[k][col]
			}
			result[row][col] = sum
		}
	}

	return
}

// wordAddr returns the address of element n of a matrix at addr.
// Elements that fall past the top of the 32 bit address space are
// reported as an access covering the whole span from addr.
func wordAddr(addr uint32, n int, write bool) (sub uint32, err error) {
	offset := uint32(n * memory.WORD_BYTES)
	sub = addr + offset
	if sub < addr {
		err = &memory.ErrAccess{
			Address: addr,
			Size:    uint(offset) + memory.WORD_BYTES,
			Write:   write,
		}
	}
	return
}

// Read reads the matrix stored at addr.
//
// Each of the four words is read independently. A word that is out of
// bounds reads as zero, and its error is joined into err; the remaining
// words are still read.
func Read(mem WordReader, addr uint32) (m Matrix, err error) {
	var errs []error

	for n := range MATRIX_SIZE {
		sub, suberr := wordAddr(addr, n, false)
		var value int32
		if suberr == nil {
			value, suberr = mem.ReadWord(sub)
		}
		if suberr != nil {
			errs = append(errs, suberr)
		}
		m[n/MATRIX_DIM][n%MATRIX_DIM] = value
	}

	err = errors.Join(errs...)

	return
}

// Write writes the matrix to addr.
//
// Each of the four words is written independently. A word that is out
// of bounds is skipped, and its error is joined into err; the remaining
// words are still written.
func Write(mem WordWriter, addr uint32, m Matrix) (err error) {
	var errs []error

	for n, value := range m.Elements() {
		sub, suberr := wordAddr(addr, n, true)
		if suberr == nil {
			suberr = mem.WriteWord(sub, value)
		}
		if suberr != nil {
			errs = append(errs, suberr)
		}
	}

	err = errors.Join(errs...)

	return
}
