// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// equateLineNo is the equate holding the line being assembled.
const equateLineNo = "LINENO"

var exprRegexp = regexp.MustCompile(`\$\([^\$]*\)`)

// Assembler is a single pass assembler for the matrix extension.
type Assembler struct {
	Verbose bool              // If set, verbosely logs the assembler actions.
	Opcode  []Opcode          // Opcodes emitted by the last Parse.
	Equate  map[string]string // Equates in scope during the last Parse.

	predefine map[string]string
}

// Predefine sets an equate visible to every subsequent Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = make(map[string]string)
	}
	asm.predefine[equ] = value
}

// parseValue converts a numeric word, optionally prefixed by '~', to a
// 32-bit word. Signed and unsigned 32-bit ranges are both accepted.
func parseValue(word string) (value uint32, err error) {
	text, invert := strings.CutPrefix(word, "~")

	v64, perr := strconv.ParseInt(text, 0, 64)
	if perr != nil || v64 > math.MaxUint32 || v64 < math.MinInt32 {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)
	if invert {
		value = ^value
	}

	return
}

// parseField is parseValue for an instruction field no wider than mask.
func parseField(word string, mask uint32) (value uint8, err error) {
	v32, err := parseValue(word)
	if err != nil {
		return
	}

	if v32&^mask != 0 {
		err = ErrFieldRange
		return
	}

	value = uint8(v32)

	return
}

// evalExpr evaluates the body of a $(...) as a Starlark expression.
// Numeric equates are visible by name; the rest (registers) are not.
func (asm *Assembler) evalExpr(expr string) (value uint32, err error) {
	env := starlark.StringDict{}
	for key, str := range asm.Equate {
		if v32, verr := parseValue(str); verr == nil {
			env[key] = starlark.MakeUint64(uint64(v32))
		}
	}

	thread := &starlark.Thread{Name: "asm"}
	rc, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, "expr", expr, env)
	if err != nil {
		return
	}

	num, ok := rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	i64, ok := num.Int64()
	if !ok || i64 > math.MaxUint32 || i64 < math.MinInt32 {
		err = ErrParseExpression(expr)
		return
	}

	value = uint32(i64)

	return
}

// equate handles `.equ NAME VALUE`.
func (asm *Assembler) equate(args []string) (err error) {
	if len(args) != 2 {
		return ErrEquateSyntax
	}

	if _, exists := asm.Equate[args[0]]; exists {
		return ErrEquateDuplicate
	}

	asm.Equate[args[0]] = args[1]

	return
}

// splitWords splits a line on whitespace and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

// parseLine expands expressions and equates in a line. Equate
// definitions are consumed, leaving no words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	asm.Equate[equateLineNo] = strconv.Itoa(lineno)

	line = exprRegexp.ReplaceAllStringFunc(line, func(match string) string {
		value, xerr := asm.evalExpr(match[2 : len(match)-1])
		if xerr != nil && err == nil {
			err = xerr
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)
	if len(words) == 0 {
		return
	}

	if strings.ToLower(words[0]) == ".equ" {
		err = asm.equate(words[1:])
		words = nil
		return
	}

	for n, word := range words[1:] {
		if equate, ok := asm.Equate[word]; ok {
			words[n+1] = equate
		}
	}

	return
}

// getRegs parses a list of register words.
func getRegs(words ...string) (regs []Reg, err error) {
	for _, word := range words {
		var reg Reg
		reg, err = ParseReg(word)
		if err != nil {
			return
		}
		regs = append(regs, reg)
	}

	return
}

// checkArgs verifies the argument count of an opcode.
func checkArgs(args []string, count int) (err error) {
	switch {
	case len(args) < count:
		err = ErrOpcodeMissingArgs
	case len(args) > count:
		err = ErrOpcodeExtraArgs
	}

	return
}

// parseWords assembles a line of words into an opcode.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	var code Code
	args := words[1:]

	switch strings.ToLower(words[0]) {
	case "matmul":
		// matmul rd, rs1, rs2
		err = checkArgs(args, 3)
		if err != nil {
			return
		}
		var regs []Reg
		regs, err = getRegs(args...)
		if err != nil {
			return
		}
		code = MakeCodeMatmul(regs[0], regs[1], regs[2])
	case ".word":
		// .word VALUE
		err = checkArgs(args, 1)
		if err != nil {
			return
		}
		var value uint32
		value, err = parseValue(args[0])
		if err != nil {
			return
		}
		code = Code(value)
	case ".insn":
		// .insn r OPCODE, FUNC3, FUNC7, rd, rs1, rs2
		if len(args) == 0 || strings.ToLower(args[0]) != "r" {
			err = ErrInsnFormatInvalid
			return
		}
		args = args[1:]
		err = checkArgs(args, 6)
		if err != nil {
			return
		}
		var opcode, func3, func7 uint8
		opcode, err = parseField(args[0], OPCODE_MASK)
		if err != nil {
			return
		}
		func3, err = parseField(args[1], FUNC3_MASK)
		if err != nil {
			return
		}
		func7, err = parseField(args[2], FUNC7_MASK)
		if err != nil {
			return
		}
		var regs []Reg
		regs, err = getRegs(args[3:]...)
		if err != nil {
			return
		}
		code = MakeCodeInsnR(opcode, func3, func7, regs[0], regs[1], regs[2])
	default:
		err = ErrOpcodeInvalid
		return
	}

	if asm.Verbose {
		log.Printf("%v: %v => 0x%08x", lineno, words, uint32(code))
	}

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo: lineno,
		Words:  words,
		Code:   code,
	})

	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(_cpu_defines)
	asm.Equate[equateLineNo] = "0"
	maps.Copy(asm.Equate, asm.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		if cut := strings.IndexAny(text, ";#"); cut >= 0 {
			text = text[:cut]
		}
		line = strings.TrimSpace(text)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}
