// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
	"regexp"
	"strings"
)

// IField is a CGEN instruction field of the R-type layout.
type IField struct {
	Name    string // CGEN name, without the "f-" prefix.
	Comment string
	Shift   uint   // Bit position of the field LSB.
	Mask    uint32 // Field mask, before shifting.
}

// Width is the number of bits in the field.
func (field IField) Width() uint {
	return uint(bits.OnesCount32(field.Mask))
}

// Start is the CGEN start bit, the field MSB in LSB0 numbering.
func (field IField) Start() uint {
	return field.Shift + field.Width() - 1
}

// Define is the define-ifield form for the field.
func (field IField) Define() string {
	return fmt.Sprintf(`(define-ifield f-%s "%s" %d %d)`,
		field.Name, field.Comment, field.Start(), field.Width())
}

// IFields is the R-type layout, most significant field first.
var IFields = []IField{
	{"func7", "7-bit function code", FUNC7_SHIFT, FUNC7_MASK},
	{"rs2", "source register 2", RS2_SHIFT, RS2_MASK},
	{"rs1", "source register 1", RS1_SHIFT, RS1_MASK},
	{"func3", "3-bit function code", FUNC3_SHIFT, FUNC3_MASK},
	{"rd", "destination register", RD_SHIFT, RD_MASK},
	{"opcode", "7-bit opcode", OPCODE_SHIFT, OPCODE_MASK},
}

// cgenBinary formats value as a CGEN binary literal width bits wide.
func cgenBinary(value uint32, width uint) string {
	return fmt.Sprintf("#b%0*b", int(width), value)
}

// WriteCgen writes the CGEN description of the matrix extension: the
// custom opcode enum, the instruction fields and the matmul insn.
func WriteCgen(w io.Writer) (err error) {
	var sb strings.Builder

	widths := map[string]uint{}
	for _, field := range IFields {
		widths[field.Name] = field.Width()
	}

	fmt.Fprintf(&sb, ";; CGEN description of the RISC-V matrix extension.\n")
	fmt.Fprintf(&sb, ";; Generated from the rvmatrix instruction codec.\n\n")

	fmt.Fprintf(&sb, ";; Custom opcode definitions\n")
	fmt.Fprintf(&sb, "(define-normal-insn-enum insn-op-custom \"custom instruction opcodes\" () OP_CUSTOM_ f-opcode\n")
	fmt.Fprintf(&sb, "  ((\"1\" #x%X)))\n\n", OPCODE_CUSTOM_1)

	fmt.Fprintf(&sb, ";; Instruction field definitions\n")
	for _, field := range IFields {
		fmt.Fprintf(&sb, "%s\n", field.Define())
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, ";; 2x2 int32 matrix multiply, rd <- rs1 x rs2 by address\n")
	fmt.Fprintf(&sb, "(define-insn \"matmul\"\n")
	fmt.Fprintf(&sb, "  \"Matrix multiply\"\n")
	fmt.Fprintf(&sb, "  ()\n")
	fmt.Fprintf(&sb, "  \"matmul $rd,$rs1,$rs2\"\n")
	fmt.Fprintf(&sb, "  (+ OP_CUSTOM_1 (f-rd register) (f-func3 %s) (f-rs1 register) (f-rs2 register) (f-func7 %s))\n",
		cgenBinary(FUNC3_MATMUL, widths["func3"]),
		cgenBinary(FUNC7_MATMUL, widths["func7"]))
	fmt.Fprintf(&sb, "  (set rd (execute-matmul rs1 rs2))\n")
	fmt.Fprintf(&sb, "  ())\n")

	_, err = io.WriteString(w, sb.String())

	return
}

var cgenRequired = []string{
	"define-normal-insn-enum",
	"define-ifield",
	"define-insn",
}

var cgenIFieldRegexp = regexp.MustCompile(`\(define-ifield\s+f-([\w-]+)\s+"[^"]*"\s+(\d+)\s+(\d+)\s*\)`)

// cgenBalanced checks the parentheses of a CGEN description, skipping
// strings and ';' comments.
func cgenBalanced(text string) bool {
	depth := 0
	quoted := false
	comment := false

	for _, r := range text {
		switch {
		case comment:
			comment = r != '\n'
		case quoted:
			quoted = r != '"'
		case r == ';':
			comment = true
		case r == '"':
			quoted = true
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}

	return depth == 0 && !quoted
}

// ValidateCgen checks a CGEN description: balanced parentheses, the
// required define forms, and ifields that match the instruction codec.
func ValidateCgen(r io.Reader) (err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}
	text := string(data)

	var errs []error

	if !cgenBalanced(text) {
		errs = append(errs, ErrCgenParens)
	}

	for _, form := range cgenRequired {
		if !regexp.MustCompile(`\(` + form + `\s`).MatchString(text) {
			errs = append(errs, ErrCgenMissing(form))
		}
	}

	defined := map[string]string{}
	for _, match := range cgenIFieldRegexp.FindAllStringSubmatch(text, -1) {
		defined[match[1]] = match[2] + " " + match[3]
	}
	for _, field := range IFields {
		want := fmt.Sprintf("%d %d", field.Start(), field.Width())
		got, ok := defined[field.Name]
		if !ok || got != want {
			errs = append(errs, ErrCgenField(field.Name))
		}
	}

	return errors.Join(errs...)
}
