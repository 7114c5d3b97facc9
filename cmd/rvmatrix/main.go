// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bytes"
	"flag"
	"log"
	"os"

	"github.com/ezrec/rvmatrix/cpu"
	"github.com/ezrec/rvmatrix/emulator"
	"github.com/ezrec/rvmatrix/internal"
	"github.com/ezrec/rvmatrix/memory"
	"github.com/ezrec/rvmatrix/translate"
)

func main() {
	var cgen string
	var compile string
	var defines bool
	var script string
	var size uint
	var strict bool
	var validate string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble to hex words")
	flag.BoolVar(&defines, "d", false, "List predeclared constants")
	flag.StringVar(&cgen, "cgen", "", "Write the CGEN description to a .scm file ('-' for stdout)")
	flag.StringVar(&validate, "validate", "", "Validate a CGEN description .scm file")
	flag.StringVar(&script, "s", "", ".star check script to run")
	flag.UintVar(&size, "m", memory.DEFAULT_MEMORY_SIZE, "Memory size in bytes")
	flag.BoolVar(&strict, "strict", false, "Reject misaligned or partial matrix accesses")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if verbose {
		log.Printf("%v: messages in %v", os.Args[0], translate.Language())
	}

	emu, err := emulator.NewEmulator(size)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	emu.SetVerbose(verbose)
	emu.Strict = strict

	if defines {
		for key, value := range internal.IterSeq2Sorted(emu.Defines()) {
			translate.Fprintf(os.Stdout, ".equ %v %v\n", key, value)
		}
	}

	// Generate the CGEN description, and check it before writing.
	if len(cgen) != 0 {
		var buf bytes.Buffer
		err = cpu.WriteCgen(&buf)
		if err == nil {
			err = cpu.ValidateCgen(bytes.NewReader(buf.Bytes()))
		}
		if err != nil {
			log.Fatalf("%v: %v", cgen, err)
		}

		if cgen == "-" {
			_, err = os.Stdout.Write(buf.Bytes())
		} else {
			err = os.WriteFile(cgen, buf.Bytes(), 0o644)
		}
		if err != nil {
			log.Fatalf("%v: %v", cgen, err)
		}
	}

	if len(validate) != 0 {
		inf, err := os.Open(validate)
		if err != nil {
			log.Fatalf("%v: %v", validate, err)
		}
		defer inf.Close()

		err = cpu.ValidateCgen(inf)
		if err != nil {
			log.Fatalf("%v: %v", validate, err)
		}
		translate.Fprintf(os.Stdout, "%v: CGEN description valid\n", validate)
	}

	// Assemble an instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		prog, err := emu.Assembler().Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		for _, op := range prog.Opcodes {
			translate.Fprintf(os.Stdout, "%08x  ; %d\n", uint32(op.Code), op.LineNo)
		}
	}

	if len(script) != 0 {
		tally := &emulator.Tally{Verbose: verbose}

		err = emu.Run(script, nil, tally)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}

		for _, failure := range tally.Failures {
			translate.Fprintf(os.Stdout, "FAIL: %v\n", failure)
		}
		translate.Fprintf(os.Stdout, "%v: %d checks, %d passed, %d failed\n",
			script, tally.Run, tally.Passed, tally.Failed())

		if !tally.Ok() {
			os.Exit(1)
		}
	}
}
