package emulator

import (
	"fmt"
	"log"
)

// Tally collects the outcome of script checks. It is owned by the
// caller of Emulator.Run, so several scripts may share or split tallies.
type Tally struct {
	Verbose  bool     // If set, logs every check.
	Run      int      // Checks performed.
	Passed   int      // Checks that passed.
	Failures []string // Description of each failed check.
}

// Record records the outcome of a check.
func (tally *Tally) Record(name string, ok bool, detail string) {
	tally.Run++
	if ok {
		tally.Passed++
	} else {
		tally.Failures = append(tally.Failures, fmt.Sprintf("%v: %v", name, detail))
	}

	if tally.Verbose {
		status := "PASS"
		if !ok {
			status = "FAIL"
		}
		log.Printf("%v: %v %v", status, name, detail)
	}
}

// Failed returns the number of failed checks.
func (tally *Tally) Failed() int {
	return tally.Run - tally.Passed
}

// Ok returns true if no check has failed.
func (tally *Tally) Ok() bool {
	return tally.Failed() == 0
}
