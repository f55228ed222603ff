package sim

import (
	"strings"

	"github.com/randalmurphal/automerge/internal/command"
)

// Verdict classifies a simulation run.
type Verdict string

const (
	VerdictPass      Verdict = "pass"
	VerdictFail      Verdict = "fail"
	VerdictPartial   Verdict = "partial"
	VerdictEarlyExit Verdict = "early-exit"
)

// Markers are the strings a testbench prints to report its result.
type Markers struct {
	Pass string
	Done string
	Fail string
}

// Classify decides the verdict and process exit code of a run. Pass and done
// markers are looked for in stdout only; the fail marker in either stream.
// An early exit propagates the simulator's own exit code.
func Classify(out command.Outcome, m Markers) (Verdict, int) {
	passed := strings.Contains(out.Stdout, m.Pass)
	finished := strings.Contains(out.Stdout, m.Done)
	failed := strings.Contains(out.Stdout, m.Fail) || strings.Contains(out.Stderr, m.Fail)

	switch {
	case passed && finished && !failed:
		return VerdictPass, 0
	case failed:
		return VerdictFail, 1
	case finished:
		return VerdictPartial, 2
	default:
		return VerdictEarlyExit, out.ExitCode
	}
}

func (v Verdict) message() string {
	switch v {
	case VerdictPass:
		return "✅ All tests passed and simulation completed."
	case VerdictFail:
		return "❌ A test failure was detected."
	case VerdictPartial:
		return "⚠️ Simulation completed, but PASS tag was not found."
	default:
		return "❌ Simulator exited early or unexpectedly."
	}
}
