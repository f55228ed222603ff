// Package testutil provides shared fixtures for automerge tests.
package testutil

import (
	"sync"

	"github.com/randalmurphal/automerge/internal/command"
)

// FakeRunner is a command.Runner that records every invocation and answers
// from scripted outcomes. Unscripted commands succeed with empty output.
type FakeRunner struct {
	mu        sync.Mutex
	calls     []string
	responses map[string][]command.Outcome
	errs      map[string]error

	// Hook, if set, runs before each scripted response is returned.
	Hook func(workDir, name string, args []string)
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string][]command.Outcome),
		errs:      make(map[string]error),
	}
}

// On queues outcomes for the command line argv (name followed by args).
// Outcomes are consumed in order; the last one repeats.
func (f *FakeRunner) On(argv []string, outcomes ...command.Outcome) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := command.String(argv[0], argv[1:]...)
	f.responses[key] = append(f.responses[key], outcomes...)
	return f
}

// Fail makes argv exit with code 1 and the given stderr.
func (f *FakeRunner) Fail(argv []string, stderr string) *FakeRunner {
	return f.On(argv, command.Outcome{ExitCode: 1, Stderr: stderr})
}

// Stdout makes argv succeed and print stdout.
func (f *FakeRunner) Stdout(argv []string, stdout string) *FakeRunner {
	return f.On(argv, command.Outcome{Stdout: stdout})
}

// StartError makes argv fail to start with err.
func (f *FakeRunner) StartError(argv []string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[command.String(argv[0], argv[1:]...)] = err
	return f
}

// Run implements command.Runner.
func (f *FakeRunner) Run(workDir, name string, args ...string) (command.Outcome, error) {
	if f.Hook != nil {
		f.Hook(workDir, name, args)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := command.String(name, args...)
	f.calls = append(f.calls, key)

	if err, ok := f.errs[key]; ok {
		return command.Outcome{ExitCode: -1}, err
	}

	queue := f.responses[key]
	if len(queue) == 0 {
		return command.Outcome{}, nil
	}
	out := queue[0]
	if len(queue) > 1 {
		f.responses[key] = queue[1:]
	}
	return out, nil
}

// Calls returns every command line run so far, e.g. "git checkout main".
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Count returns how many times the command line argv was run.
func (f *FakeRunner) Count(argv ...string) int {
	key := command.String(argv[0], argv[1:]...)
	n := 0
	for _, c := range f.Calls() {
		if c == key {
			n++
		}
	}
	return n
}

// Git is a convenience for building git argv slices: Git("checkout", "main").
func Git(args ...string) []string {
	return append([]string{"git"}, args...)
}
