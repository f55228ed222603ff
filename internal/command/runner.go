// Package command runs external programs and reports their outcome.
package command

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Outcome is the result of one external command invocation.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited with status 0.
func (o Outcome) Success() bool {
	return o.ExitCode == 0
}

// Diagnostic returns the most useful text for an error message: trimmed
// stderr, falling back to stdout.
func (o Outcome) Diagnostic() string {
	if msg := strings.TrimSpace(o.Stderr); msg != "" {
		return msg
	}
	return strings.TrimSpace(o.Stdout)
}

// Runner executes commands.
// This interface allows substituting command execution in tests.
type Runner interface {
	// Run executes name with args in workDir and waits for it to finish.
	// A non-zero exit status is reported through Outcome.ExitCode, not as an
	// error. The error is non-nil only when the command could not be started.
	Run(workDir string, name string, args ...string) (Outcome, error)
}

// ExecRunner is the default Runner using exec.Command.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command using exec.Command.
func (r *ExecRunner) Run(workDir, name string, args ...string) (Outcome, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Outcome{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}

	return out, &StartError{Command: name, Args: args, WorkDir: workDir, Err: err}
}

// StartError reports a command that could not be started at all,
// typically because the binary is not on PATH.
type StartError struct {
	Command string
	Args    []string
	WorkDir string
	Err     error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Command, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// String renders an argv for display, e.g. "git checkout main".
func String(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
