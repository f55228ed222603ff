package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/automerge/internal/command"
)

var (
	// ErrNotGitRepo indicates the path is not inside a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrRemoteNotFound indicates the configured remote does not exist.
	ErrRemoteNotFound = errors.New("remote not found")

	// ErrBranchNotFound indicates the branch exists neither locally nor as a
	// remote-tracking ref.
	ErrBranchNotFound = errors.New("branch not found")
)

// GitError wraps a failed git invocation with context.
// Named GitError (not Error) to avoid collision with the builtin error interface.
type GitError struct {
	Op      string          // Operation that failed (e.g., "merge", "push")
	Args    []string        // git arguments that were run
	Outcome command.Outcome // exit code and captured output
	Err     error           // set when git could not be started
}

func (e *GitError) Error() string {
	if msg := e.Diagnostic(); msg != "" {
		return e.Op + ": " + msg
	}
	if e.Err != nil {
		return e.Op + ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s: exit status %d", e.Op, e.Outcome.ExitCode)
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// Diagnostic returns git's own explanation of the failure.
func (e *GitError) Diagnostic() string {
	return e.Outcome.Diagnostic()
}

// Stderr returns the raw standard error captured from git.
func (e *GitError) Stderr() string {
	return e.Outcome.Stderr
}

// Diagnostic extracts the most useful text from any error returned by this
// package.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	var gitErr *GitError
	if errors.As(err, &gitErr) {
		if msg := gitErr.Diagnostic(); msg != "" {
			return msg
		}
		if gitErr.Err != nil {
			return gitErr.Err.Error()
		}
	}
	return strings.TrimSpace(err.Error())
}
