// Package errors provides structured error types for automerge.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a unique error code.
type Code string

// Error codes for automerge.
const (
	// Preconditions (nothing has been changed yet)
	CodeNotGitRepo        Code = "NOT_A_REPO"
	CodeRepoPrecondition  Code = "REPO_PRECONDITION"
	CodeBranchRead        Code = "BRANCH_READ"
	CodeAlreadyOnTarget   Code = "ALREADY_ON_TARGET"
	CodeDirtyTreeDeclined Code = "DIRTY_TREE_DECLINED"
	CodeStashCreate       Code = "STASH_CREATE"

	// Remote steps (rollback owed if a stash exists)
	CodeCheckout      Code = "CHECKOUT"
	CodePull          Code = "PULL"
	CodeMergeConflict Code = "MERGE_CONFLICT"
	CodePush          Code = "PUSH"

	// Warnings
	CodeStashRestore   Code = "STASH_RESTORE"
	CodeReturnToBranch Code = "RETURN_TO_BRANCH"

	// Config errors
	CodeConfigInvalid Code = "CONFIG_INVALID"

	// Simulation runner errors
	CodeSimNoHarness Code = "SIM_NO_HARNESS"
	CodeSimTool      Code = "SIM_TOOL"

	// Anything not raised by automerge itself
	CodeUnknown Code = "UNKNOWN"
)

// Severity says whether an error ends the run.
type Severity int

const (
	SeverityFatal Severity = iota
	SeverityWarning
)

// String returns the severity name.
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "fatal"
}

// rollbackCodes are the failures raised after the working tree has been
// touched; a held stash must be restored before exiting.
var rollbackCodes = map[Code]bool{
	CodeCheckout:      true,
	CodePull:          true,
	CodeMergeConflict: true,
	CodePush:          true,
}

// WorkflowError is the structured error type for automerge.
type WorkflowError struct {
	Code     Code
	Severity Severity
	What     string
	Why      string
	Fix      string
	Cause    error
}

// Error implements the error interface.
func (e *WorkflowError) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *WorkflowError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly message for CLI output.
func (e *WorkflowError) UserMessage() string {
	var b strings.Builder
	if e.Severity == SeverityWarning {
		b.WriteString("Warning: ")
	} else {
		b.WriteString("Error: ")
	}
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\n\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\n\nFix: ")
		b.WriteString(e.Fix)
	}
	return b.String()
}

// IsWarning reports whether the error is non-fatal.
func (e *WorkflowError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// TriggersRollback reports whether this failure happened after the workflow
// started mutating the repository.
func (e *WorkflowError) TriggersRollback() bool {
	return rollbackCodes[e.Code]
}

// Is reports whether target is a WorkflowError with the same code.
func (e *WorkflowError) Is(target error) bool {
	t, ok := target.(*WorkflowError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *WorkflowError) WithCause(err error) *WorkflowError {
	cp := *e
	cp.Cause = err
	return &cp
}

// --- Error constructors ---

// ErrNotGitRepo returns an error when the directory is not inside a repository.
func ErrNotGitRepo(dir string) *WorkflowError {
	return &WorkflowError{
		Code: CodeNotGitRepo,
		What: "not inside a git repository",
		Why:  fmt.Sprintf("No .git directory found at %s or any of its parents", dir),
		Fix:  "Run automerge from inside the working tree you want to merge",
	}
}

// ErrRepoPrecondition returns an error when the repository lacks the remote
// or target branch the workflow needs.
func ErrRepoPrecondition(reason, fix string) *WorkflowError {
	return &WorkflowError{
		Code: CodeRepoPrecondition,
		What: "repository is not set up for automerge",
		Why:  reason,
		Fix:  fix,
	}
}

// ErrBranchRead returns an error when the current branch cannot be read.
func ErrBranchRead(diagnostic string) *WorkflowError {
	return &WorkflowError{
		Code: CodeBranchRead,
		What: "could not determine the current branch",
		Why:  diagnostic,
		Fix:  "Check out the feature branch you want to merge (detached HEAD is not supported)",
	}
}

// ErrAlreadyOnTarget returns an error when the run starts on the target branch.
func ErrAlreadyOnTarget(target string) *WorkflowError {
	return &WorkflowError{
		Code: CodeAlreadyOnTarget,
		What: fmt.Sprintf("you're already on the %s branch", target),
		Fix:  fmt.Sprintf("Check out the branch you want to merge into %s, then run automerge again", target),
	}
}

// ErrDirtyTreeDeclined returns an error when the operator refuses to stash.
func ErrDirtyTreeDeclined() *WorkflowError {
	return &WorkflowError{
		Code: CodeDirtyTreeDeclined,
		What: "uncommitted changes present",
		Fix:  "Please commit or stash your changes before merging",
	}
}

// ErrStashCreate returns an error when stashing fails and no entry was
// recorded.
func ErrStashCreate(diagnostic string) *WorkflowError {
	return &WorkflowError{
		Code: CodeStashCreate,
		What: "error stashing changes",
		Why:  diagnostic,
	}
}

// ErrCheckout returns an error when switching to the target branch fails.
func ErrCheckout(branch, diagnostic string) *WorkflowError {
	return &WorkflowError{
		Code: CodeCheckout,
		What: fmt.Sprintf("error switching to %s", branch),
		Why:  diagnostic,
	}
}

// ErrPull returns an error when pulling the target branch fails.
func ErrPull(diagnostic string) *WorkflowError {
	return &WorkflowError{
		Code: CodePull,
		What: "error pulling latest changes",
		Why:  diagnostic,
	}
}

// ErrMergeConflict returns an error carrying manual conflict-resolution steps.
func ErrMergeConflict(remote, target, diagnostic string) *WorkflowError {
	return &WorkflowError{
		Code: CodeMergeConflict,
		What: "merge conflicts detected",
		Why:  diagnostic,
		Fix: strings.Join([]string{
			"To resolve conflicts:",
			"1. Edit the conflicting files",
			"2. Run: git add .",
			"3. Run: git commit -m 'Resolved merge conflicts'",
			fmt.Sprintf("4. Run: git push %s %s", remote, target),
		}, "\n"),
	}
}

// ErrPush returns an error when publishing the target branch fails.
func ErrPush(diagnostic string) *WorkflowError {
	return &WorkflowError{
		Code: CodePush,
		What: "error pushing changes",
		Why:  diagnostic,
	}
}

// WarnStashRestore returns a warning when the stash could not be reapplied.
func WarnStashRestore(diagnostic string) *WorkflowError {
	return &WorkflowError{
		Code:     CodeStashRestore,
		Severity: SeverityWarning,
		What:     "could not restore changes",
		Why:      diagnostic,
		Fix:      "Your changes are still in the stash. Run 'git stash pop' to restore them.",
	}
}

// WarnReturnToBranch returns a warning when switching back fails after a
// successful push.
func WarnReturnToBranch(branch, diagnostic string) *WorkflowError {
	return &WorkflowError{
		Code:     CodeReturnToBranch,
		Severity: SeverityWarning,
		What:     fmt.Sprintf("could not switch back to %s", branch),
		Why:      diagnostic,
		Fix:      fmt.Sprintf("The merge was pushed. Run 'git checkout %s' to return to your branch.", branch),
	}
}

// ErrConfigInvalid returns an error for invalid configuration.
func ErrConfigInvalid(field, reason string) *WorkflowError {
	return &WorkflowError{
		Code: CodeConfigInvalid,
		What: fmt.Sprintf("invalid configuration: %s", field),
		Why:  reason,
		Fix:  "Check .automerge.yaml and AUTOMERGE_* environment variables",
	}
}

// ErrNoHarness returns an error when no testbench file is found.
func ErrNoHarness(pattern, infix string) *WorkflowError {
	return &WorkflowError{
		Code: CodeSimNoHarness,
		What: fmt.Sprintf("no testbench (%s with '%s' in name) found", pattern, infix),
		Fix:  fmt.Sprintf("Name the testbench file with a '%s' suffix, e.g. adder%s.vhd", infix, infix),
	}
}

// ErrSimTool returns an error when a simulator step fails.
func ErrSimTool(step, diagnostic string) *WorkflowError {
	return &WorkflowError{
		Code: CodeSimTool,
		What: fmt.Sprintf("simulator failed while %s", step),
		Why:  diagnostic,
	}
}

// AsWorkflowError attempts to convert an error to a WorkflowError.
// Returns nil if the error is not a WorkflowError.
func AsWorkflowError(err error) *WorkflowError {
	var wfErr *WorkflowError
	if errors.As(err, &wfErr) {
		return wfErr
	}
	return nil
}

// Wrap wraps a generic error into a WorkflowError with unknown code.
func Wrap(err error, what string) *WorkflowError {
	return &WorkflowError{
		Code:  CodeUnknown,
		What:  what,
		Cause: err,
	}
}
