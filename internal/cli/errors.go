package cli

import (
	"errors"
	"fmt"
	"io"

	wferrors "github.com/randalmurphal/automerge/internal/errors"
)

// ExitError ends the process with Code. The failure has already been shown
// to the operator, so Execute does not print it again.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an Execute result to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// PrintError prints an error with appropriate formatting.
// WorkflowErrors get What/Why/Fix blocks; other errors are printed plainly.
func PrintError(w io.Writer, err error, verbose bool) {
	if wfErr := wferrors.AsWorkflowError(err); wfErr != nil {
		fmt.Fprintln(w, wfErr.UserMessage())
		if verbose {
			fmt.Fprintf(w, "\nCode: %s\n", wfErr.Code)
			if wfErr.Cause != nil {
				fmt.Fprintf(w, "Cause: %v\n", wfErr.Cause)
			}
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
