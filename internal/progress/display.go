// Package progress provides operator-facing output for automerge runs.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	wferrors "github.com/randalmurphal/automerge/internal/errors"
)

const rule = "------------------"

// Styles contains the visual styling for progress output.
type Styles struct {
	Step    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Subtle  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Step:    r.NewStyle().Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("196")),
		Success: r.NewStyle().Foreground(lipgloss.Color("46")),
		Subtle:  r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Display shows progress to the operator.
type Display struct {
	out       io.Writer
	quiet     bool
	styles    Styles
	startTime time.Time
	mu        sync.Mutex
}

// New creates a display writing to out. Colour is enabled only when out is a
// terminal that supports it.
func New(out io.Writer, quiet bool) *Display {
	return &Display{
		out:       out,
		quiet:     quiet,
		styles:    newStyles(lipgloss.NewRenderer(out)),
		startTime: time.Now(),
	}
}

// Step announces the start of a workflow step, preceded by a blank line.
func (d *Display) Step(icon, msg string) {
	if d.quiet {
		return
	}
	d.printf("\n%s\n", d.styles.Step.Render(icon+" "+msg))
}

// Info prints an informational line.
func (d *Display) Info(msg string) {
	if d.quiet {
		return
	}
	d.printf("%s\n", msg)
}

// Warning prints a warning line.
func (d *Display) Warning(msg string) {
	if d.quiet {
		return
	}
	d.printf("%s\n", d.styles.Warning.Render("⚠️  "+msg))
}

// Warn prints a non-fatal workflow error with its recovery hint.
// Warnings are always shown since they may leave work for the operator.
func (d *Display) Warn(err *wferrors.WorkflowError) {
	d.printf("%s\n", d.styles.Warning.Render("⚠️  Warning: "+headline(err)))
	if err.Fix != "" {
		d.printf("%s\n", err.Fix)
	}
}

// Fail prints a fatal error. Failures are always shown, even in quiet mode.
func (d *Display) Fail(err error) {
	wfErr := wferrors.AsWorkflowError(err)
	if wfErr == nil {
		d.printf("%s\n", d.styles.Error.Render("❌ Error: "+err.Error()))
		return
	}
	d.printf("%s\n", d.styles.Error.Render("❌ Error: "+headline(wfErr)))
	if wfErr.Fix != "" {
		d.printf("\n%s\n", wfErr.Fix)
	}
}

// Success prints a completion line.
func (d *Display) Success(icon, msg string) {
	if d.quiet {
		return
	}
	d.printf("%s\n", d.styles.Success.Render(icon+" "+msg))
}

// Changes prints the short status and diff of a dirty working tree between
// two rules. Empty sections are omitted.
func (d *Display) Changes(status, diff string) {
	if d.quiet {
		return
	}
	d.printf("\n📝 Current changes:\n%s\n", rule)
	if strings.TrimSpace(status) != "" {
		d.printf("\nStatus:\n%s\n", status)
	}
	if strings.TrimSpace(diff) != "" {
		d.printf("\nDiff:\n%s\n", diff)
	}
	d.printf("%s\n", rule)
}

// Output prints captured program output verbatim under a subtle label.
func (d *Display) Output(label, text string) {
	if d.quiet || strings.TrimSpace(text) == "" {
		return
	}
	d.printf("%s\n%s", d.styles.Subtle.Render(label+":"), text)
	if !strings.HasSuffix(text, "\n") {
		d.printf("\n")
	}
}

// Elapsed returns the time since the display was created, formatted.
func (d *Display) Elapsed() string {
	return formatDuration(time.Since(d.startTime))
}

func (d *Display) printf(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, format, args...)
}

// headline renders What and, when present, the diagnostic on one line.
func headline(err *wferrors.WorkflowError) string {
	if err.Why == "" {
		return err.What
	}
	return err.What + ": " + err.Why
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
