// Package prompt asks the operator yes/no questions.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Modes accepted by New.
const (
	ModeAuto = "auto"
	ModeLine = "line"
	ModeTUI  = "tui"
)

// Confirmer asks a yes/no question. Anything other than an explicit yes,
// including end of input, is a no.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// New returns the confirmer for mode. In auto mode the bubbletea selector is
// used only when both in and out are terminals.
func New(mode string, in io.Reader, out io.Writer) Confirmer {
	switch mode {
	case ModeTUI:
		return NewTeaConfirmer(in, out)
	case ModeLine:
		return NewLineConfirmer(in, out)
	}
	if isTerminal(in) && isTerminal(out) {
		return NewTeaConfirmer(in, out)
	}
	return NewLineConfirmer(in, out)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// LineConfirmer reads one line per question. Only "y" (any case, surrounding
// space ignored) is a yes.
type LineConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineConfirmer creates a LineConfirmer.
func NewLineConfirmer(in io.Reader, out io.Writer) *LineConfirmer {
	return &LineConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm implements Confirmer.
func (c *LineConfirmer) Confirm(question string) (bool, error) {
	fmt.Fprintf(c.out, "\n%s (y/n): ", question)

	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(c.out)
		return false, nil
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}

// Scripted answers questions from a fixed list. Once the list is exhausted
// every answer is no.
type Scripted struct {
	Answers []bool
	Asked   []string
}

// Confirm implements Confirmer.
func (s *Scripted) Confirm(question string) (bool, error) {
	s.Asked = append(s.Asked, question)
	if len(s.Answers) == 0 {
		return false, nil
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, nil
}
