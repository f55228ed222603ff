// Package sim compiles and runs a VHDL testbench with an external simulator
// and classifies the run from marker strings in its output.
package sim

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"

	wferrors "github.com/randalmurphal/automerge/internal/errors"
)

// Sources are the files one simulation run compiles.
type Sources struct {
	// Design files, analyzed before the harness, in sorted order.
	Design []string
	// Harness is the testbench file.
	Harness string
	// Ignored holds further harness candidates that were not used.
	Ignored []string
}

// Unit returns the design unit elaborated and run: the harness file name
// without its extension.
func (s Sources) Unit() string {
	return stem(s.Harness)
}

// AnalysisOrder returns every file in the order it must be analyzed.
func (s Sources) AnalysisOrder() []string {
	return append(append([]string(nil), s.Design...), s.Harness)
}

// Discover collects files matching pattern in fsys and splits them into
// design files and the harness. A file is a harness candidate when its name
// without extension contains infix; the first candidate in sorted order is
// used.
func Discover(fsys fs.FS, pattern, infix string) (Sources, error) {
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return Sources{}, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)

	isHarness := func(name string, _ int) bool {
		return strings.Contains(stem(name), infix)
	}
	harnesses := lo.Filter(matches, isHarness)
	if len(harnesses) == 0 {
		return Sources{}, wferrors.ErrNoHarness(pattern, infix)
	}

	return Sources{
		Design:  lo.Reject(matches, isHarness),
		Harness: harnesses[0],
		Ignored: harnesses[1:],
	}, nil
}

func stem(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}
