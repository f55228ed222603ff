package workflow

import (
	"log/slog"

	wferrors "github.com/randalmurphal/automerge/internal/errors"
	"github.com/randalmurphal/automerge/internal/git"
)

// DefaultStashLabel is the message stash entries are created with.
const DefaultStashLabel = "Auto-stashed by automerge"

// Stasher sets uncommitted changes aside and puts them back.
type Stasher struct {
	repo   *git.Repo
	label  string
	logger *slog.Logger
}

// NewStasher creates a Stasher. An empty label means DefaultStashLabel.
func NewStasher(repo *git.Repo, label string, logger *slog.Logger) *Stasher {
	if label == "" {
		label = DefaultStashLabel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Stasher{repo: repo, label: label, logger: logger}
}

// Stash saves tracked and staged modifications. created is false when git
// succeeded without recording an entry, which happens when only untracked
// files are dirty. When refs/stash cannot be read back after a successful
// push, created is true.
func (s *Stasher) Stash() (created bool, err error) {
	before, err := s.repo.StashRef()
	if err != nil {
		return false, wferrors.ErrStashCreate(git.Diagnostic(err)).WithCause(err)
	}

	if err := s.repo.StashPush(s.label); err != nil {
		return false, wferrors.ErrStashCreate(git.Diagnostic(err)).WithCause(err)
	}

	// The push succeeded, so the changes are most likely in the stash. Report
	// an entry so the restore and rollback paths pop it.
	after, err := s.repo.StashRef()
	if err != nil {
		s.logger.Warn("stash pushed but refs/stash could not be read", "error", err)
		return true, nil
	}

	created = after != "" && after != before
	s.logger.Debug("stash pushed", "created", created, "ref", after)
	return created, nil
}

// Restore pops the most recent stash entry. Failure is returned as a
// warning carrying the manual recovery hint.
func (s *Stasher) Restore() *wferrors.WorkflowError {
	if err := s.repo.StashPop(); err != nil {
		s.logger.Debug("stash pop failed", "error", err)
		return wferrors.WarnStashRestore(git.Diagnostic(err)).WithCause(err)
	}
	return nil
}
