package workflow

import (
	wferrors "github.com/randalmurphal/automerge/internal/errors"
	"github.com/randalmurphal/automerge/internal/git"
)

// Inspector reads repository state without changing it.
type Inspector struct {
	repo *git.Repo
}

// NewInspector creates an Inspector for repo.
func NewInspector(repo *git.Repo) *Inspector {
	return &Inspector{repo: repo}
}

// CurrentBranch returns the checked-out branch. A detached HEAD is reported
// as a branch-read failure.
func (i *Inspector) CurrentBranch() (string, error) {
	branch, err := i.repo.CurrentBranch()
	if err != nil {
		return "", wferrors.ErrBranchRead(git.Diagnostic(err)).WithCause(err)
	}
	if branch == "" {
		return "", wferrors.ErrBranchRead("HEAD is detached")
	}
	return branch, nil
}

// IsWorkingTreeClean reports whether status lists no entries, untracked
// files included.
func (i *Inspector) IsWorkingTreeClean() (bool, error) {
	clean, err := i.repo.IsClean()
	if err != nil {
		return false, wferrors.Wrap(err, "could not read working tree status")
	}
	return clean, nil
}
