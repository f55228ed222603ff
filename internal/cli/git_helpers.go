package cli

import (
	"errors"
	"fmt"

	wferrors "github.com/randalmurphal/automerge/internal/errors"
	"github.com/randalmurphal/automerge/internal/git"
)

// openRepo discovers the repository containing the working directory and
// checks that the configured remote and target branch exist. This is the only
// place a git.Repo is built.
func (a *app) openRepo() (*git.Repo, error) {
	cwd, err := workingDir()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	repo, err := git.Open(cwd, git.WithRunner(a.commandRunner()), git.WithLogger(a.logger))
	if errors.Is(err, git.ErrNotGitRepo) {
		return nil, wferrors.ErrNotGitRepo(cwd)
	}
	if err != nil {
		return nil, wferrors.Wrap(err, "could not open repository")
	}

	remote, target := a.cfg.Remote, a.cfg.TargetBranch
	switch err := repo.Verify(remote, target); {
	case err == nil:
	case errors.Is(err, git.ErrRemoteNotFound):
		return nil, wferrors.ErrRepoPrecondition(
			fmt.Sprintf("remote %q is not configured", remote),
			fmt.Sprintf("Add it with 'git remote add %s <url>' or set remote in .automerge.yaml", remote),
		).WithCause(err)
	case errors.Is(err, git.ErrBranchNotFound):
		return nil, wferrors.ErrRepoPrecondition(
			fmt.Sprintf("branch %q exists neither locally nor as %s/%s", target, remote, target),
			fmt.Sprintf("Run 'git fetch %s' or set target_branch in .automerge.yaml", remote),
		).WithCause(err)
	default:
		return nil, wferrors.Wrap(err, "could not inspect repository")
	}

	a.logger.Debug("repository opened", "root", repo.Root(), "remote", remote, "target", target)
	return repo, nil
}
