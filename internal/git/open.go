package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gitc "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Open locates the repository containing dir (searching parent directories)
// and returns a handle rooted at its working tree.
func Open(dir string, opts ...Option) (*Repo, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	repo, err := gitc.PlainOpenWithOptions(absPath, &gitc.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, gitc.ErrRepositoryNotExists) {
		return nil, ErrNotGitRepo
	}
	if err != nil {
		// go-git does not understand every repository layout the git CLI
		// does; fall back to asking git itself for the top level.
		return openWithCLI(absPath, err, opts...)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}

	r := New(wt.Filesystem.Root(), opts...)
	r.repo = repo
	return r, nil
}

func openWithCLI(dir string, cause error, opts ...Option) (*Repo, error) {
	probe := New(dir, opts...)
	probe.logger.Debug("go-git could not open repository, asking git", "dir", dir, "error", cause)

	out, err := probe.exec("rev-parse", "--show-toplevel")
	if err != nil || !out.Success() {
		return nil, ErrNotGitRepo
	}
	probe.root = strings.TrimSpace(out.Stdout)
	return probe, nil
}

// Verify checks that remote is configured and that branch exists locally or
// as a remote-tracking ref of remote. Handles built without discovery skip
// the check.
func (r *Repo) Verify(remote, branch string) error {
	if r.repo == nil {
		return nil
	}

	if _, err := r.repo.Remote(remote); err != nil {
		if errors.Is(err, gitc.ErrRemoteNotFound) {
			return fmt.Errorf("%w: %s", ErrRemoteNotFound, remote)
		}
		return fmt.Errorf("read remote %s: %w", remote, err)
	}

	candidates := []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(branch),
		plumbing.NewRemoteReferenceName(remote, branch),
	}
	for _, name := range candidates {
		_, err := r.repo.Reference(name, true)
		if err == nil {
			return nil
		}
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return fmt.Errorf("read ref %s: %w", name, err)
		}
	}
	return fmt.Errorf("%w: %s", ErrBranchNotFound, branch)
}
