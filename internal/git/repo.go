// Package git provides the git operations automerge needs, run through a
// substitutable command runner against one explicit repository.
package git

import (
	"log/slog"
	"strings"

	gitc "github.com/go-git/go-git/v5"

	"github.com/randalmurphal/automerge/internal/command"
)

// Repo is a handle on one working tree. It is built once at startup and
// passed to every operation; nothing in this package reads the process
// working directory.
type Repo struct {
	root   string
	runner command.Runner
	logger *slog.Logger
	repo   *gitc.Repository // nil when the handle was built without discovery
}

// Option configures Repo.
type Option func(*Repo)

// WithRunner sets a custom command runner for git operations.
// This is primarily used for testing to inject fake command execution.
func WithRunner(runner command.Runner) Option {
	return func(r *Repo) {
		r.runner = runner
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repo) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a handle on the working tree at root without discovery.
func New(root string, opts ...Option) *Repo {
	r := &Repo{
		root:   root,
		runner: command.NewExecRunner(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the working tree root.
func (r *Repo) Root() string {
	return r.root
}

// CurrentBranch returns the checked-out branch name. A detached HEAD yields
// an empty name and no error.
func (r *Repo) CurrentBranch() (string, error) {
	out, err := r.run("get current branch", "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Stdout), nil
}

// StatusPorcelain returns the machine-readable status listing.
func (r *Repo) StatusPorcelain() (string, error) {
	out, err := r.run("status", "status", "--porcelain")
	if err != nil {
		return "", err
	}
	return out.Stdout, nil
}

// IsClean returns true if the working tree has no uncommitted changes.
func (r *Repo) IsClean() (bool, error) {
	status, err := r.StatusPorcelain()
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(status) == "", nil
}

// StatusShort returns the working tree status in short format.
func (r *Repo) StatusShort() (string, error) {
	out, err := r.run("status", "status", "--short")
	if err != nil {
		return "", err
	}
	return out.Stdout, nil
}

// Diff returns the unstaged diff of the working tree.
func (r *Repo) Diff() (string, error) {
	out, err := r.run("diff", "diff")
	if err != nil {
		return "", err
	}
	return out.Stdout, nil
}

// StashRef returns the commit refs/stash points at, or "" when there is no
// stash.
func (r *Repo) StashRef() (string, error) {
	out, err := r.exec("rev-parse", "-q", "--verify", "refs/stash")
	if err != nil {
		return "", &GitError{Op: "read stash ref", Err: err}
	}
	// rev-parse -q --verify exits 1 with no output when the ref is missing.
	if !out.Success() {
		return "", nil
	}
	return strings.TrimSpace(out.Stdout), nil
}

// StashPush saves tracked and staged modifications under label.
func (r *Repo) StashPush(label string) error {
	_, err := r.run("stash", "stash", "push", "-m", label)
	return err
}

// StashPop reapplies the most recent stash.
func (r *Repo) StashPop() error {
	_, err := r.run("stash pop", "stash", "pop")
	return err
}

// Checkout switches to the specified branch.
func (r *Repo) Checkout(branch string) error {
	_, err := r.run("checkout", "checkout", branch)
	return err
}

// Pull fetches branch from remote and integrates it.
func (r *Repo) Pull(remote, branch string) error {
	_, err := r.run("pull", "pull", remote, branch)
	return err
}

// Merge merges branch into the current branch. With allowUnrelated the merge
// proceeds even when the two histories share no ancestor.
func (r *Repo) Merge(branch string, allowUnrelated bool) error {
	args := []string{"merge", branch}
	if allowUnrelated {
		args = append(args, "--allow-unrelated-histories")
	}
	_, err := r.run("merge", args...)
	return err
}

// Push publishes branch to remote.
func (r *Repo) Push(remote, branch string) error {
	_, err := r.run("push", "push", remote, branch)
	return err
}

// run executes git and turns a non-zero exit into a *GitError.
func (r *Repo) run(op string, args ...string) (command.Outcome, error) {
	out, err := r.exec(args...)
	if err != nil {
		return out, &GitError{Op: op, Args: args, Err: err}
	}
	if !out.Success() {
		return out, &GitError{Op: op, Args: args, Outcome: out}
	}
	return out, nil
}

func (r *Repo) exec(args ...string) (command.Outcome, error) {
	return r.runner.Run(r.root, "git", args...)
}
