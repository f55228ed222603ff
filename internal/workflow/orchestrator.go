package workflow

import (
	"fmt"
	"log/slog"

	wferrors "github.com/randalmurphal/automerge/internal/errors"
	"github.com/randalmurphal/automerge/internal/git"
	"github.com/randalmurphal/automerge/internal/progress"
	"github.com/randalmurphal/automerge/internal/prompt"
)

// StashQuestion is asked when the working tree is dirty.
const StashQuestion = "Would you like to stash these changes and restore them after merging?"

// Options configures an Orchestrator.
type Options struct {
	Target     string // branch merged into; default "main"
	Remote     string // remote pulled from and pushed to; default "origin"
	StashLabel string
}

func (o Options) withDefaults() Options {
	if o.Target == "" {
		o.Target = DefaultTarget
	}
	if o.Remote == "" {
		o.Remote = "origin"
	}
	if o.StashLabel == "" {
		o.StashLabel = DefaultStashLabel
	}
	return o
}

// Orchestrator drives one merge of the checked-out branch into the target.
type Orchestrator struct {
	repo      *git.Repo
	inspector *Inspector
	stasher   *Stasher
	confirm   prompt.Confirmer
	display   *progress.Display
	logger    *slog.Logger
	opts      Options
}

// New creates an Orchestrator. A nil logger means slog.Default().
func New(repo *git.Repo, confirm prompt.Confirmer, display *progress.Display, logger *slog.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()
	return &Orchestrator{
		repo:      repo,
		inspector: NewInspector(repo),
		stasher:   NewStasher(repo, opts.StashLabel, logger),
		confirm:   confirm,
		display:   display,
		logger:    logger,
		opts:      opts,
	}
}

// Run executes the state machine once. It never panics on git failures;
// every outcome is described by the returned Result.
func (o *Orchestrator) Run() Result {
	res := Result{Context: RunContext{TargetBranch: o.opts.Target}}
	ctx := &res.Context

	// IdentifyBranch
	o.enter(StepIdentifyBranch)
	branch, err := o.inspector.CurrentBranch()
	if err != nil {
		return o.abort(res, StepIdentifyBranch, err)
	}
	if branch == ctx.TargetBranch {
		return o.abort(res, StepIdentifyBranch, wferrors.ErrAlreadyOnTarget(ctx.TargetBranch))
	}
	ctx.OriginalBranch = branch
	o.display.Info(fmt.Sprintf("🔄 Starting merge process from %s to %s...", branch, ctx.TargetBranch))

	// CheckCleanliness
	o.enter(StepCheckCleanliness)
	if err := o.checkCleanliness(ctx); err != nil {
		return o.abort(res, StepCheckCleanliness, err)
	}

	// CheckoutTarget
	o.enter(StepCheckoutTarget)
	o.display.Step("📌", fmt.Sprintf("Switching to %s branch...", ctx.TargetBranch))
	if err := o.repo.Checkout(ctx.TargetBranch); err != nil {
		return o.rollback(res, StepCheckoutTarget, wferrors.ErrCheckout(ctx.TargetBranch, git.Diagnostic(err)).WithCause(err))
	}

	// PullLatest
	o.enter(StepPullLatest)
	o.display.Step("📥", fmt.Sprintf("Pulling latest changes from %s...", ctx.TargetBranch))
	if err := o.repo.Pull(o.opts.Remote, ctx.TargetBranch); err != nil {
		return o.rollback(res, StepPullLatest, wferrors.ErrPull(git.Diagnostic(err)).WithCause(err))
	}

	// Merge
	o.enter(StepMerge)
	o.display.Step("🔄", fmt.Sprintf("Merging %s into %s...", ctx.OriginalBranch, ctx.TargetBranch))
	err = o.repo.Merge(ctx.OriginalBranch, false)
	if err != nil && git.IsUnrelatedHistoriesError(err) {
		o.display.Step("⚠️ ", "Unrelated histories detected. Attempting to merge with --allow-unrelated-histories...")
		res.MergeRetried = true
		err = o.repo.Merge(ctx.OriginalBranch, true)
	}
	if err != nil {
		return o.rollback(res, StepMerge,
			wferrors.ErrMergeConflict(o.opts.Remote, ctx.TargetBranch, git.Diagnostic(err)).WithCause(err))
	}

	// Push
	o.enter(StepPush)
	o.display.Step("📤", "Pushing changes to remote...")
	if err := o.repo.Push(o.opts.Remote, ctx.TargetBranch); err != nil {
		return o.rollback(res, StepPush, wferrors.ErrPush(git.Diagnostic(err)).WithCause(err))
	}

	// ReturnToOriginalBranch
	o.enter(StepReturnToOriginalBranch)
	o.display.Step("📌", fmt.Sprintf("Switching back to %s...", ctx.OriginalBranch))
	if err := o.repo.Checkout(ctx.OriginalBranch); err != nil {
		res.Warnings = o.warn(res.Warnings,
			wferrors.WarnReturnToBranch(ctx.OriginalBranch, git.Diagnostic(err)).WithCause(err))
	}

	// RestoreIfStashed
	o.enter(StepRestoreIfStashed)
	if ctx.HasStash {
		res.Warnings = o.restore(ctx, res.Warnings)
	}

	o.enter(StepDone)
	o.display.Info("")
	o.display.Success("✅", "Successfully merged and pushed changes!")
	o.display.Success("✨", fmt.Sprintf("%s has been merged into %s", ctx.OriginalBranch, ctx.TargetBranch))
	o.display.Info("   Total time: " + o.display.Elapsed())

	res.Terminal = Success
	o.logger.Info("merge finished",
		"branch", ctx.OriginalBranch,
		"target", ctx.TargetBranch,
		"retried", res.MergeRetried,
		"warnings", len(res.Warnings))
	return res
}

// checkCleanliness offers to stash a dirty tree. It returns nil when the run
// may continue.
func (o *Orchestrator) checkCleanliness(ctx *RunContext) error {
	clean, err := o.inspector.IsWorkingTreeClean()
	if err != nil {
		return err
	}
	if clean {
		return nil
	}

	o.display.Warning("You have uncommitted changes!")
	o.showChanges()

	ok, err := o.confirm.Confirm(StashQuestion)
	if err != nil {
		o.logger.Debug("prompt failed, treating as decline", "error", err)
		ok = false
	}
	if !ok {
		return wferrors.ErrDirtyTreeDeclined()
	}

	o.display.Step("📦", "Stashing your changes...")
	created, err := o.stasher.Stash()
	if err != nil {
		return err
	}
	if !created {
		o.display.Info("Nothing was stashed (only untracked files are changed); continuing.")
		return nil
	}
	ctx.HasStash = true
	return nil
}

// showChanges prints status and diff. Read failures only hide the listing.
func (o *Orchestrator) showChanges() {
	status, err := o.repo.StatusShort()
	if err != nil {
		o.logger.Debug("status --short failed", "error", err)
	}
	diff, err := o.repo.Diff()
	if err != nil {
		o.logger.Debug("diff failed", "error", err)
	}
	o.display.Changes(status, diff)
}

func (o *Orchestrator) enter(step Step) {
	o.logger.Debug("workflow step", "step", step.String())
}

// abort ends a run that has not changed anything.
func (o *Orchestrator) abort(res Result, step Step, err error) Result {
	wfErr := wferrors.AsWorkflowError(err)
	if wfErr == nil {
		wfErr = wferrors.Wrap(err, "unexpected failure")
	}
	o.display.Fail(wfErr)

	res.Terminal = Aborted
	res.FailedStep = step
	res.Err = wfErr
	o.logger.Info("merge aborted", "step", step.String(), "code", wfErr.Code)
	return res
}

func (o *Orchestrator) warn(warnings []*wferrors.WorkflowError, w *wferrors.WorkflowError) []*wferrors.WorkflowError {
	o.display.Warn(w)
	return append(warnings, w)
}

// restore makes the single restore attempt a held stash is owed.
func (o *Orchestrator) restore(ctx *RunContext, warnings []*wferrors.WorkflowError) []*wferrors.WorkflowError {
	o.display.Step("📦", "Restoring your changes...")
	if w := o.stasher.Restore(); w != nil {
		return o.warn(warnings, w)
	}
	ctx.HasStash = false
	return warnings
}
