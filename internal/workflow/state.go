// Package workflow merges the checked-out feature branch into the target
// branch and pushes it, restoring any stashed local changes on the way out.
package workflow

import (
	wferrors "github.com/randalmurphal/automerge/internal/errors"
)

// DefaultTarget is the branch merged into when none is configured.
const DefaultTarget = "main"

// RunContext is the state carried through one run.
type RunContext struct {
	OriginalBranch string
	TargetBranch   string
	// HasStash is true while the operator's uncommitted changes are held in
	// a stash entry this run created.
	HasStash bool
}

// Step identifies a state of the merge state machine.
type Step int

const (
	StepIdentifyBranch Step = iota
	StepCheckCleanliness
	StepCheckoutTarget
	StepPullLatest
	StepMerge
	StepPush
	StepReturnToOriginalBranch
	StepRestoreIfStashed
	StepDone
)

var stepNames = [...]string{
	StepIdentifyBranch:         "identify-branch",
	StepCheckCleanliness:       "check-cleanliness",
	StepCheckoutTarget:         "checkout-target",
	StepPullLatest:             "pull-latest",
	StepMerge:                  "merge",
	StepPush:                   "push",
	StepReturnToOriginalBranch: "return-to-original-branch",
	StepRestoreIfStashed:       "restore-if-stashed",
	StepDone:                   "done",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// Terminal is the final state of a run.
type Terminal int

const (
	// Success means the merge was pushed. Warnings may still be present.
	Success Terminal = iota
	// Aborted means the run stopped before anything was changed.
	Aborted
	// FailedAfterRollback means a step after the working tree was touched
	// failed; a held stash was restored (or a restore was attempted).
	FailedAfterRollback
)

func (t Terminal) String() string {
	switch t {
	case Success:
		return "success"
	case Aborted:
		return "aborted"
	case FailedAfterRollback:
		return "failed-after-rollback"
	default:
		return "unknown"
	}
}

// Result is the outcome of one run.
type Result struct {
	Terminal     Terminal
	FailedStep   Step // meaningful only when Terminal != Success
	Context      RunContext
	Err          *wferrors.WorkflowError
	Warnings     []*wferrors.WorkflowError
	MergeRetried bool
}

// ExitCode maps the result to a process exit status.
func (r Result) ExitCode() int {
	if r.Terminal == Success {
		return 0
	}
	return 1
}
