package workflow

import (
	wferrors "github.com/randalmurphal/automerge/internal/errors"
)

// rollback handles a failure in checkout, pull, merge or push. It restores a
// held stash exactly once and leaves branches and any in-progress merge as
// they are for the operator.
func (o *Orchestrator) rollback(res Result, step Step, err *wferrors.WorkflowError) Result {
	if !err.TriggersRollback() {
		return o.abort(res, step, err)
	}
	o.display.Fail(err)

	ctx := &res.Context
	if ctx.HasStash {
		res.Warnings = o.restore(ctx, res.Warnings)
		if !ctx.HasStash {
			o.display.Info("Changes restored.")
		}
	}

	res.Terminal = FailedAfterRollback
	res.FailedStep = step
	res.Err = err
	o.logger.Info("merge failed",
		"step", step.String(),
		"code", err.Code,
		"stash_held", ctx.HasStash)
	return res
}
