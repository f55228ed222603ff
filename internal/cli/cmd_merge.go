package cli

import (
	"github.com/spf13/cobra"

	"github.com/randalmurphal/automerge/internal/progress"
	"github.com/randalmurphal/automerge/internal/prompt"
	"github.com/randalmurphal/automerge/internal/workflow"
)

// runMerge is the root command: merge the current branch into the target.
func (a *app) runMerge(cmd *cobra.Command, _ []string) error {
	repo, err := a.openRepo()
	if err != nil {
		return err
	}

	display := progress.New(cmd.OutOrStdout(), a.quiet)
	confirm := prompt.New(a.cfg.Prompt, cmd.InOrStdin(), cmd.OutOrStdout())

	orch := workflow.New(repo, confirm, display, a.logger, workflow.Options{
		Target:     a.cfg.TargetBranch,
		Remote:     a.cfg.Remote,
		StashLabel: a.cfg.StashLabel,
	})

	res := orch.Run()
	if code := res.ExitCode(); code != 0 {
		return &ExitError{Code: code, Err: res.Err}
	}
	return nil
}
