package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/automerge/internal/progress"
	"github.com/randalmurphal/automerge/internal/sim"
	"github.com/randalmurphal/automerge/internal/util"
)

func (a *app) newSimCmd() *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "sim [dir]",
		Short: "Compile and run a VHDL testbench",
		Long: `Analyze every VHDL file in dir (default: current directory), elaborate the
testbench (the file whose name contains "_tb") and run it, writing a
waveform.

The run is classified from marker lines the testbench prints:
  0  pass marker and done marker seen, no fail marker
  1  fail marker seen (or no testbench, or the simulator could not compile)
  2  done marker without pass marker
  otherwise the simulator's own exit code

Examples:
  automerge sim                    # current directory
  automerge sim hdl/delays         # another directory
  automerge sim --report out.yaml  # also write a YAML summary`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			display := progress.New(cmd.OutOrStdout(), a.quiet)
			runner := sim.NewRunner(a.cfg.Sim, a.commandRunner(), display, a.logger)

			report, err := runner.Run(dir)
			if err != nil {
				return err
			}

			if reportPath != "" {
				if err := util.WriteYAML(reportPath, report); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				a.logger.Debug("report written", "path", reportPath)
			}

			if report.ExitCode != 0 {
				return &ExitError{Code: report.ExitCode}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "write a YAML summary of the run to this file")
	return cmd
}
