// Package cli implements the automerge command-line interface.
package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randalmurphal/automerge/internal/command"
	"github.com/randalmurphal/automerge/internal/config"
)

// app carries global flags and the state initConfig builds for subcommands.
type app struct {
	cfgFile string
	verbose bool
	quiet   bool

	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger

	// runner overrides the command runner; nil means the real executor.
	runner command.Runner
}

func newApp() *app {
	return &app{v: viper.New()}
}

// newRootCmd builds the command tree for a.
func (a *app) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "automerge",
		Short: "Merge the current branch into main and push it, safely",
		Long: `automerge merges the checked-out feature branch into the target branch
(main by default), pushes the result and switches back.

Uncommitted changes are offered to be stashed first and are restored
afterwards, including when a later step fails. Unrelated histories are
retried once with --allow-unrelated-histories; merge conflicts are left
for you to resolve.

Configuration is read from --config, .automerge.yaml in the current
directory or $HOME/.config/automerge/, and AUTOMERGE_* environment
variables.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
		RunE:              a.runMerge,
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is .automerge.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")
	cmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-essential output")

	cmd.AddCommand(a.newSimCmd())
	cmd.AddCommand(a.newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the CLI and prints any error not already shown to the
// operator.
func Execute() error {
	a := newApp()
	root := a.newRootCmd()
	err := root.Execute()
	if err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			PrintError(root.ErrOrStderr(), err, a.verbose)
		}
	}
	return err
}

// initConfig reads in config file and ENV variables if set.
func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	used, err := config.ReadFile(a.v, a.cfgFile, ".", "$HOME/.config/automerge")
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Log, a.verbose)
	if used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	return nil
}

func (a *app) commandRunner() command.Runner {
	r := a.runner
	if r == nil {
		r = command.NewExecRunner()
	}
	return command.WithLogging(r, a.logger)
}

func workingDir() (string, error) {
	return os.Getwd()
}
