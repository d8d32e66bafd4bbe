package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/necroqol/internal/harness"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Journal string // SQLite journal path; empty uses NECROQOL_JOURNAL_PATH or memory
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Run one campaign scenario",
		Long: `Run a scenario file against the sample extension module and print
the step trace, toasts, journal and final state.

Settings from NECROQOL_* environment variables are the base; the scenario's
config block overrides them.

Exit codes:
  0 - Scenario assertions held
  1 - One or more assertions failed
  2 - Command error (unreadable scenario, etc.)

Examples:
  necroqol simulate scenarios/trim_to_capacity.yaml
  necroqol simulate scenarios/trim_to_capacity.yaml --journal run.db
  necroqol simulate scenarios/trim_to_capacity.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite journal to append the run to")

	return cmd
}

func runSimulate(opts *SimulateOptions, path string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog := newLogger(opts.RootOptions, cfg, cmd.ErrOrStderr())
	defer closeLog()

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = out.Error(CodeScenarioLoad, err.Error(), path)
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	runOpts := []harness.Option{harness.WithLogger(logger), harness.WithConfig(cfg)}
	journal := opts.Journal
	if journal == "" {
		journal = cfg.JournalPath
	}
	if journal != "" {
		out.VerboseLog("journal: %s", journal)
		runOpts = append(runOpts, harness.WithJournalPath(journal))
	}

	result, err := harness.Run(scenario, runOpts...)
	if err != nil {
		_ = out.Error(CodeScenarioRun, err.Error(), scenario.Name)
		return WrapExitError(ExitCommandError, "run scenario", err)
	}

	if out.JSON() {
		if err := out.Success(result); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), string(harness.Render(scenario.Name, result)))
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s: %d assertion(s) failed", scenario.Name, len(result.Errors)))
	}
	return nil
}
