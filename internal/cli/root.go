// Package cli implements the necroqol command line: running campaign
// scenarios against the sample extension module, inspecting modules and
// reading diagnostic journals.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/necroqol/internal/config"
	"github.com/roach88/necroqol/internal/diag"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the necroqol CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "necroqol",
		Short: "necroqol - necromancer quality of life",
		Long: `Dark energy from battles and a keep-or-sacrifice choice for raised
units, bridged onto whatever the extension module exposes.

The CLI drives the campaign behavior against an in-process sample module.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewIntrospectCommand(opts))
	cmd.AddCommand(NewJournalCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// loadConfig reads the environment configuration.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "load configuration", err)
	}
	return cfg, nil
}

// newLogger builds the command logger. Without a configured log file it
// logs to errOut in verbose mode and nowhere otherwise.
func newLogger(opts *RootOptions, cfg config.Config, errOut io.Writer) (*slog.Logger, func() error) {
	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	if cfg.LogPath == "" && !opts.Verbose {
		return diag.Discard(), func() error { return nil }
	}
	return diag.NewLogger(diag.Options{Path: cfg.LogPath, Level: level, Fallback: errOut})
}
