package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/necroqol/internal/bridge"
	"github.com/roach88/necroqol/internal/extension/sample"
)

// IntrospectOptions holds flags for the introspect command.
type IntrospectOptions struct {
	*RootOptions
	Shape string
}

// NewIntrospectCommand creates the introspect command.
func NewIntrospectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IntrospectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "introspect",
		Short: "List what an extension module exposes around dark energy",
		Long: `Scan the sample extension module and list dark energy enum members,
grant-shaped methods (a hero or clan, a resource enum and a number) and
members whose name mentions resources or energy.

Examples:
  necroqol introspect
  necroqol introspect --shape pairs --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntrospect(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Shape, "shape", string(sample.ShapeDictionary), "sample module shape")

	return cmd
}

func runIntrospect(opts *IntrospectOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	shape, err := sample.ParseShape(opts.Shape)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid shape", err)
	}
	report := bridge.Introspect(sample.New(sample.Options{Shape: shape}).Module())

	if out.JSON() {
		return out.Success(report)
	}
	writeReport(cmd.OutOrStdout(), report)
	return nil
}

func writeReport(w io.Writer, r bridge.Report) {
	fmt.Fprintf(w, "module: %s %s\n", r.Module, r.Version)
	section := func(title string, lines []string) {
		fmt.Fprintf(w, "%s:\n", title)
		if len(lines) == 0 {
			fmt.Fprintln(w, "  (none)")
		}
		for _, l := range lines {
			fmt.Fprintf(w, "  %s\n", l)
		}
	}
	section("enums", r.Enums)
	section("grant candidates", r.GrantCandidates)
	section("name hits", r.NameHits)
}
