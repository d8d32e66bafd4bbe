package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/necroqol/internal/store"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Session string
	Kind    string
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal [db]",
		Short: "Read a diagnostic journal",
		Long: `List the sessions of a SQLite diagnostic journal, or the entries of
one session. The database defaults to NECROQOL_JOURNAL_PATH.

Examples:
  necroqol journal run.db
  necroqol journal run.db --session test-session-default
  necroqol journal run.db --session test-session-default --kind fault`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runJournal(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Session, "session", "", "list the entries of this session")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only entries of this kind (with --session)")

	return cmd
}

func runJournal(opts *JournalOptions, path string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.JournalPath
	}
	if path == "" {
		return NewExitError(ExitCommandError, "no journal given and NECROQOL_JOURNAL_PATH is not set")
	}
	// Opening creates missing databases; reading one that does not exist is
	// a usage error.
	if _, err := os.Stat(path); err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("journal not found: %s", path))
	}

	st, err := store.Open(path)
	if err != nil {
		_ = out.Error(CodeJournal, err.Error(), path)
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer st.Close()

	ctx := context.Background()
	w := cmd.OutOrStdout()

	if opts.Session == "" {
		sessions, err := st.ReadSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "read sessions", err)
		}
		if out.JSON() {
			return out.Success(sessions)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(w, "No sessions.")
		}
		for _, s := range sessions {
			fmt.Fprintf(w, "%s module=%s available=%t tick=%d\n", s.Token, s.Module, s.Available, s.StartedTick)
		}
		return nil
	}

	entries, err := st.ReadEntries(ctx, opts.Session, opts.Kind)
	if err != nil {
		return WrapExitError(ExitCommandError, "read entries", err)
	}
	if out.JSON() {
		return out.Success(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries.")
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%d %s %s\n", e.Seq, e.Kind, e.Payload)
	}
	return nil
}
