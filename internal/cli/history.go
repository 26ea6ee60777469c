package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/masa/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Run      string // run ID or "latest"
}

// RunChecks is the JSON payload for one run and its checks.
type RunChecks struct {
	Run    store.Run           `json:"run"`
	Checks []store.CheckRecord `json:"checks"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [kind]",
		Short: "Query the verification journal",
		Long: `Query the SQLite journal written by "masa verify --db".

Without arguments every run is listed. With --run the checks of one run
are shown ("latest" selects the most recent run). With a kind, every
check recorded for that kind is shown across runs; aliases apply.

Examples:
  masa history --db ./masa.db
  masa history --db ./masa.db --run latest
  masa history --db ./masa.db euler2d --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (default: db from configuration)")
	cmd.Flags().StringVar(&opts.Run, "run", "", `run ID to show, or "latest"`)

	return cmd
}

func runHistory(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	db := opts.Database
	if db == "" {
		db = opts.Config.DB
	}
	if db == "" {
		return NewExitError(ExitCommandError, "no journal: pass --db or set db in the configuration")
	}
	if _, err := os.Stat(db); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", db))
	}

	st, err := store.Open(db)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	switch {
	case len(args) == 1:
		aliases, err := opts.Config.Aliases()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load alias table", err)
		}
		kind := aliases.Map(args[0])
		checks, err := st.ReadKindHistory(ctx, kind)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read journal", err)
		}
		return formatter.Render(checks, func(w io.Writer) error {
			if len(checks) == 0 {
				_, err := fmt.Fprintf(w, "No checks recorded for %s.\n", kind)
				return err
			}
			return writeChecks(w, checks, true)
		})

	case opts.Run != "":
		run, err := findRun(opts, st, cmd)
		if err != nil {
			return err
		}
		checks, err := st.ReadChecks(ctx, run.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read journal", err)
		}
		return formatter.Render(RunChecks{Run: run, Checks: checks}, func(w io.Writer) error {
			fmt.Fprintf(w, "Run %s (seq %d, %s)\n", run.ID, run.Seq, run.Precision)
			return writeChecks(w, checks, false)
		})
	}

	runs, err := st.ReadRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	return formatter.Render(runs, func(w io.Writer) error {
		if len(runs) == 0 {
			_, err := fmt.Fprintln(w, "No runs recorded.")
			return err
		}
		for _, r := range runs {
			if _, err := fmt.Fprintf(w, "%4d  %s  %s\n", r.Seq, r.ID, r.Precision); err != nil {
				return err
			}
		}
		return nil
	})
}

func findRun(opts *HistoryOptions, st *store.Store, cmd *cobra.Command) (store.Run, error) {
	if opts.Run == "latest" {
		run, ok, err := st.LatestRun(cmd.Context())
		if err != nil {
			return store.Run{}, WrapExitError(ExitCommandError, "failed to read journal", err)
		}
		if !ok {
			return store.Run{}, NewExitError(ExitFailure, "no runs recorded")
		}
		return run, nil
	}

	run, err := st.ReadRun(cmd.Context(), opts.Run)
	if errors.Is(err, store.ErrRunNotFound) {
		return store.Run{}, WrapExitError(ExitFailure, "unknown run", err)
	}
	if err != nil {
		return store.Run{}, WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	return run, nil
}

// writeChecks prints one line per check. withRun prefixes the run ID.
func writeChecks(w io.Writer, checks []store.CheckRecord, withRun bool) error {
	for _, c := range checks {
		status := "ok"
		if !c.Passed {
			status = "FAIL"
		}
		prefix := ""
		if withRun {
			prefix = c.RunID + "  "
		}
		_, err := fmt.Fprintf(w, "%s%4d  %-4s %-24s %-14s field=%s axis=%d max_abs_err=%.3g\n",
			prefix, c.Seq, status, c.Kind, c.Check, c.Field, c.Axis, c.MaxAbsErr)
		if err != nil {
			return err
		}
	}
	return nil
}
