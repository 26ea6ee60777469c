package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/masa/internal/alias"
	"github.com/roach88/masa/internal/catalog"
)

// AliasReport is the JSON payload of the aliases command.
type AliasReport struct {
	Source   string                  `json:"source"`
	Version  string                  `json:"version"`
	Aliases  []alias.Alias           `json:"aliases"`
	Problems []alias.ValidationError `json:"problems,omitempty"`
}

// NewAliasesCommand creates the aliases command.
func NewAliasesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aliases [file]",
		Short: "Show and validate an alias table",
		Long: `Load an alias table, validate it against its schema and check that
every target names a catalog kind.

Without an argument the configured table (alias_file or --aliases) is
used, falling back to the built-in one.

Exit codes:
  0 - Table is valid
  1 - Schema violations or unknown targets
  2 - Command error (unreadable file, etc.)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAliases(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runAliases(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	var (
		tbl *alias.Table
		err error
	)
	if len(args) == 1 {
		tbl, err = alias.Load(args[0])
	} else {
		tbl, err = opts.Config.Aliases()
	}

	var tableErr *alias.TableError
	if errors.As(err, &tableErr) {
		if err := formatter.Error(ErrCodeAliasInvalid, "alias table is invalid", tableErr.Errors); err != nil {
			return err
		}
		return NewExitError(ExitFailure, tableErr.Error())
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load alias table", err)
	}

	// Kind names are the same in every precision domain.
	report := AliasReport{
		Source:   tbl.Source(),
		Version:  tbl.Version(),
		Aliases:  tbl.Entries(),
		Problems: tbl.Check(catalog.Default[float64]().Contains),
	}
	formatter.VerboseLog("Loaded %d alias(es) from %s", len(report.Aliases), report.Source)

	if len(report.Problems) > 0 {
		if err := formatter.Error(ErrCodeAliasInvalid, "alias targets not in catalog", report.Problems); err != nil {
			return err
		}
		if opts.Format != "json" {
			for _, p := range report.Problems {
				fmt.Fprintf(formatter.Writer, "  %s\n", p)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d alias target(s) not in catalog", len(report.Problems)))
	}

	return formatter.Render(report, func(w io.Writer) error {
		fmt.Fprintf(w, "%s (version %s)\n", report.Source, report.Version)
		for _, a := range report.Aliases {
			if _, err := fmt.Fprintf(w, "  %s -> %s\n", a.From, a.To); err != nil {
				return err
			}
		}
		return nil
	})
}
