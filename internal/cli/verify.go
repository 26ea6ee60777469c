package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/registry"
	"github.com/roach88/masa/internal/solution"
	"github.com/roach88/masa/internal/store"
	"github.com/roach88/masa/internal/verify"
)

// Checks added around the numerical report of each kind.
const (
	CheckSanity   = "sanity"
	CheckPolyTest = "poly_test"
)

// Verification statuses.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Database string
	Sets     []string

	// RunIDs allows overriding the journal run ID generator (for testing).
	// If nil, defaults to store.UUIDv7.
	RunIDs store.RunIDGenerator
}

// KindVerification is the outcome for one kind.
type KindVerification struct {
	Kind    ir.KindName     `json:"kind"`
	Status  string          `json:"status"`
	Results []verify.Result `json:"results,omitempty"`
	Error   string          `json:"error,omitempty"`

	user   ir.UserName
	params map[string]float64
}

// VerifyResult holds the overall verify output.
type VerifyResult struct {
	Precision ir.Precision       `json:"precision"`
	RunID     string             `json:"run_id,omitempty"`
	Kinds     []KindVerification `json:"kinds"`
	Passed    int                `json:"passed"`
	Failed    int                `json:"failed"`
	Skipped   int                `json:"skipped"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify [kinds...]",
		Short: "Run sanity and consistency checks",
		Long: `Initialize each kind with its default parameters and run its sanity
check, its finite-difference consistency checks and its poly test.

Without arguments every catalog kind is verified; kinds whose parameters
have no defaults are skipped unless named explicitly (supply the values
with --set). With --db, or db in the configuration, the results are
appended to a SQLite journal.

Exit codes:
  0 - All verified kinds passed
  1 - One or more kinds failed
  2 - Command error (invalid --set, journal not writable, etc.)

Examples:
  masa verify
  masa verify heat_2d_unsteady_const euler_2d --precision single
  masa verify masa_uninit --set dummy=1
  masa verify --db ./masa.db --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.precision() == ir.PrecisionSingle {
				return runVerify[float32](opts, args, cmd)
			}
			return runVerify[float64](opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "append results to this SQLite journal")
	cmd.Flags().StringArrayVar(&opts.Sets, "set", nil, "set a parameter of every verified kind as name=value (repeatable)")

	return cmd
}

func runVerify[S ir.Scalar](opts *VerifyOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	sets, err := parseSets(opts.Sets, bitSize[S]())
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --set", err)
	}

	// Verification reports failures instead of aborting on the first one.
	reg, err := newRegistry[S](opts.RootOptions, cmd.ErrOrStderr(), registry.WithPolicy(registry.PolicyReturn))
	if err != nil {
		return err
	}
	defer reg.Close()

	explicit := len(args) > 0
	requested := args
	if !explicit {
		for _, name := range reg.Catalog().Names() {
			requested = append(requested, string(name))
		}
	}

	result := VerifyResult{
		Precision: reg.Precision(),
		Kinds:     make([]KindVerification, 0, len(requested)),
	}
	for _, name := range requested {
		kv := verifyKind(reg, name, sets, explicit)
		formatter.VerboseLog("%s: %s", kv.Kind, kv.Status)
		opts.Logger.Debug("kind verified", "kind", kv.Kind, "status", kv.Status)

		switch kv.Status {
		case StatusPassed:
			result.Passed++
		case StatusFailed:
			result.Failed++
		default:
			result.Skipped++
		}
		result.Kinds = append(result.Kinds, kv)
	}

	if db := opts.database(); db != "" {
		runID, err := recordRun(cmd.Context(), db, result, opts.RunIDs)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to write journal", err)
		}
		result.RunID = runID
		opts.Logger.Info("verification recorded", "db", db, "run", runID)
	}

	if opts.Format == "json" {
		return outputVerifyJSON(formatter, result)
	}
	return outputVerifyText(formatter.Writer, result)
}

func (o *VerifyOptions) database() string {
	if o.Database != "" {
		return o.Database
	}
	return o.Config.DB
}

// verifyKind initializes one instance named after the requested kind and
// checks it. explicit reports whether the caller named the kind.
func verifyKind[S ir.Scalar](reg *registry.Registry[S], requested string, sets []paramSet, explicit bool) KindVerification {
	kv := KindVerification{Kind: ir.KindName(requested), user: ir.UserName(requested)}

	sol, err := reg.Initialize(kv.user, requested)
	if err != nil {
		kv.Status = StatusFailed
		kv.Error = err.Error()
		return kv
	}
	kv.Kind = sol.Name()

	initErr := sol.InitParams()
	for _, s := range sets {
		sol.Params().Set(s.name, S(s.value))
	}
	kv.params = sol.Params().Snapshot()

	sanityErr := sol.SanityCheck()
	if initErr != nil && sanityErr != nil && !explicit {
		kv.Status = StatusSkipped
		kv.Error = sanityErr.Error()
		return kv
	}

	kv.Results = append(kv.Results, verify.Result{Check: CheckSanity, Axis: -1, Passed: sanityErr == nil})
	if sanityErr != nil {
		kv.Error = sanityErr.Error()
	} else {
		report, err := solution.Check(sol)
		kv.Results = append(kv.Results, report.Results...)
		if err != nil {
			kv.Error = err.Error()
		}
		kv.Results = append(kv.Results, verify.Result{Check: CheckPolyTest, Axis: -1, Passed: sol.PolyTest() == nil})
	}

	kv.Status = StatusPassed
	if kv.Error != "" {
		kv.Status = StatusFailed
	}
	for _, r := range kv.Results {
		if !r.Passed {
			kv.Status = StatusFailed
		}
	}
	return kv
}

// recordRun appends one journal run holding every non-skipped kind.
func recordRun(ctx context.Context, path string, result VerifyResult, ids store.RunIDGenerator) (string, error) {
	st, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer st.Close()

	run, err := st.BeginRun(ctx, result.Precision, ids)
	if err != nil {
		return "", err
	}
	for _, kv := range result.Kinds {
		if kv.Status == StatusSkipped || len(kv.Results) == 0 {
			continue
		}
		report := verify.Report{Kind: kv.Kind, Results: kv.Results}
		if _, err := st.RecordReport(ctx, run, kv.user, kv.params, report); err != nil {
			return "", err
		}
	}
	return run.ID, nil
}

func outputVerifyJSON(formatter *OutputFormatter, result VerifyResult) error {
	if result.Failed == 0 {
		return formatter.Success(result)
	}

	msg := fmt.Sprintf("%d kind(s) failed verification", result.Failed)
	if err := formatter.encode(CLIResponse{
		Status: "error",
		Data:   result,
		Error:  &CLIError{Code: ErrCodeCheckFailed, Message: msg},
	}); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

func outputVerifyText(w io.Writer, result VerifyResult) error {
	for _, kv := range result.Kinds {
		switch kv.Status {
		case StatusPassed:
			fmt.Fprintf(w, "✓ %s\n", kv.Kind)
		case StatusSkipped:
			fmt.Fprintf(w, "- %s (skipped: %s)\n", kv.Kind, kv.Error)
			continue
		default:
			fmt.Fprintf(w, "✗ %s\n", kv.Kind)
		}
		for _, r := range kv.Results {
			if kv.Status == StatusFailed || !r.Passed {
				fmt.Fprintf(w, "  %s\n", r)
			}
		}
		if kv.Status == StatusFailed && kv.Error != "" {
			fmt.Fprintf(w, "  %s\n", kv.Error)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Verify Summary (%s): %d passed, %d failed, %d skipped\n",
		result.Precision, result.Passed, result.Failed, result.Skipped)
	if result.RunID != "" {
		fmt.Fprintf(w, "Journal run: %s\n", result.RunID)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d kind(s) failed verification", result.Failed))
	}
	return nil
}
