package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/masa/internal/config"
	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/store"
	"github.com/roach88/masa/internal/testutil"
)

func TestVerifyAllKinds(t *testing.T) {
	isolateConfig(t)

	for _, precision := range []string{"double", "single"} {
		t.Run(precision, func(t *testing.T) {
			out, _, err := execute(t, "verify", "--precision", precision, "--format", "json")
			require.NoError(t, err)

			var result VerifyResult
			resp := decodeResponse(t, out, &result)
			assert.Equal(t, "ok", resp.Status)
			assert.Equal(t, ir.Precision(precision), result.Precision)
			assert.Equal(t, 9, result.Passed)
			assert.Equal(t, 0, result.Failed)
			assert.Equal(t, 1, result.Skipped)
			assert.Empty(t, result.RunID)

			for _, kv := range result.Kinds {
				if kv.Kind == "masa_uninit" {
					assert.Equal(t, StatusSkipped, kv.Status)
					continue
				}
				require.NotEmpty(t, kv.Results, kv.Kind)
				assert.Equal(t, CheckSanity, kv.Results[0].Check)
				assert.Equal(t, CheckPolyTest, kv.Results[len(kv.Results)-1].Check)
			}
		})
	}
}

func TestVerifyText(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "verify", "heateq_2d_unsteady_const", "euler1d")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ heat_2d_unsteady_const")
	assert.Contains(t, out, "✓ euler_1d")
	assert.Contains(t, out, "Verify Summary (double): 2 passed, 0 failed, 0 skipped")
}

func TestVerifyExplicitUnconfiguredKindFails(t *testing.T) {
	isolateConfig(t)

	out, _, err := execute(t, "verify", "masa_uninit")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ masa_uninit")
	assert.Contains(t, out, "1 failed")

	out, _, err = execute(t, "verify", "masa_uninit", "--set", "dummy=1")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ masa_uninit")
}

func TestVerifyUnknownKind(t *testing.T) {
	isolateConfig(t)

	out, errOut, err := execute(t, "verify", "heat_9d", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result VerifyResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeCheckFailed, resp.Error.Code)
	require.Len(t, result.Kinds, 1)
	assert.Equal(t, StatusFailed, result.Kinds[0].Status)
	assert.Contains(t, result.Kinds[0].Error, "UNKNOWN_KIND")
	assert.NotContains(t, errOut, "ABORTING", "verify never aborts")
}

// newVerifyOptions builds options as the root command would after setup.
func newVerifyOptions(db string) *VerifyOptions {
	return &VerifyOptions{
		RootOptions: &RootOptions{
			Format: "text",
			Config: config.Defaults(),
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
		Database: db,
		RunIDs:   testutil.NewFixedRunIDs(""),
	}
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetContext(context.Background())
	return cmd, out
}

func TestVerifyWritesJournal(t *testing.T) {
	db := filepath.Join(t.TempDir(), "masa.db")
	opts := newVerifyOptions(db)

	cmd, out := newTestCommand()
	require.NoError(t, runVerify[float64](opts, []string{"masa_test_function", "heat_1d_steady_const"}, cmd))
	assert.Contains(t, out.String(), "Journal run: test-run-0001")

	cmd, _ = newTestCommand()
	require.NoError(t, runVerify[float32](opts, []string{"masa_test_function"}, cmd))

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	runs, err := st.ReadRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "test-run-0001", runs[0].ID)
	assert.Equal(t, ir.PrecisionDouble, runs[0].Precision)
	assert.Equal(t, ir.PrecisionSingle, runs[1].Precision)

	checks, err := st.ReadChecks(ctx, "test-run-0001")
	require.NoError(t, err)
	require.NotEmpty(t, checks)
	assert.Equal(t, ir.UserName("masa_test_function"), checks[0].User)
	assert.Equal(t, CheckSanity, checks[0].Check)
	assert.Equal(t, 1.0, checks[0].Params["demo_var_1"])
	for i, c := range checks {
		assert.Equal(t, int64(i+1), c.Seq)
		assert.True(t, c.Passed, "%s %s", c.Kind, c.Check)
	}

	history, err := st.ReadKindHistory(ctx, "masa_test_function")
	require.NoError(t, err)
	assert.Equal(t, "test-run-0001", history[0].RunID)
	assert.Equal(t, "test-run-0002", history[len(history)-1].RunID)
}

func TestVerifyJournalSkipsUnconfiguredKinds(t *testing.T) {
	db := filepath.Join(t.TempDir(), "masa.db")
	opts := newVerifyOptions(db)

	cmd, _ := newTestCommand()
	require.NoError(t, runVerify[float64](opts, nil, cmd))

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	history, err := st.ReadKindHistory(context.Background(), "masa_uninit")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestVerifyDatabaseFromConfig(t *testing.T) {
	opts := newVerifyOptions("")
	assert.Empty(t, opts.database())

	opts.Config.DB = "from-config.db"
	assert.Equal(t, "from-config.db", opts.database())

	opts.Database = "flag.db"
	assert.Equal(t, "flag.db", opts.database())
}
