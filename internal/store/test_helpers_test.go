package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/verify"
)

// createTestStore opens a fresh journal in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestReport builds a report with one passing and one failing result.
func createTestReport(kind ir.KindName) verify.Report {
	return verify.Report{
		Kind: kind,
		Results: []verify.Result{
			{Check: "gradient", Field: ir.FieldT, Axis: 0, Points: 4, MaxAbsErr: 1e-9, Passed: true},
			{Check: "heat_residual", Field: ir.FieldT, Axis: -1, Points: 4, MaxAbsErr: 0.5, Passed: false},
		},
	}
}
