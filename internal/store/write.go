package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/masa/internal/ir"
	"github.com/roach88/masa/internal/verify"
)

// Run is one verify invocation.
type Run struct {
	ID            string       `json:"id"`
	Precision     ir.Precision `json:"precision"`
	Seq           int64        `json:"seq"`
	SchemaVersion string       `json:"schema_version"`
	TableVersion  string       `json:"table_version"`
}

// CheckRecord is one consistency check of one instance within a run.
type CheckRecord struct {
	ID         string             `json:"id"`
	RunID      string             `json:"run_id"`
	Seq        int64              `json:"seq"`
	User       ir.UserName        `json:"user_name"`
	Kind       ir.KindName        `json:"kind"`
	Check      string             `json:"check"`
	Field      ir.Field           `json:"field,omitempty"`
	Axis       int                `json:"axis"`
	Passed     bool               `json:"passed"`
	MaxAbsErr  float64            `json:"max_abs_err"`
	ParamsHash string             `json:"params_hash"`
	Params     map[string]float64 `json:"params"`
}

// RunIDGenerator produces run identifiers.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7 generates time-ordered UUIDv7 run IDs.
type UUIDv7 struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// BeginRun inserts a run row with the next run sequence number.
func (s *Store) BeginRun(ctx context.Context, precision ir.Precision, ids RunIDGenerator) (Run, error) {
	if ids == nil {
		ids = UUIDv7{}
	}

	var last int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM runs`).Scan(&last); err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}

	run := Run{
		ID:            ids.Generate(),
		Precision:     precision,
		Seq:           last + 1,
		SchemaVersion: ir.SchemaVersion,
		TableVersion:  ir.TableVersion,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, precision, seq, schema_version, table_version)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, string(run.Precision), run.Seq, run.SchemaVersion, run.TableVersion)
	if err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}

	return run, nil
}

// RecordReport appends one check row per result in report for instance
// user of the run. params is the instance's parameter snapshot at check
// time. Rows are written in one transaction and get consecutive seq
// numbers after the run's last check. The written records are returned.
func (s *Store) RecordReport(ctx context.Context, run Run, user ir.UserName, params map[string]float64, report verify.Report) ([]CheckRecord, error) {
	paramsJSON, err := marshalParams(params)
	if err != nil {
		return nil, fmt.Errorf("record report: %w", err)
	}
	hash, err := ir.ParamsHash(run.Precision, report.Kind, params)
	if err != nil {
		return nil, fmt.Errorf("record report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("record report: %w", err)
	}
	defer tx.Rollback()

	seq, err := lastCheckSeq(ctx, tx, run.ID)
	if err != nil {
		return nil, err
	}

	records := make([]CheckRecord, 0, len(report.Results))
	for _, res := range report.Results {
		seq++
		id, err := ir.CheckID(run.ID, user, res.Check, seq)
		if err != nil {
			return nil, fmt.Errorf("record report: %w", err)
		}
		rec := CheckRecord{
			ID:         id,
			RunID:      run.ID,
			Seq:        seq,
			User:       user,
			Kind:       report.Kind,
			Check:      res.Check,
			Field:      res.Field,
			Axis:       res.Axis,
			Passed:     res.Passed,
			MaxAbsErr:  res.MaxAbsErr,
			ParamsHash: hash,
			Params:     params,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO checks
			(id, run_id, seq, user_name, kind, check_name, field, axis, passed, max_abs_err, params_hash, params)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			rec.ID,
			rec.RunID,
			rec.Seq,
			string(rec.User),
			string(rec.Kind),
			rec.Check,
			string(rec.Field),
			rec.Axis,
			boolToInt(rec.Passed),
			rec.MaxAbsErr,
			rec.ParamsHash,
			paramsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("record report: %w", err)
		}
		records = append(records, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("record report: %w", err)
	}
	return records, nil
}

func lastCheckSeq(ctx context.Context, tx *sql.Tx, runID string) (int64, error) {
	var seq int64
	err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM checks WHERE run_id = ?`, runID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("read last check seq: %w", err)
	}
	return seq, nil
}
