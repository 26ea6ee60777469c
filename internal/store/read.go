package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/masa/internal/ir"
)

// ErrRunNotFound is returned when a run ID is not in the journal.
var ErrRunNotFound = errors.New("run not found")

// ReadRuns returns every run ordered by seq. Returns an empty slice (not
// nil) for an empty journal.
func (s *Store) ReadRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, precision, seq, schema_version, table_version
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns one run by ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, precision, seq, schema_version, table_version
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// LatestRun returns the run with the highest seq. The boolean is false
// for an empty journal.
func (s *Store) LatestRun(ctx context.Context) (Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, precision, seq, schema_version, table_version
		FROM runs
		ORDER BY seq DESC
		LIMIT 1
	`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

// ReadChecks returns the checks of a run ordered by seq.
func (s *Store) ReadChecks(ctx context.Context, runID string) ([]CheckRecord, error) {
	return s.queryChecks(ctx, `
		SELECT id, run_id, seq, user_name, kind, check_name, field, axis, passed, max_abs_err, params_hash, params
		FROM checks
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
}

// ReadKindHistory returns every check recorded for kind across runs, in
// run order then check order.
func (s *Store) ReadKindHistory(ctx context.Context, kind ir.KindName) ([]CheckRecord, error) {
	return s.queryChecks(ctx, `
		SELECT c.id, c.run_id, c.seq, c.user_name, c.kind, c.check_name, c.field, c.axis, c.passed, c.max_abs_err, c.params_hash, c.params
		FROM checks c
		JOIN runs r ON c.run_id = r.id
		WHERE c.kind = ?
		ORDER BY r.seq ASC, c.seq ASC, c.id COLLATE BINARY ASC
	`, string(kind))
}

func (s *Store) queryChecks(ctx context.Context, query string, args ...any) ([]CheckRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	records := []CheckRecord{}
	for rows.Next() {
		rec, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checks: %w", err)
	}
	return records, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		precision string
	)
	if err := row.Scan(&run.ID, &precision, &run.Seq, &run.SchemaVersion, &run.TableVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Precision = ir.Precision(precision)
	return run, nil
}

func scanCheck(row scanner) (CheckRecord, error) {
	var (
		rec               CheckRecord
		user, kind, field string
		passed            int
		paramsJSON        string
	)
	err := row.Scan(
		&rec.ID,
		&rec.RunID,
		&rec.Seq,
		&user,
		&kind,
		&rec.Check,
		&field,
		&rec.Axis,
		&passed,
		&rec.MaxAbsErr,
		&rec.ParamsHash,
		&paramsJSON,
	)
	if err != nil {
		return CheckRecord{}, fmt.Errorf("scan check: %w", err)
	}
	rec.User = ir.UserName(user)
	rec.Kind = ir.KindName(kind)
	rec.Field = ir.Field(field)
	rec.Passed = passed != 0
	rec.Params, err = unmarshalParams(paramsJSON)
	if err != nil {
		return CheckRecord{}, err
	}
	return rec, nil
}
