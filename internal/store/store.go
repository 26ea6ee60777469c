package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// journalPragma is a connection setting applied on every Open.
type journalPragma struct {
	name, value string
}

// Verify runs come from one CLI process at a time; WAL keeps `masa history`
// readable while a run is being appended.
var journalPragmas = []journalPragma{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
	{"foreign_keys", "ON"},
}

// migration upgrades a journal written by an older build. Versions are
// stored in PRAGMA user_version and applied in order.
type migration struct {
	version int
	purpose string
	stmts   []string
}

// journalMigrations is the upgrade ledger. Version 0 is a journal holding
// only the base tables of schema.sql.
var journalMigrations = []migration{
	{
		version: 1,
		purpose: "index checks by kind for per-kind history",
		stmts: []string{
			`CREATE INDEX IF NOT EXISTS idx_checks_kind ON checks(kind, seq)`,
		},
	},
}

// journalVersion is the version a freshly opened journal ends up at.
var journalVersion = journalMigrations[len(journalMigrations)-1].version

// Store is the SQLite-backed verification journal.
type Store struct {
	db *sql.DB
}

// Open opens the journal at path, creating it when absent, and brings its
// tables up to journalVersion. A journal written by a newer build is
// rejected rather than downgraded.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	// One writer per journal.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.prepare(); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare journal %s: %w", path, err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) prepare() error {
	for _, p := range journalPragmas {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("base tables: %w", err)
	}
	return s.migrate()
}

// migrate applies every ledger entry above the journal's stored version,
// each in its own transaction together with the version bump.
func (s *Store) migrate() error {
	have, err := s.version()
	if err != nil {
		return err
	}
	if have > journalVersion {
		return fmt.Errorf("journal version %d is newer than supported version %d", have, journalVersion)
	}

	for _, m := range journalMigrations {
		if m.version <= have {
			continue
		}
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		for _, stmt := range m.stmts {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d (%s): %w", m.version, m.purpose, err)
			}
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
	}
	return nil
}

// version returns the journal's stored schema version.
func (s *Store) version() (int, error) {
	var v int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read journal version: %w", err)
	}
	return v, nil
}

// pragma returns the current value of a connection setting.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}
