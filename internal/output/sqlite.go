// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/neonatal-trials/internal/aggregate"
	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// SQLiteSink exports records and report tables to a SQLite file. It is
// write-only: nothing in the pipeline reads the file back.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and its base schema.
func OpenSQLite(path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteSink{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func (s *SQLiteSink) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			term TEXT,
			fetched_at TEXT,
			records INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS trials (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(run_id),
			nct_id TEXT NOT NULL,
			title TEXT,
			year INTEGER,
			sponsor_class TEXT,
			status TEXT,
			study_type TEXT,
			conditions TEXT,
			intervention_types TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trials_run_id ON trials(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trials_nct_id ON trials(nct_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// WriteRecords stores one run and its records in a single transaction.
// Multi-valued fields are stored joined, as in flat output.
func (s *SQLiteSink) WriteRecords(ctx context.Context, run types.Run, records []types.TrialRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (run_id, term, fetched_at, records) VALUES (?, ?, ?, ?)`,
		run.ID, run.Term, run.FetchedAt.UTC().Format(time.RFC3339), len(records),
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM trials WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("clearing run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO trials
		(run_id, nct_id, title, year, sponsor_class, status, study_type, conditions, intervention_types)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var year sql.NullInt64
		if r.Year != nil {
			year = sql.NullInt64{Int64: int64(*r.Year), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			run.ID, r.ID, r.Title, year, r.SponsorClass, r.Status, r.StudyType,
			aggregate.Join(r.Conditions), aggregate.Join(r.InterventionTypes),
		); err != nil {
			return fmt.Errorf("inserting %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// WriteTable replaces table name with the contents of t. Column types are
// left to SQLite's dynamic typing.
func (s *SQLiteSink) WriteTable(ctx context.Context, name string, t types.Table) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", name)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c)
		marks[i] = "?"
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return fmt.Errorf("dropping %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)",
		quoteIdent(name), strings.Join(cols, ", "))); err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for _, row := range t.Rows {
		for i := range args {
			args[i] = nil
			if i < len(row) {
				args[i] = row[i]
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", name, err)
		}
	}
	return tx.Commit()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
