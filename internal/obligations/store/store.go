// Package store keeps proof obligations in a SQLite database so that runs
// can be compared and handed to a prover later.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/funvibe/mathsema/internal/obligations"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	count      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS obligations (
	run_id  TEXT NOT NULL REFERENCES runs(id),
	seq     INTEGER NOT NULL,
	module  TEXT NOT NULL,
	kind    TEXT NOT NULL,
	name    TEXT NOT NULL,
	text    TEXT NOT NULL,
	type    TEXT NOT NULL,
	file    TEXT NOT NULL,
	line    INTEGER NOT NULL,
	col     INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// Run summarizes one recorded analysis.
type Run struct {
	ID        string
	CreatedAt time.Time
	Count     int
}

// Store is an obligation database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening obligation store %s: %w", path, err)
	}
	// one connection keeps an in-memory database alive between calls
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating obligation schema in %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores the obligations of one run. Recording the same run twice
// is an error.
func (s *Store) Record(ctx context.Context, runID string, items []obligations.Obligation) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", runID, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `INSERT INTO runs (id, created_at, count) VALUES (?, ?, ?)`,
		runID, time.Now().UnixNano(), len(items)); err != nil {
		return fmt.Errorf("recording run %s: %w", runID, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO obligations
		(run_id, seq, module, kind, name, text, type, file, line, col)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", runID, err)
	}
	defer stmt.Close()

	for i, o := range items {
		if _, err = stmt.ExecContext(ctx, runID, i, o.Module, string(o.Kind), o.Name, o.Text, o.Type, o.File, o.Line, o.Column); err != nil {
			return fmt.Errorf("recording obligation %d of run %s: %w", i, runID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("recording run %s: %w", runID, err)
	}
	return nil
}

// List returns the obligations of a run in submission order.
func (s *Store) List(ctx context.Context, runID string) ([]obligations.Obligation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT module, kind, name, text, type, file, line, col
		FROM obligations WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []obligations.Obligation
	for rows.Next() {
		o := obligations.Obligation{RunID: runID}
		var kind string
		if err := rows.Scan(&o.Module, &kind, &o.Name, &o.Text, &o.Type, &o.File, &o.Line, &o.Column); err != nil {
			return nil, fmt.Errorf("listing run %s: %w", runID, err)
		}
		o.Kind = obligations.Kind(kind)
		out = append(out, o)
	}
	return out, rows.Err()
}

// Runs returns every recorded run, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at, count FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var nanos int64
		if err := rows.Scan(&r.ID, &nanos, &r.Count); err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		r.CreatedAt = time.Unix(0, nanos)
		out = append(out, r)
	}
	return out, rows.Err()
}
