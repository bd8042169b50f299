// Package history persists completed census runs to SQLite so past crawls
// can be listed and reloaded without hitting the wiki again.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"lessonlab/internal/bestiary"
)

// Run is one completed census crawl.
type Run struct {
	ID         string
	SourceURL  string
	Pages      int
	Total      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store manages the census run database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens the run store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, dbPath: path}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source_url TEXT NOT NULL,
		pages INTEGER NOT NULL,
		total INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_letters (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		letter TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, letter)
	);
	CREATE INDEX IF NOT EXISTS idx_run_letters_run ON run_letters(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores a finished run and its per-letter counts in one
// transaction, returning the new run ID.
func (s *Store) RecordRun(ctx context.Context, run Run, census bestiary.Census) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.Total = census.Total()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source_url, pages, total, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourceURL, run.Pages, run.Total, run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_letters (run_id, letter, count) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare letter insert: %w", err)
	}
	defer stmt.Close()

	for _, letter := range census.Letters() {
		if _, err := stmt.ExecContext(ctx, run.ID, letter, census[letter]); err != nil {
			return "", fmt.Errorf("insert letter %q: %w", letter, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return run.ID, nil
}

// Runs lists recent runs, newest first. A limit < 1 means no limit.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, source_url, pages, total, started_at, finished_at
	          FROM runs ORDER BY finished_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SourceURL, &r.Pages, &r.Total, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunCensus reloads the per-letter counts of a saved run.
func (s *Store) RunCensus(ctx context.Context, runID string) (bestiary.Census, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT letter, count FROM run_letters WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run letters: %w", err)
	}
	defer rows.Close()

	census := make(bestiary.Census)
	for rows.Next() {
		var letter string
		var count int
		if err := rows.Scan(&letter, &count); err != nil {
			return nil, fmt.Errorf("scan letter: %w", err)
		}
		census[letter] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(census) == 0 {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	return census, nil
}
