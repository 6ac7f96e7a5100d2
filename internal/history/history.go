// Package history persists one row per completed build, so outcomes
// survive process restarts and `sitebuilder history` can list them.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/sitebuilder/internal/build"
)

// Record is one persisted build.
type Record struct {
	BuildID  string
	Started  time.Time
	Finished time.Time
	Outcome  string
	Folders  int
	Files    int
	Failed   int
	Errors   int
	Warnings int
}

// Duration returns the recorded wall-clock build time.
func (r Record) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// Store is a SQLite-backed build log. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the build log at path, including its
// parent directory.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		started INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		folders INTEGER NOT NULL,
		files INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordBuild appends the finished report as a row. Timestamps are stored
// with millisecond precision so short builds keep a usable duration.
func (s *Store) RecordBuild(ctx context.Context, rep *build.Report) error {
	return s.Add(ctx, Record{
		BuildID:  rep.BuildID,
		Started:  rep.Start,
		Finished: rep.End,
		Outcome:  string(rep.Outcome),
		Folders:  rep.Folders,
		Files:    rep.Files,
		Failed:   rep.FilesFailed,
		Errors:   len(rep.Errors()),
		Warnings: len(rep.Warnings()),
	})
}

// Add appends one record.
func (s *Store) Add(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (build_id, started, finished, outcome, folders, files, failed, errors, warnings)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.BuildID, rec.Started.UnixMilli(), rec.Finished.UnixMilli(), rec.Outcome,
		rec.Folders, rec.Files, rec.Failed, rec.Errors, rec.Warnings,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// Recent returns up to n builds, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT build_id, started, finished, outcome, folders, files, failed, errors, warnings
		 FROM builds ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		var started, finished int64
		if err := rows.Scan(&rec.BuildID, &started, &finished, &rec.Outcome,
			&rec.Folders, &rec.Files, &rec.Failed, &rec.Errors, &rec.Warnings); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		rec.Started = time.UnixMilli(started)
		rec.Finished = time.UnixMilli(finished)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return recs, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
