// Package scanstore persists corpus scan results to SQLite asynchronously.
// The scan CLI walks a directory of documents and records one row per file:
// content hash, parse status, structural counts, and timing.
package scanstore

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/hwpread/dbopen"
)

// Schema for the scans table. Call Store.Init() or apply manually.
const Schema = `
CREATE TABLE IF NOT EXISTS scans (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL,
	sha256 TEXT NOT NULL,
	size_bytes INTEGER NOT NULL,
	status TEXT NOT NULL,
	error TEXT,
	sections INTEGER NOT NULL DEFAULT 0,
	paragraphs INTEGER NOT NULL DEFAULT 0,
	tables INTEGER NOT NULL DEFAULT 0,
	warnings INTEGER NOT NULL DEFAULT 0,
	duration_us INTEGER NOT NULL,
	scanned_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scans_sha ON scans(sha256);
CREATE INDEX IF NOT EXISTS idx_scans_status ON scans(status);
`

// Result is one scanned file's outcome. Status is "ok" for a clean parse,
// otherwise the failure classification.
type Result struct {
	Path       string
	SHA256     string
	SizeBytes  int64
	Status     string
	Error      string
	Sections   int
	Paragraphs int
	Tables     int
	Warnings   int
	DurationUs int64
	ScannedAt  int64
}

// Store persists scan results asynchronously in batches.
type Store struct {
	db   *sql.DB
	ch   chan *Result
	done chan struct{}
	once sync.Once
}

// NewStore creates a scan store backed by the given database connection.
func NewStore(db *sql.DB) *Store {
	s := &Store{
		db:   db,
		ch:   make(chan *Result, 1024),
		done: make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Init creates the scans table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// RecordAsync queues a result for async persistence. Non-blocking; drops if
// the buffer is full so a slow disk never stalls the scan workers.
func (s *Store) RecordAsync(r *Result) {
	select {
	case s.ch <- r:
	default:
	}
}

// Close drains the buffer and stops the flush goroutine.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.ch)
		<-s.done
	})
	return nil
}

func (s *Store) flushLoop() {
	defer close(s.done)

	batch := make([]*Result, 0, 64)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case r, ok := <-s.ch:
			if !ok {
				s.flushBatch(batch)
				return
			}
			batch = append(batch, r)
			if len(batch) >= 64 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Store) flushBatch(batch []*Result) {
	if len(batch) == 0 {
		return
	}

	err := dbopen.RunTx(context.Background(), s.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO scans
			(path, sha256, size_bytes, status, error, sections, paragraphs, tables, warnings, duration_us, scanned_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range batch {
			if _, err := stmt.Exec(r.Path, r.SHA256, r.SizeBytes, r.Status, r.Error,
				r.Sections, r.Paragraphs, r.Tables, r.Warnings, r.DurationUs, r.ScannedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("scan store: flush batch", "error", err)
	}
}

// Recent returns the latest scan rows, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		path, sha256, size_bytes, status, COALESCE(error, ''),
		sections, paragraphs, tables, warnings, duration_us, scanned_at
		FROM scans ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Path, &r.SHA256, &r.SizeBytes, &r.Status, &r.Error,
			&r.Sections, &r.Paragraphs, &r.Tables, &r.Warnings, &r.DurationUs, &r.ScannedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountByStatus returns row counts grouped by status.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM scans GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
