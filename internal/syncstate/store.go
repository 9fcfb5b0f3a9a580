// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package syncstate persists the last-synced modification time for
// every converted page, so repeat sync runs skip unchanged sources.
package syncstate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "remarksync.db"

// Store manages the sync-state SQLite database.
type Store struct {
	db *sql.DB
}

// NotebookRecord summarizes one synced notebook.
type NotebookRecord struct {
	ID         string
	Name       string
	PageCount  int
	LastSynced time.Time
}

// PageRecord tracks one source page and the output written for it.
type PageRecord struct {
	ID         string
	NotebookID string
	SourcePath string
	OutputPath string
	ModTime    time.Time
	SyncedAt   time.Time
}

// Open opens or creates the sync-state database under dir, creating the
// schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS notebooks (
			id TEXT PRIMARY KEY,
			name TEXT,
			page_count INTEGER,
			last_synced TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS pages (
			id TEXT PRIMARY KEY,
			notebook_id TEXT,
			source_path TEXT,
			output_path TEXT,
			file_mod_time TEXT,
			synced_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_notebook_id ON pages(notebook_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// timeFmt stores mod times at full resolution; skip decisions compare
// the stored string against the freshly formatted one.
const timeFmt = time.RFC3339Nano

// NeedsSync reports whether the page must be (re-)converted: true when
// it has never been synced or its recorded mod time differs from
// modTime.
func (s *Store) NeedsSync(ctx context.Context, pageID string, modTime time.Time) (bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM pages WHERE id = ?`, pageID,
	).Scan(&stored)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying page %s: %w", pageID, err)
	}
	return stored != modTime.UTC().Format(timeFmt), nil
}

// MarkSynced upserts the page's sync record.
func (s *Store) MarkSynced(ctx context.Context, rec PageRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (id, notebook_id, source_path, output_path, file_mod_time, synced_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			notebook_id=excluded.notebook_id, source_path=excluded.source_path,
			output_path=excluded.output_path, file_mod_time=excluded.file_mod_time,
			synced_at=excluded.synced_at`,
		rec.ID, rec.NotebookID, rec.SourcePath, rec.OutputPath,
		rec.ModTime.UTC().Format(timeFmt), rec.SyncedAt.UTC().Format(timeFmt),
	)
	if err != nil {
		return fmt.Errorf("recording page %s: %w", rec.ID, err)
	}
	return nil
}

// RecordNotebook upserts the notebook summary row.
func (s *Store) RecordNotebook(ctx context.Context, rec NotebookRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notebooks (id, name, page_count, last_synced)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, page_count=excluded.page_count,
			last_synced=excluded.last_synced`,
		rec.ID, rec.Name, rec.PageCount, rec.LastSynced.UTC().Format(timeFmt),
	)
	if err != nil {
		return fmt.Errorf("recording notebook %s: %w", rec.ID, err)
	}
	return nil
}

// Forget removes a page's sync record so the next run re-converts it.
func (s *Store) Forget(ctx context.Context, pageID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, pageID); err != nil {
		return fmt.Errorf("forgetting page %s: %w", pageID, err)
	}
	return nil
}

// Pages lists every recorded page, most recently synced first.
func (s *Store) Pages(ctx context.Context) ([]PageRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, notebook_id, source_path, output_path, file_mod_time, synced_at
		 FROM pages ORDER BY synced_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer rows.Close()

	var records []PageRecord
	for rows.Next() {
		var rec PageRecord
		var modTime, syncedAt string
		if err := rows.Scan(&rec.ID, &rec.NotebookID, &rec.SourcePath, &rec.OutputPath, &modTime, &syncedAt); err != nil {
			return nil, fmt.Errorf("scanning page row: %w", err)
		}
		rec.ModTime, _ = time.Parse(timeFmt, modTime)
		rec.SyncedAt, _ = time.Parse(timeFmt, syncedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}
