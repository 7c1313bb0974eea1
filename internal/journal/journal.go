package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"
)

// Run is one executed sweep: which chat, which direction, how many topics
// were attempted and how many of those calls failed.
type Run struct {
	ChatID int64
	Action string // "close" or "open"
	Topics int
	Failed int
	At     time.Time // UTC
}

// Journal records executed sweeps in an embedded SQLite database.
type Journal struct{ db *sql.DB }

// Open opens (or creates) the journal database at the given path, applies
// PRAGMAs, runs SQL migrations, and returns the journal.
func Open(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single-writer engine; keep one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &Journal{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one run.
func (j *Journal) Record(ctx context.Context, r Run) error {
	at := r.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (chat_id, action, topics, failed, at)
		VALUES (?, ?, ?, ?, ?)`,
		r.ChatID, r.Action, r.Topics, r.Failed, at.UTC().Unix(),
	)
	return err
}

// LastRun returns the most recent run of the given action for a chat,
// or nil if the chat has no such run yet.
func (j *Journal) LastRun(ctx context.Context, chatID int64, action string) (*Run, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT chat_id, action, topics, failed, at
		FROM runs
		WHERE chat_id = ? AND action = ?
		ORDER BY at DESC, id DESC
		LIMIT 1`,
		chatID, action,
	)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Recent returns up to limit latest runs for a chat, newest first.
func (j *Journal) Recent(ctx context.Context, chatID int64, limit int) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT chat_id, action, topics, failed, at
		FROM runs
		WHERE chat_id = ?
		ORDER BY at DESC, id DESC
		LIMIT ?`,
		chatID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		r  Run
		at int64
	)
	if err := s.Scan(&r.ChatID, &r.Action, &r.Topics, &r.Failed, &at); err != nil {
		return nil, err
	}
	r.At = time.Unix(at, 0).UTC()
	return &r, nil
}
