package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"bluecarbon/internal/config"
)

// Store persists draft review comments in SQLite so the verifier can resume
// an interrupted session.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore initializes or connects to the draft comment database.
func OpenStore(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "review.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) applyMigrations(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS draft_comments (
        project_id TEXT PRIMARY KEY,
        comment TEXT NOT NULL,
        updated_at TEXT NOT NULL
    )`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SaveComment upserts the draft comment for a project. An empty comment
// removes the draft instead of storing a blank row.
func (s *Store) SaveComment(ctx context.Context, projectID, comment string) error {
	if comment == "" {
		return s.DeleteComment(ctx, projectID)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO draft_comments (project_id, comment, updated_at)
         VALUES (?, ?, ?)
         ON CONFLICT(project_id) DO UPDATE SET comment = excluded.comment, updated_at = excluded.updated_at`,
		projectID, comment, now,
	)
	if err != nil {
		return fmt.Errorf("save draft comment: %w", err)
	}
	return nil
}

// Comment returns the draft comment for a project, or the empty string when
// none was saved.
func (s *Store) Comment(ctx context.Context, projectID string) (string, error) {
	var comment string
	err := s.db.QueryRowContext(
		ctx,
		`SELECT comment FROM draft_comments WHERE project_id = ?`,
		projectID,
	).Scan(&comment)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load draft comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes the draft for a project. Missing rows are not an
// error.
func (s *Store) DeleteComment(ctx context.Context, projectID string) error {
	if _, err := s.db.ExecContext(
		ctx,
		`DELETE FROM draft_comments WHERE project_id = ?`,
		projectID,
	); err != nil {
		return fmt.Errorf("delete draft comment: %w", err)
	}
	return nil
}

// Comments returns all stored drafts keyed by project id.
func (s *Store) Comments(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT project_id, comment FROM draft_comments`)
	if err != nil {
		return nil, fmt.Errorf("list draft comments: %w", err)
	}
	defer rows.Close()

	drafts := make(map[string]string)
	for rows.Next() {
		var id, comment string
		if err := rows.Scan(&id, &comment); err != nil {
			return nil, fmt.Errorf("scan draft comment: %w", err)
		}
		drafts[id] = comment
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draft comments: %w", err)
	}
	return drafts, nil
}
