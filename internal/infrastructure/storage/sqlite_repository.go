// Package storage persists view profiles.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_profiles (
  user_id      TEXT PRIMARY KEY,
  document     TEXT NOT NULL,
  created_at   DATETIME NOT NULL,
  last_updated DATETIME NOT NULL
);`

// SQLiteRepository stores each profile as one JSON document keyed by user id.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.ProfileRepository = (*SQLiteRepository)(nil)

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// LoadProfile returns nil, nil when the user has no stored profile.
func (r *SQLiteRepository) LoadProfile(ctx context.Context, userID string) (*domain.UserViewProfile, error) {
	query, args, err := sq.Select("document").
		From("user_profiles").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var doc string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}

	var profile domain.UserViewProfile
	if err := json.Unmarshal([]byte(doc), &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile upserts the profile document.
func (r *SQLiteRepository) SaveProfile(ctx context.Context, profile domain.UserViewProfile) error {
	if profile.UserID == "" {
		return &domain.ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	created := profile.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	updated := profile.LastUpdated
	if updated.IsZero() {
		updated = created
	}

	query, args, err := sq.Insert("user_profiles").
		Columns("user_id", "document", "created_at", "last_updated").
		Values(profile.UserID, string(doc), created, updated).
		Suffix("ON CONFLICT(user_id) DO UPDATE SET document = excluded.document, last_updated = excluded.last_updated").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
