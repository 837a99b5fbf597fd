package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id    TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		sex        TEXT NOT NULL CHECK (sex IN ('male', 'female')),
		age        INTEGER NOT NULL,
		weight_kg  DOUBLE PRECISION NOT NULL,
		height_cm  DOUBLE PRECISION NOT NULL,
		activity   TEXT NOT NULL,
		tdee       DOUBLE PRECISION NOT NULL,
		macros     JSONB,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS daily_logs (
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date_iso   TEXT NOT NULL CHECK (date_iso ~ '^[0-9]{4}-[0-9]{2}-[0-9]{2}$'),
		entries    JSONB NOT NULL DEFAULT '[]',
		total_kcal DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (total_kcal >= 0),
		version    INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, date_iso)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_logs_user_updated ON daily_logs (user_id, updated_at)`,
	`CREATE TABLE IF NOT EXISTS weekly_stats (
		user_id    TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		summary    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the tables when missing. It is safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: statement %d: %w", i, err)
		}
	}
	return nil
}
