package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/001_users.up.sql
var usersMigrationSQL string

// EnsureSchema applies the users migration when the table is missing.
// The SQL uses IF NOT EXISTS so it is safe to re-run.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = 'users'
		)
	`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check users table: %w", err)
	}

	if !exists {
		slog.Info("users table missing; applying initial migration")
		if _, err := db.Pool.Exec(ctx, usersMigrationSQL); err != nil {
			return fmt.Errorf("apply users migration: %w", err)
		}
	}

	slog.Info("database schema ensured")
	return nil
}
