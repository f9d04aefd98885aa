package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"todo-api/internal/config"
	"todo-api/pkg/logger"
)

// Open creates the Postgres connection pool and verifies it with a ping.
// The pool is built once at startup and shared by every request.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBPoolSize)
	db.SetMaxIdleConns(max(cfg.DBPoolSize/2, 1))

	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info(ctx, "Database pool initialized", "max_open", cfg.DBPoolSize)
	return db, nil
}

// SchemaSQL returns the idempotent DDL for the items table.
func SchemaSQL(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + pq.QuoteIdentifier(table) + ` (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	checked    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
)`
}

// EnsureSchema creates the items table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB, table string) error {
	if _, err := db.ExecContext(ctx, SchemaSQL(table)); err != nil {
		return fmt.Errorf("ensure schema %s: %w", table, err)
	}
	logger.Info(ctx, "Schema ensured", "table", table)
	return nil
}
