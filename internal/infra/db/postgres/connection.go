package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewPgxPool opens a pgx pool against the configured URL.
func NewPgxPool(ctx context.Context, url string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the tables this driver needs. Messages are immutable
// and content-addressed; chats carry the mutable head; chat_index keeps the
// first-registration order.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS messages (
  id      TEXT PRIMARY KEY,
  role    TEXT NOT NULL,
  content TEXT NOT NULL,
  parent  TEXT NULL
);
CREATE TABLE IF NOT EXISTS chats (
  title TEXT PRIMARY KEY,
  head  TEXT NULL
);
CREATE TABLE IF NOT EXISTS chat_index (
  position BIGSERIAL PRIMARY KEY,
  title    TEXT NOT NULL UNIQUE
);`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
