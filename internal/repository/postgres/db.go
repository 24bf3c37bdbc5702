package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/ignite/newsletter/internal/config"
)

// pingTimeout bounds the connectivity check in Open.
const pingTimeout = 10 * time.Second

// Open creates a connection pool sized from cfg and verifies it with a ping.
// The caller owns the returned pool and must Close it.
func Open(ctx context.Context, cfg config.DatabaseSettings) (*sql.DB, error) {
	dsn := cfg.ConnectionString()
	db, err := sql.Open("postgres", dsn.Expose())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime())

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return db, nil
}

// Schema creates the subscriptions table when it does not exist. Used by
// tests and local development; production schemas are managed out of band.
const Schema = `
CREATE TABLE IF NOT EXISTS subscriptions (
	id            uuid PRIMARY KEY,
	email         text NOT NULL,
	name          text NOT NULL,
	subscribed_at timestamptz NOT NULL
)`
