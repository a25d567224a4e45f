package storage

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xelkar/shopcart/db"
)

const (
	getStateSQL = `SELECT value FROM session_state WHERE session_id = $1 AND key = $2`

	setStateSQL = `INSERT INTO session_state (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (session_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	removeStateSQL = `DELETE FROM session_state WHERE session_id = $1 AND key = $2`
)

// NewPool creates a pgx connection pool for the given database URL.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	return pool, nil
}

// RunMigrations executes the embedded DDL schema against the pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, db.Schema); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

var _ Store = (*Postgres)(nil)

// Postgres is a Store backed by a single session_state table, one row per
// (session, key) pair with the document in a JSONB column.
type Postgres struct {
	pool      *pgxpool.Pool
	sessionID string
}

// NewPostgres returns a Postgres store scoped to the given session id.
func NewPostgres(pool *pgxpool.Pool, sessionID string) *Postgres {
	return &Postgres{pool: pool, sessionID: sessionID}
}

// Get returns the document stored under key, or ErrNotFound.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.pool.QueryRow(ctx, getStateSQL, p.sessionID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting state %q: %w", key, err)
	}
	return value, nil
}

// Set upserts the document under key.
func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	if _, err := p.pool.Exec(ctx, setStateSQL, p.sessionID, key, value); err != nil {
		return fmt.Errorf("setting state %q: %w", key, err)
	}
	return nil
}

// Remove deletes the document under key. Absent keys are not an error.
func (p *Postgres) Remove(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, removeStateSQL, p.sessionID, key); err != nil {
		return fmt.Errorf("removing state %q: %w", key, err)
	}
	return nil
}
