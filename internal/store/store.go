// Package store persists control-plane entities in Postgres. It is a thin
// layer of raw SQL over pgx, with no ORM or session tracking. Every lookup by
// URI treats absence as ErrNotFound, which callers handle as a hard failure
// rather than a retry condition.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a URI does not resolve to a persisted entity.
var ErrNotFound = errors.New("store: entity not found")

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to Postgres using the given URL and pings the database.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// notFound maps pgx's no-rows sentinel onto ErrNotFound, annotated with the
// entity kind and URI for the caller's logs.
func notFound(err error, kind, uri string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrapf(ErrNotFound, "%s %q", kind, uri)
	}
	return errors.Wrapf(err, "query %s %q", kind, uri)
}
