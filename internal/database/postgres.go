package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pgxpoolNew = pgxpool.New
	poolPing   = func(ctx context.Context, p *pgxpool.Pool) error { return p.Ping(ctx) }
	poolClose  = func(p *pgxpool.Pool) { p.Close() }
)

// NewPgxPool opens the pool and verifies connectivity before returning it;
// pgxpool.New itself connects lazily.
func NewPgxPool(ctx context.Context, url string) (DB, error) {
	pool, err := pgxpoolNew(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := poolPing(pingCtx, pool); err != nil {
		poolClose(pool)
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
