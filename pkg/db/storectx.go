package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BeginTxWithStore starts a transaction and sets app.store_id for RLS.
// Call tx.Rollback(ctx) on error paths; Commit on success.
func BeginTxWithStore(ctx context.Context, pool *pgxpool.Pool, storeID string) (pgx.Tx, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, "SELECT set_config('app.store_id', $1, true)", storeID); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	return tx, nil
}
