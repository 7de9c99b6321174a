// pkg/permissions/postgres.go
package permissions

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureCatalog seeds the permission table from the canonical catalog inside a
// single transaction. Safe to call repeatedly and from multiple service
// instances starting concurrently: existing codenames are updated in place,
// never duplicated, and rows for codenames still in the catalog are never
// removed (so grants tied to them survive).
func EnsureCatalog(ctx context.Context, pool *pgxpool.Pool, catalog Catalog) error {
	if err := catalog.Validate(); err != nil {
		return err
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	for _, p := range catalog {
		if _, err := tx.Exec(ctx, `INSERT INTO permissions(codename, label)
		  VALUES ($1,$2)
		  ON CONFLICT (codename) DO UPDATE SET label=EXCLUDED.label`, p.Code, p.Label); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
