// pkg/stores/postgres.go
package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgDirectory implements Directory backed by PostgreSQL.
type pgDirectory struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresDirectory constructs a PostgreSQL-backed store directory.
func NewPostgresDirectory(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Directory {
	return &pgDirectory{dbPool: dbPool, log: log}
}

// EnsureSchema creates required tables if they do not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS stores (
  id uuid PRIMARY KEY,
  domain text UNIQUE NOT NULL,
  name text NOT NULL DEFAULT '',
  owner_id text NOT NULL,
  created_at timestamptz NOT NULL DEFAULT NOW(),
  updated_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS permissions (
  codename text PRIMARY KEY,
  label text NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS staff_members (
  id uuid PRIMARY KEY,
  store_id uuid NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
  principal_id text NOT NULL,
  is_owner boolean NOT NULL DEFAULT false,
  created_at timestamptz NOT NULL DEFAULT NOW(),
  UNIQUE (principal_id, store_id)
);
CREATE TABLE IF NOT EXISTS staff_member_permissions (
  staff_member_id uuid NOT NULL REFERENCES staff_members(id) ON DELETE CASCADE,
  permission_codename text NOT NULL REFERENCES permissions(codename) ON DELETE CASCADE,
  PRIMARY KEY (staff_member_id, permission_codename)
);
CREATE INDEX IF NOT EXISTS staff_members_store_idx ON staff_members(store_id);
`)
	return err
}

// SeedFromEnv ingests initial store data (STORE_SEED_JSON) and creates the
// owner staff binding for each seeded store. Upserts, so rerunnable.
func SeedFromEnv(ctx context.Context, dbPool *pgxpool.Pool, jsonSeed string) error {
	entries, err := ParseSeed(jsonSeed)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if _, err := dbPool.Exec(ctx, `INSERT INTO stores(id,domain,name,owner_id)
		  VALUES ($1,$2,$3,$4)
		  ON CONFLICT (domain) DO UPDATE SET name=EXCLUDED.name, owner_id=EXCLUDED.owner_id, updated_at=NOW()`,
			e.ID, e.Domain, e.Name, e.OwnerID); err != nil {
			return err
		}
		if e.OwnerID != "" {
			if _, err := dbPool.Exec(ctx, `INSERT INTO staff_members(id,store_id,principal_id,is_owner)
			  SELECT $1, s.id, $2, true FROM stores s WHERE s.domain=$3
			  ON CONFLICT (principal_id, store_id) DO UPDATE SET is_owner=true`,
				uuid.NewString(), e.OwnerID, e.Domain); err != nil {
				return err
			}
		}
	}
	return nil
}

// ResolveStoreByDomain fetches a store using its domain key (exact match).
func (d *pgDirectory) ResolveStoreByDomain(ctx context.Context, domain string) (Store, error) {
	if domain == "" {
		return Store{}, ErrNotFound
	}
	row := d.dbPool.QueryRow(ctx, `SELECT id,domain,name,owner_id FROM stores WHERE domain=$1`, domain)
	return scanStore(row)
}

// ResolveStoreByID fetches a store by its uuid.
func (d *pgDirectory) ResolveStoreByID(ctx context.Context, id string) (Store, error) {
	row := d.dbPool.QueryRow(ctx, `SELECT id,domain,name,owner_id FROM stores WHERE id=$1`, id)
	return scanStore(row)
}

func scanStore(row pgx.Row) (Store, error) {
	var s Store
	if err := row.Scan(&s.ID, &s.Domain, &s.Name, &s.OwnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Store{}, ErrNotFound
		}
		return Store{}, err
	}
	return s, nil
}
