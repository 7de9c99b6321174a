// pkg/staff/postgres.go
package staff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storeauth/pkg/db"
)

// pgProvider implements Provider backed by PostgreSQL. Tables are created by
// stores.EnsureSchema.
type pgProvider struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresProvider constructs a PostgreSQL-backed staff provider.
func NewPostgresProvider(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Provider {
	return &pgProvider{dbPool: dbPool, log: log}
}

func (p *pgProvider) ResolveMember(ctx context.Context, principalID, storeID string) (Member, error) {
	row := p.dbPool.QueryRow(ctx, `SELECT id, store_id, principal_id, is_owner,
	  COALESCE((SELECT array_agg(permission_codename ORDER BY permission_codename)
	    FROM staff_member_permissions WHERE staff_member_id=staff_members.id), '{}')
	  FROM staff_members WHERE principal_id=$1 AND store_id=$2`, principalID, storeID)
	var m Member
	if err := row.Scan(&m.ID, &m.StoreID, &m.PrincipalID, &m.IsOwner, &m.Permissions); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrNotStaff
		}
		return Member{}, err
	}
	return m, nil
}

func (p *pgProvider) ListMembers(ctx context.Context, storeID string) ([]Member, error) {
	rows, err := p.dbPool.Query(ctx, `SELECT id, store_id, principal_id, is_owner,
	  COALESCE((SELECT array_agg(permission_codename ORDER BY permission_codename)
	    FROM staff_member_permissions WHERE staff_member_id=staff_members.id), '{}')
	  FROM staff_members WHERE store_id=$1 ORDER BY created_at`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.StoreID, &m.PrincipalID, &m.IsOwner, &m.Permissions); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Grant writes the grant inside a store-scoped transaction so RLS applies.
func (p *pgProvider) Grant(ctx context.Context, memberID, code string) error {
	storeID, err := p.storeOf(ctx, memberID)
	if err != nil {
		return err
	}
	tx, err := db.BeginTxWithStore(ctx, p.dbPool, storeID)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if _, err := tx.Exec(ctx, `INSERT INTO staff_member_permissions(staff_member_id, permission_codename)
	  VALUES ($1,$2) ON CONFLICT DO NOTHING`, memberID, code); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (p *pgProvider) Revoke(ctx context.Context, memberID, code string) error {
	storeID, err := p.storeOf(ctx, memberID)
	if err != nil {
		return err
	}
	tx, err := db.BeginTxWithStore(ctx, p.dbPool, storeID)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if _, err := tx.Exec(ctx, `DELETE FROM staff_member_permissions
	  WHERE staff_member_id=$1 AND permission_codename=$2`, memberID, code); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (p *pgProvider) storeOf(ctx context.Context, memberID string) (string, error) {
	row := p.dbPool.QueryRow(ctx, `SELECT store_id FROM staff_members WHERE id=$1`, memberID)
	var storeID string
	if err := row.Scan(&storeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotStaff
		}
		return "", err
	}
	return storeID, nil
}
