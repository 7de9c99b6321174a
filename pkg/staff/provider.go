package staff

import (
	"context"
	"errors"
)

// ErrNotStaff is returned when a principal has no binding to a store.
var ErrNotStaff = errors.New("not a staff member")

// Provider persists staff bindings and their permission grants.
type Provider interface {
	// ResolveMember finds the binding for (principal, store). Exact match.
	ResolveMember(ctx context.Context, principalID, storeID string) (Member, error)
	// ListMembers returns all bindings for a store.
	ListMembers(ctx context.Context, storeID string) ([]Member, error)
	// Grant adds a permission code to the member. Granting twice is a no-op.
	Grant(ctx context.Context, memberID, code string) error
	// Revoke removes a permission code from the member. Revoking an absent
	// grant is a no-op, so grant-then-revoke restores the prior state.
	Revoke(ctx context.Context, memberID, code string) error
}
