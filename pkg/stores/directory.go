package stores

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no store matches the lookup key.
var ErrNotFound = errors.New("store not found")

// Directory resolves stores by their external domain key.
type Directory interface {
	// Resolve a store from its domain key. Exact match, case-sensitive.
	ResolveStoreByDomain(ctx context.Context, domain string) (Store, error)
	// Resolve a store from its uuid.
	ResolveStoreByID(ctx context.Context, id string) (Store, error)
}
