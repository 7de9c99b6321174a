package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDirectoryResolve(t *testing.T) {
	dir := NewMemoryDirectory([]Store{
		{ID: "id-a", Domain: "shop-a", Name: "Shop A", OwnerID: "owner-1"},
		{ID: "id-b", Domain: "shop-b", Name: "Shop B", OwnerID: "owner-2"},
	})
	ctx := context.Background()

	s, err := dir.ResolveStoreByDomain(ctx, "shop-a")
	require.NoError(t, err)
	assert.Equal(t, "id-a", s.ID)

	// exact match only, case-sensitive
	_, err = dir.ResolveStoreByDomain(ctx, "SHOP-A")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = dir.ResolveStoreByDomain(ctx, "shop-a ")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = dir.ResolveStoreByDomain(ctx, "ghost-shop")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = dir.ResolveStoreByDomain(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	s, err = dir.ResolveStoreByID(ctx, "id-b")
	require.NoError(t, err)
	assert.Equal(t, "shop-b", s.Domain)
	_, err = dir.ResolveStoreByID(ctx, "id-c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseSeed(t *testing.T) {
	entries, err := ParseSeed(`[{"id":"id-a","domain":"shop-a","name":"Shop A","owner_id":"owner-1"}]`)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shop-a", entries[0].Domain)
	assert.Equal(t, "owner-1", entries[0].OwnerID)

	entries, err = ParseSeed("")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = ParseSeed("{not json")
	assert.Error(t, err)
}
