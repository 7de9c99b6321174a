package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberHas(t *testing.T) {
	regular := Member{Permissions: []string{"products.view", "collections.update"}}
	assert.True(t, regular.Has("products.view"))
	assert.True(t, regular.Has("collections.update"))
	assert.False(t, regular.Has("products.create"))
	assert.False(t, regular.Has(""))

	owner := Member{IsOwner: true}
	for _, code := range []string{"products.view", "products.delete", "anything.at.all"} {
		assert.True(t, owner.Has(code), "owner must hold %s implicitly", code)
	}
}

func TestMemoryProviderResolve(t *testing.T) {
	prov := NewMemoryProvider([]Member{
		{ID: "m1", StoreID: "s1", PrincipalID: "p1", Permissions: []string{"products.view"}},
	})
	ctx := context.Background()

	m, err := prov.ResolveMember(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)

	_, err = prov.ResolveMember(ctx, "p1", "other-store")
	assert.ErrorIs(t, err, ErrNotStaff)
	_, err = prov.ResolveMember(ctx, "stranger", "s1")
	assert.ErrorIs(t, err, ErrNotStaff)
}

func TestGrantRevokeIdempotence(t *testing.T) {
	prov := NewMemoryProvider([]Member{
		{ID: "m1", StoreID: "s1", PrincipalID: "p1"},
	})
	ctx := context.Background()

	// grant twice yields a single entry
	require.NoError(t, prov.Grant(ctx, "m1", "products.create"))
	require.NoError(t, prov.Grant(ctx, "m1", "products.create"))
	m, err := prov.ResolveMember(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"products.create"}, m.Permissions)
	assert.True(t, m.Has("products.create"))

	// revoke restores the original false result
	require.NoError(t, prov.Revoke(ctx, "m1", "products.create"))
	m, err = prov.ResolveMember(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.False(t, m.Has("products.create"))
	assert.Empty(t, m.Permissions)

	// revoking an absent grant is a no-op
	require.NoError(t, prov.Revoke(ctx, "m1", "products.create"))

	require.ErrorIs(t, prov.Grant(ctx, "nope", "products.create"), ErrNotStaff)
}

func TestResolveMemberReturnsSnapshot(t *testing.T) {
	prov := NewMemoryProvider([]Member{
		{ID: "m1", StoreID: "s1", PrincipalID: "p1", Permissions: []string{"products.view"}},
	})
	ctx := context.Background()
	m, err := prov.ResolveMember(ctx, "p1", "s1")
	require.NoError(t, err)
	m.Permissions[0] = "mutated"
	again, err := prov.ResolveMember(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"products.view"}, again.Permissions)
}

func TestListMembers(t *testing.T) {
	prov := NewMemoryProvider([]Member{
		{ID: "m1", StoreID: "s1", PrincipalID: "p1", IsOwner: true},
		{ID: "m2", StoreID: "s1", PrincipalID: "p2"},
		{ID: "m3", StoreID: "s2", PrincipalID: "p1"},
	})
	out, err := prov.ListMembers(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
