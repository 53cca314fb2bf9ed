package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackfolio/catalog-backend/interfaces"
)

func TestChainSelectsNetworkTier(t *testing.T) {
	chain := NewChain(ChainConfig{
		StoreURI:   "mem://",
		PointerDir: t.TempDir(),
		Log:        testLogger(),
	})

	mgr := chain.ManagerFor("hackathons")
	require.NotNil(t, mgr)
	assert.Equal(t, TierNetwork, chain.Tier())

	ctx := context.Background()
	require.NoError(t, mgr.Create(ctx, "h1", "Web3 Jam", []byte("a")))
	got, err := mgr.Read(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)
}

func TestChainFallsBackToMemoryTier(t *testing.T) {
	seeded := false
	chain := NewChain(ChainConfig{
		// No store URI: the network tier cannot be constructed.
		Seed: func(ctx context.Context, managerFor func(string) interfaces.CatalogManager) error {
			seeded = true
			return managerFor("hackathons").Create(ctx, "fix1", "Seeded Jam", []byte("seed"))
		},
		Log: testLogger(),
	})

	mgr := chain.ManagerFor("hackathons")
	assert.Equal(t, TierMemory, chain.Tier())
	assert.True(t, seeded)

	ctx := context.Background()

	// Seeded fixtures are visible.
	got, err := mgr.Read(ctx, "fix1")
	require.NoError(t, err)
	assert.Equal(t, []byte("seed"), got)

	// Writes within the process are visible to later reads.
	require.NoError(t, mgr.Create(ctx, "h1", "New One", []byte("new")))
	got, err = mgr.Read(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestChainFallsBackToStaticTier(t *testing.T) {
	chain := NewChain(ChainConfig{
		Seed: func(ctx context.Context, managerFor func(string) interfaces.CatalogManager) error {
			return errors.New("fixtures unavailable")
		},
		Static: map[string][]StaticRecord{
			"users": {
				{EntityID: "u1", DisplayTitle: "demo", Record: []byte("demo-record")},
			},
		},
		Log: testLogger(),
	})

	mgr := chain.ManagerFor("users")
	assert.Equal(t, TierStatic, chain.Tier())

	got, err := mgr.Read(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []byte("demo-record"), got)
}

func TestChainSelectionHappensOnce(t *testing.T) {
	calls := 0
	chain := NewChain(ChainConfig{
		Seed: func(ctx context.Context, managerFor func(string) interfaces.CatalogManager) error {
			calls++
			return nil
		},
		Log: testLogger(),
	})

	first := chain.ManagerFor("hackathons")
	second := chain.ManagerFor("hackathons")
	other := chain.ManagerFor("users")

	assert.Same(t, first, second, "one manager per collection")
	assert.NotNil(t, other)
	assert.Equal(t, 1, calls, "tier selection and seeding run once per process")
	assert.Equal(t, TierMemory, chain.Tier())
}

func TestChainSharedSubstrateAcrossCollections(t *testing.T) {
	chain := NewChain(ChainConfig{Log: testLogger()})

	ctx := context.Background()
	hackathons := chain.ManagerFor("hackathons")
	users := chain.ManagerFor("users")

	require.NoError(t, hackathons.Create(ctx, "h1", "Web3 Jam", []byte("h")))
	require.NoError(t, users.Create(ctx, "u1", "demo", []byte("u")))

	// Collections stay isolated even on the shared substrate.
	_, err := hackathons.Read(ctx, "u1")
	assert.ErrorIs(t, err, interfaces.ErrEntityNotFound)

	got, err := users.Read(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []byte("u"), got)
}
