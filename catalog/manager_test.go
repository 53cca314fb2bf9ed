package catalog

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackfolio/catalog-backend/interfaces"
	"github.com/hackfolio/catalog-backend/naming"
	"github.com/hackfolio/catalog-backend/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T) (*Manager, *storage.MemoryStore, *naming.MemoryResolver) {
	t.Helper()
	log := testLogger()
	store := storage.NewMemoryStore(log)
	resolver := naming.NewMemoryResolver(log)
	return NewManager(store, resolver, "hackathons", log), store, resolver
}

func TestManagerCreateReadRoundTrip(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()

	record := []byte(`{"title":"Web3 Jam","description":"storage sprint"}`)
	require.NoError(t, mgr.Create(ctx, "h1", "Web3 Jam", record))

	got, err := mgr.Read(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, record, got)

	entry, err := mgr.Entry(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "web3-jam", entry.Slug)
	assert.Equal(t, interfaces.StatusActive, entry.Status)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestManagerReadBySlug(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()

	record := []byte(`{"title":"Web3 Jam"}`)
	require.NoError(t, mgr.Create(ctx, "h1", "Web3 Jam", record))

	got, err := mgr.ReadBySlug(ctx, "web3-jam")
	require.NoError(t, err)
	assert.Equal(t, record, got)

	_, err = mgr.ReadBySlug(ctx, "nope")
	assert.ErrorIs(t, err, interfaces.ErrEntityNotFound)
}

func TestManagerReadMissing(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	_, err := mgr.Read(context.Background(), "ghost")
	assert.ErrorIs(t, err, interfaces.ErrEntityNotFound)
}

func TestManagerUpdate(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Create(ctx, "h1", "Web3 Jam", []byte("v1")))

	first, err := mgr.Entry(ctx, "h1")
	require.NoError(t, err)

	require.NoError(t, mgr.Update(ctx, "h1", "Web3 Jam", []byte("v2")))

	got, err := mgr.Read(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	second, err := mgr.Entry(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt, "createdAt survives overwrite")
}

func TestManagerUpdateMissing(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	err := mgr.Update(context.Background(), "ghost", "Ghost", []byte("x"))
	assert.ErrorIs(t, err, interfaces.ErrEntityNotFound)
}

func TestManagerUpdateIdempotent(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()

	record := []byte(`{"title":"Web3 Jam"}`)
	require.NoError(t, mgr.Create(ctx, "h1", "Web3 Jam", record))
	require.NoError(t, mgr.Update(ctx, "h1", "Web3 Jam", record))
	require.NoError(t, mgr.Update(ctx, "h1", "Web3 Jam", record))

	got, err := mgr.Read(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, record, got)

	all, err := mgr.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "repeated updates keep exactly one entry")
}

func TestManagerSlugConflict(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Create(ctx, "h1", "Web3 Jam", []byte("a")))

	// Different entity, identical slug.
	err := mgr.Create(ctx, "h2", "Web3 Jam!!", []byte("b"))
	assert.ErrorIs(t, err, interfaces.ErrSlugConflict)

	// Same entity may keep its slug.
	require.NoError(t, mgr.Create(ctx, "h1", "Web3 Jam", []byte("c")))

	// Archiving the holder frees the slug for new active entities.
	require.NoError(t, mgr.Archive(ctx, "h1"))
	require.NoError(t, mgr.Create(ctx, "h2", "Web3 Jam!!", []byte("b")))
}

func TestManagerArchive(t *testing.T) {
	mgr, store, resolver := newTestManager(t)
	ctx := context.Background()

	record := []byte(`{"title":"Web3 Jam"}`)
	require.NoError(t, mgr.Create(ctx, "h1", "Web3 Jam", record))

	entry, err := mgr.Entry(ctx, "h1")
	require.NoError(t, err)

	require.NoError(t, mgr.Archive(ctx, "h1"))

	// Excluded from reads and active listings.
	_, err = mgr.Read(ctx, "h1")
	assert.ErrorIs(t, err, interfaces.ErrEntityNotFound)

	active, err := mgr.ListActive(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	// The tombstone stays in the catalog.
	archived, err := mgr.Entry(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, interfaces.StatusArchived, archived.Status)

	// Pointer-level access to the last-known address still works.
	addr, err := resolver.Resolve(ctx, entry.PointerName)
	require.NoError(t, err)
	data, err := store.Get(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, record, data)
}

func TestManagerArchiveMissing(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	err := mgr.Archive(context.Background(), "ghost")
	assert.ErrorIs(t, err, interfaces.ErrEntityNotFound)
}

func TestManagerActiveCount(t *testing.T) {
	mgr, store, resolver := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Create(ctx, "h1", "One", []byte("a")))
	require.NoError(t, mgr.Create(ctx, "h2", "Two", []byte("b")))
	require.NoError(t, mgr.Archive(ctx, "h1"))

	name, err := resolver.PointerFor(ctx, "hackathons-master")
	require.NoError(t, err)
	addr, err := resolver.Resolve(ctx, name)
	require.NoError(t, err)
	data, err := store.Get(ctx, addr)
	require.NoError(t, err)

	cat, err := DecodeMasterCatalog(data)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Metadata.TotalActiveCount)
}

func TestManagerListActiveMaterialized(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Create(ctx, "h1", "One", []byte("a")))
	require.NoError(t, mgr.Create(ctx, "h2", "Two", []byte("b")))

	listed, err := mgr.ListActive(ctx, true)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "h1", listed[0].Entry.EntityID, "oldest first")
	assert.Equal(t, []byte("a"), listed[0].Record)
	assert.Equal(t, []byte("b"), listed[1].Record)
}

func TestManagerLostUpdate(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Create(ctx, "h1", "Web3 Jam", []byte("base")))

	a := []byte(`{"v":"A"}`)
	b := []byte(`{"v":"B"}`)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); errs[0] = mgr.Update(ctx, "h1", "Web3 Jam", a) }()
	go func() { defer wg.Done(); errs[1] = mgr.Update(ctx, "h1", "Web3 Jam", b) }()
	wg.Wait()

	// Both writers succeed; the last master publish wins.
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	got, err := mgr.Read(ctx, "h1")
	require.NoError(t, err)
	if !bytes.Equal(got, a) && !bytes.Equal(got, b) {
		t.Fatalf("final state is neither writer's record: %s", got)
	}
}
