package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackfolio/catalog-backend/interfaces"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(testLogger())
	ctx := context.Background()

	data := []byte("hello catalog")
	addr, err := store.Put(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeAddress(data), addr)

	got, err := store.Get(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// Same bytes, same address.
	again, err := store.Put(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreMissingBlob(t *testing.T) {
	store := NewMemoryStore(testLogger())

	_, err := store.Get(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, interfaces.ErrBlobNotFound)
}

func TestMemoryStoreCopiesData(t *testing.T) {
	store := NewMemoryStore(testLogger())
	ctx := context.Background()

	data := []byte("mutable")
	addr, err := store.Put(ctx, data)
	require.NoError(t, err)

	data[0] = 'X'

	got, err := store.Get(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, []byte("mutable"), got)
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("persisted blob")
	addr, err := store.Put(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeAddress(data), addr)

	got, err := store.Get(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = store.Get(ctx, "0000000000000000000000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, interfaces.ErrBlobNotFound)

	assert.True(t, store.Available(ctx))
}

func TestFactorySchemes(t *testing.T) {
	factory := NewFactory(testLogger())

	tests := []struct {
		name       string
		uri        string
		namePrefix string
		wantErr    bool
	}{
		{name: "memory", uri: "mem://", namePrefix: "mem-"},
		{name: "file", uri: "file://" + t.TempDir(), namePrefix: "file-"},
		{name: "vault without mount path", uri: "vault://127.0.0.1:8200", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := interfaces.NewStoreLocation(tt.uri)
			require.NoError(t, err)

			store, err := factory.StoreFor(loc)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(store.Name(), tt.namePrefix),
				"unexpected store name %q", store.Name())
		})
	}
}

func TestFactorySharedMemoryStore(t *testing.T) {
	factory := NewFactory(testLogger())
	ctx := context.Background()

	locA, err := interfaces.NewStoreLocation("mem://")
	require.NoError(t, err)
	locB, err := interfaces.NewStoreLocation("mem://other")
	require.NoError(t, err)

	a, err := factory.StoreFor(locA)
	require.NoError(t, err)
	b, err := factory.StoreFor(locB)
	require.NoError(t, err)

	addr, err := a.Put(ctx, []byte("shared"))
	require.NoError(t, err)

	got, err := b.Get(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, []byte("shared"), got)
}

func TestStoreLocationValidation(t *testing.T) {
	_, err := interfaces.NewStoreLocation("ftp://example.com")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	loc, err := interfaces.NewStoreLocation("s3://key:secret@bucket/prefix?region=eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, "s3", loc.Scheme)
	assert.Equal(t, "bucket", loc.Host)
	assert.Equal(t, "key:secret", loc.Auth)
	assert.Equal(t, "eu-west-1", loc.GetParam("region"))
}
