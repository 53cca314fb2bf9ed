package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticCatalogPreload(t *testing.T) {
	c := NewStaticCatalog("hackathons", []StaticRecord{
		{EntityID: "h-1", DisplayTitle: "Offline Jam", Record: []byte(`{"id":"h-1"}`)},
	}, testLogger())

	rec, err := c.Read(context.Background(), "h-1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"h-1"}`, string(rec))

	rec, err = c.ReadBySlug(context.Background(), "offline-jam")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"h-1"}`, string(rec))
}

func TestStaticCatalogWritesStayLocal(t *testing.T) {
	c := NewStaticCatalog("hackathons", nil, testLogger())

	err := c.Create(context.Background(), "h-2", "Popup Event", []byte(`{"id":"h-2"}`))
	require.NoError(t, err)

	rec, err := c.Read(context.Background(), "h-2")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"h-2"}`, string(rec))

	require.NoError(t, c.Update(context.Background(), "h-2", "Popup Event v2", []byte(`{"id":"h-2","v":2}`)))
	rec, err = c.ReadBySlug(context.Background(), "popup-event-v2")
	require.NoError(t, err)
	assert.Contains(t, string(rec), `"v":2`)

	require.NoError(t, c.Archive(context.Background(), "h-2"))
	_, err = c.Read(context.Background(), "h-2")
	assert.Error(t, err)

	entry, err := c.Entry(context.Background(), "h-2")
	require.NoError(t, err)
	assert.False(t, entry.IsActive())
}

func TestStaticCatalogConcurrentAccess(t *testing.T) {
	c := NewStaticCatalog("hackathons", []StaticRecord{
		{EntityID: "h-1", DisplayTitle: "Offline Jam", Record: []byte(`{"id":"h-1"}`)},
	}, testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = c.Create(context.Background(), "h-3", "Concurrent", []byte(`{"id":"h-3"}`))
		}
	}()
	for i := 0; i < 100; i++ {
		_, _ = c.ListActive(context.Background(), true)
	}
	<-done

	listed, err := c.ListActive(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
