package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// StaticRecord preloads a fallback catalog with one entity.
type StaticRecord struct {
	EntityID     string
	DisplayTitle string
	Record       []byte
}

// StaticCatalog is the last-resort catalog tier: a flat in-struct table
// preloaded with a hardcoded record set, used only when the in-process
// simulation tier fails to initialize. Writes land in the table but are
// unpersisted and not guaranteed visible to concurrently running handlers in
// other processes. There is no pointer or blob machinery behind it.
//
// The table carries a mutex so concurrent goroutines within this process
// don't corrupt it.
type StaticCatalog struct {
	collection string
	log        *slog.Logger

	mu      sync.RWMutex
	entries map[string]interfaces.CatalogEntry
	records map[string][]byte
}

// NewStaticCatalog creates a static catalog preloaded with the given records,
// all active.
func NewStaticCatalog(collection string, preload []StaticRecord, log *slog.Logger) *StaticCatalog {
	c := &StaticCatalog{
		collection: collection,
		log:        log,
		entries:    make(map[string]interfaces.CatalogEntry),
		records:    make(map[string][]byte),
	}

	now := time.Now().UTC()
	for _, rec := range preload {
		c.entries[rec.EntityID] = interfaces.CatalogEntry{
			EntityID:       rec.EntityID,
			DisplayTitle:   rec.DisplayTitle,
			Slug:           Slugify(rec.DisplayTitle),
			PointerName:    interfaces.PointerName("static-" + rec.EntityID),
			CurrentAddress: interfaces.ComputeAddress(rec.Record),
			Status:         interfaces.StatusActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		c.records[rec.EntityID] = rec.Record
	}

	return c
}

// Collection names the entity collection this catalog serves.
func (c *StaticCatalog) Collection() string {
	return c.collection
}

// Create upserts an active entry. The write is unpersisted.
func (c *StaticCatalog) Create(ctx context.Context, entityID, displayTitle string, record []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	entry := interfaces.CatalogEntry{
		EntityID:       entityID,
		DisplayTitle:   displayTitle,
		Slug:           Slugify(displayTitle),
		PointerName:    interfaces.PointerName("static-" + entityID),
		CurrentAddress: interfaces.ComputeAddress(record),
		Status:         interfaces.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if existing, ok := c.entries[entityID]; ok {
		entry.CreatedAt = existing.CreatedAt
	}

	c.entries[entityID] = entry
	c.records[entityID] = record
	return nil
}

// Read returns the record for an active entity.
func (c *StaticCatalog) Read(ctx context.Context, entityID string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[entityID]
	if !ok || !entry.IsActive() {
		return nil, interfaces.ErrEntityNotFound
	}
	return c.records[entityID], nil
}

// ReadBySlug is Read keyed by slug.
func (c *StaticCatalog) ReadBySlug(ctx context.Context, slug string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for id, entry := range c.entries {
		if entry.IsActive() && entry.Slug == slug {
			return c.records[id], nil
		}
	}
	return nil, interfaces.ErrEntityNotFound
}

// Update rewrites an existing entry's record.
func (c *StaticCatalog) Update(ctx context.Context, entityID, displayTitle string, record []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.entries[entityID]
	if !ok {
		return interfaces.ErrEntityNotFound
	}

	existing.DisplayTitle = displayTitle
	existing.Slug = Slugify(displayTitle)
	existing.CurrentAddress = interfaces.ComputeAddress(record)
	existing.UpdatedAt = time.Now().UTC()

	c.entries[entityID] = existing
	c.records[entityID] = record
	return nil
}

// Archive tombstones the entry.
func (c *StaticCatalog) Archive(ctx context.Context, entityID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[entityID]
	if !ok {
		return interfaces.ErrEntityNotFound
	}

	entry.Status = interfaces.StatusArchived
	entry.UpdatedAt = time.Now().UTC()
	c.entries[entityID] = entry
	return nil
}

// Entry returns the catalog entry for an entity, archived included.
func (c *StaticCatalog) Entry(ctx context.Context, entityID string) (interfaces.CatalogEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[entityID]
	if !ok {
		return interfaces.CatalogEntry{}, interfaces.ErrEntityNotFound
	}
	return entry, nil
}

// ListActive returns the active entries, oldest first.
func (c *StaticCatalog) ListActive(ctx context.Context, materialize bool) ([]interfaces.ListedEntity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]interfaces.CatalogEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		if entry.IsActive() {
			entries = append(entries, entry)
		}
	}
	sortEntries(entries)

	listed := make([]interfaces.ListedEntity, 0, len(entries))
	for _, entry := range entries {
		item := interfaces.ListedEntity{Entry: entry}
		if materialize {
			item.Record = c.records[entry.EntityID]
		}
		listed = append(listed, item)
	}
	return listed, nil
}

// ListAll returns every entry including tombstones, oldest first.
func (c *StaticCatalog) ListAll(ctx context.Context) ([]interfaces.CatalogEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]interfaces.CatalogEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sortEntries(entries)
	return entries, nil
}
