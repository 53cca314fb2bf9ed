package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// Manager implements interfaces.CatalogManager over a content store and a
// name resolver. One Manager serves one entity collection.
//
// Writes proceed as independent steps: record put, entity pointer publish,
// master load, master put, master publish. Any step can fail on its own and
// no step is rolled back; a retried create or update converges to the latest
// successful write because the same entity ID maps to the same pointer key.
type Manager struct {
	store      interfaces.ContentStore
	resolver   interfaces.NameResolver
	collection string
	log        *slog.Logger
}

// NewManager creates a catalog manager for the named collection.
func NewManager(store interfaces.ContentStore, resolver interfaces.NameResolver, collection string, log *slog.Logger) *Manager {
	return &Manager{
		store:      store,
		resolver:   resolver,
		collection: collection,
		log:        log,
	}
}

// Collection names the entity collection this manager serves.
func (m *Manager) Collection() string {
	return m.collection
}

// Create stores the record, publishes the entity pointer, and upserts an
// active catalog entry.
func (m *Manager) Create(ctx context.Context, entityID, displayTitle string, record []byte) error {
	return m.write(ctx, entityID, displayTitle, record, false)
}

// Update is Create for an existing entry. Returns ErrEntityNotFound when the
// entity has no catalog entry at all.
func (m *Manager) Update(ctx context.Context, entityID, displayTitle string, record []byte) error {
	return m.write(ctx, entityID, displayTitle, record, true)
}

func (m *Manager) write(ctx context.Context, entityID, displayTitle string, record []byte, requireExisting bool) error {
	start := time.Now()
	slug := Slugify(displayTitle)

	// Step 1: store the record blob.
	addr, err := m.store.Put(ctx, record)
	if err != nil {
		return fmt.Errorf("store record for %q: %w", entityID, err)
	}

	// Step 2: rebind (or create) the entity pointer.
	pointer, err := m.resolver.Publish(ctx, m.entityKey(entityID), addr)
	if err != nil {
		return fmt.Errorf("publish pointer for %q: %w", entityID, err)
	}

	// Step 3: load the current master catalog, bootstrapping when the
	// master pointer is unresolvable.
	cat, err := m.loadMaster(ctx)
	if err != nil {
		return err
	}

	existing, exists := cat.Entries[entityID]
	if requireExisting && !exists {
		return interfaces.ErrEntityNotFound
	}

	if conflict, found := cat.ActiveBySlug(slug); found && conflict.EntityID != entityID {
		return fmt.Errorf("%w: slug %q held by %q", interfaces.ErrSlugConflict, slug, conflict.EntityID)
	}

	// Step 4: upsert the entry. Timestamps are catalog-managed; createdAt
	// survives an overwrite.
	now := time.Now().UTC()
	entry := interfaces.CatalogEntry{
		EntityID:       entityID,
		DisplayTitle:   displayTitle,
		Slug:           slug,
		PointerName:    pointer,
		CurrentAddress: addr,
		Status:         interfaces.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if exists {
		entry.CreatedAt = existing.CreatedAt
		if requireExisting {
			entry.Status = existing.Status
		}
	}
	cat.Entries[entityID] = entry

	// Step 5: write the catalog and rebind the master pointer. A failure
	// here leaves the entity record updated but the catalog stale: the
	// documented inconsistency window.
	if err := m.writeMaster(ctx, cat); err != nil {
		return err
	}

	m.log.Debug("Wrote catalog entry",
		slog.String("collection", m.collection),
		slog.String("entity_id", entityID),
		slog.String("slug", slug),
		slog.String("address", addr.String()),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// Read returns the record blob for an active entity. The entity pointer is
// re-resolved on every read; the entry's cached currentAddress is advisory
// and never trusted here.
func (m *Manager) Read(ctx context.Context, entityID string) ([]byte, error) {
	cat, err := m.loadMaster(ctx)
	if err != nil {
		return nil, err
	}

	entry, ok := cat.Entries[entityID]
	if !ok || !entry.IsActive() {
		return nil, interfaces.ErrEntityNotFound
	}

	return m.fetchRecord(ctx, entry)
}

// ReadBySlug is Read keyed by slug.
func (m *Manager) ReadBySlug(ctx context.Context, slug string) ([]byte, error) {
	cat, err := m.loadMaster(ctx)
	if err != nil {
		return nil, err
	}

	entry, ok := cat.ActiveBySlug(slug)
	if !ok {
		return nil, interfaces.ErrEntityNotFound
	}

	return m.fetchRecord(ctx, entry)
}

// Archive tombstones the entry and refreshes the active count. The entity's
// own pointer stays published so historical lookups by pointer keep working.
func (m *Manager) Archive(ctx context.Context, entityID string) error {
	cat, err := m.loadMaster(ctx)
	if err != nil {
		return err
	}

	entry, ok := cat.Entries[entityID]
	if !ok {
		return interfaces.ErrEntityNotFound
	}

	entry.Status = interfaces.StatusArchived
	entry.UpdatedAt = time.Now().UTC()
	cat.Entries[entityID] = entry

	if err := m.writeMaster(ctx, cat); err != nil {
		return err
	}

	m.log.Info("Archived catalog entry",
		slog.String("collection", m.collection),
		slog.String("entity_id", entityID))

	return nil
}

// Entry returns the catalog entry for an entity, archived included.
func (m *Manager) Entry(ctx context.Context, entityID string) (interfaces.CatalogEntry, error) {
	cat, err := m.loadMaster(ctx)
	if err != nil {
		return interfaces.CatalogEntry{}, err
	}

	entry, ok := cat.Entries[entityID]
	if !ok {
		return interfaces.CatalogEntry{}, interfaces.ErrEntityNotFound
	}
	return entry, nil
}

// ListActive returns the active entries, oldest first. With materialize set,
// each entity record is fetched as well; entries whose fetch fails are logged
// and skipped rather than failing the listing.
func (m *Manager) ListActive(ctx context.Context, materialize bool) ([]interfaces.ListedEntity, error) {
	cat, err := m.loadMaster(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]interfaces.CatalogEntry, 0, len(cat.Entries))
	for _, entry := range cat.Entries {
		if entry.IsActive() {
			entries = append(entries, entry)
		}
	}
	sortEntries(entries)

	listed := make([]interfaces.ListedEntity, 0, len(entries))
	for _, entry := range entries {
		item := interfaces.ListedEntity{Entry: entry}

		if materialize {
			record, err := m.fetchRecord(ctx, entry)
			if err != nil {
				m.log.Warn("Skipping unlistable entry",
					slog.String("collection", m.collection),
					slog.String("entity_id", entry.EntityID),
					"err", err)
				continue
			}
			item.Record = record
		}

		listed = append(listed, item)
	}

	return listed, nil
}

// ListAll returns every entry including tombstones, oldest first.
func (m *Manager) ListAll(ctx context.Context) ([]interfaces.CatalogEntry, error) {
	cat, err := m.loadMaster(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]interfaces.CatalogEntry, 0, len(cat.Entries))
	for _, entry := range cat.Entries {
		entries = append(entries, entry)
	}
	sortEntries(entries)

	return entries, nil
}

func (m *Manager) fetchRecord(ctx context.Context, entry interfaces.CatalogEntry) ([]byte, error) {
	addr, err := m.resolver.Resolve(ctx, entry.PointerName)
	if err != nil {
		return nil, fmt.Errorf("resolve pointer for %q: %w", entry.EntityID, err)
	}

	data, err := m.store.Get(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("fetch record for %q: %w", entry.EntityID, err)
	}
	return data, nil
}

// loadMaster resolves and fetches the master catalog. An unresolvable master
// pointer or missing blob is the bootstrap case and yields an empty catalog;
// a malformed blob is an error.
func (m *Manager) loadMaster(ctx context.Context) (*MasterCatalog, error) {
	name, err := m.resolver.PointerFor(ctx, m.masterKey())
	if err != nil {
		return nil, fmt.Errorf("master pointer for %q: %w", m.collection, err)
	}

	addr, err := m.resolver.Resolve(ctx, name)
	if err != nil {
		if errors.Is(err, interfaces.ErrPointerNotFound) {
			return NewMasterCatalog(), nil
		}
		if errors.Is(err, interfaces.ErrResolutionExhausted) {
			// Unresolvable is treated as empty: the bootstrap posture
			// the rest of the system expects. The next successful write
			// rebinds the master pointer.
			m.log.Warn("Master pointer unresolvable, treating catalog as empty",
				slog.String("collection", m.collection),
				"err", err)
			return NewMasterCatalog(), nil
		}
		return nil, fmt.Errorf("resolve master for %q: %w", m.collection, err)
	}

	data, err := m.store.Get(ctx, addr)
	if err != nil {
		if errors.Is(err, interfaces.ErrBlobNotFound) {
			m.log.Warn("Master catalog blob missing, treating catalog as empty",
				slog.String("collection", m.collection),
				slog.String("address", addr.String()))
			return NewMasterCatalog(), nil
		}
		return nil, fmt.Errorf("fetch master for %q: %w", m.collection, err)
	}

	return DecodeMasterCatalog(data)
}

func (m *Manager) writeMaster(ctx context.Context, cat *MasterCatalog) error {
	cat.Metadata.LastUpdated = time.Now().UTC()
	cat.RecountActive()

	data, err := cat.Encode()
	if err != nil {
		return err
	}

	addr, err := m.store.Put(ctx, data)
	if err != nil {
		return fmt.Errorf("store master for %q: %w", m.collection, err)
	}

	if _, err := m.resolver.Publish(ctx, m.masterKey(), addr); err != nil {
		return fmt.Errorf("publish master for %q: %w", m.collection, err)
	}

	return nil
}

func (m *Manager) entityKey(entityID string) string {
	return m.collection + "-" + entityID
}

func (m *Manager) masterKey() string {
	return m.collection + "-master"
}

func sortEntries(entries []interfaces.CatalogEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].EntityID < entries[j].EntityID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}
