package interfaces

import (
	"context"
	"errors"
	"time"
)

// EntryStatus is the lifecycle state of a catalog entry. Entities are never
// hard-deleted; archival is the only destructive operation.
type EntryStatus string

const (
	// StatusActive marks an entry as live and listable.
	StatusActive EntryStatus = "active"

	// StatusArchived marks an entry as a tombstone. Archived entries stay in
	// the catalog so pointer-to-entry history remains auditable.
	StatusArchived EntryStatus = "archived"
)

// CatalogEntry is one row of a master catalog.
type CatalogEntry struct {
	EntityID     string      `json:"entityId"`
	DisplayTitle string      `json:"displayTitle"`
	Slug         string      `json:"slug"`
	PointerName  PointerName `json:"pointerName"`

	// CurrentAddress is the last address the pointer was known to resolve
	// to. Advisory only: reads re-resolve the pointer and never trust this
	// cached value for correctness.
	CurrentAddress Address `json:"currentAddress"`

	Status    EntryStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// IsActive reports whether the entry is live.
func (e CatalogEntry) IsActive() bool {
	return e.Status == StatusActive
}

// ListedEntity is one element of a listing, optionally carrying the
// materialized entity record.
type ListedEntity struct {
	Entry CatalogEntry

	// Record is the deserialized-record blob, nil unless the listing was
	// asked to materialize records.
	Record []byte
}

var (
	// ErrEntityNotFound is returned when no active catalog entry exists for
	// the requested entity.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrSlugConflict is returned when a derived slug collides with a
	// different active entity in the same collection.
	ErrSlugConflict = errors.New("slug already in use by an active entity")

	// ErrCredentialInvalid is returned when authentication fails against the
	// stored credential.
	ErrCredentialInvalid = errors.New("invalid credentials")

	// ErrAccountDeactivated is returned when credentials match but the
	// account is not active.
	ErrAccountDeactivated = errors.New("account deactivated")
)

// CatalogManager keeps one master catalog and N per-entity pointers consistent
// under independent, non-transactional writes. There is no two-phase commit:
// the entity record write and the master catalog write are sequential,
// independently-failable steps, and a failure between them leaves a known
// inconsistency window that a retried write converges out of.
//
// Concurrent writers are not serialized. The last successful publish of the
// master pointer wins and can silently overwrite a concurrent writer's catalog
// update. Callers rely on this eventual-consistency posture; implementations
// must not mask it with locking or version checks.
type CatalogManager interface {
	// Create stores the record blob, publishes the entity pointer, and
	// upserts an active catalog entry. Rejects ErrSlugConflict when the slug
	// derived from displayTitle collides with a different active entity.
	Create(ctx context.Context, entityID, displayTitle string, record []byte) error

	// Read returns the record blob for an active entity, re-resolving the
	// entity pointer. Missing or archived entries yield ErrEntityNotFound.
	Read(ctx context.Context, entityID string) ([]byte, error)

	// ReadBySlug is Read keyed by slug instead of entity ID.
	ReadBySlug(ctx context.Context, slug string) ([]byte, error)

	// Update is Create for an existing entry: createdAt is preserved,
	// updatedAt refreshed. Returns ErrEntityNotFound when no entry exists.
	Update(ctx context.Context, entityID, displayTitle string, record []byte) error

	// Archive tombstones the entry. The entity's own pointer stays published
	// so direct historical lookups keep working.
	Archive(ctx context.Context, entityID string) error

	// Entry returns the catalog entry for an entity, archived included.
	Entry(ctx context.Context, entityID string) (CatalogEntry, error)

	// ListActive returns entries with status active. When materialize is
	// true each entity record is fetched as well; per-entry fetch failures
	// are logged and skipped rather than failing the listing.
	ListActive(ctx context.Context, materialize bool) ([]ListedEntity, error)

	// ListAll returns every entry including tombstones.
	ListAll(ctx context.Context) ([]CatalogEntry, error)

	// Collection names the entity collection this manager serves.
	Collection() string
}
