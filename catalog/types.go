package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// CatalogMetadata is the derived bookkeeping block of a master catalog.
type CatalogMetadata struct {
	LastUpdated time.Time `json:"lastUpdated"`

	// TotalActiveCount equals the number of active entries at the moment
	// the catalog was last written. Cached derived value, not independently
	// authoritative.
	TotalActiveCount int `json:"totalActiveCount"`
}

// MasterCatalog is the authoritative index of one entity collection, stored
// as a single content-addressed blob and reachable through the collection's
// master pointer.
type MasterCatalog struct {
	Entries  map[string]interfaces.CatalogEntry `json:"entries"`
	Metadata CatalogMetadata                    `json:"metadata"`
}

// NewMasterCatalog returns an empty catalog, the bootstrap state used when
// the master pointer does not resolve yet.
func NewMasterCatalog() *MasterCatalog {
	return &MasterCatalog{
		Entries: make(map[string]interfaces.CatalogEntry),
	}
}

// DecodeMasterCatalog deserializes a master catalog blob.
func DecodeMasterCatalog(data []byte) (*MasterCatalog, error) {
	var cat MasterCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("malformed master catalog: %w", err)
	}
	if cat.Entries == nil {
		cat.Entries = make(map[string]interfaces.CatalogEntry)
	}
	return &cat, nil
}

// Encode serializes the catalog for storage.
func (c *MasterCatalog) Encode() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode master catalog: %w", err)
	}
	return data, nil
}

// RecountActive refreshes the cached active-entry count.
func (c *MasterCatalog) RecountActive() {
	count := 0
	for _, entry := range c.Entries {
		if entry.IsActive() {
			count++
		}
	}
	c.Metadata.TotalActiveCount = count
}

// ActiveBySlug returns the active entry carrying the given slug, if any.
func (c *MasterCatalog) ActiveBySlug(slug string) (interfaces.CatalogEntry, bool) {
	for _, entry := range c.Entries {
		if entry.IsActive() && entry.Slug == slug {
			return entry, true
		}
	}
	return interfaces.CatalogEntry{}, false
}
