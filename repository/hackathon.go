package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackfolio/catalog-backend/catalog"
	"github.com/hackfolio/catalog-backend/interfaces"
)

// Hackathon is the full application record stored as a content-addressed blob.
// Title and slug are duplicated from the catalog entry for self-description;
// the catalog entry stays authoritative for discovery.
type Hackathon struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	StartDate   time.Time `json:"startDate,omitempty"`
	EndDate     time.Time `json:"endDate,omitempty"`
	PrizePool   string    `json:"prizePool,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// HackathonRepository layers title/description validation and slug derivation
// over a catalog manager.
type HackathonRepository struct {
	catalog interfaces.CatalogManager
	log     *slog.Logger
}

func NewHackathonRepository(mgr interfaces.CatalogManager, log *slog.Logger) *HackathonRepository {
	return &HackathonRepository{catalog: mgr, log: log}
}

func (r *HackathonRepository) validate(h *Hackathon) *Result {
	if strings.TrimSpace(h.Title) == "" {
		res := Fail(CodeValidationFailed, "title must not be empty")
		return &res
	}
	if strings.TrimSpace(h.Description) == "" {
		res := Fail(CodeValidationFailed, "description must not be empty")
		return &res
	}
	return nil
}

// Create validates and stores a new hackathon. A missing ID is generated.
func (r *HackathonRepository) Create(ctx context.Context, h Hackathon) Result {
	if res := r.validate(&h); res != nil {
		return *res
	}
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	h.Slug = catalog.Slugify(h.Title)

	data, err := json.Marshal(h)
	if err != nil {
		return FailErr(fmt.Errorf("marshal hackathon: %w", err))
	}
	if err := r.catalog.Create(ctx, h.ID, h.Title, data); err != nil {
		r.log.Warn("Hackathon create rejected", slog.String("id", h.ID), "err", err)
		return FailErr(err)
	}
	return OK(h)
}

// Get returns an active hackathon by id.
func (r *HackathonRepository) Get(ctx context.Context, id string) Result {
	data, err := r.catalog.Read(ctx, id)
	if err != nil {
		return FailErr(err)
	}
	return decodeHackathon(data)
}

// GetBySlug returns an active hackathon by its derived slug.
func (r *HackathonRepository) GetBySlug(ctx context.Context, slug string) Result {
	data, err := r.catalog.ReadBySlug(ctx, slug)
	if err != nil {
		return FailErr(err)
	}
	return decodeHackathon(data)
}

// Update validates and overwrites an existing hackathon.
func (r *HackathonRepository) Update(ctx context.Context, h Hackathon) Result {
	if res := r.validate(&h); res != nil {
		return *res
	}
	if h.ID == "" {
		return Fail(CodeValidationFailed, "id must not be empty")
	}
	h.Slug = catalog.Slugify(h.Title)

	data, err := json.Marshal(h)
	if err != nil {
		return FailErr(fmt.Errorf("marshal hackathon: %w", err))
	}
	if err := r.catalog.Update(ctx, h.ID, h.Title, data); err != nil {
		return FailErr(err)
	}
	return OK(h)
}

// Archive tombstones a hackathon.
func (r *HackathonRepository) Archive(ctx context.Context, id string) Result {
	if err := r.catalog.Archive(ctx, id); err != nil {
		return FailErr(err)
	}
	return OK(map[string]string{"id": id, "status": string(interfaces.StatusArchived)})
}

// ListActive returns all active hackathons, oldest first. Entries whose record
// fetch failed are reported from catalog metadata alone.
func (r *HackathonRepository) ListActive(ctx context.Context) Result {
	listed, err := r.catalog.ListActive(ctx, true)
	if err != nil {
		return FailErr(err)
	}

	out := make([]Hackathon, 0, len(listed))
	for _, le := range listed {
		var h Hackathon
		if le.Record != nil {
			if err := json.Unmarshal(le.Record, &h); err != nil {
				r.log.Warn("Skipping undecodable hackathon record",
					slog.String("id", le.Entry.EntityID), "err", err)
				continue
			}
		} else {
			h = Hackathon{ID: le.Entry.EntityID, Title: le.Entry.DisplayTitle, Slug: le.Entry.Slug}
		}
		out = append(out, h)
	}
	return OK(out)
}

func decodeHackathon(data []byte) Result {
	var h Hackathon
	if err := json.Unmarshal(data, &h); err != nil {
		return FailErr(fmt.Errorf("decode hackathon record: %w", err))
	}
	return OK(h)
}
