package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hackfolio/catalog-backend/catalog"
	"github.com/hackfolio/catalog-backend/interfaces"
)

// Collection names served by the catalog backend.
const (
	CollectionHackathons = "hackathons"
	CollectionUsers      = "users"
	CollectionSessions   = "sessions"
)

// Seed populates the in-process simulation tier with fixture entities so the
// application stays usable without any backend. The demo account carries a
// legacy sha256 credential so the legacy verification path stays exercised.
func Seed(ctx context.Context, managerFor func(collection string) interfaces.CatalogManager) error {
	hackathons := managerFor(CollectionHackathons)
	for _, h := range fixtureHackathons() {
		data, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("marshal fixture hackathon %s: %w", h.ID, err)
		}
		if err := hackathons.Create(ctx, h.ID, h.Title, data); err != nil {
			return fmt.Errorf("seed hackathon %s: %w", h.ID, err)
		}
	}

	users := managerFor(CollectionUsers)
	for _, u := range fixtureUsers() {
		data, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("marshal fixture user %s: %w", u.Username, err)
		}
		if err := users.Create(ctx, u.ID, u.Username, data); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	return nil
}

// StaticRecords returns the hardcoded last-resort record set: a single demo
// credential so logins keep working even when the simulation tier failed to
// initialize.
func StaticRecords() map[string][]catalog.StaticRecord {
	records := make(map[string][]catalog.StaticRecord)

	for _, u := range fixtureUsers() {
		data, err := json.Marshal(u)
		if err != nil {
			continue
		}
		records[CollectionUsers] = append(records[CollectionUsers], catalog.StaticRecord{
			EntityID:     u.ID,
			DisplayTitle: u.Username,
			Record:       data,
		})
	}

	return records
}

func fixtureHackathons() []Hackathon {
	start := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	return []Hackathon{
		{
			ID:          "fixture-web3-jam",
			Title:       "Web3 Jam",
			Slug:        "web3-jam",
			Description: "A weekend sprint on decentralized storage applications.",
			Location:    "Berlin",
			StartDate:   start,
			EndDate:     start.AddDate(0, 0, 2),
			Tags:        []string{"storage", "ipfs"},
		},
		{
			ID:          "fixture-defi-builders",
			Title:       "DeFi Builders Edition",
			Slug:        "defi-builders-edition",
			Description: "Protocol design and tooling for on-chain finance.",
			Location:    "Remote",
			StartDate:   start.AddDate(0, 1, 0),
			EndDate:     start.AddDate(0, 1, 3),
			PrizePool:   "5000 USDC",
			Tags:        []string{"defi"},
		},
	}
}

func fixtureUsers() []User {
	return []User{
		{
			ID:           UserIDForEmail("demo@hackfolio.dev"),
			Username:     "demo",
			Email:        "demo@hackfolio.dev",
			PasswordHash: HashPasswordSHA256("demo-password"),
			HashScheme:   HashSchemeSHA256,
			IsActive:     true,
			IsVerified:   true,
			CreatedAt:    time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
		},
	}
}
