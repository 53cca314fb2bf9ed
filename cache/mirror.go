// Package cache mirrors catalog entry metadata into Redis for fast read
// paths. The mirror is an independent copy: the catalog never keeps it
// synchronized automatically, and a stale mirror is expected between manual
// resyncs.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// ErrMirrorMiss is returned when the mirror holds no copy for the key. The
// caller falls back to the catalog itself.
var ErrMirrorMiss = errors.New("no mirrored entry")

// Mirror is the Redis-backed metadata copy.
type Mirror struct {
	client *redis.Client
	log    *slog.Logger
}

func NewMirror(addr, password string, db int, log *slog.Logger) *Mirror {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Mirror{client: client, log: log}
}

// Available pings the Redis backend.
func (m *Mirror) Available(ctx context.Context) bool {
	return m.client.Ping(ctx).Err() == nil
}

func entryKey(collection, entityID string) string {
	return fmt.Sprintf("catalog:%s:entry:%s", collection, entityID)
}

func slugKey(collection, slug string) string {
	return fmt.Sprintf("catalog:%s:slug:%s", collection, slug)
}

// Entry returns the mirrored catalog entry, ErrMirrorMiss when absent.
func (m *Mirror) Entry(ctx context.Context, collection, entityID string) (interfaces.CatalogEntry, error) {
	data, err := m.client.Get(ctx, entryKey(collection, entityID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return interfaces.CatalogEntry{}, ErrMirrorMiss
		}
		return interfaces.CatalogEntry{}, fmt.Errorf("mirror read: %w", err)
	}

	var entry interfaces.CatalogEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return interfaces.CatalogEntry{}, fmt.Errorf("decode mirrored entry: %w", err)
	}
	return entry, nil
}

// EntityIDForSlug returns the entity id mirrored for a slug, ErrMirrorMiss
// when absent.
func (m *Mirror) EntityIDForSlug(ctx context.Context, collection, slug string) (string, error) {
	id, err := m.client.Get(ctx, slugKey(collection, slug)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMirrorMiss
		}
		return "", fmt.Errorf("mirror read: %w", err)
	}
	return id, nil
}

// Resync rebuilds the mirror for one collection from the authoritative
// catalog. This is a manual administrative operation; nothing triggers it
// automatically.
func (m *Mirror) Resync(ctx context.Context, mgr interfaces.CatalogManager) (int, error) {
	entries, err := mgr.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog for resync: %w", err)
	}

	collection := mgr.Collection()

	pattern := fmt.Sprintf("catalog:%s:*", collection)
	iter := m.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return 0, fmt.Errorf("clear stale mirror key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan mirror keys: %w", err)
	}

	pipe := m.client.Pipeline()
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return 0, fmt.Errorf("encode entry %s: %w", entry.EntityID, err)
		}
		pipe.Set(ctx, entryKey(collection, entry.EntityID), data, 0)
		if entry.IsActive() {
			pipe.Set(ctx, slugKey(collection, entry.Slug), entry.EntityID, 0)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("write mirror: %w", err)
	}

	m.log.Info("Catalog mirror resynced",
		slog.String("collection", collection),
		slog.Int("entries", len(entries)))
	return len(entries), nil
}

// Close releases the Redis connection.
func (m *Mirror) Close() error {
	return m.client.Close()
}
