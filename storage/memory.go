package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// MemoryStore implements a content store in process memory. It exists for the
// degraded tiers of the catalog: content survives only for the lifetime of the
// process, and a single instance is shared by every repository in the process
// so writes made by one handler are visible to the next.
//
// The map is guarded by a mutex; handlers read and write it from concurrent
// goroutines.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[interfaces.Address][]byte
	log   *slog.Logger
}

// NewMemoryStore creates an empty in-process content store.
func NewMemoryStore(log *slog.Logger) *MemoryStore {
	return &MemoryStore{
		blobs: make(map[interfaces.Address][]byte),
		log:   log,
	}
}

// Put saves data in memory and returns its content address.
func (s *MemoryStore) Put(ctx context.Context, data []byte) (interfaces.Address, error) {
	addr := interfaces.ComputeAddress(data)

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.blobs[addr] = buf
	s.mu.Unlock()

	s.log.Debug("Stored content in memory",
		slog.String("address", addr.String()),
		slog.Int("size", len(data)))

	return addr, nil
}

// Get retrieves data from memory by its content address.
// Returns ErrBlobNotFound if the address was never written.
func (s *MemoryStore) Get(ctx context.Context, addr interfaces.Address) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.blobs[addr]
	s.mu.RUnlock()

	if !ok {
		return nil, interfaces.ErrBlobNotFound
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// Available always reports true; process memory cannot be unreachable.
func (s *MemoryStore) Available(ctx context.Context) bool {
	return true
}

// Len returns the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Name returns a unique identifier for this content store.
func (s *MemoryStore) Name() string {
	return fmt.Sprintf("mem-%p", s)
}

// LocationURI returns the URI that identifies this content store.
func (s *MemoryStore) LocationURI() string {
	return "mem://"
}
