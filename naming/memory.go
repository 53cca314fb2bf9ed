package naming

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// MemoryResolver implements an in-process pointer table for the degraded
// tiers. Bound names are the key names themselves, bindings survive only for
// the process lifetime, and one instance is shared by every repository in the
// process. The table is mutex-guarded for concurrent handler access.
type MemoryResolver struct {
	mu       sync.RWMutex
	pointers map[interfaces.PointerName]interfaces.Address
	log      *slog.Logger
}

// NewMemoryResolver creates an empty in-process resolver.
func NewMemoryResolver(log *slog.Logger) *MemoryResolver {
	return &MemoryResolver{
		pointers: make(map[interfaces.PointerName]interfaces.Address),
		log:      log,
	}
}

// Publish rebinds the pointer named keyName to addr.
func (r *MemoryResolver) Publish(ctx context.Context, keyName string, addr interfaces.Address) (interfaces.PointerName, error) {
	name := interfaces.PointerName(keyName)

	r.mu.Lock()
	r.pointers[name] = addr
	r.mu.Unlock()

	r.log.Debug("Published pointer in memory",
		slog.String("name", keyName),
		slog.String("address", addr.String()))

	return name, nil
}

// PointerFor returns the key name itself as the bound name.
func (r *MemoryResolver) PointerFor(ctx context.Context, keyName string) (interfaces.PointerName, error) {
	return interfaces.PointerName(keyName), nil
}

// Resolve returns the bound address or ErrPointerNotFound.
func (r *MemoryResolver) Resolve(ctx context.Context, name interfaces.PointerName) (interfaces.Address, error) {
	r.mu.RLock()
	addr, ok := r.pointers[name]
	r.mu.RUnlock()

	if !ok {
		return "", interfaces.ErrPointerNotFound
	}
	return addr, nil
}

// Available always reports true.
func (r *MemoryResolver) Available(ctx context.Context) bool {
	return true
}

// Name returns an identifier for logging.
func (r *MemoryResolver) Name() string {
	return "memory-resolver"
}
