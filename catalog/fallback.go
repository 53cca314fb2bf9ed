package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hackfolio/catalog-backend/interfaces"
	"github.com/hackfolio/catalog-backend/naming"
	"github.com/hackfolio/catalog-backend/storage"
)

// Tier identifies which catalog backend ended up serving a process.
type Tier int

const (
	// TierUnknown means the chain has not selected yet.
	TierUnknown Tier = iota

	// TierNetwork is the real content store plus name resolver.
	TierNetwork

	// TierMemory is the in-process simulation seeded with fixtures.
	TierMemory

	// TierStatic is the last-resort hardcoded record set.
	TierStatic
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierNetwork:
		return "network"
	case TierMemory:
		return "memory"
	case TierStatic:
		return "static"
	default:
		return "unknown"
	}
}

// ChainConfig configures the degradation chain.
type ChainConfig struct {
	// StoreURI locates the Tier 1 content store (ipfs://, file://, s3://,
	// vault://).
	StoreURI string

	// ResolveEndpoints are IPFS HTTP API base URLs tried in order during
	// resolution. Empty means resolution goes through the publishing node.
	ResolveEndpoints []string

	// DNSLinkServer optionally adds a DNSLink endpoint (host:port of a DNS
	// server) to the end of the resolution list.
	DNSLinkServer string

	// PointerDir hosts the file pointer table used when StoreURI is not an
	// IPFS node.
	PointerDir string

	// ResolveTimeout bounds every single resolution attempt.
	ResolveTimeout time.Duration

	// CacheTTL bounds the advisory resolution cache.
	CacheTTL time.Duration

	// BootstrapTimeout bounds the Tier 1 availability probe.
	BootstrapTimeout time.Duration

	// Seed populates the Tier 2 simulation with fixture entities. It
	// receives a manager constructor bound to the Tier 2 substrate.
	Seed func(ctx context.Context, managerFor func(collection string) interfaces.CatalogManager) error

	// Static supplies the Tier 3 hardcoded records per collection.
	Static map[string][]StaticRecord

	// ResolveObserver, when set, receives one callback per resolution
	// attempt against a Tier 1 endpoint.
	ResolveObserver func(endpoint, outcome string)

	Log *slog.Logger
}

// Chain selects a working catalog backend once per process lifetime and
// hands out managers bound to it. Tier selection happens at first use: the
// Tier 1 constructor and bootstrap probe are attempted, any failure is caught
// and logged, and the chain falls back to the in-process simulation, then to
// the static records. There is no re-promotion back to a higher tier within
// the process.
//
// Only initialization-time failures trigger fallback. A network failure during
// an already-selected Tier 1 operation surfaces to the caller.
type Chain struct {
	cfg ChainConfig
	log *slog.Logger

	once     sync.Once
	tier     Tier
	store    interfaces.ContentStore
	resolver interfaces.NameResolver

	mu       sync.Mutex
	managers map[string]interfaces.CatalogManager
}

// NewChain creates an unselected chain. Selection runs on the first
// ManagerFor call.
func NewChain(cfg ChainConfig) *Chain {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Chain{
		cfg:      cfg,
		log:      log,
		managers: make(map[string]interfaces.CatalogManager),
	}
}

// ManagerFor returns the catalog manager serving the collection, triggering
// tier selection on first use.
func (c *Chain) ManagerFor(collection string) interfaces.CatalogManager {
	c.once.Do(c.selectTier)

	c.mu.Lock()
	defer c.mu.Unlock()

	if mgr, ok := c.managers[collection]; ok {
		return mgr
	}

	var mgr interfaces.CatalogManager
	if c.tier == TierStatic {
		mgr = NewStaticCatalog(collection, c.cfg.Static[collection], c.log)
	} else {
		mgr = NewManager(c.store, c.resolver, collection, c.log)
	}

	c.managers[collection] = mgr
	return mgr
}

// Tier reports which tier ended up selected, TierUnknown before first use.
func (c *Chain) Tier() Tier {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tier
}

func (c *Chain) selectTier() {
	if err := c.tryNetwork(); err == nil {
		c.setTier(TierNetwork)
		c.log.Info("Catalog backend selected",
			slog.String("tier", TierNetwork.String()),
			slog.String("store", c.store.LocationURI()))
		return
	} else {
		c.log.Warn("Network catalog tier unavailable, degrading to in-process simulation", "err", err)
	}

	if err := c.tryMemory(); err == nil {
		c.setTier(TierMemory)
		c.log.Warn("Catalog backend selected",
			slog.String("tier", TierMemory.String()))
		return
	} else {
		c.log.Error("In-process catalog tier failed to initialize, degrading to static records", "err", err)
	}

	c.setTier(TierStatic)
	c.log.Error("Catalog backend selected",
		slog.String("tier", TierStatic.String()))
}

func (c *Chain) setTier(t Tier) {
	c.mu.Lock()
	c.tier = t
	c.mu.Unlock()
}

// tryNetwork builds the Tier 1 store and resolver and probes them.
func (c *Chain) tryNetwork() error {
	if c.cfg.StoreURI == "" {
		return fmt.Errorf("no store URI configured")
	}

	loc, err := interfaces.NewStoreLocation(c.cfg.StoreURI)
	if err != nil {
		return err
	}

	factory := storage.NewFactory(c.log)
	store, err := factory.StoreFor(loc)
	if err != nil {
		return err
	}

	resolver, err := c.buildResolver(store)
	if err != nil {
		return err
	}

	timeout := c.cfg.BootstrapTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if !store.Available(ctx) {
		return fmt.Errorf("%w: %s", interfaces.ErrStoreUnavailable, store.LocationURI())
	}
	if !resolver.Available(ctx) {
		return interfaces.ErrResolverUnavailable
	}

	// Bootstrap call: the probe key must be creatable for publishing to
	// work later.
	if _, err := resolver.PointerFor(ctx, "catalog-probe"); err != nil {
		return fmt.Errorf("bootstrap probe: %w", err)
	}

	c.store = store
	c.resolver = resolver
	return nil
}

func (c *Chain) buildResolver(store interfaces.ContentStore) (interfaces.NameResolver, error) {
	ipfsStore, ok := store.(*storage.IPFSStore)
	if !ok {
		if c.cfg.PointerDir == "" {
			return nil, fmt.Errorf("pointer directory required for non-IPFS store %s", store.LocationURI())
		}
		return naming.NewFileResolver(c.cfg.PointerDir, c.log)
	}

	publisher := naming.NewIPNSPublisher(ipfsStore.Shell(), 0, 0, c.log)

	var endpoints []naming.Endpoint
	for _, base := range c.cfg.ResolveEndpoints {
		endpoints = append(endpoints, naming.NewAPIEndpoint(base, c.cfg.ResolveTimeout, c.log))
	}
	if c.cfg.DNSLinkServer != "" {
		endpoints = append(endpoints, naming.NewDNSLinkEndpoint(c.cfg.DNSLinkServer, c.cfg.ResolveTimeout, c.log))
	}

	if len(endpoints) == 0 {
		return publisher, nil
	}

	multi := naming.NewMultiResolver(publisher, endpoints, c.cfg.CacheTTL, c.log)
	if c.cfg.ResolveObserver != nil {
		multi.SetAttemptObserver(c.cfg.ResolveObserver)
	}
	return multi, nil
}

// tryMemory builds the Tier 2 in-process substrate and seeds it.
func (c *Chain) tryMemory() error {
	store := storage.NewMemoryStore(c.log)
	resolver := naming.NewMemoryResolver(c.log)

	c.store = store
	c.resolver = resolver

	if c.cfg.Seed == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	managerFor := func(collection string) interfaces.CatalogManager {
		return NewManager(store, resolver, collection, c.log)
	}

	if err := c.cfg.Seed(ctx, managerFor); err != nil {
		c.store = nil
		c.resolver = nil
		return fmt.Errorf("seed fixtures: %w", err)
	}

	return nil
}
