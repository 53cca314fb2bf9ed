package naming

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// IPNSPublisher binds pointer names to content addresses through an IPFS
// node. Each pointer is backed by a named local key; the bound name is the
// IPNS name of that key, so it stays stable across republishes.
type IPNSPublisher struct {
	shell    *shell.Shell
	lifetime time.Duration
	ttl      time.Duration
	log      *slog.Logger
}

// NewIPNSPublisher creates a publisher over an existing IPFS API shell.
// Records are published with the given lifetime; ttl controls how long
// resolvers may cache them.
func NewIPNSPublisher(sh *shell.Shell, lifetime, ttl time.Duration, log *slog.Logger) *IPNSPublisher {
	if lifetime == 0 {
		lifetime = 24 * time.Hour
	}
	if ttl == 0 {
		ttl = time.Minute
	}
	return &IPNSPublisher{
		shell:    sh,
		lifetime: lifetime,
		ttl:      ttl,
		log:      log,
	}
}

// Publish rebinds the pointer owned by keyName to addr, creating the key if
// needed, and returns the stable IPNS name.
func (p *IPNSPublisher) Publish(ctx context.Context, keyName string, addr interfaces.Address) (interfaces.PointerName, error) {
	start := time.Now()

	if !p.shell.IsUp() {
		return "", interfaces.ErrResolverUnavailable
	}

	if _, err := p.ensureKey(ctx, keyName); err != nil {
		return "", err
	}

	resp, err := p.shell.PublishWithDetails("/ipfs/"+addr.String(), keyName, p.lifetime, p.ttl, false)
	if err != nil {
		return "", fmt.Errorf("%w: ipns publish for key %q: %v", interfaces.ErrWriteFailed, keyName, err)
	}

	p.log.Debug("Published pointer",
		slog.String("key", keyName),
		slog.String("name", resp.Name),
		slog.String("address", addr.String()),
		slog.Duration("duration", time.Since(start)))

	return interfaces.PointerName(resp.Name), nil
}

// PointerFor returns the stable IPNS name for keyName without publishing,
// creating the key if needed.
func (p *IPNSPublisher) PointerFor(ctx context.Context, keyName string) (interfaces.PointerName, error) {
	if !p.shell.IsUp() {
		return "", interfaces.ErrResolverUnavailable
	}
	return p.ensureKey(ctx, keyName)
}

// Resolve returns the address the IPNS name currently points at, asking the
// publishing node itself. Deployments normally resolve through a
// MultiResolver instead; this path serves single-node setups.
func (p *IPNSPublisher) Resolve(ctx context.Context, name interfaces.PointerName) (interfaces.Address, error) {
	if !p.shell.IsUp() {
		return "", interfaces.ErrResolverUnavailable
	}

	path, err := p.shell.Resolve(name.String())
	if err != nil {
		if strings.Contains(err.Error(), "could not resolve name") {
			return "", interfaces.ErrPointerNotFound
		}
		return "", fmt.Errorf("ipns resolve %q: %w", name, err)
	}

	return addressFromPath(path)
}

// Available checks if the IPFS node is accessible.
func (p *IPNSPublisher) Available(ctx context.Context) bool {
	return p.shell.IsUp()
}

// Name returns an identifier for logging.
func (p *IPNSPublisher) Name() string {
	return "ipns"
}

func (p *IPNSPublisher) ensureKey(ctx context.Context, keyName string) (interfaces.PointerName, error) {
	keys, err := p.shell.KeyList(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: key list: %v", interfaces.ErrResolverUnavailable, err)
	}

	for _, k := range keys {
		if k.Name == keyName {
			return interfaces.PointerName(k.Id), nil
		}
	}

	key, err := p.shell.KeyGen(ctx, keyName)
	if err != nil {
		return "", fmt.Errorf("%w: key gen %q: %v", interfaces.ErrResolverUnavailable, keyName, err)
	}

	p.log.Debug("Created pointer key",
		slog.String("key", keyName),
		slog.String("name", key.Id))

	return interfaces.PointerName(key.Id), nil
}

// addressFromPath extracts the content address from an /ipfs/<cid> path.
func addressFromPath(path string) (interfaces.Address, error) {
	cleaned := strings.TrimSpace(path)
	if !strings.HasPrefix(cleaned, "/ipfs/") {
		return "", fmt.Errorf("malformed resolution path %q", path)
	}
	cid := strings.TrimPrefix(cleaned, "/ipfs/")
	if cid == "" {
		return "", fmt.Errorf("malformed resolution path %q", path)
	}
	return interfaces.Address(cid), nil
}
