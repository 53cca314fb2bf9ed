package naming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// Endpoint is one of several independent services able to answer what a
// pointer currently resolves to.
type Endpoint interface {
	// ResolveName returns the bound address, ErrPointerNotFound when the
	// endpoint authoritatively reports the name absent, or any other error
	// when the attempt failed and the next endpoint should be tried.
	ResolveName(ctx context.Context, name interfaces.PointerName) (interfaces.Address, error)

	// Name returns an identifier for logging.
	Name() string
}

// MultiResolver implements interfaces.NameResolver with publishing delegated
// to a single publisher and resolution tried against an ordered endpoint
// list. The first endpoint producing a well-formed response is authoritative;
// failed attempts fall through to the next endpoint, and exhausting the list
// yields ErrResolutionExhausted.
//
// Successful resolutions are remembered in a small TTL cache. The cache is
// advisory: Resolve never serves from it, it only feeds diagnostics such as
// the catalog's cached currentAddress.
type MultiResolver struct {
	publisher interfaces.NameResolver
	endpoints []Endpoint
	log       *slog.Logger

	cacheTTL  time.Duration
	cache     map[interfaces.PointerName]cacheEntry
	cacheLock sync.RWMutex

	observer func(endpoint, outcome string)
}

type cacheEntry struct {
	addr   interfaces.Address
	expiry time.Time
}

// NewMultiResolver creates a resolver over the given publisher and endpoint
// list. cacheTTL bounds the advisory resolution cache; zero selects a minute.
func NewMultiResolver(publisher interfaces.NameResolver, endpoints []Endpoint, cacheTTL time.Duration, log *slog.Logger) *MultiResolver {
	if cacheTTL == 0 {
		cacheTTL = time.Minute
	}
	return &MultiResolver{
		publisher: publisher,
		endpoints: endpoints,
		log:       log,
		cacheTTL:  cacheTTL,
		cache:     make(map[interfaces.PointerName]cacheEntry),
	}
}

// SetAttemptObserver installs a callback invoked once per endpoint attempt
// with the endpoint name and the outcome ("hit", "absent" or "error"). Used
// for instrumentation; must be set before the resolver is shared.
func (m *MultiResolver) SetAttemptObserver(fn func(endpoint, outcome string)) {
	m.observer = fn
}

func (m *MultiResolver) observe(endpoint, outcome string) {
	if m.observer != nil {
		m.observer(endpoint, outcome)
	}
}

// Publish delegates to the publisher.
func (m *MultiResolver) Publish(ctx context.Context, keyName string, addr interfaces.Address) (interfaces.PointerName, error) {
	name, err := m.publisher.Publish(ctx, keyName, addr)
	if err != nil {
		return "", err
	}

	m.cacheLock.Lock()
	m.cache[name] = cacheEntry{addr: addr, expiry: time.Now().Add(m.cacheTTL)}
	m.cacheLock.Unlock()

	return name, nil
}

// PointerFor delegates to the publisher.
func (m *MultiResolver) PointerFor(ctx context.Context, keyName string) (interfaces.PointerName, error) {
	return m.publisher.PointerFor(ctx, keyName)
}

// Resolve tries each endpoint in order and returns the first well-formed
// answer. A resolver-reported absence ends the attempt with
// ErrPointerNotFound; transport failures fall through. When every endpoint
// fails the result is ErrResolutionExhausted.
func (m *MultiResolver) Resolve(ctx context.Context, name interfaces.PointerName) (interfaces.Address, error) {
	start := time.Now()
	var errs []error

	for _, ep := range m.endpoints {
		addr, err := ep.ResolveName(ctx, name)
		if err == nil {
			m.observe(ep.Name(), "hit")
			m.log.Debug("Resolved pointer",
				slog.String("endpoint", ep.Name()),
				slog.String("name", name.String()),
				slog.String("address", addr.String()),
				slog.Duration("duration", time.Since(start)))

			m.cacheLock.Lock()
			m.cache[name] = cacheEntry{addr: addr, expiry: time.Now().Add(m.cacheTTL)}
			m.cacheLock.Unlock()

			return addr, nil
		}

		if errors.Is(err, interfaces.ErrPointerNotFound) {
			// Well-formed negative answer, authoritative.
			m.observe(ep.Name(), "absent")
			m.log.Debug("Pointer reported absent",
				slog.String("endpoint", ep.Name()),
				slog.String("name", name.String()))
			return "", interfaces.ErrPointerNotFound
		}

		m.observe(ep.Name(), "error")
		errs = append(errs, fmt.Errorf("%s: %w", ep.Name(), err))
		m.log.Debug("Failed to resolve from endpoint",
			slog.String("endpoint", ep.Name()),
			slog.String("name", name.String()),
			"err", err)
	}

	m.log.Error("All endpoints failed to resolve pointer",
		slog.String("name", name.String()),
		slog.Int("failed_endpoints", len(errs)),
		slog.Duration("duration", time.Since(start)))

	return "", fmt.Errorf("%w: %v", interfaces.ErrResolutionExhausted, errs)
}

// Cached returns the last observed address for a name if it has not aged out.
// Advisory only.
func (m *MultiResolver) Cached(name interfaces.PointerName) (interfaces.Address, bool) {
	m.cacheLock.RLock()
	defer m.cacheLock.RUnlock()

	entry, ok := m.cache[name]
	if !ok || time.Now().After(entry.expiry) {
		return "", false
	}
	return entry.addr, true
}

// Available reports whether the publishing side is accessible.
func (m *MultiResolver) Available(ctx context.Context) bool {
	return m.publisher.Available(ctx)
}

// Name returns an identifier for logging.
func (m *MultiResolver) Name() string {
	return "multi-resolver"
}

// APIEndpoint resolves names against one IPFS HTTP API, using the
// /api/v0/name/resolve route. Each attempt is bounded by its own fixed
// timeout regardless of the caller's context.
type APIEndpoint struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewAPIEndpoint creates an endpoint for the IPFS HTTP API at baseURL
// (e.g. http://127.0.0.1:5001). A zero timeout selects 10 seconds.
func NewAPIEndpoint(baseURL string, timeout time.Duration, log *slog.Logger) *APIEndpoint {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &APIEndpoint{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type resolveResponse struct {
	Path    string `json:"Path"`
	Message string `json:"Message"`
}

// ResolveName asks the API to resolve /ipns/<name>.
func (e *APIEndpoint) ResolveName(ctx context.Context, name interfaces.PointerName) (interfaces.Address, error) {
	reqURL := fmt.Sprintf("%s/api/v0/name/resolve?arg=%s", e.baseURL, url.QueryEscape("/ipns/"+name.String()))

	req, err := http.NewRequest(http.MethodPost, reqURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("malformed resolve response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// The API reports unknown names as a well-formed error body.
		if isNameAbsentMessage(body.Message) {
			return "", interfaces.ErrPointerNotFound
		}
		return "", fmt.Errorf("resolve returned status %d: %s", resp.StatusCode, body.Message)
	}

	return addressFromPath(body.Path)
}

// Name returns an identifier for logging.
func (e *APIEndpoint) Name() string {
	return "api-" + e.baseURL
}

func isNameAbsentMessage(msg string) bool {
	return msg != "" && (containsFold(msg, "could not resolve name") || containsFold(msg, "no record"))
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
