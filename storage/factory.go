package storage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// Factory creates content stores from location URIs.
type Factory struct {
	log *slog.Logger

	// memStore is handed out for every mem:// location so all in-process
	// consumers share one blob table.
	memStore *MemoryStore
}

// NewFactory creates a new factory instance that can create content stores.
func NewFactory(logger *slog.Logger) *Factory {
	return &Factory{
		log:      logger,
		memStore: NewMemoryStore(logger),
	}
}

// StoreFor creates a content store from a location URI.
// The URI format is [scheme]://[auth@]host[:port][/path][?params]
//
// Supported schemes:
//   - ipfs:// - IPFS node API
//   - file:// - Local filesystem storage
//   - s3:// - Amazon S3 or compatible object storage
//   - vault:// - HashiCorp Vault KV v2
//   - mem:// - In-process memory (degraded tiers and tests)
//
// Returns an error if the URI is invalid or the scheme is unsupported.
func (f *Factory) StoreFor(loc interfaces.StoreLocation) (interfaces.ContentStore, error) {
	switch strings.ToLower(loc.Scheme) {
	case "ipfs":
		return f.createIPFSStore(loc)
	case "file":
		return f.createFileStore(loc)
	case "s3":
		return f.createS3Store(loc)
	case "vault":
		return f.createVaultStore(loc)
	case "mem":
		return f.memStore, nil
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", interfaces.ErrInvalidLocationURI, loc.Scheme)
	}
}

// createIPFSStore creates an IPFS content store.
// URI format: ipfs://host:port/?timeout=30s
func (f *Factory) createIPFSStore(loc interfaces.StoreLocation) (interfaces.ContentStore, error) {
	f.log.Debug("Creating IPFS store", slog.String("uri", loc.String()))

	host := loc.Host
	port := "5001" // Default IPFS API port
	if i := strings.LastIndex(loc.Host, ":"); i >= 0 {
		host = loc.Host[:i]
		port = loc.Host[i+1:]
	}

	timeout := loc.GetParam("timeout")
	if timeout == "" {
		timeout = "30s"
	}

	return NewIPFSStore(host, port, timeout, f.log)
}

// createFileStore creates a file system content store.
// URI format: file:///absolute/path/ or file://./relative/path/
func (f *Factory) createFileStore(loc interfaces.StoreLocation) (interfaces.ContentStore, error) {
	f.log.Debug("Creating file store", slog.String("uri", loc.String()))

	path := loc.Path
	if loc.Host != "" {
		path = loc.Host + "/" + strings.TrimPrefix(path, "/")
	}

	if path == "" {
		return nil, fmt.Errorf("%w: empty path in file URI %q", interfaces.ErrInvalidLocationURI, loc.String())
	}

	return NewFileStore(path, f.log)
}

// createS3Store creates an S3 or S3-compatible content store.
// URI format: s3://[ACCESS_KEY:SECRET_KEY@]bucket-name/path/?region=us-west-2&endpoint=custom.s3.com
func (f *Factory) createS3Store(loc interfaces.StoreLocation) (interfaces.ContentStore, error) {
	f.log.Debug("Creating S3 store", slog.String("uri", loc.String()))

	bucketName := loc.Host
	path := strings.TrimPrefix(loc.Path, "/")

	region := loc.GetParam("region")
	if region == "" {
		region = "us-east-1"
	}

	endpoint := loc.GetParam("endpoint")

	var accessKey, secretKey string
	if loc.Auth != "" {
		parts := strings.SplitN(loc.Auth, ":", 2)
		accessKey = parts[0]
		if len(parts) == 2 {
			secretKey = parts[1]
		}
		f.log.Debug("Using embedded credentials for write access")
	} else {
		f.log.Debug("No credentials provided, S3 bucket assumed to be public, write operations may fail")
	}

	return NewS3Store(bucketName, path, region, endpoint, accessKey, secretKey, f.log)
}

// createVaultStore creates a Vault content store.
// URI format: vault://host:port/mount/path?token=...&scheme=https
func (f *Factory) createVaultStore(loc interfaces.StoreLocation) (interfaces.ContentStore, error) {
	f.log.Debug("Creating Vault store", slog.String("uri", loc.String()))

	scheme := loc.GetParam("scheme")
	if scheme == "" {
		scheme = "https"
	}
	address := fmt.Sprintf("%s://%s", scheme, loc.Host)

	parts := strings.SplitN(strings.Trim(loc.Path, "/"), "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: vault URI needs /mount/path, got %q", interfaces.ErrInvalidLocationURI, loc.Path)
	}

	token := loc.GetParam("token")

	return NewVaultStore(address, parts[0], parts[1], token, f.log)
}
