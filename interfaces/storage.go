package interfaces

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
)

// Address is an opaque content address. The same bytes stored through the same
// backend always yield the same address. IPFS backends return CIDs, the other
// backends return the hex-encoded SHA-256 of the content.
type Address string

// ComputeAddress calculates the canonical non-IPFS address for data.
func ComputeAddress(data []byte) Address {
	hash := sha256.Sum256(data)
	return Address(hex.EncodeToString(hash[:]))
}

// String returns the address as a plain string.
func (a Address) String() string {
	return string(a)
}

// Empty reports whether the address is unset.
func (a Address) Empty() bool {
	return a == ""
}

// StoreLocation represents a parsed storage backend URI.
type StoreLocation struct {
	Raw    string     // Original URI
	Scheme string     // Protocol
	Host   string     // Hostname
	Path   string     // Resource path
	Query  url.Values // Query parameters
	Auth   string     // Authentication info
}

// NewStoreLocation creates a new storage location from a URI string with validation.
func NewStoreLocation(uri string) (StoreLocation, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return StoreLocation{}, fmt.Errorf("%w: %v", ErrInvalidLocationURI, err)
	}

	switch parsed.Scheme {
	case "ipfs", "file", "s3", "vault", "mem":
		// Valid scheme
	default:
		return StoreLocation{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocationURI, parsed.Scheme)
	}

	var auth string
	if parsed.User != nil {
		auth = parsed.User.String()
	}

	return StoreLocation{
		Raw:    uri,
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   parsed.Path,
		Query:  parsed.Query(),
		Auth:   auth,
	}, nil
}

// String returns the original URI string.
func (loc StoreLocation) String() string {
	return loc.Raw
}

// GetParam returns a query parameter value.
func (loc StoreLocation) GetParam(name string) string {
	return loc.Query.Get(name)
}

// GetParamBool returns a boolean query parameter value.
func (loc StoreLocation) GetParamBool(name string) bool {
	value := loc.Query.Get(name)
	return value == "true" || value == "1" || value == "yes"
}

var (
	// ErrBlobNotFound is returned when an address was never written or the
	// store purged it.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrStoreUnavailable is returned when a content store is not accessible.
	// This could be due to network issues, authentication failures, or
	// service outages.
	ErrStoreUnavailable = errors.New("content store unavailable")

	// ErrWriteFailed is returned when a put or publish call errored.
	ErrWriteFailed = errors.New("write failed")

	// ErrInvalidLocationURI is returned when a storage location URI is
	// malformed or unsupported. URIs follow the format
	// [scheme]://[auth@]host[:port][/path][?params]
	ErrInvalidLocationURI = errors.New("invalid storage location URI")
)

// ContentStore provides content-addressed, immutable blob storage.
type ContentStore interface {
	// Put saves data and returns its content address.
	Put(ctx context.Context, data []byte) (Address, error)

	// Get retrieves data by content address.
	Get(ctx context.Context, addr Address) ([]byte, error)

	// Available checks if the store is accessible.
	Available(ctx context.Context) bool

	// Name returns an identifier for logging.
	Name() string

	// LocationURI returns the URI identifying this store.
	LocationURI() string
}

// ContentStoreFactory creates content stores from location URIs.
type ContentStoreFactory interface {
	// StoreFor creates a store from a URI.
	// Supports ipfs://, file://, s3://, vault://, mem://
	StoreFor(loc StoreLocation) (ContentStore, error)
}
