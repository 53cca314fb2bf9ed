package interfaces

import (
	"context"
	"errors"
)

// PointerName is a mutable name that can be rebound over time to point at
// different content addresses. For IPNS this is the k51... name of the key the
// pointer is published under; in-process resolvers use the key name directly.
type PointerName string

// String returns the pointer name as a plain string.
func (n PointerName) String() string {
	return string(n)
}

var (
	// ErrResolutionExhausted is returned when every resolution endpoint
	// failed. Distinct from ErrPointerNotFound: exhaustion says nothing about
	// whether the name exists.
	ErrResolutionExhausted = errors.New("all resolution endpoints failed")

	// ErrPointerNotFound is returned when a resolver authoritatively reports
	// the name as absent, or the name was never published.
	ErrPointerNotFound = errors.New("pointer not found")

	// ErrResolverUnavailable is returned when the publishing side of the
	// naming service is not accessible.
	ErrResolverUnavailable = errors.New("name resolver unavailable")
)

// NameResolver binds human-chosen pointer names to content addresses and
// resolves them back. Resolution may be served by several interchangeable
// endpoints; the first well-formed response is authoritative.
type NameResolver interface {
	// Publish rebinds the pointer owned by the local key keyName to addr,
	// creating the key if needed. Returns the stable bound name.
	Publish(ctx context.Context, keyName string, addr Address) (PointerName, error)

	// PointerFor returns the stable bound name for keyName without
	// publishing, creating the key if needed.
	PointerFor(ctx context.Context, keyName string) (PointerName, error)

	// Resolve returns the address the name is currently bound to.
	Resolve(ctx context.Context, name PointerName) (Address, error)

	// Available checks if the publishing endpoint is accessible.
	Available(ctx context.Context) bool

	// Name returns an identifier for logging.
	Name() string
}
