// Package main (cmd/httpserver) implements the catalog API server.
//
// The server exposes the hackathon catalog and the authentication catalogs
// over HTTP, backed by content-addressed storage with mutable name pointers.
// At first use it selects a catalog backend through the degradation chain:
// the configured content store and resolver when reachable, otherwise an
// in-process seeded simulation, otherwise a static record set. The selection
// holds for the process lifetime.
//
// Configuration is handled through command-line flags: the content store
// location URI, the ordered pointer resolution endpoints, session token
// secret, optional Redis mirror, logging, and performance tuning.
//
// The server implements graceful shutdown on receiving termination signals
// (SIGINT/SIGTERM) and supports health checks, metrics collection, and
// optional profiling endpoints.
//
// Example usage:
//
//	catalog-server --store-uri=ipfs://127.0.0.1:5001 \
//	    --resolve-endpoint=https://ipfs.io \
//	    --resolve-endpoint=https://dweb.link \
//	    --listen-addr=0.0.0.0:8080 \
//	    --session-secret=change-me
package main
