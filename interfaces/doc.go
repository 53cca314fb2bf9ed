// Package interfaces defines the core interfaces and types for the catalog
// system: content-addressed blob storage, mutable name resolution, and the
// catalog manager that keeps the two consistent. It provides the contract
// between components without implementation details.
package interfaces
