// Package repository specializes the catalog manager per entity kind.
// Each repository layers kind-specific validation and derived fields on top of
// a CatalogManager and returns the uniform result envelope consumed by route
// handlers.
package repository
