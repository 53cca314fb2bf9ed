// Package catalog implements a mutable catalog over content-addressed
// storage. Each entity collection has one master catalog blob listing every
// entity, and each entity has its own record blob reachable through a mutable
// pointer. Updating an entity writes a new blob and rebinds the pointer; the
// master catalog is then rewritten and its own pointer rebound.
//
// There is no transaction across the two writes. A failure between the entity
// publish and the master publish leaves the catalog pointing at the previous
// entry until a retried write converges. Concurrent writers are not
// serialized either: the last successful master publish wins and can
// overwrite a concurrent writer's catalog update. Callers get eventual, not
// linearizable, consistency.
//
// The package also provides the degradation chain that picks a working
// catalog backend once per process: the network-backed store, an in-process
// seeded simulation, or a minimal static fallback.
package catalog
