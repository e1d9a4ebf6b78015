// Package ecs implements an archetype-based Entity-Component-System core.
//
// Entities are opaque (index, generation) handles. Components are typed
// records stored column-major inside archetypes, one archetype per unique
// set of component ids. Structural changes (adding or removing a component)
// migrate an entity's row from its old archetype to a new one, reusing a
// per-archetype edge cache to skip the type-set lookup on repeat migrations.
//
// The World is not safe for concurrent use. Callers needing parallelism
// should own one World per goroutine.
package ecs
