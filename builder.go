package ecs

import "unsafe"

// builderEntry pairs a lazily-resolved component id (resolution needs a
// registry, which a builder may not have seen yet at With-call time) with
// the closure that writes its value directly into a column slot.
type builderEntry struct {
	resolveID func(w *World) ComponentID
	write     func(dst unsafe.Pointer)
}

// EntityBuilder accumulates a type-erased list of component values for a
// single Create call, working around Go's lack of variadic type
// parameters: With[T] captures each concrete type at the call site and
// defers applying it until the builder is consumed.
type EntityBuilder struct {
	entries []builderEntry
}

// NewBuilder returns an empty builder.
func NewBuilder() *EntityBuilder {
	return &EntityBuilder{}
}

// With attaches value to the entity the builder eventually creates. Calling
// With for the same type twice keeps only the last value, matching Add's
// overwrite-in-place semantics.
func With[T any](b *EntityBuilder, value T) *EntityBuilder {
	b.entries = append(b.entries, builderEntry{
		resolveID: func(w *World) ComponentID { return idOf[T](w.reg) },
		write: func(dst unsafe.Pointer) {
			*(*T)(dst) = value
		},
	})
	return b
}

// instantiateBuilder resolves the full TypeSet b describes, places e
// directly into that target archetype in one migration, fills every
// column, and only then fires each component's on-add hooks — so a hook
// for any one component can Get any other component from the same
// CreateWith call.
func (w *World) instantiateBuilder(e Entity, b *EntityBuilder) {
	order := make([]ComponentID, 0, len(b.entries))
	writers := make(map[ComponentID]func(unsafe.Pointer), len(b.entries))
	for _, entry := range b.entries {
		id := entry.resolveID(w)
		if _, seen := writers[id]; !seen {
			order = append(order, id)
		}
		writers[id] = entry.write // last With[T] for a given T wins
	}

	arch := w.archetypeFor(newTypeSet(order...))
	row := arch.push(e)
	for _, id := range order {
		col, _ := arch.columnFor(id)
		writers[id](col.at(row))
	}
	w.entities.records[e.Index] = entityRecord{archetype: arch, row: row}

	for _, id := range order {
		w.fireAdd(id, e)
	}
}

// CreateWith spawns an entity with every component b accumulated.
func CreateWith(w *World, b *EntityBuilder) Entity {
	w.guardNotIterating("create an entity in")
	e := w.entities.allocate()
	w.instantiateBuilder(e, b)
	return e
}
