package ecs

import "reflect"

// registry assigns a dense ComponentID to each distinct Go type on first
// use, and separately tracks the optional stable name and serialize/
// deserialize pair a caller may attach via RegisterName for snapshotting.
//
// Ids are process-local: two runs of the same program may assign different
// ids to the same type, which is exactly why snapshots key components by
// name instead of id (§4.9).
type registry struct {
	byType map[reflect.Type]ComponentID
	ops    []columnOps
	names  []string // indexed by ComponentID; "" if unnamed
	byName map[string]ComponentID
}

func newRegistry() *registry {
	return &registry{
		byType: make(map[reflect.Type]ComponentID),
		// Pre-sized to the hard cap so idOf's append never reallocates: an
		// archetype caches &r.ops[id] for its lifetime (archetype.go), and
		// a later growth of this slice would leave those pointers
		// referencing a stale backing array.
		ops:    make([]columnOps, 0, MaxComponentTypes),
		byName: make(map[string]ComponentID),
	}
}

// idOf returns the ComponentID for T, assigning and registering its column
// ops on first observation.
func idOf[T any](r *registry) ComponentID {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if id, ok := r.byType[t]; ok {
		return id
	}
	if len(r.ops) >= MaxComponentTypes {
		panicf(ErrCapacity, "cannot register type %s: %d component types already registered", t, MaxComponentTypes)
	}
	id := ComponentID(len(r.ops))
	r.byType[t] = id
	r.ops = append(r.ops, columnOpsFor[T]())
	r.names = append(r.names, "")
	return id
}

// registerName attaches a stable name (and optional serialize/deserialize
// pair) to the component type T, for use across Save/Load. Calling it twice
// for the same type with a different name, or once for two types with the
// same name, panics with ErrNameConflict.
func registerName[T any](r *registry, name string, serial serializeFunc, deser deserializeFunc) {
	id := idOf[T](r)
	if existing := r.names[id]; existing != "" && existing != name {
		panicf(ErrNameConflict, "type already registered under name %q, cannot re-register as %q", existing, name)
	}
	if owner, ok := r.byName[name]; ok && owner != id {
		panicf(ErrNameConflict, "name %q already registered to a different component type", name)
	}
	r.names[id] = name
	r.byName[name] = id
	r.ops[id].serial = serial
	r.ops[id].deser = deser
}

func (r *registry) opsFor(id ComponentID) *columnOps {
	return &r.ops[id]
}

func (r *registry) idByName(name string) (ComponentID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

func (r *registry) nameOf(id ComponentID) string {
	return r.names[id]
}
