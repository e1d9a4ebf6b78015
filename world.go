package ecs

import "reflect"

// World owns every entity, archetype, and component column in one ECS
// instance. It is not safe for concurrent use; callers needing parallelism
// should own one World per goroutine and synchronize at a higher level.
type World struct {
	reg        *registry
	entities   *entityTable
	archetypes map[string]*archetype
	archList   []*archetype
	empty      *archetype
	generation uint64

	resources map[reflect.Type]any

	onAdd    map[ComponentID][]func(*World, Entity)
	onRemove map[ComponentID][]func(*World, Entity)

	iterating int

	queryCache map[string]*queryCacheEntry
}

// NewWorld constructs an empty World, pre-creating the archetype with no
// components so Create has somewhere to put a bare entity.
func NewWorld() *World {
	w := &World{
		reg:        newRegistry(),
		entities:   newEntityTable(),
		archetypes: make(map[string]*archetype),
		resources:  make(map[reflect.Type]any),
		onAdd:      make(map[ComponentID][]func(*World, Entity)),
		onRemove:   make(map[ComponentID][]func(*World, Entity)),
		queryCache: make(map[string]*queryCacheEntry),
	}
	w.empty = w.archetypeFor(newTypeSet())
	return w
}

func (w *World) guardNotIterating(op string) {
	if w.iterating > 0 {
		panicf(ErrPrecondition, "cannot %s a World while a query iteration is in progress", op)
	}
}

// archetypeFor returns the archetype for types, creating it (and bumping
// the generation counter that invalidates the query cache) if this is the
// first time this exact TypeSet has been seen.
func (w *World) archetypeFor(types TypeSet) *archetype {
	key := types.key()
	if a, ok := w.archetypes[key]; ok {
		return a
	}
	a := newArchetype(types, w.reg)
	w.archetypes[key] = a
	w.archList = append(w.archList, a)
	w.generation++
	return a
}

// Create spawns a bare entity with no components.
func (w *World) Create() Entity {
	w.guardNotIterating("create an entity in")
	e := w.entities.allocate()
	row := w.empty.push(e)
	w.entities.records[e.Index] = entityRecord{archetype: w.empty, row: row}
	return e
}

// Alive reports whether e refers to a currently live entity.
func (w *World) Alive(e Entity) bool {
	return w.entities.alive(e)
}

func (w *World) mustBeAlive(e Entity, op string) entityRecord {
	if !w.entities.alive(e) {
		panicf(ErrPrecondition, "cannot %s: entity %+v is not alive", op, e)
	}
	return w.entities.records[e.Index]
}

// Destroy removes e and all of its components. It is a no-op if e is not
// alive.
func (w *World) Destroy(e Entity) {
	w.guardNotIterating("destroy an entity in")
	if !w.entities.alive(e) {
		return
	}
	rec := w.entities.records[e.Index]
	for _, id := range rec.archetype.types {
		w.fireRemove(id, e)
	}
	moved := rec.archetype.swapRemove(rec.row)
	if !moved.IsInvalid() {
		w.entities.records[moved.Index].row = rec.row
	}
	w.entities.records[e.Index] = entityRecord{}
	w.entities.release(e.Index)
}

// DestroyAll removes every live entity, archetype state included.
func (w *World) DestroyAll() {
	w.guardNotIterating("destroy all entities in")
	for _, a := range w.archList {
		for _, e := range a.entities {
			for _, id := range a.types {
				w.fireRemove(id, e)
			}
			w.entities.records[e.Index] = entityRecord{}
			w.entities.release(e.Index)
		}
		for i := range a.columns {
			col := &a.columns[i]
			for row := 0; row < a.count; row++ {
				col.ops.destroy(col.at(row))
			}
		}
		a.entities = a.entities[:0]
		a.count = 0
	}
}

func (w *World) fireAdd(id ComponentID, e Entity) {
	for _, fn := range w.onAdd[id] {
		fn(w, e)
	}
}

func (w *World) fireRemove(id ComponentID, e Entity) {
	for _, fn := range w.onRemove[id] {
		fn(w, e)
	}
}

// OnAdd registers fn to run immediately after component T is attached to an
// entity (including at creation, and after the migration that attaches it
// has fully updated the entity's record).
func OnAdd[T any](w *World, fn func(*World, Entity)) {
	id := idOf[T](w.reg)
	w.onAdd[id] = append(w.onAdd[id], fn)
}

// OnRemove registers fn to run immediately before component T's data is
// destroyed, whether by Remove, Destroy, or DestroyAll.
func OnRemove[T any](w *World, fn func(*World, Entity)) {
	id := idOf[T](w.reg)
	w.onRemove[id] = append(w.onRemove[id], fn)
}

// migrate moves e's row from its current archetype to dst, leaving exactly
// one of the columns present in both archetypes' worth of data moved and
// any columns only in dst left zero-valued for the caller to fill in.
func (w *World) migrate(e Entity, dst *archetype) entityRecord {
	rec := w.entities.records[e.Index]
	src := rec.archetype
	newRow := dst.push(e)
	for i := range src.columns {
		col := &src.columns[i]
		if dstCol, ok := dst.columnFor(col.id); ok {
			dstCol.ops.move(dstCol.at(newRow), col.at(rec.row))
		} else {
			col.ops.destroy(col.at(rec.row))
		}
	}
	moved := src.swapRemove(rec.row)
	if !moved.IsInvalid() {
		w.entities.records[moved.Index].row = rec.row
	}
	newRec := entityRecord{archetype: dst, row: newRow}
	w.entities.records[e.Index] = newRec
	return newRec
}

// Add attaches component value of type T to e, migrating it to the
// archetype for its enlarged TypeSet. Adding a type e already has replaces
// the existing value without a migration. It is a no-op if e is not alive.
func Add[T any](w *World, e Entity, value T) {
	w.guardNotIterating("add a component in")
	if !w.entities.alive(e) {
		return
	}
	rec := w.entities.records[e.Index]
	id := idOf[T](w.reg)
	if col, ok := rec.archetype.columnFor(id); ok {
		*(*T)(col.at(rec.row)) = value
		return
	}
	edge := rec.archetype.edge(id)
	if edge.add == nil {
		edge.add = w.archetypeFor(rec.archetype.types.plus(id))
	}
	newRec := w.migrate(e, edge.add)
	col, _ := newRec.archetype.columnFor(id)
	*(*T)(col.at(newRec.row)) = value
	w.fireAdd(id, e)
}

// Remove detaches component T from e, migrating it to the archetype for its
// shrunken TypeSet. It is a no-op if e is not alive or does not have T.
func Remove[T any](w *World, e Entity) {
	w.guardNotIterating("remove a component in")
	if !w.entities.alive(e) {
		return
	}
	rec := w.entities.records[e.Index]
	id := idOf[T](w.reg)
	if _, ok := rec.archetype.columnFor(id); !ok {
		return
	}
	w.fireRemove(id, e)
	edge := rec.archetype.edge(id)
	if edge.remove == nil {
		edge.remove = w.archetypeFor(rec.archetype.types.minus(id))
	}
	w.migrate(e, edge.remove)
}

// Has reports whether e currently has a component of type T. A dead
// entity simply has no components; Has never panics.
func Has[T any](w *World, e Entity) bool {
	if !w.entities.alive(e) {
		return false
	}
	rec := w.entities.records[e.Index]
	id := idOf[T](w.reg)
	_, ok := rec.archetype.columnFor(id)
	return ok
}

// Get returns a pointer to e's component of type T, panicking if e lacks
// one. The pointer is valid until the next structural change to e's
// archetype (Add/Remove/Destroy on any entity, or growth from Create).
func Get[T any](w *World, e Entity) *T {
	rec := w.mustBeAlive(e, "get component on")
	id := idOf[T](w.reg)
	col, ok := rec.archetype.columnFor(id)
	if !ok {
		panicf(ErrPrecondition, "entity %+v has no component of type %T", e, *new(T))
	}
	return (*T)(col.at(rec.row))
}

// TryGet is the non-panicking form of Get: a dead entity or a missing
// component both just yield ok=false, never a panic.
func TryGet[T any](w *World, e Entity) (*T, bool) {
	if !w.entities.alive(e) {
		return nil, false
	}
	rec := w.entities.records[e.Index]
	id := idOf[T](w.reg)
	col, ok := rec.archetype.columnFor(id)
	if !ok {
		return nil, false
	}
	return (*T)(col.at(rec.row)), true
}

// SetResource stores value as the singleton resource of its type, replacing
// any previous one.
func SetResource[T any](w *World, value T) {
	w.resources[reflect.TypeOf((*T)(nil)).Elem()] = value
}

// Resource returns the singleton resource of type T, panicking if none has
// been set.
func Resource[T any](w *World) T {
	v, ok := w.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		var zero T
		panicf(ErrPrecondition, "no resource of type %T registered", zero)
	}
	return v.(T)
}
