package ecs

import "sort"

// queryCacheEntry remembers which archetypes matched an (include, exclude)
// pair the last time it was evaluated, and the World generation at which
// that was computed. A stale generation means at least one archetype has
// been created since, so the match must be recomputed.
type queryCacheEntry struct {
	generation uint64
	matches    []*archetype
}

type queryConfig struct {
	exclude TypeSet
}

// QueryOption customizes an Each/Single call beyond its required component
// types.
type QueryOption func(w *World, cfg *queryConfig)

// WithExclude filters out any entity that also has a component of type T.
func WithExclude[T any]() QueryOption {
	return func(w *World, cfg *queryConfig) {
		cfg.exclude = cfg.exclude.plus(idOf[T](w.reg))
	}
}

func (w *World) matchArchetypes(include, exclude TypeSet) []*archetype {
	key := include.key() + "\x00" + exclude.key()
	if entry, ok := w.queryCache[key]; ok && entry.generation == w.generation {
		return entry.matches
	}
	includeMask := include.toBitmask()
	excludeMask := exclude.toBitmask()
	var matches []*archetype
	for _, a := range w.archList {
		if !a.mask.containsAll(includeMask) {
			continue
		}
		if !excludeMask.isZero() && a.mask.intersects(excludeMask) {
			continue
		}
		matches = append(matches, a)
	}
	w.queryCache[key] = &queryCacheEntry{generation: w.generation, matches: matches}
	return matches
}

func buildConfig(w *World, opts []QueryOption) *queryConfig {
	cfg := &queryConfig{}
	for _, opt := range opts {
		opt(w, cfg)
	}
	sort.Slice(cfg.exclude, func(i, j int) bool { return cfg.exclude[i] < cfg.exclude[j] })
	return cfg
}

func (w *World) iterate(fn func()) {
	w.iterating++
	defer func() { w.iterating-- }()
	fn()
}

// Each1 calls fn for every entity with a component of type A, excluding
// anything WithExclude options rule out. Structural changes (Add, Remove,
// Destroy, Create) during fn are forbidden; record them on a CommandBuffer
// instead and flush after the loop.
func Each1[A any](w *World, fn func(Entity, *A), opts ...QueryOption) {
	idA := idOf[A](w.reg)
	cfg := buildConfig(w, opts)
	w.iterate(func() {
		for _, a := range w.matchArchetypes(newTypeSet(idA), cfg.exclude) {
			colA, _ := a.columnFor(idA)
			for row := 0; row < a.count; row++ {
				fn(a.entities[row], (*A)(colA.at(row)))
			}
		}
	})
}

// Each2 is Each1 over two required component types.
func Each2[A, B any](w *World, fn func(Entity, *A, *B), opts ...QueryOption) {
	idA, idB := idOf[A](w.reg), idOf[B](w.reg)
	cfg := buildConfig(w, opts)
	w.iterate(func() {
		for _, a := range w.matchArchetypes(newTypeSet(idA, idB), cfg.exclude) {
			colA, _ := a.columnFor(idA)
			colB, _ := a.columnFor(idB)
			for row := 0; row < a.count; row++ {
				fn(a.entities[row], (*A)(colA.at(row)), (*B)(colB.at(row)))
			}
		}
	})
}

// Each3 is Each1 over three required component types.
func Each3[A, B, C any](w *World, fn func(Entity, *A, *B, *C), opts ...QueryOption) {
	idA, idB, idC := idOf[A](w.reg), idOf[B](w.reg), idOf[C](w.reg)
	cfg := buildConfig(w, opts)
	w.iterate(func() {
		for _, a := range w.matchArchetypes(newTypeSet(idA, idB, idC), cfg.exclude) {
			colA, _ := a.columnFor(idA)
			colB, _ := a.columnFor(idB)
			colC, _ := a.columnFor(idC)
			for row := 0; row < a.count; row++ {
				fn(a.entities[row], (*A)(colA.at(row)), (*B)(colB.at(row)), (*C)(colC.at(row)))
			}
		}
	})
}

// Each4 is Each1 over four required component types.
func Each4[A, B, C, D any](w *World, fn func(Entity, *A, *B, *C, *D), opts ...QueryOption) {
	idA, idB, idC, idD := idOf[A](w.reg), idOf[B](w.reg), idOf[C](w.reg), idOf[D](w.reg)
	cfg := buildConfig(w, opts)
	w.iterate(func() {
		for _, a := range w.matchArchetypes(newTypeSet(idA, idB, idC, idD), cfg.exclude) {
			colA, _ := a.columnFor(idA)
			colB, _ := a.columnFor(idB)
			colC, _ := a.columnFor(idC)
			colD, _ := a.columnFor(idD)
			for row := 0; row < a.count; row++ {
				fn(a.entities[row], (*A)(colA.at(row)), (*B)(colB.at(row)), (*C)(colC.at(row)), (*D)(colD.at(row)))
			}
		}
	})
}

// EachNoEntity1 is Each1 for callers that don't need the Entity handle.
func EachNoEntity1[A any](w *World, fn func(*A), opts ...QueryOption) {
	Each1(w, func(_ Entity, a *A) { fn(a) }, opts...)
}

// EachNoEntity2 is Each2 for callers that don't need the Entity handle.
func EachNoEntity2[A, B any](w *World, fn func(*A, *B), opts ...QueryOption) {
	Each2(w, func(_ Entity, a *A, b *B) { fn(a, b) }, opts...)
}

// EachNoEntity3 is Each3 for callers that don't need the Entity handle.
func EachNoEntity3[A, B, C any](w *World, fn func(*A, *B, *C), opts ...QueryOption) {
	Each3(w, func(_ Entity, a *A, b *B, c *C) { fn(a, b, c) }, opts...)
}

// EachNoEntity4 is Each4 for callers that don't need the Entity handle.
func EachNoEntity4[A, B, C, D any](w *World, fn func(*A, *B, *C, *D), opts ...QueryOption) {
	Each4(w, func(_ Entity, a *A, b *B, c *C, d *D) { fn(a, b, c, d) }, opts...)
}

// Single1 returns the lone entity with a component of type A and a pointer
// to it, panicking if zero or more than one exists. Callers that model a
// genuine singleton (a camera, a game clock) use this instead of Each1 to
// make that cardinality assumption explicit and checked.
func Single1[A any](w *World, opts ...QueryOption) (Entity, *A) {
	idA := idOf[A](w.reg)
	cfg := buildConfig(w, opts)
	var found Entity
	var ptr *A
	n := 0
	for _, a := range w.matchArchetypes(newTypeSet(idA), cfg.exclude) {
		colA, _ := a.columnFor(idA)
		for row := 0; row < a.count; row++ {
			n++
			if n > 1 {
				break
			}
			found = a.entities[row]
			ptr = (*A)(colA.at(row))
		}
	}
	if n != 1 {
		panicf(ErrPrecondition, "Single1[%T] expected exactly one match, found %d", *new(A), n)
	}
	return found, ptr
}

// Single2 is Single1 over two required component types.
func Single2[A, B any](w *World, opts ...QueryOption) (Entity, *A, *B) {
	idA, idB := idOf[A](w.reg), idOf[B](w.reg)
	cfg := buildConfig(w, opts)
	var found Entity
	var pa *A
	var pb *B
	n := 0
	for _, a := range w.matchArchetypes(newTypeSet(idA, idB), cfg.exclude) {
		colA, _ := a.columnFor(idA)
		colB, _ := a.columnFor(idB)
		for row := 0; row < a.count; row++ {
			n++
			if n > 1 {
				break
			}
			found = a.entities[row]
			pa = (*A)(colA.at(row))
			pb = (*B)(colB.at(row))
		}
	}
	if n != 1 {
		panicf(ErrPrecondition, "Single2[%T,%T] expected exactly one match, found %d", *new(A), *new(B), n)
	}
	return found, pa, pb
}
