package ecs

import "sort"

func (a *archetype) swapRows(i, j int) {
	if i == j {
		return
	}
	a.entities[i], a.entities[j] = a.entities[j], a.entities[i]
	for k := range a.columns {
		col := &a.columns[k]
		col.ops.swap(col.at(i), col.at(j))
	}
}

// Sort reorders, in place, every archetype holding a component of type T so
// that its rows satisfy less. Sorting is forbidden during Each/Single
// iteration, and invalidates no query cache entry since it does not change
// which archetypes exist or what they contain — only row order within
// them.
func Sort[T any](w *World, less func(a, b Entity) bool) {
	w.guardNotIterating("sort entities in")
	id := idOf[T](w.reg)
	for _, a := range w.matchArchetypes(newTypeSet(id), nil) {
		n := a.count
		if n < 2 {
			continue
		}
		perm := make([]int, n)
		for i := range perm {
			perm[i] = i
		}
		sort.SliceStable(perm, func(x, y int) bool {
			return less(a.entities[perm[x]], a.entities[perm[y]])
		})
		visited := make([]bool, n)
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			curr := i
			for !visited[curr] {
				visited[curr] = true
				next := perm[curr]
				if !visited[next] {
					a.swapRows(curr, next)
				}
				curr = next
			}
		}
		for i, e := range a.entities {
			w.entities.records[e.Index].row = i
		}
	}
}
