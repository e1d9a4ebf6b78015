package ecs

import "unsafe"

// blockAlign is the alignment every column region starts on within an
// archetype's backing block. 16 bytes comfortably covers every scalar and
// SIMD-sized component the math packages use.
const blockAlign = 16

// chunkBytes seeds an archetype's initial row capacity: enough rows to
// fill one 16 KiB chunk, floored at minCapacity so narrow archetypes don't
// thrash on every single insert.
const chunkBytes = 16384
const minCapacity = 16

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// column is one component type's contiguous region inside the archetype's
// backing block: capacity elements of a fixed stride, addressed by row.
type column struct {
	id     ComponentID
	ops    *columnOps
	base   unsafe.Pointer
	stride uintptr
}

func (c *column) at(row int) unsafe.Pointer {
	return unsafe.Add(c.base, uintptr(row)*c.stride)
}

// archetypeEdge caches the neighboring archetype reached by adding or
// removing a single component id, so repeat migrations along the same edge
// skip recomputing the target TypeSet (§4.2 design note: "edge cache").
type archetypeEdge struct {
	add    *archetype
	remove *archetype
}

// archetype stores every entity sharing one exact TypeSet, column-major, in
// a single growing backing block subdivided into per-column regions.
type archetype struct {
	types    TypeSet
	mask     bitmask256
	columns  []column
	colIndex map[ComponentID]int
	entities []Entity

	block    []byte
	capacity int
	count    int

	edges map[ComponentID]*archetypeEdge
}

func newArchetype(types TypeSet, reg *registry) *archetype {
	a := &archetype{
		types:    types,
		mask:     types.toBitmask(),
		colIndex: make(map[ComponentID]int, len(types)),
		edges:    make(map[ComponentID]*archetypeEdge),
	}
	a.columns = make([]column, len(types))
	rowSize := uintptr(0)
	for i, id := range types {
		ops := reg.opsFor(id)
		a.columns[i] = column{id: id, ops: ops, stride: ops.size}
		a.colIndex[id] = i
		rowSize += alignUp(ops.size, blockAlign)
	}
	cap0 := minCapacity
	if rowSize > 0 {
		if seeded := int(chunkBytes / rowSize); seeded > cap0 {
			cap0 = seeded
		}
	}
	a.grow(cap0)
	return a
}

// layout computes, for a given capacity, the byte offset of each column's
// region within the block and the block's total size.
func (a *archetype) layout(capacity int) ([]uintptr, uintptr) {
	offsets := make([]uintptr, len(a.columns))
	offset := uintptr(0)
	for i, col := range a.columns {
		offset = alignUp(offset, blockAlign)
		offsets[i] = offset
		offset += col.stride * uintptr(capacity)
	}
	return offsets, offset
}

// grow reallocates the backing block at newCapacity, moving every live row's
// columns across via the type's move function so pointer-bearing components
// keep exactly one live copy of their data at all times.
func (a *archetype) grow(newCapacity int) {
	offsets, total := a.layout(newCapacity)
	newBlock := make([]byte, total)
	var newBase unsafe.Pointer
	if total > 0 {
		newBase = unsafe.Pointer(&newBlock[0])
	}
	for i := range a.columns {
		col := &a.columns[i]
		newColBase := unsafe.Add(newBase, offsets[i])
		for row := 0; row < a.count; row++ {
			src := col.at(row)
			dst := unsafe.Add(newColBase, uintptr(row)*col.stride)
			col.ops.move(dst, src)
		}
		col.base = newColBase
	}
	a.block = newBlock
	a.capacity = newCapacity
}

func (a *archetype) ensureCapacity(rows int) {
	if rows <= a.capacity {
		return
	}
	newCap := a.capacity
	if newCap == 0 {
		newCap = minCapacity
	}
	for newCap < rows {
		newCap *= 2
	}
	a.grow(newCap)
}

func (a *archetype) columnFor(id ComponentID) (*column, bool) {
	i, ok := a.colIndex[id]
	if !ok {
		return nil, false
	}
	return &a.columns[i], true
}

// push appends a new, zero-valued row for e and returns its row index. The
// caller is responsible for writing every column's initial value.
func (a *archetype) push(e Entity) int {
	a.ensureCapacity(a.count + 1)
	row := a.count
	a.entities = append(a.entities, e)
	a.count++
	return row
}

// swapRemove destroys row's columns, moves the last row into its place to
// keep storage dense, and reports the entity that was moved there (Invalid
// if row was already the last).
func (a *archetype) swapRemove(row int) Entity {
	last := a.count - 1
	for i := range a.columns {
		col := &a.columns[i]
		col.ops.destroy(col.at(row))
	}
	moved := Invalid
	if row != last {
		moved = a.entities[last]
		for i := range a.columns {
			col := &a.columns[i]
			col.ops.move(col.at(row), col.at(last))
		}
		a.entities[row] = a.entities[last]
	}
	a.entities = a.entities[:last]
	a.count--
	return moved
}

func (a *archetype) edge(id ComponentID) *archetypeEdge {
	e, ok := a.edges[id]
	if !ok {
		e = &archetypeEdge{}
		a.edges[id] = e
	}
	return e
}
