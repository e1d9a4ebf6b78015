// Package hierarchy layers parent/child relationships and transform
// propagation on top of the root ecs package, entirely as ordinary
// components and systems — it has no special access to World internals.
package hierarchy

import (
	"github.com/dflat/ecs"
	"github.com/dflat/ecs/ecsmath"
)

// Parent names the entity this entity is attached under. An entity with no
// Parent component is a root.
type Parent struct {
	Entity ecs.Entity
}

// Children lists the entities directly attached under this one, in
// attachment order.
type Children struct {
	Entities []ecs.Entity
}

// LocalTransform is a position/rotation/scale triple relative to the
// entity's parent (or to world space, for a root).
type LocalTransform struct {
	Position ecsmath.Vec3
	Rotation ecsmath.Quat
	Scale    ecsmath.Vec3
}

// WorldTransform is the resolved, world-space matrix PropagateTransforms
// writes. Treat it as derived data: never edit it directly, edit
// LocalTransform and re-propagate.
type WorldTransform struct {
	Matrix ecsmath.Mat4
}

func removeChild(children *Children, child ecs.Entity) {
	for i, c := range children.Entities {
		if c == child {
			children.Entities = append(children.Entities[:i], children.Entities[i+1:]...)
			return
		}
	}
}

// SetParent attaches child under parent, detaching it from any previous
// parent first. A child may not be parented to itself.
func SetParent(w *ecs.World, child, parent ecs.Entity) {
	if child == parent {
		panic("hierarchy: an entity cannot be its own parent")
	}
	RemoveParent(w, child)

	if kids, ok := ecs.TryGet[Children](w, parent); ok {
		kids.Entities = append(kids.Entities, child)
	} else {
		ecs.Add(w, parent, Children{Entities: []ecs.Entity{child}})
	}
	ecs.Add(w, child, Parent{Entity: parent})
}

// RemoveParent detaches child from its current parent, if any, leaving it
// a root. A no-op if child has no Parent.
func RemoveParent(w *ecs.World, child ecs.Entity) {
	p, ok := ecs.TryGet[Parent](w, child)
	if !ok {
		return
	}
	if kids, ok := ecs.TryGet[Children](w, p.Entity); ok {
		removeChild(kids, child)
	}
	ecs.Remove[Parent](w, child)
}

// DestroyRecursive destroys e and every descendant, leaves first, and
// unlinks e from its own parent's Children list so that parent is left in
// a consistent state rather than referencing a destroyed entity.
func DestroyRecursive(w *ecs.World, e ecs.Entity) {
	if kids, ok := ecs.TryGet[Children](w, e); ok {
		victims := append([]ecs.Entity(nil), kids.Entities...)
		for _, child := range victims {
			destroyRecursiveInner(w, child)
		}
	}
	RemoveParent(w, e)
	w.Destroy(e)
}

// destroyRecursiveInner skips the RemoveParent unlink step for every
// descendant below the top of the subtree: each one's parent is also
// about to be destroyed, so there is no surviving Children list left to
// keep consistent.
func destroyRecursiveInner(w *ecs.World, e ecs.Entity) {
	if kids, ok := ecs.TryGet[Children](w, e); ok {
		victims := append([]ecs.Entity(nil), kids.Entities...)
		for _, child := range victims {
			destroyRecursiveInner(w, child)
		}
	}
	w.Destroy(e)
}

// PropagateTransforms resolves every entity's WorldTransform from its
// LocalTransform and its ancestors', breadth-first from the roots down so
// each entity's parent is always resolved before it is.
func PropagateTransforms(w *ecs.World) {
	var roots []ecs.Entity
	ecs.Each1(w, func(e ecs.Entity, _ *LocalTransform) {
		roots = append(roots, e)
	}, ecs.WithExclude[Parent]())

	queue := append([]ecs.Entity(nil), roots...)
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		local, ok := ecs.TryGet[LocalTransform](w, e)
		if !ok {
			continue
		}
		localMat := ecsmath.Compose(local.Position, local.Rotation, local.Scale)

		worldMat := localMat
		if p, ok := ecs.TryGet[Parent](w, e); ok {
			if parentWorld, ok := ecs.TryGet[WorldTransform](w, p.Entity); ok {
				worldMat = ecsmath.Multiply(parentWorld.Matrix, localMat)
			}
		}

		if wt, ok := ecs.TryGet[WorldTransform](w, e); ok {
			wt.Matrix = worldMat
		} else {
			ecs.Add(w, e, WorldTransform{Matrix: worldMat})
		}

		if kids, ok := ecs.TryGet[Children](w, e); ok {
			queue = append(queue, kids.Entities...)
		}
	}
}
