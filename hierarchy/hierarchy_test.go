package hierarchy

import (
	"testing"

	"github.com/dflat/ecs"
	"github.com/dflat/ecs/ecsmath"
)

func TestSetParentAndRemoveParent(t *testing.T) {
	w := ecs.NewWorld()
	parent := w.Create()
	child := w.Create()

	SetParent(w, child, parent)
	p, ok := ecs.TryGet[Parent](w, child)
	if !ok || p.Entity != parent {
		t.Fatalf("expected child to have Parent pointing at parent")
	}
	kids := ecs.Get[Children](w, parent)
	if len(kids.Entities) != 1 || kids.Entities[0] != child {
		t.Fatalf("expected parent's Children to list child, got %+v", kids.Entities)
	}

	RemoveParent(w, child)
	if _, ok := ecs.TryGet[Parent](w, child); ok {
		t.Fatalf("expected Parent removed")
	}
	kids = ecs.Get[Children](w, parent)
	if len(kids.Entities) != 0 {
		t.Fatalf("expected child unlinked from parent's Children, got %+v", kids.Entities)
	}
}

func TestReparentingMovesChildBetweenLists(t *testing.T) {
	w := ecs.NewWorld()
	p1 := w.Create()
	p2 := w.Create()
	child := w.Create()

	SetParent(w, child, p1)
	SetParent(w, child, p2)

	if len(ecs.Get[Children](w, p1).Entities) != 0 {
		t.Fatalf("expected child removed from its old parent's Children")
	}
	if kids := ecs.Get[Children](w, p2).Entities; len(kids) != 1 || kids[0] != child {
		t.Fatalf("expected child listed under its new parent, got %+v", kids)
	}
}

func TestDestroyRecursiveRemovesWholeSubtreeAndUnlinksParent(t *testing.T) {
	w := ecs.NewWorld()
	root := w.Create()
	mid := w.Create()
	leaf := w.Create()
	SetParent(w, mid, root)
	SetParent(w, leaf, mid)

	DestroyRecursive(w, mid)

	if w.Alive(mid) || w.Alive(leaf) {
		t.Fatalf("expected mid and leaf both destroyed")
	}
	if !w.Alive(root) {
		t.Fatalf("expected root to survive")
	}
	if kids := ecs.Get[Children](w, root).Entities; len(kids) != 0 {
		t.Fatalf("expected root's Children unlinked from destroyed mid, got %+v", kids)
	}
}

func TestPropagateTransformsComposesParentChild(t *testing.T) {
	w := ecs.NewWorld()
	parent := w.Create()
	ecs.Add(w, parent, LocalTransform{
		Position: ecsmath.Vec3{X: 10},
		Rotation: ecsmath.IdentityQuat,
		Scale:    ecsmath.Vec3{X: 1, Y: 1, Z: 1},
	})

	child := w.Create()
	ecs.Add(w, child, LocalTransform{
		Position: ecsmath.Vec3{X: 1},
		Rotation: ecsmath.IdentityQuat,
		Scale:    ecsmath.Vec3{X: 1, Y: 1, Z: 1},
	})
	SetParent(w, child, parent)

	PropagateTransforms(w)

	pWorld := ecs.Get[WorldTransform](w, parent).Matrix.Translation()
	if pWorld.X != 10 {
		t.Fatalf("expected parent world X 10, got %v", pWorld.X)
	}
	cWorld := ecs.Get[WorldTransform](w, child).Matrix.Translation()
	if cWorld.X != 11 {
		t.Fatalf("expected child world X to inherit parent translation: got %v", cWorld.X)
	}
}
