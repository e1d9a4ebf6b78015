package ecs

import (
	"bytes"
	"testing"
)

// TestColumnOpsSurviveRegistryGrowth reproduces the scenario where an
// archetype created before a later idOf call caches a *columnOps that must
// stay valid after the registry's backing array has filled up with more
// types, and after RegisterName mutates that slot in place.
func TestColumnOpsSurviveRegistryGrowth(t *testing.T) {
	w := NewWorld()

	e1 := w.Create()
	Add(w, e1, Position{X: 1, Y: 2}) // id 0, first archetype caches &ops[0]

	e2 := w.Create()
	Add(w, e2, Velocity{X: 3, Y: 4}) // id 1, forces registry.ops to grow

	RegisterName[Position](w, "position")
	RegisterName[Velocity](w, "velocity")

	var buf bytes.Buffer
	if err := w.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}
