package ecs

import "testing"

func TestPrefabInstantiate(t *testing.T) {
	w := NewWorld()
	p := NewPrefab()
	PrefabWith(p, Position{X: 1, Y: 1})
	PrefabWith(p, Health{HP: 10})

	e1 := p.Instantiate(w)
	e2 := p.Instantiate(w)
	if e1 == e2 {
		t.Fatalf("expected two distinct entities")
	}
	for _, e := range []Entity{e1, e2} {
		if Get[Position](w, e).X != 1 || Get[Health](w, e).HP != 10 {
			t.Fatalf("expected prefab defaults applied to %+v", e)
		}
	}

	Get[Health](w, e1).HP = 999
	if Get[Health](w, e2).HP == 999 {
		t.Fatalf("expected independent component storage per instance")
	}
}

func TestPrefabInstantiateWithOverride(t *testing.T) {
	w := NewWorld()
	p := NewPrefab()
	PrefabWith(p, Position{X: 1, Y: 1})
	PrefabWith(p, Health{HP: 10})

	overrides := NewBuilder()
	With(overrides, Health{HP: 50})
	e := p.InstantiateWith(w, overrides)

	if Get[Position](w, e).X != 1 {
		t.Fatalf("expected non-overridden default to still apply")
	}
	if Get[Health](w, e).HP != 50 {
		t.Fatalf("expected override to replace the prefab default, got %d", Get[Health](w, e).HP)
	}
}
