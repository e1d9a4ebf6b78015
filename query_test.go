package ecs

import "testing"

func TestEach1VisitsEveryMatch(t *testing.T) {
	w := NewWorld()
	n := 10
	for i := 0; i < n; i++ {
		e := w.Create()
		Add(w, e, Position{X: float32(i)})
	}
	seen := 0
	Each1(w, func(_ Entity, p *Position) {
		seen++
		p.Y = p.X * 2
	})
	if seen != n {
		t.Fatalf("expected %d visits, got %d", n, seen)
	}
	Each1(w, func(_ Entity, p *Position) {
		if p.Y != p.X*2 {
			t.Fatalf("mutation through Each1 pointer did not stick: %+v", *p)
		}
	})
}

func TestEach2RequiresBothTypes(t *testing.T) {
	w := NewWorld()
	both := w.Create()
	Add(w, both, Position{})
	Add(w, both, Velocity{})

	onlyPos := w.Create()
	Add(w, onlyPos, Position{})

	count := 0
	Each2(w, func(e Entity, _ *Position, _ *Velocity) {
		count++
		if e != both {
			t.Fatalf("expected only the dual-component entity to match")
		}
	})
	if count != 1 {
		t.Fatalf("expected 1 match, got %d", count)
	}
}

func TestWithExcludeFiltersMatches(t *testing.T) {
	w := NewWorld()
	alive := w.Create()
	Add(w, alive, Position{})

	dead := w.Create()
	Add(w, dead, Position{})
	Add(w, dead, Health{HP: 0})

	count := 0
	Each1(w, func(e Entity, _ *Position) {
		count++
		if e != alive {
			t.Fatalf("expected entity with Health excluded")
		}
	}, WithExclude[Health]())
	if count != 1 {
		t.Fatalf("expected 1 match after exclude, got %d", count)
	}
}

func TestQueryCacheInvalidatedByNewArchetype(t *testing.T) {
	w := NewWorld()
	e1 := w.Create()
	Add(w, e1, Position{})

	count := func() int {
		n := 0
		Each1(w, func(_ Entity, _ *Position) { n++ })
		return n
	}
	if got := count(); got != 1 {
		t.Fatalf("expected 1 match, got %d", got)
	}

	e2 := w.Create()
	Add(w, e2, Position{})
	Add(w, e2, Velocity{}) // forces a brand new archetype to exist

	if got := count(); got != 2 {
		t.Fatalf("expected cache invalidation to pick up the new archetype, got %d", got)
	}
}

func TestSingle1PanicsOnZeroOrMany(t *testing.T) {
	w := NewWorld()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic with zero matches")
			}
		}()
		Single1[Position](w)
	}()

	e1 := w.Create()
	Add(w, e1, Position{})
	if e, p := Single1[Position](w); e != e1 || p.X != 0 {
		t.Fatalf("unexpected single result: %+v %+v", e, *p)
	}

	e2 := w.Create()
	Add(w, e2, Position{})
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic with two matches")
			}
		}()
		Single1[Position](w)
	}()
}
