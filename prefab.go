package ecs

// Prefab is a reusable, named bundle of default component values for
// repeated entity instantiation — a template, not a live entity.
type Prefab struct {
	template *EntityBuilder
}

// NewPrefab returns an empty prefab.
func NewPrefab() *Prefab {
	return &Prefab{template: NewBuilder()}
}

// PrefabWith adds a default value of type T to the prefab's template.
func PrefabWith[T any](p *Prefab, value T) *Prefab {
	With[T](p.template, value)
	return p
}

// Instantiate spawns a fresh entity with a copy of every default in p.
func (p *Prefab) Instantiate(w *World) Entity {
	return CreateWith(w, p.template)
}

// InstantiateWith spawns an entity from the union of p's defaults and
// overrides: any component type present in overrides replaces the
// prefab's default for that type entirely rather than being merged
// field-by-field.
func (p *Prefab) InstantiateWith(w *World, overrides *EntityBuilder) Entity {
	overridden := make(map[ComponentID]bool, len(overrides.entries))
	for _, entry := range overrides.entries {
		overridden[entry.resolveID(w)] = true
	}
	merged := NewBuilder()
	for _, entry := range p.template.entries {
		if !overridden[entry.resolveID(w)] {
			merged.entries = append(merged.entries, entry)
		}
	}
	merged.entries = append(merged.entries, overrides.entries...)
	return CreateWith(w, merged)
}
