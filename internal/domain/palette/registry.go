package palette

import (
	"sort"

	"github.com/bnema/retint/internal/domain/entity"
)

// DerivedSpec declares one property mechanically computed from a base
// color. Derived properties are never edited directly and never stored;
// they are recomputed at every application site.
type DerivedSpec struct {
	Name      entity.CSSPropertyName
	Transform func(Color) Color
}

// RegistryEntry binds a base property to its derived set.
type RegistryEntry struct {
	Base    entity.CSSPropertyName
	Derived []DerivedSpec
}

// registry is the closed set of tunable properties for the target
// application's theme variables. Order here fixes picker display order.
var registry = []RegistryEntry{
	{
		Base: "--palette-primary-main",
		Derived: []DerivedSpec{
			{Name: "--palette-primary-light", Transform: func(c Color) Color { return c.Lighten(0.18) }},
			{Name: "--palette-primary-dark", Transform: func(c Color) Color { return c.Darken(0.12) }},
			{Name: "--palette-primary-hover", Transform: func(c Color) Color { return c.WithAlpha(0.08) }},
		},
	},
	{
		Base: "--palette-secondary-main",
		Derived: []DerivedSpec{
			{Name: "--palette-secondary-light", Transform: func(c Color) Color { return c.Lighten(0.18) }},
			{Name: "--palette-secondary-dark", Transform: func(c Color) Color { return c.Darken(0.12) }},
			{Name: "--palette-secondary-hover", Transform: func(c Color) Color { return c.WithAlpha(0.08) }},
		},
	},
	{
		Base: "--palette-text-primary",
		Derived: []DerivedSpec{
			{Name: "--palette-text-disabled", Transform: func(c Color) Color { return c.WithAlpha(0.38) }},
		},
	},
	{
		// Single-picker property whose stored value is itself an alpha
		// variant: the derived set contains the base name.
		Base: "--palette-divider",
		Derived: []DerivedSpec{
			{Name: "--palette-divider", Transform: func(c Color) Color { return c.WithAlpha(0.12) }},
		},
	},
	{Base: "--palette-background-default"},
	{Base: "--palette-background-paper"},
	{Base: "--palette-accent-main"},
}

var registryByBase = func() map[entity.CSSPropertyName]RegistryEntry {
	m := make(map[entity.CSSPropertyName]RegistryEntry, len(registry))
	for _, e := range registry {
		m[e.Base] = e
	}
	return m
}()

// ManagedPropertyNames returns the closed set of base properties,
// sorted for stable iteration.
func ManagedPropertyNames() []entity.CSSPropertyName {
	names := make([]entity.CSSPropertyName, 0, len(registry))
	for _, e := range registry {
		names = append(names, e.Base)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// IsManaged reports whether name is a tunable base property.
func IsManaged(name entity.CSSPropertyName) bool {
	_, ok := registryByBase[name]
	return ok
}

// AllOverridableNames enumerates every property name this engine may
// write to the DOM: each base plus every derived name, deduplicated.
// ResetAll removes exactly this set.
func AllOverridableNames() []entity.CSSPropertyName {
	seen := make(map[entity.CSSPropertyName]struct{})
	var names []entity.CSSPropertyName
	add := func(n entity.CSSPropertyName) {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			names = append(names, n)
		}
	}
	for _, e := range registry {
		add(e.Base)
		for _, d := range e.Derived {
			add(d.Name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
