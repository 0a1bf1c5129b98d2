package palette

import (
	"fmt"
	"sort"

	"github.com/bnema/retint/internal/domain/entity"
)

// ComputeDerived applies every registered transform for base to
// baseColor and returns the derived values keyed by their own property
// names. Unregistered properties yield an empty map, not an error; the
// result depends only on the inputs.
func ComputeDerived(base entity.CSSPropertyName, baseColor string) (map[entity.CSSPropertyName]string, error) {
	entry, ok := registryByBase[base]
	if !ok || len(entry.Derived) == 0 {
		return map[entity.CSSPropertyName]string{}, nil
	}

	color, err := ParseColor(baseColor)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", base, err)
	}

	out := make(map[entity.CSSPropertyName]string, len(entry.Derived))
	for _, d := range entry.Derived {
		out[d.Name] = d.Transform(color).String()
	}
	return out, nil
}

// DerivedPropertyNames returns the names ComputeDerived would key its
// result by for the given base, sorted.
func DerivedPropertyNames(base entity.CSSPropertyName) []entity.CSSPropertyName {
	entry, ok := registryByBase[base]
	if !ok {
		return nil
	}
	names := make([]entity.CSSPropertyName, 0, len(entry.Derived))
	for _, d := range entry.Derived {
		names = append(names, d.Name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ApplySet resolves the full set of DOM writes for one base property:
// the base value plus every derived value. Properties outside the
// registry map to themselves alone.
func ApplySet(base entity.CSSPropertyName, value string) (map[entity.CSSPropertyName]string, error) {
	derived, err := ComputeDerived(base, value)
	if err != nil {
		return nil, err
	}
	out := make(map[entity.CSSPropertyName]string, len(derived)+1)
	out[base] = value
	for name, v := range derived {
		out[name] = v
	}
	return out, nil
}
