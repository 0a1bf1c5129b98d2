package engine

import (
	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/domain/palette"
)

// MergeInitialValues rebuilds the working buffer for every managed
// property from three sources: the previous in-memory state, a fresh
// DOM read taken right after ResetAll, and the stored overrides.
//
// A previously captured InitialValue always wins over the fresh read:
// once this engine has written to the page, a computed-style read can
// reflect our own override instead of the page's authored value, so
// the first trusted capture is preserved for the whole page lifetime.
func MergeInitialValues(
	previous map[entity.CSSPropertyName]entity.TweakEntry,
	fresh map[entity.CSSPropertyName]string,
	stored map[entity.CSSPropertyName]entity.StoredTweakEntry,
) map[entity.CSSPropertyName]entity.TweakEntry {
	out := make(map[entity.CSSPropertyName]entity.TweakEntry)

	for _, name := range palette.ManagedPropertyNames() {
		entry := entity.TweakEntry{}

		if prev, ok := previous[name]; ok && prev.InitialValue != "" {
			entry.InitialValue = prev.InitialValue
		} else {
			entry.InitialValue = fresh[name]
		}

		if s, ok := stored[name]; ok {
			entry.Value = s.Value
			entry.Enabled = s.Enabled
		}

		out[name] = entry
	}

	return out
}
