package engine

import (
	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/domain/palette"
)

// computeUnsavedChanges decides whether the working buffer diverges
// from its baseline.
//
// With no preset selected, the baseline is the page itself: any
// property overridden away from its initial value is unsaved. With a
// preset selected, the baseline is the preset: the working effective
// value or enabled flag differing from the preset's stored entry for
// any managed property counts, whichever side the entry is missing
// from. A property absent from the preset baselines to "unmodified,
// disabled".
func computeUnsavedChanges(working entity.WorkingTweaks, selected *entity.Preset) bool {
	if selected == nil {
		for _, entry := range working.CSSProperties {
			if entry.Customized() {
				return true
			}
		}
		return false
	}

	for _, name := range palette.ManagedPropertyNames() {
		entry := working.CSSProperties[name]

		wantValue := entry.InitialValue
		wantEnabled := false
		if p, ok := selected.CSSProperties[name]; ok {
			wantValue = p.Value
			wantEnabled = p.Enabled
		}

		if entry.EffectiveValue() != wantValue || entry.Enabled != wantEnabled {
			return true
		}
	}
	return false
}

// badgeFor maps a state snapshot to the icon intent reported to the
// background coordinator.
func badgeFor(state entity.RuntimeState) entity.BadgeState {
	switch {
	case !state.TweaksOn:
		return entity.BadgeOff
	case state.SelectedPreset != "" || state.HasUnsavedChanges:
		return entity.BadgeOn
	default:
		return entity.BadgeDefault
	}
}
