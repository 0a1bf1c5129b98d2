package entity

// CSSPropertyName identifies a tunable CSS custom property
// (e.g., "--palette-primary-main").
type CSSPropertyName string

// TweakEntry is one property's live, in-memory state.
type TweakEntry struct {
	// Value is the user's override; empty means "not customized".
	Value string
	// InitialValue is the value the page itself computed before any
	// override was applied. Captured once per load cycle and never
	// re-read from a DOM this engine has already written to.
	InitialValue string
	// Enabled reports whether the override is currently active.
	Enabled bool
}

// EffectiveValue returns the value that should reach the DOM:
// the override when set, the page's own value otherwise.
func (e TweakEntry) EffectiveValue() string {
	if e.Value != "" {
		return e.Value
	}
	return e.InitialValue
}

// Customized reports whether the entry carries an override that
// differs from the page's own value.
func (e TweakEntry) Customized() bool {
	return e.Value != "" && e.Value != e.InitialValue
}

// StoredTweakEntry is the durable projection of a TweakEntry.
// InitialValue is deliberately absent: it is environment-derived and
// recomputed at load time, never persisted.
type StoredTweakEntry struct {
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

// WorkingTweaks is the live, possibly-unsaved editing buffer for one
// tab. Exactly one instance exists per page context, owned by the
// engine.
type WorkingTweaks struct {
	CSSProperties map[CSSPropertyName]TweakEntry
}

// NewWorkingTweaks returns an empty editing buffer.
func NewWorkingTweaks() WorkingTweaks {
	return WorkingTweaks{CSSProperties: make(map[CSSPropertyName]TweakEntry)}
}

// Clone returns a deep copy so broadcast snapshots cannot alias the
// engine's canonical state.
func (w WorkingTweaks) Clone() WorkingTweaks {
	out := WorkingTweaks{CSSProperties: make(map[CSSPropertyName]TweakEntry, len(w.CSSProperties))}
	for name, e := range w.CSSProperties {
		out.CSSProperties[name] = e
	}
	return out
}

// ToStored converts the buffer to its durable projection, resolving
// each entry to its effective value.
func (w WorkingTweaks) ToStored() map[CSSPropertyName]StoredTweakEntry {
	out := make(map[CSSPropertyName]StoredTweakEntry, len(w.CSSProperties))
	for name, e := range w.CSSProperties {
		out[name] = StoredTweakEntry{Value: e.EffectiveValue(), Enabled: e.Enabled}
	}
	return out
}
