package entity

import "time"

// Preset is a named, durable snapshot of property overrides. Presets
// outlive any single page-context lifetime.
type Preset struct {
	Name          string                                `json:"name"`
	CSSProperties map[CSSPropertyName]StoredTweakEntry  `json:"cssProperties"`
	CreatedAt     time.Time                             `json:"createdAt"`
	UpdatedAt     time.Time                             `json:"updatedAt"`
}

// NewPreset creates a preset from a set of stored entries.
func NewPreset(name string, props map[CSSPropertyName]StoredTweakEntry) *Preset {
	now := time.Now()
	return &Preset{
		Name:          name,
		CSSProperties: cloneStored(props),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Clone returns a deep copy of the preset.
func (p *Preset) Clone() *Preset {
	if p == nil {
		return nil
	}
	out := *p
	out.CSSProperties = cloneStored(p.CSSProperties)
	return &out
}

func cloneStored(props map[CSSPropertyName]StoredTweakEntry) map[CSSPropertyName]StoredTweakEntry {
	out := make(map[CSSPropertyName]StoredTweakEntry, len(props))
	for name, e := range props {
		out[name] = e
	}
	return out
}
