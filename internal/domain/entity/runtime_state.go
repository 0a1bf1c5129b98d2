package entity

// RuntimeState is the snapshot broadcast to observers after every
// engine transition. It is computed atomically inside one command and
// carries no transient or DOM-only values.
type RuntimeState struct {
	TweaksOn          bool               `json:"tweaksOn"`
	WorkingTweaks     WorkingTweaks      `json:"workingTweaks"`
	SelectedPreset    string             `json:"selectedPreset,omitempty"`
	SavedPresets      map[string]*Preset `json:"savedPresets"`
	HasUnsavedChanges bool               `json:"hasUnsavedChanges"`
}

// BadgeState is the intent the page context reports to the background
// coordinator for icon rendering.
type BadgeState string

const (
	// BadgeOn marks an active preset or unsaved customization.
	BadgeOn BadgeState = "ON"
	// BadgeOff marks the global flag switched off.
	BadgeOff BadgeState = "OFF"
	// BadgeDefault marks tweaks enabled but nothing customized.
	BadgeDefault BadgeState = "DEFAULT"
)
