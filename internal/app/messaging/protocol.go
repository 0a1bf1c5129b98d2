package messaging

import (
	"github.com/bnema/retint/internal/domain/entity"
)

// The closed command surface. Every method carries exactly one payload
// and one response type; senders and receivers share these definitions
// instead of matching on loose string-keyed unions.
const (
	MethodGetCurrentState       Method = "getCurrentState"
	MethodSetTweaksOn           Method = "setTweaksOn"
	MethodUpdateWorkingProperty Method = "updateWorkingProperty"
	MethodToggleWorkingProperty Method = "toggleWorkingProperty"
	MethodResetWorkingTweaks    Method = "resetWorkingTweaks"
	MethodLoadPreset            Method = "loadPreset"
	MethodImportPreset          Method = "importPreset"
	MethodSavePreset            Method = "savePreset"
	MethodSavePresetAs          Method = "savePresetAs"
	MethodDeletePreset          Method = "deletePreset"
	MethodRenamePreset          Method = "renamePreset"
	MethodGetAllPresets         Method = "getAllPresets"

	// Broadcast: page context → any observer.
	MethodStateChanged Method = "stateChanged"

	// Page context → background coordinator.
	MethodUpdateBadge Method = "updateBadge"

	// Popup UI → background coordinator.
	MethodInjectPageContext Method = "injectPageContext"
)

// Empty is the payload/response of methods that carry nothing.
type Empty struct{}

type SetTweaksOnRequest struct {
	Enabled bool `json:"enabled"`
}

type UpdateWorkingPropertyRequest struct {
	PropertyName entity.CSSPropertyName `json:"propertyName"`
	Value        string                 `json:"value"`
}

type ToggleWorkingPropertyRequest struct {
	PropertyName entity.CSSPropertyName `json:"propertyName"`
	Enabled      bool                   `json:"enabled"`
}

type LoadPresetRequest struct {
	PresetName string `json:"presetName"`
}

type ImportPresetRequest struct {
	CSSProperties map[entity.CSSPropertyName]entity.StoredTweakEntry `json:"cssProperties"`
}

type SavePresetAsRequest struct {
	PresetName string `json:"presetName"`
}

type DeletePresetRequest struct {
	PresetName string `json:"presetName"`
}

type RenamePresetRequest struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

type GetAllPresetsResponse struct {
	Presets map[string]*entity.Preset `json:"presets"`
}

// StateChangedEvent is broadcast after every engine transition. The UI
// must filter to its own tab id and ignore the rest.
type StateChangedEvent struct {
	State entity.RuntimeState `json:"state"`
	TabID string              `json:"tabId"`
}

// UpdateBadgeEvent reports badge intent to the background coordinator.
type UpdateBadgeEvent struct {
	BadgeState entity.BadgeState `json:"badgeState"`
	TabID      string            `json:"tabId,omitempty"`
}

type InjectPageContextRequest struct {
	TabID string `json:"tabId"`
}
