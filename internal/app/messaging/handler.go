package messaging

import (
	"context"

	"github.com/bnema/retint/internal/domain/entity"
)

// TweakCommands is the page-context command surface the bus exposes.
// The engine implements it; registering it here keeps the engine free
// of any transport detail.
type TweakCommands interface {
	CurrentState(ctx context.Context) entity.RuntimeState
	SetTweaksOn(ctx context.Context, enabled bool) error
	UpdateProperty(ctx context.Context, name entity.CSSPropertyName, value string) error
	ToggleProperty(ctx context.Context, name entity.CSSPropertyName, enabled bool) error
	ResetWorkingTweaks(ctx context.Context) error
	LoadPreset(ctx context.Context, name string) error
	ImportPreset(ctx context.Context, props map[entity.CSSPropertyName]entity.StoredTweakEntry) error
	SavePreset(ctx context.Context) error
	SavePresetAs(ctx context.Context, name string) error
	DeletePreset(ctx context.Context, name string) error
	RenamePreset(ctx context.Context, oldName, newName string) error
	AllPresets(ctx context.Context) map[string]*entity.Preset
}

// RegisterPageContext binds a tab's command surface to its page peer.
// The returned func unregisters the peer, simulating page unload.
func RegisterPageContext(bus *Bus, tabID string, commands TweakCommands) (unregister func()) {
	peer := PagePeer(tabID)

	bus.Handle(peer, MethodGetCurrentState, HandlerFor(func(ctx context.Context, _ Empty) (entity.RuntimeState, error) {
		return commands.CurrentState(ctx), nil
	}))
	bus.Handle(peer, MethodSetTweaksOn, HandlerFor(func(ctx context.Context, req SetTweaksOnRequest) (Empty, error) {
		return Empty{}, commands.SetTweaksOn(ctx, req.Enabled)
	}))
	bus.Handle(peer, MethodUpdateWorkingProperty, HandlerFor(func(ctx context.Context, req UpdateWorkingPropertyRequest) (Empty, error) {
		return Empty{}, commands.UpdateProperty(ctx, req.PropertyName, req.Value)
	}))
	bus.Handle(peer, MethodToggleWorkingProperty, HandlerFor(func(ctx context.Context, req ToggleWorkingPropertyRequest) (Empty, error) {
		return Empty{}, commands.ToggleProperty(ctx, req.PropertyName, req.Enabled)
	}))
	bus.Handle(peer, MethodResetWorkingTweaks, HandlerFor(func(ctx context.Context, _ Empty) (Empty, error) {
		return Empty{}, commands.ResetWorkingTweaks(ctx)
	}))
	bus.Handle(peer, MethodLoadPreset, HandlerFor(func(ctx context.Context, req LoadPresetRequest) (Empty, error) {
		return Empty{}, commands.LoadPreset(ctx, req.PresetName)
	}))
	bus.Handle(peer, MethodImportPreset, HandlerFor(func(ctx context.Context, req ImportPresetRequest) (Empty, error) {
		return Empty{}, commands.ImportPreset(ctx, req.CSSProperties)
	}))
	bus.Handle(peer, MethodSavePreset, HandlerFor(func(ctx context.Context, _ Empty) (Empty, error) {
		return Empty{}, commands.SavePreset(ctx)
	}))
	bus.Handle(peer, MethodSavePresetAs, HandlerFor(func(ctx context.Context, req SavePresetAsRequest) (Empty, error) {
		return Empty{}, commands.SavePresetAs(ctx, req.PresetName)
	}))
	bus.Handle(peer, MethodDeletePreset, HandlerFor(func(ctx context.Context, req DeletePresetRequest) (Empty, error) {
		return Empty{}, commands.DeletePreset(ctx, req.PresetName)
	}))
	bus.Handle(peer, MethodRenamePreset, HandlerFor(func(ctx context.Context, req RenamePresetRequest) (Empty, error) {
		return Empty{}, commands.RenamePreset(ctx, req.OldName, req.NewName)
	}))
	bus.Handle(peer, MethodGetAllPresets, HandlerFor(func(ctx context.Context, _ Empty) (GetAllPresetsResponse, error) {
		return GetAllPresetsResponse{Presets: commands.AllPresets(ctx)}, nil
	}))

	return func() { bus.Unregister(peer) }
}
