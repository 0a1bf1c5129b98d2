// Package popup is the UI side of the bus: a typed client bound to one
// tab's page peer, plus the bootstrap handshake that revives a dead
// page context.
package popup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/retint/internal/app/messaging"
	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/logging"
)

// Client issues tweak commands for a single tab. Methods are thin
// typed wrappers; every call can fail with ErrNoReceiver when the page
// context is gone, which only Bootstrap recovers from.
type Client struct {
	bus   *messaging.Bus
	tabID string
	page  messaging.PeerID
}

func NewClient(bus *messaging.Bus, tabID string) *Client {
	return &Client{bus: bus, tabID: tabID, page: messaging.PagePeer(tabID)}
}

// TabID returns the tab this client is bound to.
func (c *Client) TabID() string {
	return c.tabID
}

// Bootstrap fetches the initial state. When the page context is absent
// it asks the background coordinator to inject one, then retries
// exactly once; a second ErrNoReceiver propagates to the caller.
func (c *Client) Bootstrap(ctx context.Context) (entity.RuntimeState, error) {
	state, err := c.CurrentState(ctx)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, messaging.ErrNoReceiver) {
		return entity.RuntimeState{}, err
	}

	logging.FromContext(ctx).Debug().Str("tab_id", c.tabID).Msg("page context absent, requesting injection")
	if _, err := messaging.Call[messaging.InjectPageContextRequest, messaging.Empty](
		ctx, c.bus, messaging.PeerBackground, messaging.MethodInjectPageContext,
		messaging.InjectPageContextRequest{TabID: c.tabID},
	); err != nil {
		return entity.RuntimeState{}, fmt.Errorf("inject page context: %w", err)
	}

	return c.CurrentState(ctx)
}

// OnStateChanged subscribes to state broadcasts, filtered to this
// client's tab. The returned func cancels the subscription.
func (c *Client) OnStateChanged(ctx context.Context, fn func(entity.RuntimeState)) (unsubscribe func()) {
	return c.bus.Subscribe(messaging.MethodStateChanged, func(payload json.RawMessage) {
		var ev messaging.StateChangedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("dropping malformed state broadcast")
			return
		}
		if ev.TabID != c.tabID {
			return
		}
		fn(ev.State)
	})
}

func (c *Client) CurrentState(ctx context.Context) (entity.RuntimeState, error) {
	return messaging.Call[messaging.Empty, entity.RuntimeState](
		ctx, c.bus, c.page, messaging.MethodGetCurrentState, messaging.Empty{})
}

func (c *Client) SetTweaksOn(ctx context.Context, enabled bool) error {
	_, err := messaging.Call[messaging.SetTweaksOnRequest, messaging.Empty](
		ctx, c.bus, c.page, messaging.MethodSetTweaksOn,
		messaging.SetTweaksOnRequest{Enabled: enabled})
	return err
}

func (c *Client) UpdateProperty(ctx context.Context, name entity.CSSPropertyName, value string) error {
	_, err := messaging.Call[messaging.UpdateWorkingPropertyRequest, messaging.Empty](
		ctx, c.bus, c.page, messaging.MethodUpdateWorkingProperty,
		messaging.UpdateWorkingPropertyRequest{PropertyName: name, Value: value})
	return err
}

func (c *Client) ToggleProperty(ctx context.Context, name entity.CSSPropertyName, enabled bool) error {
	_, err := messaging.Call[messaging.ToggleWorkingPropertyRequest, messaging.Empty](
		ctx, c.bus, c.page, messaging.MethodToggleWorkingProperty,
		messaging.ToggleWorkingPropertyRequest{PropertyName: name, Enabled: enabled})
	return err
}

func (c *Client) ResetWorkingTweaks(ctx context.Context) error {
	_, err := messaging.Call[messaging.Empty, messaging.Empty](
		ctx, c.bus, c.page, messaging.MethodResetWorkingTweaks, messaging.Empty{})
	return err
}

func (c *Client) LoadPreset(ctx context.Context, name string) error {
	_, err := messaging.Call[messaging.LoadPresetRequest, messaging.Empty](
		ctx, c.bus, c.page, messaging.MethodLoadPreset,
		messaging.LoadPresetRequest{PresetName: name})
	return err
}

func (c *Client) ImportPreset(ctx context.Context, props map[entity.CSSPropertyName]entity.StoredTweakEntry) error {
	_, err := messaging.Call[messaging.ImportPresetRequest, messaging.Empty](
		ctx, c.bus, c.page, messaging.MethodImportPreset,
		messaging.ImportPresetRequest{CSSProperties: props})
	return err
}

func (c *Client) SavePreset(ctx context.Context) error {
	_, err := messaging.Call[messaging.Empty, messaging.Empty](
		ctx, c.bus, c.page, messaging.MethodSavePreset, messaging.Empty{})
	return err
}

func (c *Client) SavePresetAs(ctx context.Context, name string) error {
	_, err := messaging.Call[messaging.SavePresetAsRequest, messaging.Empty](
		ctx, c.bus, c.page, messaging.MethodSavePresetAs,
		messaging.SavePresetAsRequest{PresetName: name})
	return err
}

func (c *Client) DeletePreset(ctx context.Context, name string) error {
	_, err := messaging.Call[messaging.DeletePresetRequest, messaging.Empty](
		ctx, c.bus, c.page, messaging.MethodDeletePreset,
		messaging.DeletePresetRequest{PresetName: name})
	return err
}

func (c *Client) RenamePreset(ctx context.Context, oldName, newName string) error {
	_, err := messaging.Call[messaging.RenamePresetRequest, messaging.Empty](
		ctx, c.bus, c.page, messaging.MethodRenamePreset,
		messaging.RenamePresetRequest{OldName: oldName, NewName: newName})
	return err
}

func (c *Client) AllPresets(ctx context.Context) (map[string]*entity.Preset, error) {
	resp, err := messaging.Call[messaging.Empty, messaging.GetAllPresetsResponse](
		ctx, c.bus, c.page, messaging.MethodGetAllPresets, messaging.Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Presets, nil
}
