package popup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/retint/internal/app/messaging"
	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/domain/repository"
)

// stubCommands records every call so tests can assert the typed client
// reaches the right command with the right arguments.
type stubCommands struct {
	state entity.RuntimeState
	calls []string

	savePresetAsErr error
}

func (s *stubCommands) CurrentState(context.Context) entity.RuntimeState {
	s.calls = append(s.calls, "currentState")
	return s.state
}

func (s *stubCommands) SetTweaksOn(_ context.Context, enabled bool) error {
	if enabled {
		s.calls = append(s.calls, "setTweaksOn:true")
	} else {
		s.calls = append(s.calls, "setTweaksOn:false")
	}
	return nil
}

func (s *stubCommands) UpdateProperty(_ context.Context, name entity.CSSPropertyName, value string) error {
	s.calls = append(s.calls, "update:"+string(name)+"="+value)
	return nil
}

func (s *stubCommands) ToggleProperty(_ context.Context, name entity.CSSPropertyName, _ bool) error {
	s.calls = append(s.calls, "toggle:"+string(name))
	return nil
}

func (s *stubCommands) ResetWorkingTweaks(context.Context) error {
	s.calls = append(s.calls, "reset")
	return nil
}

func (s *stubCommands) LoadPreset(_ context.Context, name string) error {
	s.calls = append(s.calls, "load:"+name)
	return nil
}

func (s *stubCommands) ImportPreset(_ context.Context, props map[entity.CSSPropertyName]entity.StoredTweakEntry) error {
	s.calls = append(s.calls, "import")
	return nil
}

func (s *stubCommands) SavePreset(context.Context) error {
	s.calls = append(s.calls, "save")
	return nil
}

func (s *stubCommands) SavePresetAs(_ context.Context, name string) error {
	s.calls = append(s.calls, "saveAs:"+name)
	return s.savePresetAsErr
}

func (s *stubCommands) DeletePreset(_ context.Context, name string) error {
	s.calls = append(s.calls, "delete:"+name)
	return nil
}

func (s *stubCommands) RenamePreset(_ context.Context, oldName, newName string) error {
	s.calls = append(s.calls, "rename:"+oldName+">"+newName)
	return nil
}

func (s *stubCommands) AllPresets(context.Context) map[string]*entity.Preset {
	s.calls = append(s.calls, "allPresets")
	return map[string]*entity.Preset{"ocean": entity.NewPreset("ocean", nil)}
}

func TestBootstrapReturnsStateWhenPageContextIsAlive(t *testing.T) {
	bus := messaging.NewBus()
	stub := &stubCommands{state: entity.RuntimeState{TweaksOn: true}}
	unregister := messaging.RegisterPageContext(bus, "tab-1", stub)
	defer unregister()

	injected := 0
	bus.Handle(messaging.PeerBackground, messaging.MethodInjectPageContext,
		messaging.HandlerFor(func(context.Context, messaging.InjectPageContextRequest) (messaging.Empty, error) {
			injected++
			return messaging.Empty{}, nil
		}))

	state, err := NewClient(bus, "tab-1").Bootstrap(context.Background())
	require.NoError(t, err)
	assert.True(t, state.TweaksOn)
	assert.Zero(t, injected, "a live page context must not trigger injection")
}

func TestBootstrapInjectsAndRetriesExactlyOnce(t *testing.T) {
	bus := messaging.NewBus()
	stub := &stubCommands{state: entity.RuntimeState{TweaksOn: true}}

	// Injection succeeds and brings the page context up.
	injected := 0
	bus.Handle(messaging.PeerBackground, messaging.MethodInjectPageContext,
		messaging.HandlerFor(func(context.Context, messaging.InjectPageContextRequest) (messaging.Empty, error) {
			injected++
			messaging.RegisterPageContext(bus, "tab-1", stub)
			return messaging.Empty{}, nil
		}))

	state, err := NewClient(bus, "tab-1").Bootstrap(context.Background())
	require.NoError(t, err)
	assert.True(t, state.TweaksOn)
	assert.Equal(t, 1, injected)
}

func TestBootstrapGivesUpAfterOneFailedRetry(t *testing.T) {
	bus := messaging.NewBus()

	// Injection "succeeds" but the page context never comes up.
	injected := 0
	bus.Handle(messaging.PeerBackground, messaging.MethodInjectPageContext,
		messaging.HandlerFor(func(context.Context, messaging.InjectPageContextRequest) (messaging.Empty, error) {
			injected++
			return messaging.Empty{}, nil
		}))

	_, err := NewClient(bus, "tab-1").Bootstrap(context.Background())
	require.ErrorIs(t, err, messaging.ErrNoReceiver)
	assert.Equal(t, 1, injected, "bootstrap retries exactly once")
}

func TestBootstrapFailsWhenNoBackgroundPeerEither(t *testing.T) {
	bus := messaging.NewBus()
	_, err := NewClient(bus, "tab-1").Bootstrap(context.Background())
	require.ErrorIs(t, err, messaging.ErrNoReceiver)
}

func TestTypedCommandsReachTheRegisteredSurface(t *testing.T) {
	bus := messaging.NewBus()
	stub := &stubCommands{}
	unregister := messaging.RegisterPageContext(bus, "tab-1", stub)
	defer unregister()

	client := NewClient(bus, "tab-1")
	ctx := context.Background()

	require.NoError(t, client.SetTweaksOn(ctx, false))
	require.NoError(t, client.UpdateProperty(ctx, "--palette-primary-main", "#336699"))
	require.NoError(t, client.ToggleProperty(ctx, "--palette-primary-main", false))
	require.NoError(t, client.LoadPreset(ctx, "ocean"))
	require.NoError(t, client.SavePreset(ctx))
	require.NoError(t, client.SavePresetAs(ctx, "dusk"))
	require.NoError(t, client.RenamePreset(ctx, "dusk", "dawn"))
	require.NoError(t, client.DeletePreset(ctx, "dawn"))
	require.NoError(t, client.ResetWorkingTweaks(ctx))

	presets, err := client.AllPresets(ctx)
	require.NoError(t, err)
	assert.Contains(t, presets, "ocean")

	assert.Equal(t, []string{
		"setTweaksOn:false",
		"update:--palette-primary-main=#336699",
		"toggle:--palette-primary-main",
		"load:ocean",
		"save",
		"saveAs:dusk",
		"rename:dusk>dawn",
		"delete:dawn",
		"reset",
		"allPresets",
	}, stub.calls)
}

func TestCommandErrorsPropagateThroughTheBus(t *testing.T) {
	bus := messaging.NewBus()
	stub := &stubCommands{savePresetAsErr: repository.ErrPresetExists}
	unregister := messaging.RegisterPageContext(bus, "tab-1", stub)
	defer unregister()

	err := NewClient(bus, "tab-1").SavePresetAs(context.Background(), "taken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), repository.ErrPresetExists.Error())
}

func TestStateChangedDeliveryIsFilteredByTab(t *testing.T) {
	bus := messaging.NewBus()
	client := NewClient(bus, "tab-1")
	ctx := context.Background()

	var seen []string
	unsubscribe := client.OnStateChanged(ctx, func(state entity.RuntimeState) {
		seen = append(seen, state.SelectedPreset)
	})
	defer unsubscribe()

	bus.Broadcast(ctx, messaging.MethodStateChanged, messaging.StateChangedEvent{
		State: entity.RuntimeState{SelectedPreset: "not-mine"}, TabID: "tab-2",
	})
	bus.Broadcast(ctx, messaging.MethodStateChanged, messaging.StateChangedEvent{
		State: entity.RuntimeState{SelectedPreset: "mine"}, TabID: "tab-1",
	})

	assert.Equal(t, []string{"mine"}, seen)
}
