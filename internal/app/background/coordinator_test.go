package background

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/retint/internal/app/messaging"
	"github.com/bnema/retint/internal/domain/entity"
)

func TestCoordinatorTracksBadgePerTab(t *testing.T) {
	bus := messaging.NewBus()
	c := NewCoordinator(bus, nil)
	c.Start()
	defer c.Stop()
	ctx := context.Background()

	assert.Equal(t, entity.BadgeDefault, c.BadgeFor("tab-1"))

	_, err := messaging.Call[messaging.UpdateBadgeEvent, messaging.Empty](
		ctx, bus, messaging.PeerBackground, messaging.MethodUpdateBadge,
		messaging.UpdateBadgeEvent{BadgeState: entity.BadgeOn, TabID: "tab-1"})
	require.NoError(t, err)

	_, err = messaging.Call[messaging.UpdateBadgeEvent, messaging.Empty](
		ctx, bus, messaging.PeerBackground, messaging.MethodUpdateBadge,
		messaging.UpdateBadgeEvent{BadgeState: entity.BadgeOff, TabID: "tab-2"})
	require.NoError(t, err)

	assert.Equal(t, entity.BadgeOn, c.BadgeFor("tab-1"))
	assert.Equal(t, entity.BadgeOff, c.BadgeFor("tab-2"))

	c.TabClosed("tab-1")
	assert.Equal(t, entity.BadgeDefault, c.BadgeFor("tab-1"))
}

func TestCoordinatorInjectsOnRequest(t *testing.T) {
	bus := messaging.NewBus()
	var injected []string
	c := NewCoordinator(bus, InjectorFunc(func(_ context.Context, tabID string) error {
		injected = append(injected, tabID)
		return nil
	}))
	c.Start()
	defer c.Stop()

	_, err := messaging.Call[messaging.InjectPageContextRequest, messaging.Empty](
		context.Background(), bus, messaging.PeerBackground, messaging.MethodInjectPageContext,
		messaging.InjectPageContextRequest{TabID: "tab-7"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tab-7"}, injected)
}

func TestCoordinatorPropagatesInjectionFailure(t *testing.T) {
	bus := messaging.NewBus()
	c := NewCoordinator(bus, InjectorFunc(func(context.Context, string) error {
		return errors.New("tab is gone")
	}))
	c.Start()
	defer c.Stop()

	_, err := messaging.Call[messaging.InjectPageContextRequest, messaging.Empty](
		context.Background(), bus, messaging.PeerBackground, messaging.MethodInjectPageContext,
		messaging.InjectPageContextRequest{TabID: "tab-7"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tab is gone")
}

func TestCoordinatorStopRemovesItsPeer(t *testing.T) {
	bus := messaging.NewBus()
	c := NewCoordinator(bus, nil)
	c.Start()
	c.Stop()

	_, err := messaging.Call[messaging.UpdateBadgeEvent, messaging.Empty](
		context.Background(), bus, messaging.PeerBackground, messaging.MethodUpdateBadge,
		messaging.UpdateBadgeEvent{BadgeState: entity.BadgeOn, TabID: "tab-1"})
	assert.ErrorIs(t, err, messaging.ErrNoReceiver)
}
