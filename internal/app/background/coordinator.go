// Package background hosts the long-lived coordinator peer: it tracks
// badge intent per tab and (re)injects page contexts on request from
// the popup.
package background

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/retint/internal/app/messaging"
	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/logging"
)

// Injector starts (or restarts) the page context for one tab. The run
// loop provides the implementation; in tests it is a stub.
type Injector interface {
	InjectPageContext(ctx context.Context, tabID string) error
}

// InjectorFunc adapts a function to the Injector interface.
type InjectorFunc func(ctx context.Context, tabID string) error

func (f InjectorFunc) InjectPageContext(ctx context.Context, tabID string) error {
	return f(ctx, tabID)
}

// Coordinator is the background peer on the bus. One instance serves
// every tab.
type Coordinator struct {
	bus      *messaging.Bus
	injector Injector

	mu     sync.Mutex
	badges map[string]entity.BadgeState
}

func NewCoordinator(bus *messaging.Bus, injector Injector) *Coordinator {
	return &Coordinator{
		bus:      bus,
		injector: injector,
		badges:   make(map[string]entity.BadgeState),
	}
}

// Start registers the coordinator's handlers on the bus.
func (c *Coordinator) Start() {
	c.bus.Handle(messaging.PeerBackground, messaging.MethodUpdateBadge,
		messaging.HandlerFor(func(ctx context.Context, ev messaging.UpdateBadgeEvent) (messaging.Empty, error) {
			c.setBadge(ctx, ev.TabID, ev.BadgeState)
			return messaging.Empty{}, nil
		}))

	c.bus.Handle(messaging.PeerBackground, messaging.MethodInjectPageContext,
		messaging.HandlerFor(func(ctx context.Context, req messaging.InjectPageContextRequest) (messaging.Empty, error) {
			if c.injector == nil {
				return messaging.Empty{}, fmt.Errorf("no injector configured for tab %s", req.TabID)
			}
			if err := c.injector.InjectPageContext(ctx, req.TabID); err != nil {
				return messaging.Empty{}, fmt.Errorf("inject page context for tab %s: %w", req.TabID, err)
			}
			return messaging.Empty{}, nil
		}))
}

// Stop deregisters the coordinator from the bus.
func (c *Coordinator) Stop() {
	c.bus.Unregister(messaging.PeerBackground)
}

// BadgeFor returns the last badge intent reported for a tab; a tab
// that never reported shows the default icon.
func (c *Coordinator) BadgeFor(tabID string) entity.BadgeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if badge, ok := c.badges[tabID]; ok {
		return badge
	}
	return entity.BadgeDefault
}

// TabClosed drops a tab's badge record.
func (c *Coordinator) TabClosed(tabID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.badges, tabID)
}

func (c *Coordinator) setBadge(ctx context.Context, tabID string, badge entity.BadgeState) {
	c.mu.Lock()
	c.badges[tabID] = badge
	c.mu.Unlock()
	logging.FromContext(ctx).Debug().Str("tab_id", tabID).Str("badge", string(badge)).Msg("badge updated")
}
