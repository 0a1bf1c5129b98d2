// Package engine owns the canonical per-tab tweak state. Every
// mutation flows through one Engine instance, which recomputes derived
// colors, drives the DOM applier, persists to the store, and
// broadcasts a consistent snapshot after each transition.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/retint/internal/app/dom"
	"github.com/bnema/retint/internal/app/messaging"
	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/domain/palette"
	"github.com/bnema/retint/internal/domain/repository"
	"github.com/bnema/retint/internal/logging"
)

// DefaultDebounceWindow is the quiet period for interactive property
// edits before a durable write.
const DefaultDebounceWindow = 500 * time.Millisecond

// Config wires an Engine's collaborators. Store, Applier and Bus are
// required; Notifier, Clock and DebounceWindow have working defaults.
type Config struct {
	TabID          string
	Store          repository.TweakStore
	Notifier       repository.ChangeNotifier
	Applier        dom.Applier
	Bus            *messaging.Bus
	DebounceWindow time.Duration
	Clock          Clock
}

// Engine is the runtime state manager for one tab. Commands are
// serialized: the page context is logically single-threaded, and two
// tabs converge only through the shared store.
type Engine struct {
	mu        sync.Mutex
	tabID     string
	store     repository.TweakStore
	notifier  repository.ChangeNotifier
	applier   dom.Applier
	bus       *messaging.Bus
	debouncer *Debouncer

	state       entity.RuntimeState
	unsubscribe func()
}

// New constructs an Engine. Call Start to load state and begin
// observing the store.
func New(cfg Config) *Engine {
	window := cfg.DebounceWindow
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	clock := cfg.Clock
	if clock == nil {
		clock = NewRealClock()
	}

	return &Engine{
		tabID:     cfg.TabID,
		store:     cfg.Store,
		notifier:  cfg.Notifier,
		applier:   cfg.Applier,
		bus:       cfg.Bus,
		debouncer: NewDebouncer(window, clock),
		state: entity.RuntimeState{
			TweaksOn:      true,
			WorkingTweaks: entity.NewWorkingTweaks(),
			SavedPresets:  map[string]*entity.Preset{},
		},
	}
}

// Start performs the initial load and subscribes to store changes so
// external mutations (another tab) trigger a full reload.
func (e *Engine) Start(ctx context.Context) error {
	if e.notifier != nil {
		e.unsubscribe = e.notifier.OnChange(func(repository.StoreChange) {
			if err := e.Reload(ctx); err != nil {
				logging.FromContext(ctx).Error().Err(err).Str("tab_id", e.tabID).Msg("store-driven reload failed")
			}
		})
	}
	return e.Reload(ctx)
}

// Stop unsubscribes from the store and drops pending debounced
// writes. Values still inside the quiet window are lost, which is the
// accepted trade for this class of preference data.
func (e *Engine) Stop() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	e.debouncer.CancelAll()
}

// Reload re-reads everything from the store, re-seeds initial values
// from a clean DOM, re-applies enabled overrides, and broadcasts the
// rebuilt snapshot.
func (e *Engine) Reload(ctx context.Context) error {
	e.mu.Lock()
	err := e.reloadLocked(ctx)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	snapshot := e.snapshotLocked()
	badge := badgeFor(e.state)
	e.mu.Unlock()

	e.emit(ctx, snapshot, badge)
	return nil
}

func (e *Engine) reloadLocked(ctx context.Context) error {
	log := logging.FromContext(ctx)

	tweaksOn := e.store.GetTweaksOn(ctx)
	stored := e.store.GetWorkingTweaks(ctx)
	selected := e.store.GetSelectedPreset(ctx)
	presets := e.store.GetAllPresets(ctx)

	if selected != "" {
		if _, ok := presets[selected]; !ok {
			log.Warn().Str("preset", selected).Msg("selected preset no longer exists, deselecting")
			selected = ""
		}
	}

	// Clean the page before reading computed styles: a read through
	// our own overrides must never seed an initial value.
	if err := e.applier.ResetAll(ctx); err != nil {
		return fmt.Errorf("reset before reload: %w", err)
	}
	fresh, err := e.applier.ReadComputed(ctx, palette.ManagedPropertyNames())
	if err != nil {
		return fmt.Errorf("read page defaults: %w", err)
	}

	working := entity.WorkingTweaks{
		CSSProperties: MergeInitialValues(e.state.WorkingTweaks.CSSProperties, fresh, stored),
	}

	if tweaksOn {
		values := make(map[entity.CSSPropertyName]string)
		for name, entry := range working.CSSProperties {
			if !entry.Enabled || entry.Value == "" {
				continue
			}
			set, err := palette.ApplySet(name, entry.Value)
			if err != nil {
				log.Warn().Err(err).Str("property", string(name)).Msg("skipping unparseable override")
				continue
			}
			for n, v := range set {
				values[n] = v
			}
		}
		if len(values) > 0 {
			if err := e.applier.ApplyMany(ctx, values); err != nil {
				return fmt.Errorf("apply overrides: %w", err)
			}
		}
	}

	e.state = entity.RuntimeState{
		TweaksOn:       tweaksOn,
		WorkingTweaks:  working,
		SelectedPreset: selected,
		SavedPresets:   presets,
	}
	e.state.HasUnsavedChanges = computeUnsavedChanges(working, presets[selected])
	return nil
}

// CurrentState returns the latest snapshot.
func (e *Engine) CurrentState(_ context.Context) entity.RuntimeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// AllPresets returns every saved preset.
func (e *Engine) AllPresets(ctx context.Context) map[string]*entity.Preset {
	return e.store.GetAllPresets(ctx)
}

// SetTweaksOn persists the global flag. The DOM is not touched here:
// the store change fans out a reload in every open context, which
// applies or resets accordingly.
func (e *Engine) SetTweaksOn(ctx context.Context, enabled bool) error {
	return e.store.SetTweaksOn(ctx, enabled)
}

// LoadPreset replaces the working buffer with a preset's contents and
// selects it. A missing preset is a logged no-op: the UI may act on a
// stale list.
func (e *Engine) LoadPreset(ctx context.Context, name string) error {
	preset := e.store.GetPreset(ctx, name)
	if preset == nil {
		logging.FromContext(ctx).Warn().Str("preset", name).Msg("load ignored, preset does not exist")
		return nil
	}
	if err := e.store.SetWorkingTweaks(ctx, preset.CSSProperties); err != nil {
		return err
	}
	return e.store.SetSelectedPreset(ctx, name)
}

// ImportPreset overwrites the working buffer without changing the
// selection; used for pasted theme JSON.
func (e *Engine) ImportPreset(ctx context.Context, props map[entity.CSSPropertyName]entity.StoredTweakEntry) error {
	return e.store.SetWorkingTweaks(ctx, props)
}

// SavePreset persists the working buffer over the selected preset.
// Without a selection it is a no-op.
func (e *Engine) SavePreset(ctx context.Context) error {
	e.mu.Lock()
	selected := e.state.SelectedPreset
	stored := e.state.WorkingTweaks.ToStored()
	e.mu.Unlock()

	if selected == "" {
		logging.FromContext(ctx).Debug().Msg("save ignored, no preset selected")
		return nil
	}
	return e.store.UpdatePreset(ctx, selected, stored)
}

// SavePresetAs creates a new preset from the working buffer and
// selects it. ErrPresetExists propagates so the UI can surface it.
func (e *Engine) SavePresetAs(ctx context.Context, name string) error {
	e.mu.Lock()
	stored := e.state.WorkingTweaks.ToStored()
	e.mu.Unlock()

	if err := e.store.CreatePreset(ctx, name, stored); err != nil {
		return err
	}
	return e.store.SetSelectedPreset(ctx, name)
}

// DeletePreset removes a preset, deselecting it first when it is the
// active one.
func (e *Engine) DeletePreset(ctx context.Context, name string) error {
	e.mu.Lock()
	selected := e.state.SelectedPreset
	e.mu.Unlock()

	if selected == name {
		if err := e.store.SetSelectedPreset(ctx, ""); err != nil {
			return err
		}
	}
	return e.store.DeletePreset(ctx, name)
}

// RenamePreset renames a preset; the store follows the selection
// pointer transactionally. NotFound/AlreadyExists propagate.
func (e *Engine) RenamePreset(ctx context.Context, oldName, newName string) error {
	return e.store.RenamePreset(ctx, oldName, newName)
}

// ResetWorkingTweaks clears the working buffer and deselects the
// active preset.
func (e *Engine) ResetWorkingTweaks(ctx context.Context) error {
	if err := e.store.ClearWorkingTweaks(ctx); err != nil {
		return err
	}
	return e.store.SetSelectedPreset(ctx, "")
}

// UpdateProperty applies a new value (plus its derived values) to the
// DOM synchronously for responsive color dragging, then schedules a
// debounced durable write of just that property. It returns before
// anything is persisted.
func (e *Engine) UpdateProperty(ctx context.Context, name entity.CSSPropertyName, value string) error {
	log := logging.FromContext(ctx)
	if !palette.IsManaged(name) {
		log.Warn().Str("property", string(name)).Msg("update ignored, property is not managed")
		return nil
	}

	e.mu.Lock()

	entry := e.state.WorkingTweaks.CSSProperties[name]
	firstCustomization := entry.Value == ""
	entry.Value = value
	if firstCustomization {
		entry.Enabled = true
	}
	e.state.WorkingTweaks.CSSProperties[name] = entry

	if e.state.TweaksOn && entry.Enabled {
		set, err := palette.ApplySet(name, value)
		if err != nil {
			e.mu.Unlock()
			return fmt.Errorf("update %s: %w", name, err)
		}
		if err := e.applier.ApplyMany(ctx, set); err != nil {
			e.mu.Unlock()
			return fmt.Errorf("update %s: %w", name, err)
		}
	}

	// The write outlives this request: the caller's ctx is routinely
	// canceled long before the quiet window elapses.
	writeCtx := context.WithoutCancel(ctx)
	stored := entity.StoredTweakEntry{Value: value, Enabled: entry.Enabled}
	e.debouncer.Schedule(string(name), func() {
		if err := e.store.SaveWorkingProperty(writeCtx, name, stored); err != nil {
			log.Error().Err(err).Str("property", string(name)).Msg("debounced property write failed")
		}
	})

	e.state.HasUnsavedChanges = computeUnsavedChanges(e.state.WorkingTweaks, e.state.SavedPresets[e.state.SelectedPreset])
	snapshot := e.snapshotLocked()
	badge := badgeFor(e.state)
	e.mu.Unlock()

	e.emit(ctx, snapshot, badge)
	return nil
}

// ToggleProperty flips one property's enabled flag and writes the full
// working map back immediately. This is a discrete click, not a drag,
// so it is not debounced. The DOM follows via the store-driven reload.
func (e *Engine) ToggleProperty(ctx context.Context, name entity.CSSPropertyName, enabled bool) error {
	if !palette.IsManaged(name) {
		logging.FromContext(ctx).Warn().Str("property", string(name)).Msg("toggle ignored, property is not managed")
		return nil
	}

	e.mu.Lock()
	entry := e.state.WorkingTweaks.CSSProperties[name]
	entry.Enabled = enabled
	e.state.WorkingTweaks.CSSProperties[name] = entry

	stored := make(map[entity.CSSPropertyName]entity.StoredTweakEntry)
	for n, en := range e.state.WorkingTweaks.CSSProperties {
		if en.Value == "" {
			continue
		}
		stored[n] = entity.StoredTweakEntry{Value: en.Value, Enabled: en.Enabled}
	}
	e.mu.Unlock()

	return e.store.SetWorkingTweaks(ctx, stored)
}

// Badge returns the current badge intent.
func (e *Engine) Badge() entity.BadgeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return badgeFor(e.state)
}

func (e *Engine) snapshotLocked() entity.RuntimeState {
	snapshot := e.state
	snapshot.WorkingTweaks = e.state.WorkingTweaks.Clone()
	presets := make(map[string]*entity.Preset, len(e.state.SavedPresets))
	for name, p := range e.state.SavedPresets {
		presets[name] = p.Clone()
	}
	snapshot.SavedPresets = presets
	return snapshot
}

// emit broadcasts a state snapshot and reports badge intent. Both are
// fire-and-forget: an absent popup or background peer is normal. Must
// run without e.mu held: broadcast subscribers are invoked
// synchronously and may call back into this engine.
func (e *Engine) emit(ctx context.Context, snapshot entity.RuntimeState, badge entity.BadgeState) {
	if e.bus == nil {
		return
	}
	e.bus.Broadcast(ctx, messaging.MethodStateChanged, messaging.StateChangedEvent{State: snapshot, TabID: e.tabID})

	if _, err := e.bus.Send(ctx, messaging.PeerBackground, messaging.MethodUpdateBadge, messaging.UpdateBadgeEvent{
		BadgeState: badge,
		TabID:      e.tabID,
	}); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("badge", string(badge)).Msg("badge update not delivered")
	}
}
