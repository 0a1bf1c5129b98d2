// Package repository defines persistence contracts for tweak state.
package repository

import (
	"context"
	"errors"

	"github.com/bnema/retint/internal/domain/entity"
)

var (
	// ErrPresetNotFound is returned when an operation targets a preset
	// name that does not exist.
	ErrPresetNotFound = errors.New("preset not found")
	// ErrPresetExists is returned when a create or rename would take a
	// name that is already in use.
	ErrPresetExists = errors.New("preset already exists")
)

// TweakStore is the single durable namespace shared by every open
// context. All mutations go through these named operations; raw writes
// are not part of the contract. Reads must degrade to documented
// defaults instead of failing upward.
type TweakStore interface {
	// GetTweaksOn returns the global enable flag. Defaults to true on
	// read failure.
	GetTweaksOn(ctx context.Context) bool
	SetTweaksOn(ctx context.Context, enabled bool) error

	// GetWorkingTweaks returns the stored editing buffer. Defaults to
	// an empty map on read failure.
	GetWorkingTweaks(ctx context.Context) map[entity.CSSPropertyName]entity.StoredTweakEntry
	SetWorkingTweaks(ctx context.Context, props map[entity.CSSPropertyName]entity.StoredTweakEntry) error
	ClearWorkingTweaks(ctx context.Context) error

	// SaveWorkingProperty persists a single property's entry without
	// rewriting the whole map. The interactive edit path debounces
	// calls into this.
	SaveWorkingProperty(ctx context.Context, name entity.CSSPropertyName, e entity.StoredTweakEntry) error

	// GetSelectedPreset returns the selected preset name, empty when
	// nothing is selected. Defaults to empty on read failure.
	GetSelectedPreset(ctx context.Context) string
	SetSelectedPreset(ctx context.Context, name string) error

	// GetAllPresets returns every preset keyed by name. Defaults to an
	// empty map on read failure.
	GetAllPresets(ctx context.Context) map[string]*entity.Preset

	// GetPreset returns nil when the preset does not exist.
	GetPreset(ctx context.Context, name string) *entity.Preset

	// CreatePreset fails with ErrPresetExists when the name is taken.
	CreatePreset(ctx context.Context, name string, props map[entity.CSSPropertyName]entity.StoredTweakEntry) error

	// UpdatePreset overwrites an existing preset's properties, bumping
	// UpdatedAt. Fails with ErrPresetNotFound.
	UpdatePreset(ctx context.Context, name string, props map[entity.CSSPropertyName]entity.StoredTweakEntry) error

	DeletePreset(ctx context.Context, name string) error

	// RenamePreset fails with ErrPresetNotFound when oldName is
	// missing and ErrPresetExists when newName is taken. When the
	// renamed preset is currently selected the selection pointer
	// follows the rename in the same transaction.
	RenamePreset(ctx context.Context, oldName, newName string) error
}

// StoreChange describes one committed mutation, delivered to
// subscribers in every open context, including the one that wrote.
type StoreChange struct {
	Key ChangeKey
}

// ChangeKey names the logical key a mutation touched.
type ChangeKey string

const (
	ChangeTweaksOn       ChangeKey = "tweaks_on"
	ChangeWorkingTweaks  ChangeKey = "working_tweaks"
	ChangeSelectedPreset ChangeKey = "selected_preset"
	ChangePresets        ChangeKey = "saved_presets"
)

// ChangeNotifier is the subscription seam the engine depends on for
// cross-context reactivity. It is injected, never reached for
// globally, so the engine stays testable outside a browser host.
type ChangeNotifier interface {
	// OnChange registers fn and returns an unsubscribe func. fn runs
	// after the mutation is durable.
	OnChange(fn func(StoreChange)) (unsubscribe func())
}
