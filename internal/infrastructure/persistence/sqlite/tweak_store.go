package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/domain/repository"
	"github.com/bnema/retint/internal/logging"
)

const (
	keyTweaksOn       = "tweaks_on"
	keySelectedPreset = "selected_preset"
	keyWorkingTweaks  = "working_tweaks"
)

type tweakStore struct {
	db  *sql.DB
	hub *changeHub
}

// Store combines the durable TweakStore with its change notifier.
type Store interface {
	repository.TweakStore
	repository.ChangeNotifier
	Close() error
}

// NewTweakStore creates a SQLite-backed tweak store. The schema must
// already be migrated (see OpenDB).
func NewTweakStore(db *sql.DB) Store {
	return &tweakStore{db: db, hub: newChangeHub()}
}

func (s *tweakStore) Close() error {
	s.hub.close()
	return nil
}

// OnChange implements repository.ChangeNotifier.
func (s *tweakStore) OnChange(fn func(repository.StoreChange)) func() {
	return s.hub.OnChange(fn)
}

// GetTweaksOn returns the global enable flag, defaulting to true when
// unset or unreadable.
func (s *tweakStore) GetTweaksOn(ctx context.Context) bool {
	raw, err := s.getSetting(ctx, keyTweaksOn)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("read tweaks_on failed, defaulting to enabled")
		return true
	}
	if raw == "" {
		return true
	}
	var enabled bool
	if err := json.Unmarshal([]byte(raw), &enabled); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("corrupt tweaks_on value, defaulting to enabled")
		return true
	}
	return enabled
}

func (s *tweakStore) SetTweaksOn(ctx context.Context, enabled bool) error {
	raw, _ := json.Marshal(enabled)
	if err := s.putSetting(ctx, keyTweaksOn, string(raw)); err != nil {
		return fmt.Errorf("set tweaks_on: %w", err)
	}
	s.hub.publish(repository.ChangeTweaksOn)
	return nil
}

// GetWorkingTweaks returns the stored editing buffer, empty when unset
// or unreadable.
func (s *tweakStore) GetWorkingTweaks(ctx context.Context) map[entity.CSSPropertyName]entity.StoredTweakEntry {
	raw, err := s.getSetting(ctx, keyWorkingTweaks)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("read working_tweaks failed, defaulting to empty")
		return map[entity.CSSPropertyName]entity.StoredTweakEntry{}
	}
	if raw == "" {
		return map[entity.CSSPropertyName]entity.StoredTweakEntry{}
	}
	var props map[entity.CSSPropertyName]entity.StoredTweakEntry
	if err := json.Unmarshal([]byte(raw), &props); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("corrupt working_tweaks value, defaulting to empty")
		return map[entity.CSSPropertyName]entity.StoredTweakEntry{}
	}
	return props
}

func (s *tweakStore) SetWorkingTweaks(ctx context.Context, props map[entity.CSSPropertyName]entity.StoredTweakEntry) error {
	raw, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal working tweaks: %w", err)
	}
	if err := s.putSetting(ctx, keyWorkingTweaks, string(raw)); err != nil {
		return fmt.Errorf("set working_tweaks: %w", err)
	}
	s.hub.publish(repository.ChangeWorkingTweaks)
	return nil
}

func (s *tweakStore) ClearWorkingTweaks(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", keyWorkingTweaks); err != nil {
		return fmt.Errorf("clear working_tweaks: %w", err)
	}
	s.hub.publish(repository.ChangeWorkingTweaks)
	return nil
}

// SaveWorkingProperty persists a single entry into the stored buffer,
// leaving every other property untouched.
func (s *tweakStore) SaveWorkingProperty(ctx context.Context, name entity.CSSPropertyName, e entity.StoredTweakEntry) error {
	props := s.GetWorkingTweaks(ctx)
	props[name] = e
	return s.SetWorkingTweaks(ctx, props)
}

// GetSelectedPreset returns the selected preset name, empty when
// nothing is selected or the read fails.
func (s *tweakStore) GetSelectedPreset(ctx context.Context) string {
	raw, err := s.getSetting(ctx, keySelectedPreset)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("read selected_preset failed, defaulting to none")
		return ""
	}
	return raw
}

func (s *tweakStore) SetSelectedPreset(ctx context.Context, name string) error {
	var err error
	if name == "" {
		_, err = s.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", keySelectedPreset)
	} else {
		err = s.putSetting(ctx, keySelectedPreset, name)
	}
	if err != nil {
		return fmt.Errorf("set selected_preset: %w", err)
	}
	s.hub.publish(repository.ChangeSelectedPreset)
	return nil
}

// GetAllPresets returns every preset keyed by name, empty on failure.
func (s *tweakStore) GetAllPresets(ctx context.Context) map[string]*entity.Preset {
	log := logging.FromContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT name, css_properties, created_at, updated_at FROM presets")
	if err != nil {
		log.Warn().Err(err).Msg("read presets failed, defaulting to empty")
		return map[string]*entity.Preset{}
	}
	defer rows.Close()

	presets := make(map[string]*entity.Preset)
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			log.Warn().Err(err).Msg("skipping corrupted preset row")
			continue
		}
		presets[p.Name] = p
	}
	if err := rows.Err(); err != nil {
		log.Warn().Err(err).Msg("preset row iteration failed")
	}
	return presets
}

// GetPreset returns nil when the preset does not exist or the read
// fails.
func (s *tweakStore) GetPreset(ctx context.Context, name string) *entity.Preset {
	row := s.db.QueryRowContext(ctx, "SELECT name, css_properties, created_at, updated_at FROM presets WHERE name = ?", name)
	p, err := scanPreset(row)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logging.FromContext(ctx).Warn().Err(err).Str("preset", name).Msg("read preset failed")
		}
		return nil
	}
	return p
}

func (s *tweakStore) CreatePreset(ctx context.Context, name string, props map[entity.CSSPropertyName]entity.StoredTweakEntry) error {
	raw, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal preset properties: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO presets (name, css_properties, created_at, updated_at) VALUES (?, ?, ?, ?)",
		name, string(raw), now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("preset %q: %w", name, repository.ErrPresetExists)
		}
		return fmt.Errorf("create preset %q: %w", name, err)
	}

	logging.FromContext(ctx).Debug().Str("preset", name).Int("properties", len(props)).Msg("preset created")
	s.hub.publish(repository.ChangePresets)
	return nil
}

func (s *tweakStore) UpdatePreset(ctx context.Context, name string, props map[entity.CSSPropertyName]entity.StoredTweakEntry) error {
	raw, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal preset properties: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE presets SET css_properties = ?, updated_at = ? WHERE name = ?",
		string(raw), time.Now().UTC(), name)
	if err != nil {
		return fmt.Errorf("update preset %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("preset %q: %w", name, repository.ErrPresetNotFound)
	}

	s.hub.publish(repository.ChangePresets)
	return nil
}

func (s *tweakStore) DeletePreset(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM presets WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete preset %q: %w", name, err)
	}
	s.hub.publish(repository.ChangePresets)
	return nil
}

// RenamePreset renames a preset and, in the same transaction, follows
// the rename with the selected-preset pointer when it pointed at the
// old name.
func (s *tweakStore) RenamePreset(ctx context.Context, oldName, newName string) (err error) {
	log := logging.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rename transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			log.Debug().Err(rollbackErr).Msg("rename rollback reported non-terminal error")
		}
	}()

	var exists int
	if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM presets WHERE name = ?", newName).Scan(&exists); err != nil {
		return fmt.Errorf("check target name: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("preset %q: %w", newName, repository.ErrPresetExists)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE presets SET name = ?, updated_at = ? WHERE name = ?",
		newName, time.Now().UTC(), oldName)
	if err != nil {
		return fmt.Errorf("rename preset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("preset %q: %w", oldName, repository.ErrPresetNotFound)
	}

	var selected string
	selectionMoved := false
	err = tx.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", keySelectedPreset).Scan(&selected)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	case err != nil:
		return fmt.Errorf("read selection: %w", err)
	case selected == oldName:
		if _, err = tx.ExecContext(ctx,
			"UPDATE settings SET value = ?, updated_at = ? WHERE key = ?",
			newName, time.Now().UTC(), keySelectedPreset); err != nil {
			return fmt.Errorf("move selection: %w", err)
		}
		selectionMoved = true
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit rename transaction: %w", err)
	}

	log.Debug().Str("from", oldName).Str("to", newName).Bool("selection_moved", selectionMoved).Msg("preset renamed")
	s.hub.publish(repository.ChangePresets)
	if selectionMoved {
		s.hub.publish(repository.ChangeSelectedPreset)
	}
	return nil
}

func (s *tweakStore) getSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *tweakStore) putSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (*entity.Preset, error) {
	var (
		p   entity.Preset
		raw string
	)
	if err := row.Scan(&p.Name, &raw, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &p.CSSProperties); err != nil {
		return nil, fmt.Errorf("unmarshal preset %q: %w", p.Name, err)
	}
	if p.CSSProperties == nil {
		p.CSSProperties = map[entity.CSSPropertyName]entity.StoredTweakEntry{}
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	// ncruces/go-sqlite3 surfaces constraint failures in the error
	// text; there is no exported sentinel for database/sql users.
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
