// Package export converts between the working tweak buffer and the
// flat theme-document JSON used for sharing palettes, and renders the
// standalone console script for pages where the engine cannot run.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/domain/palette"
	"github.com/bnema/retint/internal/logging"
)

// ErrEmptyTheme is returned when a theme document yields no usable
// properties, or when an export has nothing to emit.
var ErrEmptyTheme = errors.New("theme contains no usable properties")

// ParseTheme validates a flat JSON object of property names to color
// literals. Unknown keys are ignored and invalid colors are dropped,
// both logged; a document with zero surviving keys is rejected so the
// caller never mutates state from garbage input.
func ParseTheme(ctx context.Context, data []byte) (map[entity.CSSPropertyName]entity.StoredTweakEntry, error) {
	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("theme must be a flat JSON object of color strings: %w", err)
	}

	log := logging.FromContext(ctx)
	out := make(map[entity.CSSPropertyName]entity.StoredTweakEntry)
	for key, raw := range doc {
		name := entity.CSSPropertyName(key)
		if !palette.IsManaged(name) {
			log.Debug().Str("property", key).Msg("ignoring unknown theme key")
			continue
		}
		if !palette.IsValidColor(raw) {
			log.Warn().Str("property", key).Str("value", raw).Msg("dropping theme key with invalid color")
			continue
		}
		out[name] = entity.StoredTweakEntry{Value: raw, Enabled: true}
	}

	if len(out) == 0 {
		return nil, ErrEmptyTheme
	}
	return out, nil
}

// ExportTheme renders the enabled portion of the working buffer as the
// flat theme document, resolving each entry to its effective value.
func ExportTheme(working entity.WorkingTweaks) ([]byte, error) {
	doc := make(map[string]string)
	for name, entry := range working.CSSProperties {
		if !entry.Enabled {
			continue
		}
		value := entry.EffectiveValue()
		if value == "" {
			continue
		}
		doc[string(name)] = value
	}

	if len(doc) == 0 {
		return nil, ErrEmptyTheme
	}
	return json.MarshalIndent(doc, "", "  ")
}
