package export

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/bnema/retint/internal/domain/palette"
)

// ThemeSchema describes the importable theme document: one optional
// string-valued key per managed property. Unknown keys stay legal
// because import ignores them.
func ThemeSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	for _, name := range palette.ManagedPropertyNames() {
		props.Set(string(name), &jsonschema.Schema{
			Type:        "string",
			Description: "CSS color literal (hex, rgb[a]() or hsl[a]())",
		})
	}

	return &jsonschema.Schema{
		Version:     "https://json-schema.org/draft/2020-12/schema",
		ID:          "https://github.com/bnema/retint/theme.schema.json",
		Title:       "Retint Theme",
		Description: "Flat map of CSS custom property names to color literals",
		Type:        "object",
		Properties:  props,
	}
}

// ThemeSchemaJSON renders the schema as pretty-printed JSON, matching
// the layout of the generated config schema file.
func ThemeSchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(ThemeSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal theme schema: %w", err)
	}
	return data, nil
}
