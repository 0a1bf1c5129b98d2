package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/infrastructure/jsdom"
)

func TestParseThemeFiltersUnknownAndInvalidKeys(t *testing.T) {
	doc := []byte(`{
		"--palette-primary-main": "#336699",
		"--palette-accent-main": "rgb(255, 87, 51)",
		"--palette-secondary-main": "definitely not a color",
		"--vendor-extra": "#ffffff"
	}`)

	props, err := ParseTheme(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, map[entity.CSSPropertyName]entity.StoredTweakEntry{
		"--palette-primary-main": {Value: "#336699", Enabled: true},
		"--palette-accent-main":  {Value: "rgb(255, 87, 51)", Enabled: true},
	}, props)
}

func TestParseThemeRejectsDocumentsWithNothingUsable(t *testing.T) {
	cases := map[string]string{
		"only unknown keys":   `{"--vendor-extra": "#ffffff"}`,
		"only invalid colors": `{"--palette-primary-main": "nope"}`,
		"empty object":        `{}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTheme(context.Background(), []byte(doc))
			assert.ErrorIs(t, err, ErrEmptyTheme)
		})
	}
}

func TestParseThemeRejectsNonFlatDocuments(t *testing.T) {
	_, err := ParseTheme(context.Background(), []byte(`{"--palette-primary-main": {"value": "#fff"}}`))
	assert.Error(t, err)

	_, err = ParseTheme(context.Background(), []byte(`[1, 2, 3]`))
	assert.Error(t, err)
}

func TestExportThemeEmitsEnabledEffectiveValues(t *testing.T) {
	working := entity.WorkingTweaks{CSSProperties: map[entity.CSSPropertyName]entity.TweakEntry{
		"--palette-primary-main":       {Value: "#336699", InitialValue: "#000000", Enabled: true},
		"--palette-secondary-main":     {Value: "#ff5733", InitialValue: "#000000", Enabled: false},
		"--palette-background-default": {InitialValue: "#fafafa", Enabled: true},
		"--palette-accent-main":        {},
	}}

	data, err := ExportTheme(working)
	require.NoError(t, err)

	props, err := ParseTheme(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, map[entity.CSSPropertyName]entity.StoredTweakEntry{
		"--palette-primary-main":       {Value: "#336699", Enabled: true},
		"--palette-background-default": {Value: "#fafafa", Enabled: true},
	}, props)
}

func TestExportThemeWithNothingEnabledErrors(t *testing.T) {
	_, err := ExportTheme(entity.NewWorkingTweaks())
	assert.ErrorIs(t, err, ErrEmptyTheme)
}

func TestThemeRoundTripPreservesValues(t *testing.T) {
	original := map[entity.CSSPropertyName]entity.StoredTweakEntry{
		"--palette-primary-main": {Value: "#336699", Enabled: true},
		"--palette-text-primary": {Value: "rgba(0, 0, 0, 0.87)", Enabled: true},
		"--palette-divider":      {Value: "hsl(210, 50%, 40%)", Enabled: true},
	}

	working := entity.NewWorkingTweaks()
	for name, e := range original {
		working.CSSProperties[name] = entity.TweakEntry{Value: e.Value, Enabled: e.Enabled}
	}

	data, err := ExportTheme(working)
	require.NoError(t, err)
	parsed, err := ParseTheme(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestConsoleScriptRunsAgainstADocument(t *testing.T) {
	working := entity.WorkingTweaks{CSSProperties: map[entity.CSSPropertyName]entity.TweakEntry{
		"--palette-secondary-main": {Value: "#ff5733", Enabled: true},
	}}

	script, err := ConsoleScript(working)
	require.NoError(t, err)

	doc, err := jsdom.New(nil)
	require.NoError(t, err)
	_, err = doc.Evaluate(context.Background(), script)
	require.NoError(t, err)

	assert.Equal(t, "#ff5733", doc.InlineValue("--palette-secondary-main"))
	assert.Equal(t, "rgba(255, 87, 51, 0.08)", doc.InlineValue("--palette-secondary-hover"))
	assert.NotEmpty(t, doc.InlineValue("--palette-secondary-light"))
	assert.NotEmpty(t, doc.InlineValue("--palette-secondary-dark"))
}

func TestConsoleScriptSkipsDisabledEntries(t *testing.T) {
	working := entity.WorkingTweaks{CSSProperties: map[entity.CSSPropertyName]entity.TweakEntry{
		"--palette-secondary-main": {Value: "#ff5733", Enabled: false},
	}}

	_, err := ConsoleScript(working)
	assert.ErrorIs(t, err, ErrEmptyTheme)
}

func TestThemeSchemaListsEveryManagedProperty(t *testing.T) {
	data, err := ThemeSchemaJSON()
	require.NoError(t, err)

	assert.Contains(t, string(data), `"--palette-primary-main"`)
	assert.Contains(t, string(data), `"--palette-divider"`)
	assert.Contains(t, string(data), `"Retint Theme"`)
}
