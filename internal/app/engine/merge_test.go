package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/domain/palette"
)

func TestMergeInitialValuesPrefersPreviousCapture(t *testing.T) {
	previous := map[entity.CSSPropertyName]entity.TweakEntry{
		"--palette-primary-main": {InitialValue: "#000000"},
	}
	// The fresh read reflects a value this engine already wrote.
	fresh := map[entity.CSSPropertyName]string{
		"--palette-primary-main": "#ff5733",
	}

	merged := MergeInitialValues(previous, fresh, nil)
	assert.Equal(t, "#000000", merged["--palette-primary-main"].InitialValue)
}

func TestMergeInitialValuesFallsBackToFreshRead(t *testing.T) {
	fresh := map[entity.CSSPropertyName]string{
		"--palette-primary-main": "#101010",
	}

	merged := MergeInitialValues(nil, fresh, nil)
	assert.Equal(t, "#101010", merged["--palette-primary-main"].InitialValue)
}

func TestMergeInitialValuesAppliesStoredOverrides(t *testing.T) {
	stored := map[entity.CSSPropertyName]entity.StoredTweakEntry{
		"--palette-primary-main": {Value: "#336699", Enabled: true},
	}

	merged := MergeInitialValues(nil, nil, stored)
	entry := merged["--palette-primary-main"]
	assert.Equal(t, "#336699", entry.Value)
	assert.True(t, entry.Enabled)
}

func TestMergeInitialValuesCoversEveryManagedProperty(t *testing.T) {
	merged := MergeInitialValues(nil, nil, nil)
	for _, name := range palette.ManagedPropertyNames() {
		assert.Contains(t, merged, name)
	}
}
