package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"long hex", "#ff5733", "#ff5733"},
		{"short hex", "#abc", "#aabbcc"},
		{"uppercase hex", "#FF5733", "#ff5733"},
		{"hex with alpha", "#ff573380", "rgba(255, 87, 51, 0.5)"},
		{"rgb", "rgb(255, 87, 51)", "#ff5733"},
		{"rgb no spaces", "rgb(255,87,51)", "#ff5733"},
		{"rgba", "rgba(255, 87, 51, 0.5)", "rgba(255, 87, 51, 0.5)"},
		{"rgba opaque", "rgba(0, 0, 0, 1)", "#000000"},
		{"hsl", "hsl(0, 100%, 50%)", "#ff0000"},
		{"hsla", "hsla(0, 100%, 50%, 0.25)", "rgba(255, 0, 0, 0.25)"},
		{"surrounding space", "  #ff5733  ", "#ff5733"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseColor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.String())
		})
	}
}

func TestParseColorRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "red-ish", "#12", "#12345", "rgb(a,b,c)", "url(#x)", "hsl(0)"} {
		_, err := ParseColor(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestIsValidColor(t *testing.T) {
	assert.True(t, IsValidColor("#336699"))
	assert.True(t, IsValidColor("hsl(210, 50%, 40%)"))
	assert.False(t, IsValidColor("nope"))
}

func TestLightenDarkenStayInRange(t *testing.T) {
	c, err := ParseColor("#ffffff")
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", c.Lighten(0.5).String())

	c, err = ParseColor("#000000")
	require.NoError(t, err)
	assert.Equal(t, "#000000", c.Darken(0.5).String())
}

func TestWithAlphaRendersRGBA(t *testing.T) {
	c, err := ParseColor("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, "rgba(255, 0, 0, 0.12)", c.WithAlpha(0.12).String())
}
