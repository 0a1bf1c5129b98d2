// Package palette implements color parsing and the derived-property
// registry for the managed CSS custom properties.
package palette

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a parsed CSS color with an explicit alpha channel.
// go-colorful carries the RGB math; alpha is tracked alongside because
// the tweakable properties routinely use rgba()/hsla() forms.
type Color struct {
	rgb   colorful.Color
	alpha float64
}

var (
	hexRE  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcRE = regexp.MustCompile(`^(rgba?|hsla?)\(\s*([^)]+)\)$`)
)

// ParseColor parses hex (#RGB, #RRGGBB, #RRGGBBAA), rgb(), rgba(),
// hsl() and hsla() textual forms.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("empty color value")
	}

	if hexRE.MatchString(s) {
		return parseHex(s)
	}

	m := funcRE.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return Color{}, fmt.Errorf("unsupported color format %q", s)
	}

	parts := splitArgs(m[2])
	switch m[1] {
	case "rgb", "rgba":
		return parseRGB(s, parts)
	case "hsl", "hsla":
		return parseHSL(s, parts)
	}
	return Color{}, fmt.Errorf("unsupported color format %q", s)
}

// IsValidColor reports whether s parses as a supported color literal.
func IsValidColor(s string) bool {
	_, err := ParseColor(s)
	return err == nil
}

func parseHex(s string) (Color, error) {
	hex := s[1:]
	alpha := 1.0
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[6:8], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex alpha in %q", s)
		}
		alpha = float64(a) / 255.0
		hex = hex[:6]
	}
	rgb, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{rgb: rgb, alpha: alpha}, nil
}

func parseRGB(orig string, parts []string) (Color, error) {
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("invalid rgb() color %q", orig)
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		v, err := parseChannel(parts[i], 255)
		if err != nil {
			return Color{}, fmt.Errorf("invalid rgb() color %q: %w", orig, err)
		}
		ch[i] = v
	}
	alpha := 1.0
	if len(parts) == 4 {
		a, err := parseAlpha(parts[3])
		if err != nil {
			return Color{}, fmt.Errorf("invalid rgb() color %q: %w", orig, err)
		}
		alpha = a
	}
	return Color{rgb: colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, alpha: alpha}, nil
}

func parseHSL(orig string, parts []string) (Color, error) {
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("invalid hsl() color %q", orig)
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(parts[0], "deg"), 64)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hsl() hue %q", parts[0])
	}
	s, err := parsePercent(parts[1])
	if err != nil {
		return Color{}, fmt.Errorf("invalid hsl() saturation %q", parts[1])
	}
	l, err := parsePercent(parts[2])
	if err != nil {
		return Color{}, fmt.Errorf("invalid hsl() lightness %q", parts[2])
	}
	alpha := 1.0
	if len(parts) == 4 {
		a, err := parseAlpha(parts[3])
		if err != nil {
			return Color{}, fmt.Errorf("invalid hsl() color %q: %w", orig, err)
		}
		alpha = a
	}
	return Color{rgb: colorful.Hsl(math.Mod(h, 360), s, l), alpha: alpha}, nil
}

func splitArgs(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '/' || r == ' ' || r == '\t'
	})
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parseChannel(s string, scale float64) (float64, error) {
	if strings.HasSuffix(s, "%") {
		return parsePercent(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return clamp01(v / scale), nil
}

func parsePercent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, err
	}
	return clamp01(v / 100), nil
}

func parseAlpha(s string) (float64, error) {
	if strings.HasSuffix(s, "%") {
		return parsePercent(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return clamp01(v), nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lighten moves the color's HSL lightness up by amount (0..1).
func (c Color) Lighten(amount float64) Color {
	h, s, l := c.rgb.Hsl()
	return Color{rgb: colorful.Hsl(h, s, clamp01(l+amount)), alpha: c.alpha}
}

// Darken moves the color's HSL lightness down by amount (0..1).
func (c Color) Darken(amount float64) Color {
	h, s, l := c.rgb.Hsl()
	return Color{rgb: colorful.Hsl(h, s, clamp01(l-amount)), alpha: c.alpha}
}

// WithAlpha replaces the alpha channel.
func (c Color) WithAlpha(alpha float64) Color {
	c.alpha = clamp01(alpha)
	return c
}

// Hex returns the opaque #rrggbb form, dropping any alpha.
func (c Color) Hex() string {
	return c.rgb.Clamped().Hex()
}

// String renders the canonical CSS literal: #rrggbb when opaque,
// rgba(r, g, b, a) otherwise.
func (c Color) String() string {
	if c.alpha >= 1 {
		return c.Hex()
	}
	clamped := c.rgb.Clamped()
	r, g, b := clamped.RGB255()
	a := strconv.FormatFloat(round2(c.alpha), 'f', -1, 64)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, a)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
