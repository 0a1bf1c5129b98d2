package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/domain/palette"
)

// ConsoleScript renders a self-executing snippet that applies every
// enabled override, base and derived values alike, directly on the
// document root. It is the escape hatch for contexts where the engine
// itself cannot be injected.
func ConsoleScript(working entity.WorkingTweaks) (string, error) {
	values := make(map[entity.CSSPropertyName]string)
	for _, name := range palette.ManagedPropertyNames() {
		entry := working.CSSProperties[name]
		if !entry.Enabled {
			continue
		}
		value := entry.EffectiveValue()
		if value == "" {
			continue
		}
		set, err := palette.ApplySet(name, value)
		if err != nil {
			return "", fmt.Errorf("render %s: %w", name, err)
		}
		for n, v := range set {
			values[n] = v
		}
	}

	if len(values) == 0 {
		return "", ErrEmptyTheme
	}

	names := make([]entity.CSSPropertyName, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	var b strings.Builder
	b.WriteString("(function () {\n")
	b.WriteString("  var style = document.documentElement.style;\n")
	for _, n := range names {
		fmt.Fprintf(&b, "  style.setProperty(%s, %s);\n", jsString(string(n)), jsString(values[n]))
	}
	b.WriteString("})();")
	return b.String(), nil
}

// jsString quotes a value as a JS string literal. JSON string escaping
// is a strict subset of what a script context accepts.
func jsString(s string) string {
	quoted, _ := json.Marshal(s)
	return string(quoted)
}
