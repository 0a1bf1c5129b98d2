package dom

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/domain/palette"
	"github.com/bnema/retint/internal/logging"
)

// Evaluator runs a script in the page context and returns the result
// of its final expression as a string.
type Evaluator interface {
	Evaluate(ctx context.Context, script string) (string, error)
}

// ScriptApplier drives the document root's inline style through script
// evaluation. It tracks the last value written per property so that
// repeated identical applies skip the page entirely.
type ScriptApplier struct {
	mu      sync.Mutex
	eval    Evaluator
	applied map[entity.CSSPropertyName]string
}

// NewScriptApplier creates an applier over the given evaluator.
func NewScriptApplier(eval Evaluator) *ScriptApplier {
	return &ScriptApplier{
		eval:    eval,
		applied: make(map[entity.CSSPropertyName]string),
	}
}

// ApplyOne sets a single custom property on the document root.
func (a *ScriptApplier) ApplyOne(ctx context.Context, name entity.CSSPropertyName, value string) error {
	return a.ApplyMany(ctx, map[entity.CSSPropertyName]string{name: value})
}

// ApplyMany sets custom properties on the document root, skipping
// properties whose last written value is unchanged.
func (a *ScriptApplier) ApplyMany(ctx context.Context, values map[entity.CSSPropertyName]string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	names := make([]entity.CSSPropertyName, 0, len(values))
	for name, value := range values {
		if a.applied[name] == value {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "document.documentElement.style.setProperty(%s, %s);", quoteJS(string(name)), quoteJS(values[name]))
	}

	if _, err := a.eval.Evaluate(ctx, sb.String()); err != nil {
		return fmt.Errorf("apply %d properties: %w", len(names), err)
	}

	for _, name := range names {
		a.applied[name] = values[name]
	}
	logging.FromContext(ctx).Trace().Int("count", len(names)).Msg("applied css properties")
	return nil
}

// ResetAll removes every managed inline override (base and derived
// names alike) and forgets the diff cache.
func (a *ScriptApplier) ResetAll(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var sb strings.Builder
	for _, name := range palette.AllOverridableNames() {
		fmt.Fprintf(&sb, "document.documentElement.style.removeProperty(%s);", quoteJS(string(name)))
	}

	if _, err := a.eval.Evaluate(ctx, sb.String()); err != nil {
		return fmt.Errorf("reset overrides: %w", err)
	}

	a.applied = make(map[entity.CSSPropertyName]string)
	return nil
}

// ReadComputed returns the post-cascade value of each named property.
func (a *ScriptApplier) ReadComputed(ctx context.Context, names []entity.CSSPropertyName) (map[entity.CSSPropertyName]string, error) {
	encoded, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("encode property names: %w", err)
	}

	script := fmt.Sprintf(`JSON.stringify(%s.reduce(function(acc, name) {
		acc[name] = getComputedStyle(document.documentElement).getPropertyValue(name).trim();
		return acc;
	}, {}))`, string(encoded))

	result, err := a.eval.Evaluate(ctx, script)
	if err != nil {
		return nil, fmt.Errorf("read computed styles: %w", err)
	}

	var values map[entity.CSSPropertyName]string
	if err := json.Unmarshal([]byte(result), &values); err != nil {
		return nil, fmt.Errorf("decode computed styles: %w", err)
	}
	return values, nil
}

func quoteJS(s string) string {
	encoded, _ := json.Marshal(s)
	return string(encoded)
}
