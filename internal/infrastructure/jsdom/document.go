// Package jsdom hosts a small scripted document model on a sobek
// runtime. It stands in for the real page when the engine runs outside
// a browser host: the dom.ScriptApplier's evaluation seam, exported
// console snippets, and engine tests all execute against it.
package jsdom

import (
	"context"
	"fmt"
	"sync"

	"github.com/grafana/sobek"
)

const bootstrap = `
var document = {
	documentElement: {
		style: {
			setProperty: function(name, value) { __retint_set(name, value); },
			removeProperty: function(name) { __retint_remove(name); },
			getPropertyValue: function(name) { return __retint_inline(name); }
		}
	}
};
function getComputedStyle(el) {
	return { getPropertyValue: function(name) { return __retint_computed(name); } };
}
`

// Document models the target page's root element: stylesheet-authored
// custom properties plus inline overrides, with CSS-cascade reads.
type Document struct {
	mu         sync.Mutex
	vm         *sobek.Runtime
	stylesheet map[string]string
	inline     map[string]string
}

// New creates a document whose stylesheet authors the given custom
// properties.
func New(stylesheet map[string]string) (*Document, error) {
	d := &Document{
		vm:         sobek.New(),
		stylesheet: make(map[string]string, len(stylesheet)),
		inline:     make(map[string]string),
	}
	for name, value := range stylesheet {
		d.stylesheet[name] = value
	}

	if err := d.vm.Set("__retint_set", func(name, value string) { d.inline[name] = value }); err != nil {
		return nil, fmt.Errorf("bind setProperty: %w", err)
	}
	if err := d.vm.Set("__retint_remove", func(name string) { delete(d.inline, name) }); err != nil {
		return nil, fmt.Errorf("bind removeProperty: %w", err)
	}
	if err := d.vm.Set("__retint_inline", func(name string) string { return d.inline[name] }); err != nil {
		return nil, fmt.Errorf("bind getPropertyValue: %w", err)
	}
	if err := d.vm.Set("__retint_computed", func(name string) string {
		if v, ok := d.inline[name]; ok {
			return v
		}
		return d.stylesheet[name]
	}); err != nil {
		return nil, fmt.Errorf("bind computed style: %w", err)
	}

	if _, err := d.vm.RunString(bootstrap); err != nil {
		return nil, fmt.Errorf("bootstrap document: %w", err)
	}
	return d, nil
}

// Evaluate implements dom.Evaluator: runs script and returns its final
// expression rendered as a string, empty for undefined/null.
func (d *Document) Evaluate(_ context.Context, script string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	value, err := d.vm.RunString(script)
	if err != nil {
		return "", fmt.Errorf("evaluate script: %w", err)
	}
	if value == nil || sobek.IsUndefined(value) || sobek.IsNull(value) {
		return "", nil
	}
	return value.String(), nil
}

// InlineValue returns the inline override for a property, empty when
// none is set.
func (d *Document) InlineValue(name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inline[name]
}

// InlineCount returns how many inline overrides are currently set.
func (d *Document) InlineCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inline)
}

// SetStylesheetValue rewrites a stylesheet-authored value, simulating
// the page shipping a different theme.
func (d *Document) SetStylesheetValue(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stylesheet[name] = value
}
