package jsdom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineOverridesShadowTheStylesheet(t *testing.T) {
	doc, err := New(map[string]string{"--palette-primary-main": "#101010"})
	require.NoError(t, err)
	ctx := context.Background()

	computed := func() string {
		v, err := doc.Evaluate(ctx, `getComputedStyle(document.documentElement).getPropertyValue("--palette-primary-main")`)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "#101010", computed())

	_, err = doc.Evaluate(ctx, `document.documentElement.style.setProperty("--palette-primary-main", "#ff5733")`)
	require.NoError(t, err)
	assert.Equal(t, "#ff5733", computed())
	assert.Equal(t, "#ff5733", doc.InlineValue("--palette-primary-main"))

	_, err = doc.Evaluate(ctx, `document.documentElement.style.removeProperty("--palette-primary-main")`)
	require.NoError(t, err)
	assert.Equal(t, "#101010", computed())
	assert.Zero(t, doc.InlineCount())
}

func TestEvaluateReturnsFinalExpression(t *testing.T) {
	doc, err := New(nil)
	require.NoError(t, err)

	v, err := doc.Evaluate(context.Background(), `JSON.stringify({a: 1})`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, v)

	v, err = doc.Evaluate(context.Background(), `undefined`)
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = doc.Evaluate(context.Background(), `throw new Error("boom")`)
	assert.Error(t, err)
}

func TestSetStylesheetValueChangesComputedBase(t *testing.T) {
	doc, err := New(map[string]string{"--palette-accent-main": "#aaaaaa"})
	require.NoError(t, err)

	doc.SetStylesheetValue("--palette-accent-main", "#bbbbbb")

	v, err := doc.Evaluate(context.Background(), `getComputedStyle(document.documentElement).getPropertyValue("--palette-accent-main")`)
	require.NoError(t, err)
	assert.Equal(t, "#bbbbbb", v)
}
