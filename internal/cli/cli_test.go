package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/retint/internal/app/messaging"
	"github.com/bnema/retint/internal/config"
	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/infrastructure/persistence/sqlite"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "retint.sqlite"))
	require.NoError(t, err)
	store := sqlite.NewTweakStore(db)
	t.Cleanup(func() {
		_ = store.Close()
		_ = db.Close()
	})

	return &CLI{DB: db, Store: store, Config: config.DefaultConfig()}
}

func TestExportBufferUsesWorkingTweaksByDefault(t *testing.T) {
	cli := newTestCLI(t)
	ctx := context.Background()

	require.NoError(t, cli.Store.SetWorkingTweaks(ctx, map[entity.CSSPropertyName]entity.StoredTweakEntry{
		"--palette-primary-main": {Value: "#336699", Enabled: true},
	}))

	working, err := exportBuffer(ctx, cli, "")
	require.NoError(t, err)
	assert.Equal(t, "#336699", working.CSSProperties["--palette-primary-main"].Value)
}

func TestExportBufferPrefersNamedPreset(t *testing.T) {
	cli := newTestCLI(t)
	ctx := context.Background()

	require.NoError(t, cli.Store.CreatePreset(ctx, "ocean", map[entity.CSSPropertyName]entity.StoredTweakEntry{
		"--palette-primary-main": {Value: "#006994", Enabled: true},
	}))

	working, err := exportBuffer(ctx, cli, "ocean")
	require.NoError(t, err)
	assert.Equal(t, "#006994", working.CSSProperties["--palette-primary-main"].Value)

	_, err = exportBuffer(ctx, cli, "ghost")
	assert.Error(t, err)
}

func TestLoadStylesheet(t *testing.T) {
	stylesheet, err := loadStylesheet("")
	require.NoError(t, err)
	assert.Nil(t, stylesheet)

	file := filepath.Join(t.TempDir(), "page.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"--palette-primary-main": "#101010"}`), 0644))

	stylesheet, err = loadStylesheet(file)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"--palette-primary-main": "#101010"}, stylesheet)

	require.NoError(t, os.WriteFile(file, []byte(`nope`), 0644))
	_, err = loadStylesheet(file)
	assert.Error(t, err)
}

func TestSeedThemeDefaultsOnlyTouchesEmptyBuffers(t *testing.T) {
	cli := newTestCLI(t)
	ctx := context.Background()
	cli.Config.Theme.Defaults = map[string]string{"--palette-primary-main": "#336699"}

	require.NoError(t, seedThemeDefaults(ctx, cli))
	stored := cli.Store.GetWorkingTweaks(ctx)
	assert.Equal(t, "#336699", stored["--palette-primary-main"].Value)
	assert.True(t, stored["--palette-primary-main"].Enabled)

	// A buffer with user data is left alone.
	require.NoError(t, cli.Store.SetWorkingTweaks(ctx, map[entity.CSSPropertyName]entity.StoredTweakEntry{
		"--palette-accent-main": {Value: "#ff00ff", Enabled: true},
	}))
	cli.Config.Theme.Defaults = map[string]string{"--palette-primary-main": "#000000"}
	require.NoError(t, seedThemeDefaults(ctx, cli))
	stored = cli.Store.GetWorkingTweaks(ctx)
	assert.NotContains(t, stored, entity.CSSPropertyName("--palette-primary-main"))
}

func TestTabHostInjectionAndTeardown(t *testing.T) {
	cli := newTestCLI(t)
	bus := messaging.NewBus()
	host := newTabHost(cli, bus, map[string]string{"--palette-primary-main": "#101010"}, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, host.InjectPageContext(ctx, "tab-1"))
	assert.True(t, bus.HasPeer(messaging.PagePeer("tab-1")))

	// Re-injecting a live tab reloads instead of duplicating it.
	require.NoError(t, host.InjectPageContext(ctx, "tab-1"))
	assert.Len(t, host.tabs, 1)

	state, err := messaging.Call[messaging.Empty, entity.RuntimeState](
		ctx, bus, messaging.PagePeer("tab-1"), messaging.MethodGetCurrentState, messaging.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "#101010", state.WorkingTweaks.CSSProperties["--palette-primary-main"].InitialValue)

	host.StopAll()
	assert.False(t, bus.HasPeer(messaging.PagePeer("tab-1")))
}
