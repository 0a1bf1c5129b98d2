package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/domain/repository"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "retint.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewTweakStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleProps() map[entity.CSSPropertyName]entity.StoredTweakEntry {
	return map[entity.CSSPropertyName]entity.StoredTweakEntry{
		"--palette-primary-main":   {Value: "#336699", Enabled: true},
		"--palette-secondary-main": {Value: "#ff5733", Enabled: false},
	}
}

func TestTweaksOnDefaultsToEnabled(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.True(t, store.GetTweaksOn(ctx))

	require.NoError(t, store.SetTweaksOn(ctx, false))
	assert.False(t, store.GetTweaksOn(ctx))

	require.NoError(t, store.SetTweaksOn(ctx, true))
	assert.True(t, store.GetTweaksOn(ctx))
}

func TestWorkingTweaksRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.Empty(t, store.GetWorkingTweaks(ctx))

	props := sampleProps()
	require.NoError(t, store.SetWorkingTweaks(ctx, props))
	assert.Equal(t, props, store.GetWorkingTweaks(ctx))

	require.NoError(t, store.ClearWorkingTweaks(ctx))
	assert.Empty(t, store.GetWorkingTweaks(ctx))
}

func TestSaveWorkingPropertyLeavesOthersUntouched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetWorkingTweaks(ctx, sampleProps()))
	require.NoError(t, store.SaveWorkingProperty(ctx, "--palette-primary-main", entity.StoredTweakEntry{Value: "#000000", Enabled: true}))

	got := store.GetWorkingTweaks(ctx)
	assert.Equal(t, "#000000", got["--palette-primary-main"].Value)
	assert.Equal(t, "#ff5733", got["--palette-secondary-main"].Value)
	assert.False(t, got["--palette-secondary-main"].Enabled)
}

func TestCreatePresetRejectsDuplicateName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePreset(ctx, "ocean", sampleProps()))
	err := store.CreatePreset(ctx, "ocean", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrPresetExists)
}

func TestUpdatePresetBumpsUpdatedAtKeepsCreatedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePreset(ctx, "ocean", sampleProps()))
	created := store.GetPreset(ctx, "ocean")
	require.NotNil(t, created)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.UpdatePreset(ctx, "ocean", map[entity.CSSPropertyName]entity.StoredTweakEntry{
		"--palette-primary-main": {Value: "#111111", Enabled: true},
	}))

	updated := store.GetPreset(ctx, "ocean")
	require.NotNil(t, updated)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, "#111111", updated.CSSProperties["--palette-primary-main"].Value)
}

func TestUpdatePresetMissingTarget(t *testing.T) {
	store := newTestStore(t)
	err := store.UpdatePreset(context.Background(), "ghost", nil)
	assert.ErrorIs(t, err, repository.ErrPresetNotFound)
}

func TestRenamePreset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	props := sampleProps()

	require.NoError(t, store.CreatePreset(ctx, "A", props))
	require.NoError(t, store.RenamePreset(ctx, "A", "B"))

	assert.Nil(t, store.GetPreset(ctx, "A"))
	renamed := store.GetPreset(ctx, "B")
	require.NotNil(t, renamed)
	assert.Equal(t, props, renamed.CSSProperties)
}

func TestRenamePresetFollowsSelection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePreset(ctx, "A", sampleProps()))
	require.NoError(t, store.SetSelectedPreset(ctx, "A"))
	require.NoError(t, store.RenamePreset(ctx, "A", "B"))

	assert.Equal(t, "B", store.GetSelectedPreset(ctx))
}

func TestRenamePresetLeavesOtherSelectionAlone(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePreset(ctx, "A", sampleProps()))
	require.NoError(t, store.CreatePreset(ctx, "C", sampleProps()))
	require.NoError(t, store.SetSelectedPreset(ctx, "C"))
	require.NoError(t, store.RenamePreset(ctx, "A", "B"))

	assert.Equal(t, "C", store.GetSelectedPreset(ctx))
}

func TestRenamePresetErrors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePreset(ctx, "A", nil))
	require.NoError(t, store.CreatePreset(ctx, "B", nil))

	assert.ErrorIs(t, store.RenamePreset(ctx, "ghost", "X"), repository.ErrPresetNotFound)
	assert.ErrorIs(t, store.RenamePreset(ctx, "A", "B"), repository.ErrPresetExists)
}

func TestDeletePresetIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePreset(ctx, "A", nil))
	require.NoError(t, store.DeletePreset(ctx, "A"))
	require.NoError(t, store.DeletePreset(ctx, "A"))
	assert.Nil(t, store.GetPreset(ctx, "A"))
}

func TestChangeNotification(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	changes := make(chan repository.StoreChange, 16)
	unsubscribe := store.OnChange(func(c repository.StoreChange) { changes <- c })
	defer unsubscribe()

	require.NoError(t, store.SetTweaksOn(ctx, false))

	select {
	case c := <-changes:
		assert.Equal(t, repository.ChangeTweaksOn, c.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}

	unsubscribe()
	require.NoError(t, store.SetTweaksOn(ctx, true))

	select {
	case c := <-changes:
		t.Fatalf("unexpected notification after unsubscribe: %v", c)
	case <-time.After(100 * time.Millisecond):
	}
}
