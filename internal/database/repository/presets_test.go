package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/majorhelp/tuitioncalc/internal/database"
)

func newPresetRepo(t *testing.T) *PresetRepo {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "presets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPresetRepo(db)
}

func TestPresetUpsertOverwritesByKey(t *testing.T) {
	ctx := context.Background()
	repo := newPresetRepo(t)

	require.NoError(t, repo.Upsert(ctx, Preset{ID: "p1", Key: "clemson", Name: "Clemson", University: "Clemson University"}))
	require.NoError(t, repo.Upsert(ctx, Preset{
		ID: "p2", Key: "clemson", Name: "CLEMSON", University: "Clemson University",
		OutOfState: true, Department: "Engineering and Technology", Major: "Mechanical Engineering", Aid: "None",
	}))

	got, err := repo.ByKey(ctx, "clemson")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "p1", got.ID, "id survives an overwrite")
	require.Equal(t, "CLEMSON", got.Name)
	require.True(t, got.OutOfState)
	require.Equal(t, "Mechanical Engineering", got.Major)
	require.Equal(t, "None", got.Aid)
	require.False(t, got.CreatedAt.IsZero())

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestPresetSearchAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newPresetRepo(t)
	for _, p := range []Preset{
		{ID: "1", Key: "usc plan", Name: "USC plan", University: "University of South Carolina"},
		{ID: "2", Key: "acme", Name: "Acme", University: "Acme State University"},
		{ID: "3", Key: "usc backup", Name: "USC backup", University: "University of South Carolina"},
	} {
		require.NoError(t, repo.Upsert(ctx, p))
	}

	found, err := repo.Search(ctx, "usc")
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, "USC backup", found[0].Name)

	missing, err := repo.ByKey(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	ok, err := repo.DeleteByKey(ctx, "acme")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.DeleteByKey(ctx, "acme")
	require.NoError(t, err)
	require.False(t, ok)
}
