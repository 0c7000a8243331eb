package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/subcrack/internal/cipher"
	"github.com/verte-zerg/subcrack/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "subcrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSaveAndGetProfile(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	created := time.Unix(1700000000, 0).UTC()
	table := cipher.Count("EEEEETTTTAAO")

	err := st.SaveProfile(ctx, model.Profile{Name: "en", CreatedAt: created, Source: "sample.txt", Table: table})
	require.NoError(t, err)

	got, err := st.GetProfile(ctx, "en")
	require.NoError(t, err)
	assert.Equal(t, table, got.Table)
	assert.Equal(t, "sample.txt", got.Source)
	assert.True(t, got.CreatedAt.Equal(created), "unexpected created time %s", got.CreatedAt)
	assert.Equal(t, 12, got.Letters())
}

func TestSaveProfileReplacesExisting(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveProfile(ctx, model.Profile{Name: "en", Source: "a", Table: cipher.Count("aaaa")}))
	require.NoError(t, st.SaveProfile(ctx, model.Profile{Name: "en", Source: "b", Table: cipher.Count("zz")}))

	got, err := st.GetProfile(ctx, "en")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Table.CountOf('A'))
	assert.Equal(t, 2, got.Table.CountOf('Z'))
	assert.Equal(t, "b", got.Source)

	list, err := st.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListProfilesOrdered(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"fr", "de", "en"} {
		require.NoError(t, st.SaveProfile(ctx, model.Profile{Name: name, Table: cipher.Count(name)}))
	}

	list, err := st.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"de", "en", "fr"}, []string{list[0].Name, list[1].Name, list[2].Name})
	assert.Equal(t, 2, list[0].Letters)
}

func TestDeleteProfile(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.SaveProfile(ctx, model.Profile{Name: "en", Table: cipher.Count("abc")}))
	require.NoError(t, st.DeleteProfile(ctx, "en"))

	_, err := st.GetProfile(ctx, "en")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.ErrorIs(t, st.DeleteProfile(ctx, "en"), ErrProfileNotFound)
}

func TestProfileNameRequired(t *testing.T) {
	st := openTestStore(t)
	assert.Error(t, st.SaveProfile(context.Background(), model.Profile{Name: "  "}))
}
