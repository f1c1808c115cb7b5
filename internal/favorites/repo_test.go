package favorites

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"mixhub/pkg/database"
	"mixhub/pkg/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestUpsertAndGet(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	item := models.FavoriteItem{
		UserID: "user-1",
		MixURL: "/w/1999-08-01_-_Sasha_-_Essential_Mix",
		Status: "want_to_hear",
	}
	require.NoError(t, repo.Upsert(ctx, item))

	got, err := repo.Get(ctx, "user-1", item.MixURL)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "want_to_hear", got.Status)
	require.False(t, got.UpdatedAt.IsZero())

	// second upsert replaces the status
	item.Status = "heard"
	require.NoError(t, repo.Upsert(ctx, item))

	got, err = repo.Get(ctx, "user-1", item.MixURL)
	require.NoError(t, err)
	require.Equal(t, "heard", got.Status)

	missing, err := repo.Get(ctx, "user-1", "/w/nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestListFiltersByStatus(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.FavoriteItem{UserID: "user-1", MixURL: "/w/a", Status: "heard"}))
	require.NoError(t, repo.Upsert(ctx, models.FavoriteItem{UserID: "user-1", MixURL: "/w/b", Status: "listening"}))
	require.NoError(t, repo.Upsert(ctx, models.FavoriteItem{UserID: "user-2", MixURL: "/w/a", Status: "heard"}))

	items, total, err := repo.List(ctx, "user-1", "", 20, 0)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, items, 2)

	items, total, err = repo.List(ctx, "user-1", "heard", 20, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "/w/a", items[0].MixURL)
}

func TestDelete(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.FavoriteItem{UserID: "user-1", MixURL: "/w/a", Status: "heard"}))

	ok, err := repo.Delete(ctx, "user-1", "/w/a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Delete(ctx, "user-1", "/w/a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"want_to_hear": "want_to_hear",
		"Want To Hear": "want_to_hear",
		"wishlist":     "want_to_hear",
		"listening":    "listening",
		"heard":        "heard",
		"listened":     "heard",
		"hidden":       "hidden",
		"hide":         "hidden",
		"bogus":        "",
		"":             "",
	}
	for in, want := range cases {
		require.Equal(t, want, normalizeStatus(in), "input %q", in)
	}
}
