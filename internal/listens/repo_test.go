package listens

import (
	"context"
	"database/sql"
	"testing"
	"time"

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

func TestAddAndListAppendOnly(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mixURL := "/w/1999-08-01_-_Sasha_-_Essential_Mix"

	require.NoError(t, repo.Add(ctx, models.ListenEntry{UserID: "user-1", MixURL: mixURL, At: base}))
	require.NoError(t, repo.Add(ctx, models.ListenEntry{UserID: "user-1", MixURL: mixURL, At: base.Add(time.Hour)}))
	require.NoError(t, repo.Add(ctx, models.ListenEntry{UserID: "user-1", MixURL: "/w/other", At: base.Add(2 * time.Hour)}))

	items, total, err := repo.List(ctx, "user-1", "", 50, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, items, 3)
	// newest first
	require.Equal(t, "/w/other", items[0].MixURL)

	items, total, err = repo.List(ctx, "user-1", mixURL, 50, 0)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	for _, it := range items {
		require.Equal(t, mixURL, it.MixURL)
	}
}

func TestListScopedToUser(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, models.ListenEntry{UserID: "user-1", MixURL: "/w/a"}))
	require.NoError(t, repo.Add(ctx, models.ListenEntry{UserID: "user-2", MixURL: "/w/a"}))

	_, total, err := repo.List(ctx, "user-1", "", 50, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
}
