package mix

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"mixhub/internal/scraper"
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

func seedMixes(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := scraper.SaveToDatabase(context.Background(), db, []models.Mix{
		{
			URL:        "/w/1999-08-01_-_Sasha_-_Essential_Mix",
			Date:       "1999-08-01",
			Artists:    []string{"Sasha"},
			Categories: []string{"Trance", "Tracklist: complete"},
			Length:     "2h",
			Tracklist:  []models.Track{{Artist: "A", Title: "B", Label: ""}},
		},
		{
			URL:        "/w/2000-01-01_-_Carl_Cox_-_Essential_Mix",
			Date:       "2000-01-01",
			Artists:    []string{"Carl Cox"},
			Categories: []string{"Techno"},
		},
		{
			URL:         "/w/2000-02-02_-_Repeat_-_Essential_Mix",
			Date:        "2000-02-02",
			Artists:     []string{"Someone"},
			Duplicate:   true,
			DuplicateOf: "/w/1999-08-01_-_Sasha_-_Essential_Mix",
		},
	})
	require.NoError(t, err)
}

func TestRepoGetByURL(t *testing.T) {
	db := testDB(t)
	seedMixes(t, db)
	repo := NewRepo(db)

	m, err := repo.GetByURL(context.Background(), "/w/1999-08-01_-_Sasha_-_Essential_Mix")
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Equal(t, "1999-08-01", m.Date)
	require.Equal(t, []string{"Sasha"}, m.Artists)
	require.Equal(t, []string{"Trance", "Tracklist: complete"}, m.Categories)
	require.Len(t, m.Tracklist, 1)

	missing, err := repo.GetByURL(context.Background(), "/w/nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestRepoListExcludesDuplicatesByDefault(t *testing.T) {
	db := testDB(t)
	seedMixes(t, db)
	repo := NewRepo(db)

	items, err := repo.List(context.Background(), ListQuery{Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, m := range items {
		require.False(t, m.Duplicate)
	}

	total, err := repo.Count(context.Background(), ListQuery{IncludeDuplicates: true})
	require.NoError(t, err)
	require.Equal(t, 3, total)
}

func TestRepoListFilters(t *testing.T) {
	db := testDB(t)
	seedMixes(t, db)
	repo := NewRepo(db)

	items, err := repo.List(context.Background(), ListQuery{Q: "sasha", Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, []string{"Sasha"}, items[0].Artists)

	items, err = repo.List(context.Background(), ListQuery{Categories: []string{"techno"}, Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "/w/2000-01-01_-_Carl_Cox_-_Essential_Mix", items[0].URL)

	items, err = repo.List(context.Background(), ListQuery{CompleteOnly: true, Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "/w/1999-08-01_-_Sasha_-_Essential_Mix", items[0].URL)
}

func TestRepoAllForStats(t *testing.T) {
	db := testDB(t)
	seedMixes(t, db)
	repo := NewRepo(db)

	mixes, err := repo.AllForStats(context.Background())
	require.NoError(t, err)
	require.Len(t, mixes, 3)

	duplicates := 0
	for _, m := range mixes {
		if m.Duplicate {
			duplicates++
		}
	}
	require.Equal(t, 1, duplicates)
}

func TestSaveToDatabaseReportsNewURLs(t *testing.T) {
	db := testDB(t)
	seedMixes(t, db)

	newURLs, err := scraper.SaveToDatabase(context.Background(), db, []models.Mix{
		{URL: "/w/1999-08-01_-_Sasha_-_Essential_Mix", Date: "1999-08-01"},
		{URL: "/w/2001-03-03_-_New_-_Essential_Mix", Date: "2001-03-03"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/w/2001-03-03_-_New_-_Essential_Mix"}, newURLs)
}
