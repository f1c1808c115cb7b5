package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMirrorSourceFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/mixes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"url":"/w/a","date":"1999-08-01","artists":["Sasha"],"categories":["Trance"],"duplicate":false,"length":"2h","tracklist":[{"artist":"A","title":"B","label":""}]},
			{"url":"","date":"ignored"},
			{"url":"/w/b","date":"2000-01-01","artists":["Carl Cox"],"categories":[],"duplicate":true,"tracklist":[]}
		]`))
	}))
	defer srv.Close()

	src := NewMirrorSource(srv.URL)
	mixes, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, mixes, 2)

	require.Equal(t, "/w/a", mixes[0].URL)
	require.Equal(t, []string{"Sasha"}, mixes[0].Artists)
	require.Equal(t, "2h", mixes[0].Length)
	require.Equal(t, map[string]string{"mirror": "/w/a"}, mixes[0].SourceIDs)

	require.True(t, mixes[1].Duplicate)
}

func TestMirrorSourceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewMirrorSource(srv.URL)
	_, err := src.FetchAll(context.Background())
	require.Error(t, err)
}
