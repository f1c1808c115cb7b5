package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"mixhub/pkg/models"
)

type fakeSource struct {
	name  string
	mixes []models.Mix
	err   error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchAll(ctx context.Context) ([]models.Mix, error) {
	return f.mixes, f.err
}

func TestAggregatorMergesByURL(t *testing.T) {
	live := &fakeSource{
		name: "mixesdb",
		mixes: []models.Mix{
			{
				URL:        "/w/a",
				Date:       "1999-08-01",
				Artists:    []string{"Sasha"},
				Categories: []string{"Trance"},
				Tracklist:  []models.Track{{Artist: "A", Title: "B", Label: ""}},
				SourceIDs:  map[string]string{"mixesdb": "/w/a"},
			},
			{URL: "/w/b", Date: "2000-01-01", Artists: []string{"Carl Cox"}},
		},
	}
	mirror := &fakeSource{
		name: "mirror",
		mixes: []models.Mix{
			{
				URL:        "/w/a",
				Venue:      "Cream",
				Categories: []string{"Trance", "Tracklist: complete"},
				Length:     "2h",
				Tracklist: []models.Track{
					{Artist: "A", Title: "B", Label: ""},
					{Artist: "C", Title: "D", Label: ""},
				},
				SourceIDs: map[string]string{"mirror": "/w/a"},
			},
		},
	}

	agg := NewAggregator(live, mirror)
	got, err := agg.FetchAndMerge(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	want := models.Mix{
		URL:        "/w/a",
		Date:       "1999-08-01",
		Artists:    []string{"Sasha"},
		Venue:      "Cream",
		Categories: []string{"Trance", "Tracklist: complete"},
		Length:     "2h",
		Tracklist: []models.Track{
			{Artist: "A", Title: "B", Label: ""},
			{Artist: "C", Title: "D", Label: ""},
		},
		SourceIDs: map[string]string{"mixesdb": "/w/a", "mirror": "/w/a"},
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("merged mix mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregatorSurvivesBrokenSource(t *testing.T) {
	broken := &fakeSource{name: "broken", err: errors.New("boom")}
	ok := &fakeSource{
		name:  "mirror",
		mixes: []models.Mix{{URL: "/w/a", Date: "1999-08-01"}},
	}

	agg := NewAggregator(broken, ok)
	got, err := agg.FetchAndMerge(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "/w/a", got[0].URL)
}

func TestMergeMixDuplicateSticky(t *testing.T) {
	base := models.Mix{URL: "/w/a", Duplicate: true, DuplicateOf: "/w/orig"}
	incoming := models.Mix{URL: "/w/a", Duplicate: false, Length: "2h"}

	merged := mergeMix(base, incoming)
	require.True(t, merged.Duplicate)
	require.Equal(t, "/w/orig", merged.DuplicateOf)

	merged = mergeMix(incoming, base)
	require.True(t, merged.Duplicate)
	require.Equal(t, "/w/orig", merged.DuplicateOf)
	require.Equal(t, "2h", merged.Length)
}
