package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mixhub/pkg/models"
)

func TestMixLink(t *testing.T) {
	tests := []struct {
		name string
		mix  models.Mix
		want string
	}{
		{
			name: "two artists",
			mix: models.Mix{
				URL:     "/mix/123",
				Date:    "2020-01-01",
				Artists: []string{"A", "B"},
			},
			want: `<a href="https://www.mixesdb.com/mix/123" target="_blank">2020-01-01 - A, B</a>`,
		},
		{
			name: "single artist",
			mix: models.Mix{
				URL:     "/w/1999-08-01_-_Sasha_-_Essential_Mix",
				Date:    "1999-08-01",
				Artists: []string{"Sasha"},
			},
			want: `<a href="https://www.mixesdb.com/w/1999-08-01_-_Sasha_-_Essential_Mix" target="_blank">1999-08-01 - Sasha</a>`,
		},
		{
			name: "no artists joins to empty",
			mix: models.Mix{
				URL:  "/mix/x",
				Date: "2001-05-05",
			},
			want: `<a href="https://www.mixesdb.com/mix/x" target="_blank">2001-05-05 - </a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MixLink(tt.mix); got != tt.want {
				t.Errorf("MixLink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompleteTracklist(t *testing.T) {
	tests := []struct {
		name string
		mix  models.Mix
		want bool
	}{
		{
			name: "marker present",
			mix:  models.Mix{Categories: []string{"Tracklist: complete", "House"}},
			want: true,
		},
		{
			name: "marker absent",
			mix:  models.Mix{Categories: []string{"House"}},
			want: false,
		},
		{
			name: "no categories",
			mix:  models.Mix{},
			want: false,
		},
		{
			name: "near miss is not a match",
			mix:  models.Mix{Categories: []string{"Tracklist: incomplete"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompleteTracklist(tt.mix); got != tt.want {
				t.Errorf("CompleteTracklist() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReduceCategories(t *testing.T) {
	tests := []struct {
		name    string
		mixes   []models.Mix
		filters []string
		want    map[string]int
	}{
		{
			name: "duplicates are skipped entirely",
			mixes: []models.Mix{
				{Duplicate: true, Categories: []string{"X"}},
				{Duplicate: false, Categories: []string{"X", "Y"}},
			},
			want: map[string]int{"X": 1, "Y": 1},
		},
		{
			name: "counts accumulate across mixes",
			mixes: []models.Mix{
				{Categories: []string{"House", "Techno"}},
				{Categories: []string{"House"}},
			},
			want: map[string]int{"House": 2, "Techno": 1},
		},
		{
			name: "category matching every filter is excluded",
			mixes: []models.Mix{
				{Categories: []string{"Deep House", "Techno"}},
			},
			filters: []string{"House"},
			want:    map[string]int{"Techno": 1},
		},
		{
			name: "category matching only some filters is included",
			mixes: []models.Mix{
				{Categories: []string{"Deep House"}},
			},
			filters: []string{"House", "Techno"},
			want:    map[string]int{"Deep House": 1},
		},
		{
			name: "empty filter list excludes everything",
			mixes: []models.Mix{
				{Categories: []string{"House"}},
			},
			filters: []string{},
			want:    map[string]int{},
		},
		{
			name: "mix without categories contributes nothing",
			mixes: []models.Mix{
				{},
				{Categories: []string{"Trance"}},
			},
			want: map[string]int{"Trance": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReduceCategories(tt.mixes, tt.filters)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ReduceCategories() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReduceCategoriesIdempotent(t *testing.T) {
	mixes := []models.Mix{
		{Categories: []string{"House", "Techno"}},
		{Duplicate: true, Categories: []string{"House"}},
	}
	filters := []string{"Trance"}

	first := ReduceCategories(mixes, filters)
	second := ReduceCategories(mixes, filters)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second call differs from first (-first +second):\n%s", diff)
	}

	// inputs must not be mutated
	if mixes[0].Categories[0] != "House" || mixes[1].Duplicate != true {
		t.Errorf("input mixes were mutated: %+v", mixes)
	}
	if filters[0] != "Trance" {
		t.Errorf("filters were mutated: %v", filters)
	}
}
