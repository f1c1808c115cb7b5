package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mixhub/pkg/models"
)

func TestCleanCategories(t *testing.T) {
	tests := []struct {
		name string
		mix  models.Mix
		want []string
	}{
		{
			name: "removes series, own artists and year",
			mix: models.Mix{
				Date:    "1999-08-01",
				Artists: []string{"Paul Van Dyk"},
				Categories: []string{
					"Essential Mix",
					"Paul Van Dyk",
					"1999",
					"Trance",
					"Tracklist: complete",
				},
			},
			want: []string{"Trance", "Tracklist: complete"},
		},
		{
			name: "removes venue and known artist categories",
			mix: models.Mix{
				Date:    "2001-06-10",
				Artists: []string{"Someone Else"},
				Categories: []string{
					"Cream",
					"Carl Cox",
					"Techno",
				},
			},
			want: []string{"Techno"},
		},
		{
			name: "removes dated series and ibiza noise",
			mix: models.Mix{
				Date:    "2002-07-20",
				Artists: []string{"X"},
				Categories: []string{
					"Essential Mix|2002-07-20",
					"Ibiza 2002",
					"Progressive House",
				},
			},
			want: []string{"Progressive House"},
		},
		{
			name: "nil categories stay empty",
			mix:  models.Mix{Date: "2003-01-01"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanCategories(tt.mix)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CleanCategories() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCleanCategoriesDoesNotMutateInput(t *testing.T) {
	mix := models.Mix{
		Date:       "1999-08-01",
		Artists:    []string{"Sasha"},
		Categories: []string{"Essential Mix", "Trance"},
	}

	_ = CleanCategories(mix)

	want := []string{"Essential Mix", "Trance"}
	if diff := cmp.Diff(want, mix.Categories); diff != "" {
		t.Errorf("input categories changed (-want +got):\n%s", diff)
	}
}

func TestShowLength(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "standard show template",
			raw:  "{{StandardShow|Length=2h}}\n== Tracklist ==",
			want: "|Length=2h",
		},
		{
			name: "missing template",
			raw:  "== Tracklist ==\n# Artist - Track",
			want: "?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShowLength(tt.raw); got != tt.want {
				t.Errorf("ShowLength() = %q, want %q", got, tt.want)
			}
		})
	}
}
