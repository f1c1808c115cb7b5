package scraper

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mixhub/pkg/models"
)

func TestParseTracklist(t *testing.T) {
	page := strings.Join([]string{
		"{{StandardShow|Length=2h}}",
		"== Tracklist ==",
		"# Leftfield - Phat Planet [Hard Hands]",
		"",
		"# ? - ?",
		"[[Category:Essential Mix]]",
		"[[Category:Tracklist: complete]]",
	}, "\n")

	p := parseTracklist(page)

	if p.duplicate {
		t.Fatalf("unexpected duplicate flag")
	}

	wantTracks := []string{
		"# Leftfield - Phat Planet [Hard Hands]",
		"# ? - ?",
	}
	if diff := cmp.Diff(wantTracks, p.tracklist); diff != "" {
		t.Errorf("tracklist mismatch (-want +got):\n%s", diff)
	}

	wantCategories := []string{"Essential Mix", "Tracklist: complete"}
	if diff := cmp.Diff(wantCategories, p.categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTracklistDuplicateStub(t *testing.T) {
	page := strings.Join([]string{
		"{{Repeat",
		" |Original  =/w/1999-08-01_-_Sasha_-_Essential_Mix",
	}, "\n")

	p := parseTracklist(page)

	if !p.duplicate {
		t.Fatalf("expected duplicate flag")
	}
	if want := "/w/1999-08-01_-_Sasha_-_Essential_Mix"; p.duplicateOf != want {
		t.Errorf("duplicateOf = %q, want %q", p.duplicateOf, want)
	}
	if p.tracklist != nil || p.categories != nil {
		t.Errorf("stub page should carry no tracklist or categories")
	}
}

func TestParseTracklistRepeatedCategory(t *testing.T) {
	page := strings.Join([]string{
		"intro",
		"== Tracklist ==",
		"# A - B",
		"[[Category:{{Repeated|2001-01-01}}]]",
	}, "\n")

	p := parseTracklist(page)
	if !p.duplicate {
		t.Errorf("expected {{Repeated| category to mark the page duplicate")
	}
}

func TestParseTracklistNoTracklistSection(t *testing.T) {
	p := parseTracklist("just an intro\n[[Category:House]]")
	if p.tracklist != nil || p.categories != nil {
		t.Errorf("pages without a tracklist section parse to nothing, got %+v", p)
	}
}

func TestParseTracks(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []models.Track
	}{
		{
			name: "plain entry with label",
			raw:  []string{"# Leftfield - Phat Planet [Hard Hands]"},
			want: []models.Track{{Artist: "Leftfield", Title: "Phat Planet", Label: "Hard Hands"}},
		},
		{
			name: "timestamp and numbering stripped",
			raw:  []string{"[0:12:34] 5. Orbital - Belfast"},
			want: []models.Track{{Artist: "Orbital", Title: "Belfast", Label: ""}},
		},
		{
			name: "featuring dropped from artist",
			raw:  []string{"# Moloko Feat. Roisin - Sing It Back"},
			want: []models.Track{{Artist: "Moloko", Title: "Sing It Back", Label: ""}},
		},
		{
			name: "unidentified track keeps placeholders",
			raw:  []string{"# ???"},
			want: []models.Track{{Artist: "unknown", Title: "unknown", Label: "unknown"}},
		},
		{
			name: "no separator leaves artist and title unknown",
			raw:  []string{"# Some Unsplittable Line"},
			want: []models.Track{{Artist: "unknown", Title: "unknown", Label: ""}},
		},
		{
			name: "markup and section lines are skipped",
			raw:  []string{"<list>", "; Part 1", "   ", "# A - B"},
			want: []models.Track{{Artist: "A", Title: "B", Label: ""}},
		},
		{
			name: "leading decoration stripped",
			raw:  []string{"* Underworld - Rez"},
			want: []models.Track{{Artist: "Underworld", Title: "Rez", Label: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTracks(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseTracks() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRawPageURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "plain page",
			url:  "/w/1999-08-01_-_Sasha_-_Essential_Mix",
			want: "https://www.mixesdb.com/w/1999-08-01_-_Sasha_-_Essential_Mix?action=raw",
		},
		{
			name: "dot in title needs index.php form",
			url:  "/w/2001-01-01_-_Mr._Fingers_-_Essential_Mix",
			want: "https://www.mixesdb.com/db/index.php?title=2001-01-01_-_Mr._Fingers_-_Essential_Mix&action=raw",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rawPageURL(tt.url); got != tt.want {
				t.Errorf("rawPageURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
