package scraper

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

func TestParseMixLink(t *testing.T) {
	tests := []struct {
		name  string
		href  string
		title string
		want  mixStub
		ok    bool
	}{
		{
			name:  "plain dated mix",
			href:  "/w/1999-08-01_-_Sasha_-_Essential_Mix",
			title: "1999-08-01 - Sasha - Essential Mix",
			want: mixStub{
				URL:     "/w/1999-08-01_-_Sasha_-_Essential_Mix",
				Date:    "1999-08-01",
				Artists: []string{"Sasha"},
			},
			ok: true,
		},
		{
			name:  "multiple artists",
			href:  "/w/x",
			title: "2000-12-31 - Sasha, John Digweed - Essential Mix",
			want: mixStub{
				URL:     "/w/x",
				Date:    "2000-12-31",
				Artists: []string{"Sasha", "John Digweed"},
			},
			ok: true,
		},
		{
			name:  "venue gig",
			href:  "/w/y",
			title: "2001-06-10 - Carl Cox @ Space - Essential Mix",
			want: mixStub{
				URL:     "/w/y",
				Date:    "2001-06-10",
				Artists: []string{"Carl Cox"},
				Venue:   "Space",
			},
			ok: true,
		},
		{
			name:  "date recovered from parenthetical",
			href:  "/w/z",
			title: "Cream - Paul Oakenfold (Essential Mix, 1997-05-04)",
			want: mixStub{
				URL:     "/w/z",
				Date:    "1997-05-04",
				Artists: []string{"Paul Oakenfold"},
			},
			ok: true,
		},
		{
			name:  "ignored url",
			href:  "/w/1998-01_-_David_Holmes_-_Essential_Mix",
			title: "1998-01 - David Holmes - Essential Mix",
			ok:    false,
		},
		{
			name:  "title without separator",
			href:  "/w/junk",
			title: "Essential Mix",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseMixLink(tt.href, tt.title)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseMixLink() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

const listingHTML = `<html><body>
<div id="catMixesList">
  <ul>
    <li><a href="/w/1999-08-01_-_Sasha_-_Essential_Mix" title="1999-08-01 - Sasha - Essential Mix">Sasha</a></li>
    <li><a href="/w/2000-01-01_-_Carl_Cox_-_Essential_Mix" title="2000-01-01 - Carl Cox - Essential Mix">Carl Cox</a></li>
  </ul>
</div>
<div class="listPagination">
  <a href="/index.php?title=Category:Essential_Mix&pagefrom=prev">previous 200</a>
  <a href="/index.php?title=Category:Essential_Mix&pagefrom=next">next 200</a>
</div>
</body></html>`

func TestCategoryMixLinks(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(listingHTML))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	links := categoryMixLinks(doc)
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	if links[0].href != "/w/1999-08-01_-_Sasha_-_Essential_Mix" {
		t.Errorf("first href = %q", links[0].href)
	}
	if links[1].title != "2000-01-01 - Carl Cox - Essential Mix" {
		t.Errorf("second title = %q", links[1].title)
	}
}

func TestNextPageLink(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(listingHTML))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	if got, want := nextPageLink(doc), "/index.php?title=Category:Essential_Mix&pagefrom=next"; got != want {
		t.Errorf("nextPageLink() = %q, want %q", got, want)
	}

	lastPage := `<html><body><div class="listPagination"><a href="/prev">previous 200</a></div></body></html>`
	doc, err = html.Parse(strings.NewReader(lastPage))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	if got := nextPageLink(doc); got != "" {
		t.Errorf("nextPageLink() on last page = %q, want empty", got)
	}
}
