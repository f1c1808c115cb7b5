package catalog

import (
	"regexp"
	"strings"

	"mixhub/pkg/models"
)

var lengthRegex = regexp.MustCompile(`StandardShow(.*?)\}`)

// Categories that only restate the listing page itself or calendar
// noise; matched against the start of the category string.
var noiseCategoryRegexes = []*regexp.Regexp{
	regexp.MustCompile(`^Essential Mix\|\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`^Ibiza \d{4}`),
}

// Venues that leak into categories because they are not parsed out of
// page titles.
var venueCategories = []string{
	"Cream",
	"Privilege (Ibiza)",
	"Unknown Gig / Location",
	"Space (Ibiza)",
	"Que Club",
	"Ministry Of Sound",
	"Glastonbury Festival",
	"One Big Weekend",
	"Creamfields",
	"Gatecrasher",
	"Homelands",
	"Surfcomber Hotel",
	"WMC",
	"The Warehouse Project",
	"Amnesia (Ibiza)",
	"Pacha (Ibiza)",
	"Sankeys (Ibiza)",
}

// Artist names that show up as their own categories on some pages.
var artistCategories = []string{
	"Pete Tong",
	"Carl Cox",
	"Various",
	"John Digweed",
	"Danny Rampling",
	"Annie Mac",
	"Chemical Brothers",
	"Judge Jules",
	"Sasha",
	"Fergie",
	"Dave Pearce",
	"Fatboy Slim",
	"Paul Oakenfold",
	"Seb Fontaine",
	"Eddie Halliwell",
	"Eric Prydz",
}

// CleanCategories returns the mix's categories with listing noise
// removed: the series name itself, the mix's own artists, the year of
// the mix, and known venue/artist categories. The input slice is not
// modified.
func CleanCategories(m models.Mix) []string {
	remove := map[string]struct{}{
		"Essential Mix": {},
	}
	for _, a := range m.Artists {
		remove[a] = struct{}{}
	}
	for _, v := range venueCategories {
		remove[v] = struct{}{}
	}
	for _, a := range artistCategories {
		remove[a] = struct{}{}
	}
	if len(m.Date) >= 4 {
		remove[m.Date[:4]] = struct{}{}
	}

	out := make([]string, 0, len(m.Categories))
	for _, c := range m.Categories {
		if _, drop := remove[strings.TrimSpace(c)]; drop {
			continue
		}
		if matchesNoise(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesNoise(category string) bool {
	for _, re := range noiseCategoryRegexes {
		if re.MatchString(category) {
			return true
		}
	}
	return false
}

// ShowLength pulls the broadcast length out of the {{StandardShow...}}
// template on a raw mix page. Returns "?" when the page carries no
// such template.
func ShowLength(rawPage string) string {
	m := lengthRegex.FindStringSubmatch(rawPage)
	if m == nil {
		return "?"
	}
	return m[1]
}
