// Package catalog holds the pure presentation and aggregation helpers
// shared by the API, the scraper and the CLI. Everything here is a
// read-only transformation over caller-supplied mixes.
package catalog

import (
	"fmt"
	"strings"

	"mixhub/pkg/models"
)

const siteBase = "https://www.mixesdb.com"

// CompleteCategory is the tracklist-complete marker exactly as it
// appears among a mix's wiki categories.
const CompleteCategory = "Tracklist: complete"

// MixLink renders the display link for a mix: an anchor to its MixesDB
// page, opening in a new tab, with "<date> - <artists>" as the visible
// text.
func MixLink(m models.Mix) string {
	return fmt.Sprintf(`<a href="%s%s" target="_blank">%s - %s</a>`,
		siteBase, m.URL, m.Date, strings.Join(m.Artists, ", "))
}

// CompleteTracklist reports whether the mix carries the
// "Tracklist: complete" category. A mix without categories is never
// complete.
func CompleteTracklist(m models.Mix) bool {
	for _, c := range m.Categories {
		if c == CompleteCategory {
			return true
		}
	}
	return false
}

// ReduceCategories tallies category occurrences across all
// non-duplicate mixes.
//
// With nil filters every category counts. With filters present, a
// category counts only when at least one filter is NOT a substring of
// it; a category matched by every filter is dropped, and an empty
// filter list drops everything.
//
// TODO: confirm with the data owners whether the filter match should
// be inverted (categories matching every filter are currently the ones
// excluded). Downstream consumers rely on the current behavior.
func ReduceCategories(mixes []models.Mix, filters []string) map[string]int {
	counts := make(map[string]int)

	for _, m := range mixes {
		if m.Duplicate {
			continue
		}

		for _, category := range m.Categories {
			include := true
			if filters != nil {
				notFound := 0
				for _, f := range filters {
					if !strings.Contains(category, f) {
						notFound++
					}
				}
				include = notFound > 0
			}

			if include {
				counts[category]++
			}
		}
	}

	return counts
}
