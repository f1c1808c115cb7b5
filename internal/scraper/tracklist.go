package scraper

import (
	"regexp"
	"strings"

	"mixhub/pkg/models"
)

var (
	labelRegex         = regexp.MustCompile(`(\[.+\]$)`)
	timestampRegex     = regexp.MustCompile(`^\[[\d|\?|:]+\]`)
	trackNumberRegex   = regexp.MustCompile(`^\d+\.`)
	questionMarksRegex = regexp.MustCompile(`\?+`)
)

type parsedPage struct {
	tracklist   []string
	categories  []string
	duplicate   bool
	duplicateOf string
}

// parseTracklist splits a raw wiki page into tracklist lines, category
// names and the duplicate flag.
//
// Pages whose first line flags a Fake or Repeat entry are stubs: the
// second line names the original page and nothing else is parsed.
func parseTracklist(text string) parsedPage {
	lines := strings.Split(text, "\n")

	if len(lines) > 0 && (strings.Contains(lines[0], "Fake") || strings.Contains(lines[0], "Repeat")) {
		p := parsedPage{duplicate: true}
		if len(lines) > 1 {
			p.duplicateOf = strings.TrimSpace(strings.ReplaceAll(lines[1], " |Original  =", ""))
		}
		return p
	}

	categoryIndex := len(lines)
	for i, l := range lines {
		if strings.Contains(l, "[[Category:") {
			categoryIndex = i
			break
		}
	}

	var p parsedPage
	tracklistIndex := -1
	for i, l := range lines {
		if l == "== Tracklist ==" {
			tracklistIndex = i
			break
		}
	}

	if tracklistIndex >= 0 {
		for _, l := range lines[tracklistIndex+1 : categoryIndex] {
			if l != "" {
				p.tracklist = append(p.tracklist, l)
			}
		}
		for _, l := range lines[categoryIndex:] {
			if l == "" {
				continue
			}
			c := strings.ReplaceAll(l, "[[Category:", "")
			c = strings.ReplaceAll(c, "]]", "")
			p.categories = append(p.categories, strings.TrimSpace(c))
		}
	}

	for _, c := range p.categories {
		if strings.Contains(c, "{{Repeated|") {
			p.duplicate = true
		}
	}

	return p
}

// keepTrack reports whether a raw line is a real track entry rather
// than list markup, a section header (leading ';') or blank filler.
func keepTrack(line string) bool {
	for _, markup := range []string{"<list>", "</list>"} {
		if strings.Contains(line, markup) {
			return false
		}
	}
	if strings.HasPrefix(line, ";") {
		return false
	}
	return strings.TrimSpace(line) != ""
}

// parseTracks parses raw tracklist lines into artist/title/label
// triples. Unidentified tracks (all question marks) keep the "unknown"
// placeholders.
func parseTracks(rawTracks []string) []models.Track {
	tracks := make([]models.Track, 0, len(rawTracks))

	for _, raw := range rawTracks {
		if !keepTrack(raw) {
			continue
		}

		line := raw

		// leading '#' list marker
		if strings.HasPrefix(line, "#") {
			line = strings.TrimSpace(line[1:])
		}

		// leading timestamps and numbering
		line = strings.TrimSpace(timestampRegex.ReplaceAllString(line, ""))
		line = strings.TrimSpace(trackNumberRegex.ReplaceAllString(line, ""))

		// leading superfluous characters
		for _, prefix := range []string{"''", "* ", "+ "} {
			if strings.HasPrefix(line, prefix) {
				line = strings.TrimSpace(line[len(prefix):])
			}
		}

		track := models.Track{Artist: "unknown", Title: "unknown", Label: "unknown"}

		if strings.TrimSpace(questionMarksRegex.ReplaceAllString(line, "")) != "" {
			label := ""
			if m := labelRegex.FindString(line); m != "" {
				line = strings.TrimSpace(strings.Replace(line, m, "", 1))
				label = strings.TrimSpace(strings.NewReplacer("[", "", "]", "").Replace(m))
			}
			track.Label = label

			segments := strings.Split(line, " - ")
			if len(segments) > 1 {
				artist := strings.TrimSpace(segments[0])
				// drop featuring listings from the artist
				for _, feat := range []string{" Feat.", " Featuring"} {
					if idx := strings.Index(artist, feat); idx >= 0 {
						artist = artist[:idx]
					}
				}
				track.Artist = artist
				track.Title = strings.TrimSpace(segments[1])
			}
		}

		tracks = append(tracks, track)
	}

	return tracks
}
