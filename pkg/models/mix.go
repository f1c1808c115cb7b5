package models

// Mix is the normalized, internal form of a mix entry used by the
// scraper and database layer.
//
// All external sources are mapped into this structure first,
// then we write to the DB from this representation.
type Mix struct {
	URL         string            `json:"url"`                    // wiki path, e.g. "/w/1999-08-01_-_Sasha_-_Essential_Mix"
	Date        string            `json:"date"`                   // YYYY-MM-DD label; may be empty for undated venue gigs
	Artists     []string          `json:"artists"`                // performer names in listing order
	Venue       string            `json:"venue,omitempty"`        // venue/event name when the title carries one
	Categories  []string          `json:"categories"`             // wiki categories (tags)
	Duplicate   bool              `json:"duplicate"`              // Fake/Repeat pages; excluded from aggregation
	DuplicateOf string            `json:"duplicate_of,omitempty"` // original page for duplicate stubs
	Length      string            `json:"length,omitempty"`       // broadcast length, "?" when unknown
	Tracklist   []Track           `json:"tracklist"`
	SourceIDs   map[string]string `json:"source_ids,omitempty"` // e.g. {"mixesdb": "...", "mirror": "..."}
}

// Track is one parsed tracklist entry. Fields fall back to "unknown"
// when a raw line cannot be split into its parts.
type Track struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Label  string `json:"label"`
}
