package models

// MixView is the API response shape of a mix: the stored record plus
// the derived display fields.
type MixView struct {
	URL               string   `json:"url"`
	Date              string   `json:"date"`
	Artists           []string `json:"artists"`
	Venue             string   `json:"venue,omitempty"`
	Categories        []string `json:"categories"`
	Duplicate         bool     `json:"duplicate"`
	DuplicateOf       string   `json:"duplicate_of,omitempty"`
	Length            string   `json:"length,omitempty"`
	Tracklist         []Track  `json:"tracklist,omitempty"`
	Link              string   `json:"link"`
	CompleteTracklist bool     `json:"complete_tracklist"`
}
