package scraper

import (
	"context"
	"log"

	"mixhub/pkg/models"
)

// Source is implemented by each external data source (live site /
// local mirror). Each source is responsible for fetching its own data
// format and mapping it into models.Mix.
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]models.Mix, error)
}

// Aggregator coordinates calls to multiple sources and merges them
// into a single canonical set of mix entries keyed by page URL.
type Aggregator struct {
	Sources []Source
}

// NewAggregator creates a new Aggregator with the given sources.
func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{Sources: sources}
}

// FetchAndMerge fetches all mixes from all sources and merges them
// using deterministic conflict resolution rules.
func (a *Aggregator) FetchAndMerge(ctx context.Context) ([]models.Mix, error) {
	byURL := make(map[string]models.Mix)
	var order []string

	for _, src := range a.Sources {
		log.Printf("[scraper] fetching from %s", src.Name())
		mixes, err := src.FetchAll(ctx)
		if err != nil {
			log.Printf("[scraper] source %s error: %v", src.Name(), err)
			// keep going: one broken source should not kill all scraping
			continue
		}

		for _, m := range mixes {
			if m.URL == "" {
				continue
			}
			if existing, ok := byURL[m.URL]; ok {
				byURL[m.URL] = mergeMix(existing, m)
			} else {
				byURL[m.URL] = m
				order = append(order, m.URL)
			}
		}
	}

	result := make([]models.Mix, 0, len(byURL))
	for _, url := range order {
		result = append(result, byURL[url])
	}
	return result, nil
}

// mergeMix defines the conflict resolution rules when two sources
// describe the same mix page:
//
// - Fill missing date/artists/venue from incoming.
// - Union categories.
// - Duplicate flag is sticky once any source marks it.
// - Longer tracklist wins.
// - Length: keep a known value over "" or "?".
// - Merge SourceIDs.
func mergeMix(base, incoming models.Mix) models.Mix {
	if base.Date == "" {
		base.Date = incoming.Date
	}
	if len(base.Artists) == 0 {
		base.Artists = incoming.Artists
	}
	if base.Venue == "" {
		base.Venue = incoming.Venue
	}

	base.Categories = mergeStringSlices(base.Categories, incoming.Categories)

	if incoming.Duplicate {
		base.Duplicate = true
		if base.DuplicateOf == "" {
			base.DuplicateOf = incoming.DuplicateOf
		}
	}

	if len(incoming.Tracklist) > len(base.Tracklist) {
		base.Tracklist = incoming.Tracklist
	}

	if (base.Length == "" || base.Length == "?") && incoming.Length != "" {
		base.Length = incoming.Length
	}

	if base.SourceIDs == nil {
		base.SourceIDs = make(map[string]string)
	}
	for k, v := range incoming.SourceIDs {
		base.SourceIDs[k] = v
	}

	return base
}

func appendIfMissing(slice []string, v string) []string {
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}

func mergeStringSlices(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	for _, v := range b {
		out = appendIfMissing(out, v)
	}
	return out
}
