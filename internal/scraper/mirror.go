package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mixhub/pkg/models"
)

// MirrorSource reads a locally hosted JSON mirror of previously
// scraped mixes. Demo-safe second source: no rate limits, no flaky
// wiki markup.
type MirrorSource struct {
	BaseURL string
	Client  *http.Client
}

// NewMirrorSource creates a new MirrorSource.
func NewMirrorSource(baseURL string) *MirrorSource {
	return &MirrorSource{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *MirrorSource) Name() string {
	return "mirror"
}

// mirrorMix is the mirror file's record shape, produced by
// cmd/export-mirror.
type mirrorMix struct {
	URL        string         `json:"url"`
	Date       string         `json:"date"`
	Artists    []string       `json:"artists"`
	Venue      string         `json:"venue,omitempty"`
	Categories []string       `json:"categories"`
	Duplicate  bool           `json:"duplicate"`
	Length     string         `json:"length,omitempty"`
	Tracklist  []models.Track `json:"tracklist"`
}

// FetchAll fetches and maps the mirror's data into models.Mix.
func (s *MirrorSource) FetchAll(ctx context.Context) ([]models.Mix, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/mixes", nil)
	if err != nil {
		return nil, fmt.Errorf("mirror: build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mirror: status %d: %s", resp.StatusCode, string(body))
	}

	var raw []mirrorMix
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("mirror: decode json: %w", err)
	}

	result := make([]models.Mix, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" {
			continue
		}
		result = append(result, models.Mix{
			URL:        r.URL,
			Date:       r.Date,
			Artists:    r.Artists,
			Venue:      r.Venue,
			Categories: r.Categories,
			Duplicate:  r.Duplicate,
			Length:     r.Length,
			Tracklist:  r.Tracklist,
			SourceIDs:  map[string]string{"mirror": r.URL},
		})
	}
	return result, nil
}
