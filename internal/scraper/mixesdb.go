package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"mixhub/internal/catalog"
	"mixhub/pkg/models"
)

const (
	mixesdbBase      = "https://www.mixesdb.com"
	categoryPagePath = "/w/Category:Essential_Mix"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/74.0.3729.169 Safari/537.3"
)

// mixes that should be ignored: duplicates, not actually essential mixes etc
var ignoredMixURLs = map[string]struct{}{
	"/w/1998-01_-_David_Holmes_-_Essential_Mix": {},
	"/w/2000_-_Fran%C3%A7ois_K_-_Essential_Mix": {},
}

// MixesDBSource scrapes the Essential Mix category on mixesdb.com:
// the paginated listing first, then the raw wiki text of every mix
// page for tracklist and category data.
type MixesDBSource struct {
	Client       *http.Client
	UserAgent    string
	PageDelay    time.Duration // pause between listing pages
	MaxPages     int           // 0 means no cap
	FetchWorkers int           // concurrent raw page fetches
}

func NewMixesDBSource() *MixesDBSource {
	return &MixesDBSource{
		Client:       &http.Client{Timeout: 20 * time.Second},
		UserAgent:    defaultUserAgent,
		PageDelay:    5 * time.Second,
		FetchWorkers: 4,
	}
}

func (s *MixesDBSource) Name() string { return "mixesdb" }

// FetchAll walks the category listing and fetches every mix page.
func (s *MixesDBSource) FetchAll(ctx context.Context) ([]models.Mix, error) {
	stubs, err := s.fetchListing(ctx)
	if err != nil {
		return nil, err
	}
	return s.fetchPages(ctx, stubs)
}

// fetchListing paginates the category page and collects one stub per
// mix link.
func (s *MixesDBSource) fetchListing(ctx context.Context) ([]mixStub, error) {
	var stubs []mixStub
	seen := make(map[string]struct{})

	url := mixesdbBase + categoryPagePath
	pages := 0

	for {
		body, err := s.get(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("listing page %s: %w", url, err)
		}

		doc, err := html.Parse(strings.NewReader(string(body)))
		if err != nil {
			return nil, fmt.Errorf("parse listing page %s: %w", url, err)
		}

		for _, link := range categoryMixLinks(doc) {
			stub, ok := parseMixLink(link.href, link.title)
			if !ok {
				continue
			}
			if _, dup := seen[stub.URL]; dup {
				continue
			}
			seen[stub.URL] = struct{}{}
			stubs = append(stubs, stub)
		}

		pages++
		log.Printf("[mixesdb] listing page %d done, %d mixes so far", pages, len(stubs))

		if s.MaxPages > 0 && pages >= s.MaxPages {
			break
		}

		next := nextPageLink(doc)
		if next == "" {
			break
		}
		url = mixesdbBase + "/" + strings.TrimPrefix(next, "/")

		if err := sleepCtx(ctx, s.PageDelay); err != nil {
			return nil, err
		}
	}

	return stubs, nil
}

// fetchPages downloads the raw wiki text for each stub and parses it
// into a full mix record. Individual page failures are logged and
// skipped.
func (s *MixesDBSource) fetchPages(ctx context.Context, stubs []mixStub) ([]models.Mix, error) {
	results := make([]models.Mix, len(stubs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())

	for i, stub := range stubs {
		i, stub := i, stub
		g.Go(func() error {
			body, err := s.get(gctx, rawPageURL(stub.URL))
			if err != nil {
				log.Printf("[mixesdb] fetch %s: %v", stub.URL, err)
				return nil
			}
			results[i] = s.buildMix(stub, string(body))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.Mix, 0, len(results))
	for _, m := range results {
		if m.URL != "" {
			out = append(out, m)
		}
	}
	return out, nil
}

// buildMix combines listing metadata with the parsed raw page.
func (s *MixesDBSource) buildMix(stub mixStub, rawPage string) models.Mix {
	parsed := parseTracklist(rawPage)

	m := models.Mix{
		URL:         stub.URL,
		Date:        stub.Date,
		Artists:     stub.Artists,
		Venue:       stub.Venue,
		Categories:  parsed.categories,
		Duplicate:   parsed.duplicate,
		DuplicateOf: parsed.duplicateOf,
		SourceIDs:   map[string]string{"mixesdb": stub.URL},
	}

	if !m.Duplicate {
		m.Length = catalog.ShowLength(rawPage)
		m.Tracklist = parseTracks(parsed.tracklist)
		m.Categories = catalog.CleanCategories(m)
	}

	return m
}

func (s *MixesDBSource) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent())

	resp, err := s.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return body, nil
}

func (s *MixesDBSource) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

func (s *MixesDBSource) userAgent() string {
	if s.UserAgent != "" {
		return s.UserAgent
	}
	return defaultUserAgent
}

func (s *MixesDBSource) workers() int {
	if s.FetchWorkers > 0 {
		return s.FetchWorkers
	}
	return 1
}

// rawPageURL returns the action=raw URL for a mix page. Page titles
// containing a dot error on the plain path form and need the index.php
// form instead.
func rawPageURL(mixURL string) string {
	if strings.Contains(mixURL, ".") {
		title := strings.Replace(mixURL, "/w/", "", 1)
		return mixesdbBase + "/db/index.php?title=" + title + "&action=raw"
	}
	return mixesdbBase + mixURL + "?action=raw"
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
