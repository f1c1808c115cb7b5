package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"mixhub/pkg/database"
	"mixhub/pkg/models"
)

// mirrorMix mirrors the record shape internal/scraper.MirrorSource
// consumes.
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

func main() {
	var (
		outPath = flag.String("out", "data/mixes.json", "output JSON path")
		limit   = flag.Int("limit", 500, "how many mixes to export")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT url, date, artists, venue, categories, duplicate, length, tracklist
		FROM mixes
		ORDER BY date
		LIMIT ?
	`, *limit)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	defer rows.Close()

	var out []mirrorMix
	for rows.Next() {
		var (
			m              mirrorMix
			date           sql.NullString
			artistsJSON    string
			venue          sql.NullString
			categoriesJSON string
			duplicate      int
			length         sql.NullString
			tracklistJSON  string
		)

		if err := rows.Scan(&m.URL, &date, &artistsJSON, &venue, &categoriesJSON, &duplicate, &length, &tracklistJSON); err != nil {
			log.Fatalf("scan failed: %v", err)
		}

		m.Date = date.String
		m.Venue = venue.String
		m.Duplicate = duplicate != 0
		m.Length = length.String
		_ = json.Unmarshal([]byte(artistsJSON), &m.Artists)
		_ = json.Unmarshal([]byte(categoriesJSON), &m.Categories)
		_ = json.Unmarshal([]byte(tracklistJSON), &m.Tracklist)

		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("rows error: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("mkdir failed: %v", err)
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("marshal failed: %v", err)
	}

	if err := os.WriteFile(*outPath, b, 0o644); err != nil {
		log.Fatalf("write failed: %v", err)
	}

	log.Printf("✅ exported %d mixes to %s", len(out), *outPath)
}
