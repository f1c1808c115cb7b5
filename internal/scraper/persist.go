package scraper

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"mixhub/pkg/models"
)

// SaveToDatabase upserts the given mixes into the `mixes` table.
// Artists, categories and tracklists are stored as JSON text columns.
// It returns the URLs that were not present before the call, so the
// caller can announce newly discovered mixes.
func SaveToDatabase(ctx context.Context, db *sql.DB, mixes []models.Mix) ([]string, error) {
	existing, err := existingURLs(ctx, db)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mixes (url, date, artists, venue, categories, duplicate, duplicate_of, length, tracklist)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
		  date = excluded.date,
		  artists = excluded.artists,
		  venue = excluded.venue,
		  categories = excluded.categories,
		  duplicate = excluded.duplicate,
		  duplicate_of = excluded.duplicate_of,
		  length = excluded.length,
		  tracklist = excluded.tracklist
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	var newURLs []string
	for _, m := range mixes {
		artistsJSON, err := json.Marshal(m.Artists)
		if err != nil {
			return nil, fmt.Errorf("marshal artists for %s: %w", m.URL, err)
		}
		categoriesJSON, err := json.Marshal(m.Categories)
		if err != nil {
			return nil, fmt.Errorf("marshal categories for %s: %w", m.URL, err)
		}
		tracklistJSON, err := json.Marshal(m.Tracklist)
		if err != nil {
			return nil, fmt.Errorf("marshal tracklist for %s: %w", m.URL, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			m.URL,
			m.Date,
			string(artistsJSON),
			m.Venue,
			string(categoriesJSON),
			m.Duplicate,
			m.DuplicateOf,
			m.Length,
			string(tracklistJSON),
		); err != nil {
			return nil, fmt.Errorf("exec upsert for %s: %w", m.URL, err)
		}

		if _, ok := existing[m.URL]; !ok {
			newURLs = append(newURLs, m.URL)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return newURLs, nil
}

func existingURLs(ctx context.Context, db *sql.DB) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, `SELECT url FROM mixes`)
	if err != nil {
		return nil, fmt.Errorf("query existing urls: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		out[url] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
