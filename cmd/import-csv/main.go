package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"mixhub/pkg/database"
)

func main() {
	var (
		mixesIn     = flag.String("mixes", "data/mixes.csv", "input CSV path for mixes")
		favoritesIn = flag.String("favorites", "data/favorites.csv", "input CSV path for favorites")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := importMixes(ctx, db, *mixesIn); err != nil {
		log.Fatalf("import mixes failed: %v", err)
	}
	if err := importFavorites(ctx, db, *favoritesIn); err != nil {
		log.Fatalf("import favorites failed: %v", err)
	}

	log.Printf("✅ imported mixes from %s and favorites from %s", *mixesIn, *favoritesIn)
}

func importMixes(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
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
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		url := valueAt(header, row, "url")
		if url == "" {
			continue
		}

		duplicate := 0
		if v := valueAt(header, row, "duplicate"); v == "1" || strings.EqualFold(v, "true") {
			duplicate = 1
		}

		if _, err := stmt.ExecContext(
			ctx,
			url,
			nullString(valueAt(header, row, "date")),
			jsonOrEmptyList(valueAt(header, row, "artists")),
			nullString(valueAt(header, row, "venue")),
			jsonOrEmptyList(valueAt(header, row, "categories")),
			duplicate,
			nullString(valueAt(header, row, "duplicate_of")),
			nullString(valueAt(header, row, "length")),
			jsonOrEmptyList(valueAt(header, row, "tracklist")),
		); err != nil {
			return fmt.Errorf("upsert mix %s: %w", url, err)
		}
	}

	return nil
}

func importFavorites(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO favorites (user_id, mix_url, status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, mix_url) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		userID := valueAt(header, row, "user_id")
		mixURL := valueAt(header, row, "mix_url")
		if userID == "" || mixURL == "" {
			continue
		}

		updatedAt, err := parseTime(valueAt(header, row, "updated_at"))
		if err != nil {
			return fmt.Errorf("parse updated_at for %s/%s: %w", userID, mixURL, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			userID,
			mixURL,
			nullString(valueAt(header, row, "status")),
			updatedAt,
		); err != nil {
			return err
		}
	}

	return nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// jsonOrEmptyList keeps JSON-typed columns valid when the CSV cell is
// blank.
func jsonOrEmptyList(raw string) string {
	if raw == "" {
		return "[]"
	}
	return raw
}

func parseTime(raw string) (sql.NullTime, error) {
	if raw == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

func nullString(raw string) sql.NullString {
	if raw == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}
