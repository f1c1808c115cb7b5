package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"mixhub/pkg/database"
)

func main() {
	var (
		mixesOut     = flag.String("mixes", "data/mixes.csv", "output CSV path for mixes")
		favoritesOut = flag.String("favorites", "data/favorites.csv", "output CSV path for favorites")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportMixes(ctx, db, *mixesOut); err != nil {
		log.Fatalf("export mixes failed: %v", err)
	}
	if err := exportFavorites(ctx, db, *favoritesOut); err != nil {
		log.Fatalf("export favorites failed: %v", err)
	}

	log.Printf("✅ exported mixes to %s and favorites to %s", *mixesOut, *favoritesOut)
}

func exportMixes(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"url", "date", "artists", "venue", "categories", "duplicate", "duplicate_of", "length", "tracklist"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT url, date, artists, venue, categories, duplicate, duplicate_of, length, tracklist
        FROM mixes
        ORDER BY date
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			url         string
			date        sql.NullString
			artists     sql.NullString
			venue       sql.NullString
			categories  sql.NullString
			duplicate   int
			duplicateOf sql.NullString
			length      sql.NullString
			tracklist   sql.NullString
		)

		if err := rows.Scan(&url, &date, &artists, &venue, &categories, &duplicate, &duplicateOf, &length, &tracklist); err != nil {
			return err
		}

		if err := w.Write([]string{
			url,
			date.String,
			artists.String,
			venue.String,
			categories.String,
			strconv.Itoa(duplicate),
			duplicateOf.String,
			length.String,
			tracklist.String,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportFavorites(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", "mix_url", "status", "updated_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT user_id, mix_url, status, updated_at
        FROM favorites
        ORDER BY updated_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID    string
			mixURL    string
			status    sql.NullString
			updatedAt sql.NullTime
		)

		if err := rows.Scan(&userID, &mixURL, &status, &updatedAt); err != nil {
			return err
		}

		updated := ""
		if updatedAt.Valid {
			updated = updatedAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			userID,
			mixURL,
			status.String,
			updated,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
