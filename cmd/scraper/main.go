package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"mixhub/internal/scraper"
	"mixhub/pkg/database"
)

func main() {
	var (
		mirrorURL = flag.String("mirror", "", "mirror server base URL (e.g. http://localhost:9000), empty to skip")
		skipLive  = flag.Bool("skip-live", false, "skip the live MixesDB source")
		maxPages  = flag.Int("max-pages", 0, "stop after N category pages (0 = all)")
		timeout   = flag.Duration("timeout", 30*time.Minute, "overall scrape timeout")
	)
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	var sources []scraper.Source

	if !*skipLive {
		src := scraper.NewMixesDBSource()
		src.MaxPages = *maxPages
		sources = append(sources, src)
	}
	if *mirrorURL != "" {
		sources = append(sources, scraper.NewMirrorSource(*mirrorURL))
	}
	if len(sources) == 0 {
		log.Fatal("nothing to scrape: live source skipped and no mirror given")
	}

	agg := scraper.NewAggregator(sources...)

	mixes, err := agg.FetchAndMerge(ctx)
	if err != nil {
		log.Fatalf("scrape failed: %v", err)
	}

	log.Printf("merged mixes: %d", len(mixes))

	newURLs, err := scraper.SaveToDatabase(ctx, db, mixes)
	if err != nil {
		log.Fatalf("save failed: %v", err)
	}

	log.Printf("✅ database populated, %d new mixes", len(newURLs))
}
