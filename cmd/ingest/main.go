package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/nihalsingh571/internrecom/internal/app"
	"github.com/nihalsingh571/internrecom/internal/config"
	"github.com/nihalsingh571/internrecom/internal/database/migration"
	"github.com/nihalsingh571/internrecom/internal/scraper"
)

func main() {
	source := flag.String("source", "all", "listing source to ingest (remotive|board|all)")
	search := flag.String("search", "internship", "search term for API-backed sources")
	limit := flag.Int("limit", 50, "max listings per source")
	pages := flag.Int("pages", 1, "pages to walk for board sources")
	workers := flag.Int("workers", 4, "concurrent fetch workers")
	targetsFile := flag.String("board_targets", "", "path to JSON file describing careers-board targets")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := log.Default()

	c, err := app.NewContainer(cfg, logger)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	r := migration.Runner{Dir: "migrations"}
	err = r.Run(migCtx, c.DB.SQLDB())
	migCancel()
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	src := strings.ToLower(strings.TrimSpace(*source))

	if src == "remotive" || src == "all" {
		s := scraper.NewRemotiveScraper(c.DB)
		if err := s.Scrape(ctx, *search, *limit, *workers); err != nil {
			logger.Printf("remotive ingest failed: %v", err)
		}
	}

	if src == "board" || src == "all" {
		targets, err := loadBoardTargets(*targetsFile)
		if err != nil {
			log.Fatalf("load board targets: %v", err)
		}
		if len(targets) == 0 {
			logger.Printf("no board targets configured, skipping")
		} else {
			s := scraper.NewBoardScraper(c.DB)
			if err := s.Scrape(ctx, targets, *pages, *workers); err != nil {
				logger.Printf("board ingest failed: %v", err)
			}
		}
	}

	// Rankings are cached against the old listing set; drop them.
	if err := c.Cache.InvalidateRecommendations(ctx); err != nil {
		logger.Printf("cache invalidation failed: %v", err)
	}
}

func loadBoardTargets(path string) ([]scraper.CareersTarget, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var targets []scraper.CareersTarget
	if err := json.Unmarshal(b, &targets); err != nil {
		return nil, err
	}
	return targets, nil
}
