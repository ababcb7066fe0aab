package seeder

import (
	"context"
	"fmt"

	"github.com/nihalsingh571/internrecom/internal/database"
)

type ListingSourcesSeeder struct{}

func (ListingSourcesSeeder) Name() string { return "listing_sources" }

func (ListingSourcesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "listing_sources", "id", "name", "base_url"); err != nil {
		return err
	}

	sources := []struct {
		Name    string
		BaseURL string
	}{
		{Name: "manual", BaseURL: ""},
		{Name: "remotive", BaseURL: "https://remotive.com/api/remote-jobs"},
		{Name: "careers-board", BaseURL: ""},
	}

	for _, s := range sources {
		if _, err := db.Exec(
			ctx,
			`INSERT INTO listing_sources (id, name, base_url) VALUES (gen_random_uuid(), $1, NULLIF($2, '')) ON CONFLICT (name) DO NOTHING`,
			s.Name,
			s.BaseURL,
		); err != nil {
			return err
		}
	}
	return nil
}

type ListingsSeeder struct{}

func (ListingsSeeder) Name() string { return "listings" }

// Run inserts a small demo set so a fresh environment has something to rank
// before the first ingest run completes.
func (ListingsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "listings", "id", "source_id", "external_listing_id", "title", "description", "recruiter_rating", "recency_score", "is_active"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	rating := func(v float64) *float64 { return &v }

	items := []struct {
		External        string
		Title           string
		Company         string
		Location        string
		Description     string
		URL             string
		RecruiterRating *float64
		RecencyScore    float64
	}{
		{
			External:        "demo-backend-1",
			Title:           "Backend Intern",
			Company:         "Acme Labs",
			Location:        "Remote",
			Description:     "Backend internship working with Python and Django on REST APIs and PostgreSQL.",
			URL:             "https://example.com/listings/demo-backend-1",
			RecruiterRating: rating(1.0),
			RecencyScore:    0.9,
		},
		{
			External:        "demo-frontend-1",
			Title:           "Frontend Intern",
			Company:         "Pixel Works",
			Location:        "Remote",
			Description:     "Frontend internship building React components and JavaScript tooling.",
			URL:             "https://example.com/listings/demo-frontend-1",
			RecruiterRating: rating(0.8),
			RecencyScore:    0.8,
		},
		{
			External:        "demo-data-1",
			Title:           "Data Engineering Intern",
			Company:         "Signal Metrics",
			Location:        "Bengaluru, India",
			Description:     "Data internship around SQL pipelines, Python scripting and Docker deployments.",
			URL:             "https://example.com/listings/demo-data-1",
			RecruiterRating: nil,
			RecencyScore:    0.75,
		},
	}

	for _, it := range items {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO listings
			   (id, source_id, external_listing_id, title, company, location, description, url, recruiter_rating, recency_score, is_active)
			 SELECT gen_random_uuid(), s.id, $1, $2, $3, $4, $5, $6, $7, $8, true
			 FROM listing_sources s
			 WHERE s.name = 'manual'
			 ON CONFLICT (source_id, external_listing_id) DO NOTHING`,
			it.External,
			it.Title,
			it.Company,
			it.Location,
			it.Description,
			it.URL,
			it.RecruiterRating,
			it.RecencyScore,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
