package scraper

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nihalsingh571/internrecom/internal/database"

	"github.com/google/uuid"
)

type rawListingInput struct {
	ExternalListingID string
	Title             string
	Company           string
	Location          string
	Description       string
	PostedAt          *time.Time
	ScrapedAt         *time.Time
	URL               string
	RecruiterRating   *float64
	IsActive          bool
}

func ensureListingSource(ctx context.Context, db database.DB, name string, baseURL string) (uuid.UUID, error) {
	if db == nil {
		return uuid.Nil, fmt.Errorf("nil db")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("empty source name")
	}

	_, _ = db.Exec(ctx,
		`INSERT INTO listing_sources (id, name, base_url) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (name) DO NOTHING`,
		name,
		nullableText(baseURL),
	)

	row := db.QueryRow(ctx, `SELECT id FROM listing_sources WHERE name = $1 LIMIT 1`, name)
	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func createIngestRun(ctx context.Context, db database.DB, sourceID uuid.UUID) (uuid.UUID, error) {
	if db == nil {
		return uuid.Nil, fmt.Errorf("nil db")
	}
	id := uuid.New()
	_, err := db.Exec(ctx,
		`INSERT INTO ingest_runs (id, source_id, started_at, status) VALUES ($1,$2,$3,$4)`,
		id, sourceID, time.Now().UTC(), "running",
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func finishIngestRun(ctx context.Context, db database.DB, runID uuid.UUID, status string) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	if runID == uuid.Nil {
		return nil
	}
	_, err := db.Exec(ctx,
		`UPDATE ingest_runs SET finished_at = $2, status = $3 WHERE id = $1`,
		runID, time.Now().UTC(), strings.TrimSpace(status),
	)
	return err
}

func logIngest(ctx context.Context, db database.DB, runID uuid.UUID, level string, message string) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	if runID == uuid.Nil {
		return nil
	}
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}
	_, err := db.Exec(ctx,
		`INSERT INTO ingest_logs (id, ingest_run_id, level, message) VALUES ($1,$2,$3,$4)`,
		uuid.New(), runID, level, message,
	)
	return err
}

func deactivateListingsForSource(ctx context.Context, db database.DB, sourceID uuid.UUID) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	if sourceID == uuid.Nil {
		return fmt.Errorf("nil source_id")
	}
	_, err := db.Exec(ctx, `UPDATE listings SET is_active = false WHERE source_id = $1`, sourceID)
	return err
}

func upsertListing(ctx context.Context, db database.DB, sourceID uuid.UUID, runID uuid.UUID, in rawListingInput) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	if sourceID == uuid.Nil {
		return fmt.Errorf("nil source_id")
	}

	now := time.Now().UTC()
	scrapedAt := in.ScrapedAt
	if scrapedAt == nil {
		scrapedAt = &now
	}

	externalID := strings.TrimSpace(in.ExternalListingID)
	if externalID == "" {
		externalID = stableExternalIDFromURL(in.URL)
	}
	if externalID == "" {
		return fmt.Errorf("listing has neither external id nor url")
	}

	recency := recencyFromPostedAt(in.PostedAt, now)

	_, err := db.Exec(ctx,
		`INSERT INTO listings (
			id, source_id, external_listing_id, title, company, location,
			description, url, recruiter_rating, recency_score, posted_at, scraped_at, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (source_id, external_listing_id) DO UPDATE SET
			title = COALESCE(EXCLUDED.title, listings.title),
			company = COALESCE(EXCLUDED.company, listings.company),
			location = COALESCE(EXCLUDED.location, listings.location),
			description = COALESCE(NULLIF(EXCLUDED.description, ''), listings.description),
			url = COALESCE(EXCLUDED.url, listings.url),
			recruiter_rating = COALESCE(EXCLUDED.recruiter_rating, listings.recruiter_rating),
			recency_score = EXCLUDED.recency_score,
			posted_at = COALESCE(EXCLUDED.posted_at, listings.posted_at),
			scraped_at = COALESCE(EXCLUDED.scraped_at, listings.scraped_at),
			is_active = EXCLUDED.is_active`,
		uuid.New(),
		sourceID,
		externalID,
		strings.TrimSpace(in.Title),
		nullableText(in.Company),
		nullableText(in.Location),
		strings.TrimSpace(in.Description),
		nullableText(in.URL),
		in.RecruiterRating,
		recency,
		in.PostedAt,
		scrapedAt,
		in.IsActive,
	)
	if err != nil {
		_ = logIngest(ctx, db, runID, "error", fmt.Sprintf("upsert listing external_id=%s url=%s: %v", externalID, in.URL, err))
		return err
	}
	_ = logIngest(ctx, db, runID, "info", fmt.Sprintf("listing upserted url=%s title=%s", strings.TrimSpace(in.URL), strings.TrimSpace(in.Title)))
	return nil
}

// recencyFromPostedAt maps a posting age onto the unit interval in coarse
// tiers. Listings without a posting date get a middling score rather than
// the worst one.
func recencyFromPostedAt(postedAt *time.Time, now time.Time) float64 {
	if postedAt == nil {
		return 0.5
	}
	age := now.Sub(postedAt.UTC())
	switch {
	case age <= 24*time.Hour:
		return 1.0
	case age <= 3*24*time.Hour:
		return 0.9
	case age <= 7*24*time.Hour:
		return 0.75
	case age <= 14*24*time.Hour:
		return 0.5
	case age <= 30*24*time.Hour:
		return 0.25
	default:
		return 0.1
	}
}

func stableExternalIDFromURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	h := sha1.Sum([]byte(u))
	return "urlsha1-" + hex.EncodeToString(h[:])
}

func nullableText(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

func pickNonEmpty(a, b string) string {
	a = strings.TrimSpace(a)
	if a != "" {
		return a
	}
	return strings.TrimSpace(b)
}

func parseRFC3339OrNil(s *string) *time.Time {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	tm, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	tm = tm.UTC()
	return &tm
}

func readAllLimit(r io.Reader, max int64) ([]byte, error) {
	lr := &io.LimitedReader{R: r, N: max}
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if lr.N <= 0 {
		return nil, fmt.Errorf("response too large")
	}
	return b, nil
}
