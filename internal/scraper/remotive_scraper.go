package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nihalsingh571/internrecom/internal/database"
	"github.com/nihalsingh571/internrecom/internal/ws"

	"github.com/google/uuid"
)

type RemotiveScraper struct {
	db      database.DB
	client  *http.Client
	apiBase string
}

func NewRemotiveScraper(db database.DB) *RemotiveScraper {
	return &RemotiveScraper{
		db: db,
		client: &http.Client{
			Timeout: 25 * time.Second,
		},
		apiBase: "https://remotive.com",
	}
}

type remotiveJob struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Location    string `json:"candidate_required_location"`
	JobType     string `json:"job_type"`
	PublishedAt string `json:"publication_date"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

func (s *RemotiveScraper) Scrape(ctx context.Context, search string, limit int, workers int) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("nil scraper/db")
	}
	if limit <= 0 {
		limit = 50
	}

	sourceID, err := ensureListingSource(ctx, s.db, "remotive", s.apiBase)
	if err != nil {
		return err
	}

	runID, _ := createIngestRun(ctx, s.db, sourceID)
	if runID != uuid.Nil {
		defer func() {
			_ = finishIngestRun(context.Background(), s.db, runID, "finished")
		}()
	}

	_ = deactivateListingsForSource(ctx, s.db, sourceID)

	jobs, err := s.fetchJobs(ctx, search, limit)
	if err != nil {
		_ = logIngest(ctx, s.db, runID, "error", fmt.Sprintf("remotive fetch: %v", err))
		_ = finishIngestRun(ctx, s.db, runID, "failed")
		return err
	}

	pool := NewWorkerPool(workers, workers*2)
	pool.SetRateLimit(8)
	results := pool.Run(ctx)

	for _, j := range jobs {
		j := j
		if j.ID == 0 {
			continue
		}
		pool.Submit(func(ctx context.Context) error {
			published := j.PublishedAt
			return upsertListing(ctx, s.db, sourceID, runID, rawListingInput{
				ExternalListingID: strconv.Itoa(j.ID),
				Title:             j.Title,
				Company:           j.CompanyName,
				Location:          j.Location,
				Description:       j.Description,
				PostedAt:          parseRemotiveTime(&published),
				URL:               strings.TrimSpace(j.URL),
				IsActive:          true,
			})
		})
	}

	pool.Close()

	upserted := 0
	for res := range results {
		if res.Err != nil {
			_ = logIngest(ctx, s.db, runID, "error", fmt.Sprintf("remotive item: %v", res.Err))
			continue
		}
		upserted++
	}

	if upserted > 0 {
		ws.NotifyListingsUpdated("remotive", upserted)
	}
	return nil
}

func (s *RemotiveScraper) fetchJobs(ctx context.Context, search string, limit int) ([]remotiveJob, error) {
	u := fmt.Sprintf("%s/api/remote-jobs?limit=%d", strings.TrimRight(s.apiBase, "/"), limit)
	if q := strings.TrimSpace(search); q != "" {
		u += "&search=" + strings.ReplaceAll(q, " ", "+")
	}
	body, err := httpGetWithRetry(ctx, s.client, u, 3)
	if err != nil {
		return nil, err
	}
	var out remotiveResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// Remotive publishes timestamps without a zone suffix.
func parseRemotiveTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	if tm, err := time.Parse(time.RFC3339, v); err == nil {
		tm = tm.UTC()
		return &tm
	}
	if tm, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
		tm = tm.UTC()
		return &tm
	}
	return nil
}

func httpGetWithRetry(ctx context.Context, client *http.Client, url string, attempts int) ([]byte, error) {
	if attempts <= 0 {
		attempts = 1
	}
	var body []byte
	var lastErr error
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "InternRecomIngest/0.1")
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
			continue
		}
		func() {
			defer resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				lastErr = fmt.Errorf("status %d", resp.StatusCode)
				return
			}
			b, err := readAllLimit(resp.Body, 10<<20)
			if err != nil {
				lastErr = err
				return
			}
			lastErr = nil
			body = b
		}()
		if lastErr == nil {
			return body, nil
		}
		time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
	}
	return nil, lastErr
}
