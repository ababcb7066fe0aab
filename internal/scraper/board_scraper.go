package scraper

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/nihalsingh571/internrecom/internal/database"
	"github.com/nihalsingh571/internrecom/internal/ws"

	"github.com/gocolly/colly/v2"
	"github.com/google/uuid"
)

// BoardScraper walks arbitrary careers pages described by CSS selectors, for
// boards that expose no API.
type BoardScraper struct {
	db database.DB
}

func NewBoardScraper(db database.DB) *BoardScraper {
	return &BoardScraper{db: db}
}

type CareersTarget struct {
	SourceName         string
	BaseURL            string
	ListURL            string
	LinkSelector       string
	TitleSelector      string
	LocationSelector   string
	DetailBodySelector string
	// UseHeadless renders the list page in Chrome when the plain fetch
	// finds no links.
	UseHeadless bool
}

type boardListItem struct {
	Link     string
	Title    string
	Location string
}

type boardDetail struct {
	Title       string
	Location    string
	Description string
	URL         string
}

func (s *BoardScraper) Scrape(ctx context.Context, targets []CareersTarget, pages int, workers int) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("nil scraper/db")
	}
	if len(targets) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 4
	}

	for _, t := range targets {
		t := t
		if strings.TrimSpace(t.SourceName) == "" || strings.TrimSpace(t.ListURL) == "" {
			continue
		}
		if strings.TrimSpace(t.BaseURL) == "" {
			t.BaseURL = t.ListURL
		}
		if strings.TrimSpace(t.LinkSelector) == "" {
			t.LinkSelector = "a"
		}
		if strings.TrimSpace(t.TitleSelector) == "" {
			t.TitleSelector = "title"
		}
		if strings.TrimSpace(t.DetailBodySelector) == "" {
			t.DetailBodySelector = "body"
		}

		sourceID, err := ensureListingSource(ctx, s.db, t.SourceName, t.BaseURL)
		if err != nil {
			continue
		}

		runID, _ := createIngestRun(ctx, s.db, sourceID)
		if runID != uuid.Nil {
			defer func(r uuid.UUID) {
				_ = finishIngestRun(context.Background(), s.db, r, "finished")
			}(runID)
		}

		_ = deactivateListingsForSource(ctx, s.db, sourceID)

		pool := NewWorkerPool(workers, workers*2)
		pool.SetRateLimit(3)
		results := pool.Run(ctx)

		for page := 1; page <= maxInt(1, pages); page++ {
			listURL := t.ListURL
			if strings.Contains(listURL, "%d") {
				listURL = fmt.Sprintf(listURL, page)
			}
			items, err := s.scrapeListPage(ctx, t, listURL)
			if err != nil {
				_ = logIngest(ctx, s.db, runID, "error", fmt.Sprintf("board list page %d: %v", page, err))
				continue
			}
			if len(items) == 0 && t.UseHeadless {
				items, err = s.fetchListLinksHeadless(ctx, t, listURL, 50)
				if err != nil {
					_ = logIngest(ctx, s.db, runID, "error", fmt.Sprintf("board headless page %d: %v", page, err))
					continue
				}
			}
			for _, it := range items {
				it := it
				if strings.TrimSpace(it.Link) == "" {
					continue
				}
				link := it.Link
				pool.Submit(func(ctx context.Context) error {
					d, err := s.scrapeDetailPage(ctx, t, link)
					if err != nil {
						return err
					}
					return upsertListing(ctx, s.db, sourceID, runID, rawListingInput{
						ExternalListingID: stableExternalIDFromURL(d.URL),
						Title:             pickNonEmpty(d.Title, it.Title),
						Company:           t.SourceName,
						Location:          pickNonEmpty(d.Location, it.Location),
						Description:       d.Description,
						URL:               strings.TrimSpace(d.URL),
						IsActive:          true,
					})
				})
			}
		}

		pool.Close()

		upserted := 0
		for res := range results {
			if res.Err != nil {
				_ = logIngest(ctx, s.db, runID, "error", fmt.Sprintf("board item: %v", res.Err))
				continue
			}
			upserted++
		}
		if upserted > 0 {
			ws.NotifyListingsUpdated(t.SourceName, upserted)
		}
	}

	return nil
}

func (s *BoardScraper) scrapeListPage(ctx context.Context, target CareersTarget, listURL string) ([]boardListItem, error) {
	c := newCollector(listURL)

	items := make([]boardListItem, 0)
	dedup := map[string]struct{}{}

	c.OnHTML(target.LinkSelector, func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.Attr("href"))
		if href == "" {
			return
		}
		abs := strings.TrimSpace(e.Request.AbsoluteURL(href))
		if abs == "" {
			return
		}
		if _, ok := dedup[abs]; ok {
			return
		}
		dedup[abs] = struct{}{}

		title := ""
		if strings.TrimSpace(target.TitleSelector) != "" {
			title = strings.TrimSpace(e.DOM.Find(target.TitleSelector).Text())
		}
		location := ""
		if strings.TrimSpace(target.LocationSelector) != "" {
			location = strings.TrimSpace(e.DOM.Find(target.LocationSelector).Text())
		}

		items = append(items, boardListItem{Link: abs, Title: title, Location: location})
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := c.Visit(listURL); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	return items, nil
}

func (s *BoardScraper) scrapeDetailPage(ctx context.Context, target CareersTarget, listingURL string) (boardDetail, error) {
	c := newCollector(listingURL)

	var out boardDetail
	out.URL = listingURL
	var reqErr error

	c.OnHTML(target.TitleSelector, func(e *colly.HTMLElement) {
		if strings.TrimSpace(out.Title) == "" {
			out.Title = strings.TrimSpace(e.Text)
		}
	})

	if strings.TrimSpace(target.LocationSelector) != "" {
		c.OnHTML(target.LocationSelector, func(e *colly.HTMLElement) {
			if strings.TrimSpace(out.Location) == "" {
				out.Location = strings.TrimSpace(e.Text)
			}
		})
	}

	c.OnHTML(target.DetailBodySelector, func(e *colly.HTMLElement) {
		out.Description = strings.TrimSpace(e.Text)
	})

	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return boardDetail{}, ctx.Err()
	}
	if err := c.Visit(listingURL); err != nil {
		return boardDetail{}, err
	}
	c.Wait()
	if reqErr != nil {
		return boardDetail{}, reqErr
	}
	return out, nil
}

func newCollector(rawURL string) *colly.Collector {
	allowed := hostFromURL(rawURL)
	var c *colly.Collector
	if allowed == "" {
		c = colly.NewCollector()
	} else {
		c = colly.NewCollector(colly.AllowedDomains(allowed))
	}
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, RandomDelay: 850 * time.Millisecond, Delay: 450 * time.Millisecond})

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})
	return c
}

func hostFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Host
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
