package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// fetchListLinksHeadless renders a board page in headless Chrome and pulls
// out candidate listing links. Used for boards that build their list client
// side, where the plain collector sees an empty shell.
func (s *BoardScraper) fetchListLinksHeadless(ctx context.Context, target CareersTarget, listURL string, limit int) ([]boardListItem, error) {
	if s == nil {
		return nil, fmt.Errorf("nil scraper")
	}
	if limit <= 0 {
		limit = 50
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, 25*time.Second)
	defer reqCancel()

	var hrefs []string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(listURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.EvaluateAsDevTools(fmt.Sprintf(
			`Array.from(document.querySelectorAll(%q)).map(a => a.getAttribute('href')).filter(h => h)`,
			target.LinkSelector,
		), &hrefs),
	)
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(target.BaseURL, "/")
	seen := map[string]struct{}{}
	out := make([]boardListItem, 0, limit)

	for _, h := range hrefs {
		if len(out) >= limit {
			break
		}
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if strings.HasPrefix(h, "/") {
			h = base + h
		} else if !strings.HasPrefix(h, "http://") && !strings.HasPrefix(h, "https://") {
			h = base + "/" + h
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, boardListItem{Link: h})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no listing urls found (headless)")
	}
	return out, nil
}
