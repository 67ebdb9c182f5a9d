// scraper/page_fetcher.go
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// maxPageBytes caps how much of a page is read into memory.
const maxPageBytes = 8 << 20

// PageFetcher downloads server-rendered pages of the upstream admin panel.
type PageFetcher struct {
	client *http.Client
	log    *logrus.Entry
}

// NewPageFetcher returns a fetcher using client, or a plain client with timeout when client is nil.
func NewPageFetcher(client *http.Client, timeout time.Duration) *PageFetcher {
	if client == nil {
		if timeout <= 0 {
			timeout = 30 * time.Second // Sensible timeout for a page download
		}
		client = &http.Client{Timeout: timeout}
	}
	return &PageFetcher{client: client, log: logrus.WithField("component", "scraper")}
}

// Fetch GETs url and returns the body. Non-200 responses are errors.
func (f *PageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.log.WithField("url", url).Debug("Fetching page")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build GET request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch page from %s: received status code %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read page body from %s: %w", url, err)
	}
	return body, nil
}
