package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

const userAgent = "samachar/1.0 (+corpus import)"

// ContentResult is what a handler extracted from a fetched page
type ContentResult struct {
	Title     string
	Published time.Time // zero when the page does not say
	Text      string    // markdown or plain text body
}

// ContentFetcher downloads a page for import and hands it to the first
// handler that accepts its content type
type ContentFetcher struct {
	handlers []ContentHandler
	client   *http.Client
}

// NewContentFetcher creates a fetcher with the text and HTML handlers
func NewContentFetcher(timeout time.Duration) *ContentFetcher {
	f := &ContentFetcher{
		client: &http.Client{Timeout: timeout},
	}

	// Plain text first, HTML accepts anything
	f.AddHandler(&TextHandler{})
	f.AddHandler(&HTMLHandler{converter: md.NewConverter("", true, nil)})

	return f
}

// AddHandler appends a handler; earlier handlers win
func (f *ContentFetcher) AddHandler(handler ContentHandler) {
	f.handlers = append(f.handlers, handler)
}

// FetchContent downloads url and extracts its title, date and body
func (f *ContentFetcher) FetchContent(ctx context.Context, url string) (*ContentResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	for _, handler := range f.handlers {
		if handler.CanHandle(url, resp) {
			return handler.Handle(url, resp)
		}
	}

	return nil, fmt.Errorf("no handler found for %s", url)
}
