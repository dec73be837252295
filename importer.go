package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoPublishDate is returned when neither the caller nor the page supplies a date
var ErrNoPublishDate = errors.New("no publication date found")

// ImportRequest describes a page to add to the corpus
type ImportRequest struct {
	URL     string
	Date    time.Time // overrides the page's published time when set
	OutFile string
}

// Import fetches a page, converts it to a corpus record and appends it to
// the output file. The returned Article is what the loader will read back.
func (p *Processor) Import(ctx context.Context, req ImportRequest) (*Article, error) {
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		return nil, fmt.Errorf("invalid URL format: %s (must start with http:// or https://)", req.URL)
	}

	log.Printf("→ Fetching %s", req.URL)
	content, err := p.fetcher.FetchContent(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching source: %w", err)
	}

	date := req.Date
	if date.IsZero() {
		date = content.Published
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w for %s: pass --date", ErrNoPublishDate, req.URL)
	}

	title := content.Title
	if title == "" {
		title = untitled
	}

	record := FormatRecord(title, date, req.URL, content.Text)
	if err := AppendRecord(req.OutFile, record); err != nil {
		return nil, fmt.Errorf("saving record: %w", err)
	}
	log.Printf("✓ Imported %q into %s", title, req.OutFile)

	return &Article{
		Date:    time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Title:   title,
		Content: record,
	}, nil
}

// FormatRecord renders an article in the corpus record format
func FormatRecord(title string, date time.Time, link, body string) string {
	body = strings.ReplaceAll(body, RecordDelimiter, "")
	title = strings.Join(strings.Fields(title), " ")

	return strings.TrimSpace(fmt.Sprintf("Title: %s\nDate: %s\nLink: %s\n\n%s",
		title, date.Format(DateLayout), link, strings.TrimSpace(body)))
}

// AppendRecord appends a record followed by the delimiter line to path
func AppendRecord(path, record string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating corpus directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s\n%s\n", record, RecordDelimiter); err != nil {
		return err
	}

	return f.Close()
}
