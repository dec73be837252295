package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// ContentHandler processes URLs based on response inspection
type ContentHandler interface {
	CanHandle(url string, resp *http.Response) bool
	Handle(url string, resp *http.Response) (*ContentResult, error)
}

var debugEnabled bool

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Layouts tried for published-time metadata
var publishedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// TextHandler handles plain text pages: the first non-empty line is the title
type TextHandler struct{}

func (h *TextHandler) CanHandle(url string, resp *http.Response) bool {
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain")
}

func (h *TextHandler) Handle(url string, resp *http.Response) (*ContentResult, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	result := &ContentResult{}
	var rest []string
	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	for scanner.Scan() {
		line := scanner.Text()
		if result.Title == "" {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				result.Title = trimmed
			}
			continue
		}
		rest = append(rest, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning text body: %w", err)
	}

	result.Text = strings.TrimSpace(strings.Join(rest, "\n"))
	return result, nil
}

// HTMLHandler handles regular HTML content (fallback)
type HTMLHandler struct {
	converter *md.Converter
}

func (h *HTMLHandler) CanHandle(url string, resp *http.Response) bool {
	return true // Always handles as fallback
}

func (h *HTMLHandler) Handle(url string, resp *http.Response) (*ContentResult, error) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	title := firstNonEmpty(
		doc.Find(`meta[property="og:title"]`).AttrOr("content", ""),
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
	)

	published := parsePublished(firstNonEmpty(
		doc.Find(`meta[property="article:published_time"]`).AttrOr("content", ""),
		doc.Find("time[datetime]").First().AttrOr("datetime", ""),
	))

	body := doc.Find("article").First()
	if body.Length() == 0 {
		body = doc.Find("body")
	}
	body.Find("script, style, nav, header, footer, aside").Remove()

	markdown := strings.TrimSpace(h.converter.Convert(body))
	debugLog("Converted %s: %d chars of markdown", url, len(markdown))

	return &ContentResult{
		Title:     title,
		Published: published,
		Text:      markdown,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// parsePublished returns the zero time when value matches no known layout
func parsePublished(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	debugLog("Unrecognized published time %q", value)
	return time.Time{}
}
