package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// RecordDelimiter separates articles inside a corpus file
const RecordDelimiter = "======================================="

const untitled = "Untitled"

var (
	// Any decimal digits match here; only ASCII digits parse as a date
	recordDateRegex  = regexp.MustCompile(`Date:\s*(\p{Nd}{2}-\p{Nd}{2}-\p{Nd}{4})`)
	recordTitleRegex = regexp.MustCompile(`Title:\s*(.+)`)
)

// LoadArticles loads all articles from the *.txt files in dataDir.
// A directory without matching files yields no articles and no error.
func LoadArticles(dataDir string) ([]Article, error) {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("listing corpus files: %w", err)
	}

	articles := []Article{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}

		parsed, err := ParseArticles(string(data))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		debugLog("Loaded %d articles from %s", len(parsed), file)
		articles = append(articles, parsed...)
	}

	return articles, nil
}

// ParseArticles splits corpus text into records and extracts one Article per
// record that carries a Date: line. Records without one are skipped.
func ParseArticles(content string) ([]Article, error) {
	var articles []Article

	content = normalizeNewlines(content)
	for _, record := range strings.Split(content, RecordDelimiter) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}

		article, ok, err := parseRecord(record)
		if err != nil {
			return nil, err
		}
		if ok {
			articles = append(articles, article)
		}
	}

	return articles, nil
}

// parseRecord reports ok=false when the record has no Date: field. A date
// that has the right shape but is not a calendar date is an error.
func parseRecord(record string) (Article, bool, error) {
	dateMatch := recordDateRegex.FindStringSubmatch(record)
	if dateMatch == nil {
		return Article{}, false, nil
	}

	date, err := time.Parse(DateLayout, dateMatch[1])
	if err != nil {
		return Article{}, false, fmt.Errorf("invalid article date %q: %w", dateMatch[1], err)
	}

	title := untitled
	if m := recordTitleRegex.FindStringSubmatch(record); m != nil {
		title = m[1]
	}

	return Article{
		Date:    date,
		Title:   title,
		Content: record,
	}, true, nil
}

// normalizeNewlines converts CRLF and lone CR line endings to LF
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
