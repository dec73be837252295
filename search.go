package main

import (
	"strings"
	"time"
)

// DefaultReferenceDate is the fixed "now" used for date thresholds, so
// results do not drift with the wall clock.
var DefaultReferenceDate = time.Date(2025, time.January, 30, 0, 0, 0, 0, time.UTC)

// SearchArticles returns the articles inside the query's date range whose
// content contains the term, or the alternate term, case-insensitively.
// Input order is preserved.
func SearchArticles(articles []Article, q Query, now time.Time) []Article {
	threshold := q.Range.Threshold(now)
	term := strings.ToLower(q.Term)
	alternate := strings.ToLower(q.Alternate)

	results := []Article{}
	for _, article := range articles {
		if article.Date.Before(threshold) {
			continue
		}

		content := strings.ToLower(article.Content)
		if strings.Contains(content, term) || (alternate != "" && strings.Contains(content, alternate)) {
			results = append(results, article)
		}
	}

	return results
}
