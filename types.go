package main

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Article represents one news item loaded from the corpus
type Article struct {
	Date    time.Time `json:"date"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
}

// DateLayout is the corpus date format (DD-MM-YYYY)
const DateLayout = "02-01-2006"

// ErrUnknownDateRange is returned when a date range label is not recognized
var ErrUnknownDateRange = errors.New("unknown date range")

// DateRange selects how far back from the reference date a search looks
type DateRange int

const (
	AllTime DateRange = iota
	Past24Hours
	PastWeek
	PastMonth
)

var dateRangeNames = map[DateRange]string{
	AllTime:     "all time",
	Past24Hours: "past 24 hours",
	PastWeek:    "past week",
	PastMonth:   "past month",
}

// Labels accepted by ParseDateRange, including the Gujarati UI labels
var dateRangeLabels = map[string]DateRange{
	"all time":      AllTime,
	"all":           AllTime,
	"all-time":      AllTime,
	"past 24 hours": Past24Hours,
	"past-24-hours": Past24Hours,
	"24h":           Past24Hours,
	"day":           Past24Hours,
	"past week":     PastWeek,
	"past-week":     PastWeek,
	"week":          PastWeek,
	"past month":    PastMonth,
	"past-month":    PastMonth,
	"month":         PastMonth,

	"બધો સમય":         AllTime,
	"છેલ્લા 24 કલાક":  Past24Hours,
	"છેલ્લા અઠવાડિયા": PastWeek,
	"છેલ્લા મહિના":    PastMonth,
}

// ParseDateRange maps a label to a DateRange. An empty label means AllTime.
func ParseDateRange(label string) (DateRange, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return AllTime, nil
	}
	if r, ok := dateRangeLabels[key]; ok {
		return r, nil
	}
	return AllTime, fmt.Errorf("%w: %q", ErrUnknownDateRange, label)
}

// Lookback returns how far before the reference date the range reaches.
// AllTime has no lookback.
func (r DateRange) Lookback() time.Duration {
	switch r {
	case Past24Hours:
		return 24 * time.Hour
	case PastWeek:
		return 7 * 24 * time.Hour
	case PastMonth:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Threshold returns the earliest date admitted by the range
func (r DateRange) Threshold(now time.Time) time.Time {
	if r == AllTime {
		return time.Time{}
	}
	return now.Add(-r.Lookback())
}

func (r DateRange) String() string {
	if name, ok := dateRangeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("DateRange(%d)", int(r))
}

// MarshalText lets DateRange appear by name in JSON responses
func (r DateRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Query is a single search request against the loaded articles
type Query struct {
	Term      string
	Alternate string // translated term, optional
	Range     DateRange
}

// SearchHit is one matching article plus its rendered, highlighted text
type SearchHit struct {
	Article
	Rendered string `json:"rendered"`
}

// SearchResult is the outcome of Processor.Search
type SearchResult struct {
	Query         string      `json:"query"`
	Alternate     string      `json:"alternate,omitempty"`
	Range         DateRange   `json:"range"`
	ReferenceDate time.Time   `json:"reference_date"`
	Hits          []SearchHit `json:"hits"`
}

// HistoryEntry records one successful generation
type HistoryEntry struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Result    string    `json:"result"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}
