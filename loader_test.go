package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeCorpusFile(t *testing.T, dir, name string, records ...string) {
	t.Helper()
	content := strings.Join(records, "\n"+RecordDelimiter+"\n")
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing corpus file: %v", err)
	}
}

func record(title, date, body string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("Title: " + title + "\n")
	}
	if date != "" {
		sb.WriteString("Date: " + date + "\n")
	}
	sb.WriteString("Link: https://example.com/" + strings.ToLower(strings.ReplaceAll(title, " ", "-")) + "\n")
	sb.WriteString(body)
	return sb.String()
}

func TestParseArticles(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantTitles []string
	}{
		{
			name:       "single record",
			content:    record("Rain in Surat", "29-01-2025", "Heavy rain."),
			wantTitles: []string{"Rain in Surat"},
		},
		{
			name: "records keep order",
			content: strings.Join([]string{
				record("First", "01-01-2025", "a"),
				record("Second", "02-01-2025", "b"),
				record("Third", "03-01-2025", "c"),
			}, RecordDelimiter),
			wantTitles: []string{"First", "Second", "Third"},
		},
		{
			name: "record without date is dropped",
			content: strings.Join([]string{
				record("Kept", "01-01-2025", "a"),
				record("Dropped", "", "b"),
			}, RecordDelimiter),
			wantTitles: []string{"Kept"},
		},
		{
			name:       "missing title uses placeholder",
			content:    "Date: 05-01-2025\nBody only",
			wantTitles: []string{"Untitled"},
		},
		{
			name:       "blank records are skipped",
			content:    "\n" + RecordDelimiter + "\n\n" + RecordDelimiter + "\n",
			wantTitles: nil,
		},
		{
			name:       "gujarati title",
			content:    record("અમદાવાદમાં વરસાદ", "28-01-2025", "સમાચાર"),
			wantTitles: []string{"અમદાવાદમાં વરસાદ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles, err := ParseArticles(tt.content)
			if err != nil {
				t.Fatalf("ParseArticles() error = %v", err)
			}
			if len(articles) != len(tt.wantTitles) {
				t.Fatalf("ParseArticles() returned %d articles, want %d", len(articles), len(tt.wantTitles))
			}
			for i, want := range tt.wantTitles {
				if articles[i].Title != want {
					t.Errorf("article[%d].Title = %q, want %q", i, articles[i].Title, want)
				}
			}
		})
	}
}

func TestParseArticlesFields(t *testing.T) {
	content := "  \nTitle: Test\nDate: 01-01-2025\nLink: http://x\nBody text\n\n"

	articles, err := ParseArticles(content)
	if err != nil {
		t.Fatalf("ParseArticles() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("got %d articles, want 1", len(articles))
	}

	a := articles[0]
	wantDate := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !a.Date.Equal(wantDate) {
		t.Errorf("Date = %v, want %v", a.Date, wantDate)
	}
	if a.Content != "Title: Test\nDate: 01-01-2025\nLink: http://x\nBody text" {
		t.Errorf("Content not trimmed record text: %q", a.Content)
	}
}

func TestParseArticlesInvalidCalendarDate(t *testing.T) {
	content := record("Good", "01-01-2025", "a") + RecordDelimiter + record("Bad", "31-02-2025", "b")

	_, err := ParseArticles(content)
	if err == nil {
		t.Fatal("ParseArticles() expected error for 31-02-2025")
	}
	if !strings.Contains(err.Error(), "31-02-2025") {
		t.Errorf("error %q does not name the bad date", err)
	}
}

func TestParseArticlesGujaratiDigitDate(t *testing.T) {
	content := record("ગુજરાતી તારીખ", "૨૯-૦૧-૨૦૨૫", "body")

	_, err := ParseArticles(content)
	if err == nil {
		t.Fatal("ParseArticles() expected error for a Gujarati-digit date")
	}
	if !strings.Contains(err.Error(), "૨૯-૦૧-૨૦૨૫") {
		t.Errorf("error %q does not name the date", err)
	}
}

func TestParseArticlesCRLF(t *testing.T) {
	content := "Title: Rain\r\nDate: 29-01-2025\r\nLink: http://x\r\n\r\npara one\r\n" +
		RecordDelimiter + "\r\nTitle: Wind\r\nDate: 28-01-2025\r\n"

	articles, err := ParseArticles(content)
	if err != nil {
		t.Fatalf("ParseArticles() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[0].Title != "Rain" || articles[1].Title != "Wind" {
		t.Errorf("titles = %q, %q", articles[0].Title, articles[1].Title)
	}
	if strings.Contains(articles[0].Content, "\r") {
		t.Errorf("content keeps carriage returns: %q", articles[0].Content)
	}
}

func TestLoadArticles(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "a.txt",
		record("A1", "01-01-2025", "one"),
		record("A2", "02-01-2025", "two"),
	)
	writeCorpusFile(t, dir, "b.txt",
		record("B1", "03-01-2025", "three"),
		record("B-nodate", "", "four"),
	)
	writeCorpusFile(t, dir, "notes.md", record("Ignored", "04-01-2025", "not a corpus file"))

	articles, err := LoadArticles(dir)
	if err != nil {
		t.Fatalf("LoadArticles() error = %v", err)
	}

	var titles []string
	for _, a := range articles {
		titles = append(titles, a.Title)
	}
	if got, want := strings.Join(titles, ","), "A1,A2,B1"; got != want {
		t.Errorf("titles = %s, want %s", got, want)
	}
}

func TestLoadArticlesEmptyDirectory(t *testing.T) {
	articles, err := LoadArticles(t.TempDir())
	if err != nil {
		t.Fatalf("LoadArticles() error = %v", err)
	}
	if articles == nil || len(articles) != 0 {
		t.Errorf("LoadArticles() = %v, want empty non-nil slice", articles)
	}
}

func TestLoadArticlesInvalidDatePropagates(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "bad.txt", record("Bad", "45-13-2025", "x"))

	_, err := LoadArticles(dir)
	if err == nil {
		t.Fatal("LoadArticles() expected error")
	}
	if !strings.Contains(err.Error(), "bad.txt") {
		t.Errorf("error %q does not name the file", err)
	}
}
