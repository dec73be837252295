package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Fallback title</title>
  <meta property="og:title" content="Rain lashes Surat">
  <meta property="article:published_time" content="2025-01-28T10:30:00Z">
</head>
<body>
  <nav>Home | Sports</nav>
  <article>
    <p>Rain fell across Surat on Tuesday.</p>
    <script>alert("x")</script>
    <p>Schools stayed closed.</p>
  </article>
  <footer>Copyright</footer>
</body>
</html>`

func newPageServer(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchContentHTML(t *testing.T) {
	server := newPageServer(t, "text/html; charset=utf-8", samplePage)

	content, err := NewContentFetcher(5*time.Second).FetchContent(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}

	if content.Title != "Rain lashes Surat" {
		t.Errorf("Title = %q", content.Title)
	}
	if !content.Published.Equal(time.Date(2025, 1, 28, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("Published = %v", content.Published)
	}
	if !strings.Contains(content.Text, "Rain fell across Surat on Tuesday.") {
		t.Errorf("Text missing article body: %q", content.Text)
	}
	for _, unwanted := range []string{"alert(", "Home | Sports", "Copyright"} {
		if strings.Contains(content.Text, unwanted) {
			t.Errorf("Text contains %q: %q", unwanted, content.Text)
		}
	}
}

func TestFetchContentHTMLTitleFallback(t *testing.T) {
	page := `<html><head></head><body><h1>Heading title</h1><p>Body</p></body></html>`
	server := newPageServer(t, "text/html", page)

	content, err := NewContentFetcher(5*time.Second).FetchContent(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if content.Title != "Heading title" {
		t.Errorf("Title = %q", content.Title)
	}
	if !content.Published.IsZero() {
		t.Errorf("Published = %v, want zero", content.Published)
	}
}

func TestFetchContentText(t *testing.T) {
	server := newPageServer(t, "text/plain; charset=utf-8", "\n  Plain headline\nFirst line.\nSecond line.\n")

	content, err := NewContentFetcher(5*time.Second).FetchContent(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if content.Title != "Plain headline" {
		t.Errorf("Title = %q", content.Title)
	}
	if content.Text != "First line.\nSecond line." {
		t.Errorf("Text = %q", content.Text)
	}
}

func TestFetchContentHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := NewContentFetcher(5*time.Second).FetchContent(context.Background(), server.URL)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("FetchContent() error = %v, want 404 HTTPError", err)
	}
}

func TestParsePublished(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2025-01-28T10:30:00Z", time.Date(2025, 1, 28, 10, 30, 0, 0, time.UTC)},
		{"2025-01-28", time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)},
		{"yesterday", time.Time{}},
		{"", time.Time{}},
	}

	for _, tt := range tests {
		if got := parsePublished(tt.value); !got.Equal(tt.want) {
			t.Errorf("parsePublished(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestImportRoundTrip(t *testing.T) {
	server := newPageServer(t, "text/html", samplePage)
	p, dir := newTestProcessor(t)
	out := filepath.Join(dir, "imported.txt")

	article, err := p.Import(context.Background(), ImportRequest{URL: server.URL + "/rain", OutFile: out})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if article.Title != "Rain lashes Surat" || article.Date.Format(DateLayout) != "28-01-2025" {
		t.Errorf("article = %+v", article)
	}

	// Second import with an explicit date appends another record
	date := time.Date(2025, 1, 29, 0, 0, 0, 0, time.UTC)
	if _, err := p.Import(context.Background(), ImportRequest{URL: server.URL + "/again", Date: date, OutFile: out}); err != nil {
		t.Fatal(err)
	}

	articles, err := LoadArticles(dir)
	if err != nil {
		t.Fatalf("LoadArticles() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("loaded %d articles, want 2", len(articles))
	}
	if articles[0].Content != article.Content {
		t.Errorf("loaded content differs:\n%q\n%q", articles[0].Content, article.Content)
	}
	if articles[1].Date.Format(DateLayout) != "29-01-2025" {
		t.Errorf("second date = %s", articles[1].Date.Format(DateLayout))
	}

	result, err := p.Search(context.Background(), SearchRequest{Query: "schools"})
	if err != nil || len(result.Hits) != 2 {
		t.Errorf("Search() = %v hits, err %v", result, err)
	}
}

func TestImportErrors(t *testing.T) {
	p, dir := newTestProcessor(t)
	out := filepath.Join(dir, "imported.txt")

	if _, err := p.Import(context.Background(), ImportRequest{URL: "ftp://example.com", OutFile: out}); err == nil {
		t.Error("Import() accepted non-http URL")
	}

	server := newPageServer(t, "text/plain", "Title only\nbody")
	_, err := p.Import(context.Background(), ImportRequest{URL: server.URL, OutFile: out})
	if !errors.Is(err, ErrNoPublishDate) {
		t.Errorf("Import() error = %v, want ErrNoPublishDate", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("failed import wrote the corpus file")
	}
}

func TestFormatRecordStripsDelimiter(t *testing.T) {
	date := time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC)
	body := "before\n" + RecordDelimiter + "\nafter"

	rec := FormatRecord("  Many   spaces\ttitle ", date, "https://example.com/x", body)
	if strings.Contains(rec, RecordDelimiter) {
		t.Errorf("record contains delimiter: %q", rec)
	}

	articles, err := ParseArticles(rec)
	if err != nil || len(articles) != 1 {
		t.Fatalf("ParseArticles() = %v, %v", articles, err)
	}
	if articles[0].Title != "Many spaces title" {
		t.Errorf("Title = %q", articles[0].Title)
	}
}
