package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubTranslator struct {
	result string
	err    error
	calls  int
	target string
}

func (s *stubTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	s.calls++
	s.target = target
	return s.result, s.err
}

type stubDetector struct {
	lang string
	ok   bool
}

func (d stubDetector) Detect(text string) (string, bool) {
	return d.lang, d.ok
}

func TestGoogleTranslatorTranslate(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"client": q.Get("client"),
			"sl":     q.Get("sl"),
			"tl":     q.Get("tl"),
			"q":      q.Get("q"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[["ક્રિકેટ ","cricket ",null,null,10],["મેચ","match",null,null,10]],null,"en"]`))
	}))
	defer server.Close()

	translator := NewGoogleTranslator(server.URL, 5*time.Second)
	result, err := translator.Translate(context.Background(), "cricket match", "", LangGujarati)
	if err != nil {
		t.Fatalf("Translate() unexpected error: %v", err)
	}

	if result != "ક્રિકેટ મેચ" {
		t.Errorf("Translate() = %q, want %q", result, "ક્રિકેટ મેચ")
	}
	if gotQuery["client"] != "gtx" || gotQuery["sl"] != "auto" || gotQuery["tl"] != "gu" || gotQuery["q"] != "cricket match" {
		t.Errorf("unexpected query parameters: %v", gotQuery)
	}
}

func TestGoogleTranslatorErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"rate limited", http.StatusTooManyRequests, ""},
		{"malformed json", http.StatusOK, "not json"},
		{"empty payload", http.StatusOK, "[]"},
		{"no segments", http.StatusOK, `[[],null,"en"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewGoogleTranslator(server.URL, 5*time.Second).Translate(context.Background(), "x", "", LangGujarati)
			if err == nil {
				t.Fatal("Translate() expected error")
			}

			if tt.status != http.StatusOK {
				var httpErr *HTTPError
				if !errors.As(err, &httpErr) || httpErr.StatusCode != tt.status {
					t.Errorf("Translate() error = %v, want HTTPError %d", err, tt.status)
				}
			}
		})
	}
}

func TestGoogleTranslatorEmptyText(t *testing.T) {
	translator := NewGoogleTranslator("http://127.0.0.1:1", time.Second)
	result, err := translator.Translate(context.Background(), "  ", "", LangGujarati)
	if err != nil || result != "  " {
		t.Errorf("Translate(blank) = %q, %v; want input back and no error", result, err)
	}
}

func TestTranslateQuery(t *testing.T) {
	tests := []struct {
		name       string
		translator *stubTranslator
		detector   LanguageDetector
		term       string
		want       string
		wantTarget string
	}{
		{
			name:       "english query goes to gujarati",
			translator: &stubTranslator{result: "ક્રિકેટ"},
			detector:   stubDetector{lang: LangEnglish, ok: true},
			term:       "cricket",
			want:       "ક્રિકેટ",
			wantTarget: LangGujarati,
		},
		{
			name:       "gujarati query goes to english",
			translator: &stubTranslator{result: "cricket"},
			detector:   stubDetector{lang: LangGujarati, ok: true},
			term:       "ક્રિકેટ",
			want:       "cricket",
			wantTarget: LangEnglish,
		},
		{
			name:       "undetected language uses fallback target",
			translator: &stubTranslator{result: "x-gu"},
			detector:   stubDetector{},
			term:       "x",
			want:       "x-gu",
			wantTarget: LangGujarati,
		},
		{
			name:       "failure falls back to no alternate",
			translator: &stubTranslator{err: errors.New("boom")},
			detector:   stubDetector{lang: LangEnglish, ok: true},
			term:       "cricket",
			want:       "",
			wantTarget: LangGujarati,
		},
		{
			name:       "identical translation is dropped",
			translator: &stubTranslator{result: "Surat "},
			detector:   stubDetector{lang: LangEnglish, ok: true},
			term:       "surat",
			want:       "",
			wantTarget: LangGujarati,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateQuery(context.Background(), tt.translator, tt.detector, tt.term, LangGujarati)
			if got != tt.want {
				t.Errorf("TranslateQuery() = %q, want %q", got, tt.want)
			}
			if tt.translator.target != tt.wantTarget {
				t.Errorf("target = %q, want %q", tt.translator.target, tt.wantTarget)
			}
		})
	}
}

func TestTranslateQueryBlankTerm(t *testing.T) {
	tr := &stubTranslator{result: "x"}
	if got := TranslateQuery(context.Background(), tr, nil, " ", LangGujarati); got != "" {
		t.Errorf("TranslateQuery(blank) = %q, want empty", got)
	}
	if tr.calls != 0 {
		t.Errorf("translator called %d times for a blank term", tr.calls)
	}
}

func TestLinguaDetector(t *testing.T) {
	detector := NewLanguageDetector()

	tests := []struct {
		text string
		want string
	}{
		{"cricket match in the city", LangEnglish},
		{"અમદાવાદમાં ક્રિકેટ મેચ", LangGujarati},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, ok := detector.Detect(tt.text)
			if !ok || got != tt.want {
				t.Errorf("Detect(%q) = %q, %v; want %q", tt.text, got, ok, tt.want)
			}
		})
	}
}
