package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pemistahl/lingua-go"
)

// Language codes understood by the translator
const (
	LangAuto     = "auto"
	LangEnglish  = "en"
	LangGujarati = "gu"
)

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// Translator translates text between languages
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// GoogleTranslator calls the public Google Translate endpoint used by the
// translate.google.com web client
type GoogleTranslator struct {
	endpoint string
	client   *http.Client
}

// NewGoogleTranslator creates a translator for the given endpoint
func NewGoogleTranslator(endpoint string, timeout time.Duration) *GoogleTranslator {
	return &GoogleTranslator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Translate translates text from source (or "auto") to target
func (t *GoogleTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if source == "" {
		source = LangAuto
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating translate request: %w", err)
	}

	q := req.URL.Query()
	q.Add("client", "gtx")
	q.Add("sl", source)
	q.Add("tl", target)
	q.Add("dt", "t")
	q.Add("q", text)
	req.URL.RawQuery = q.Encode()

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling translate endpoint: %w", err)
	}
	defer resp.Body.Close()

	debugLog("Translate API response: status=%d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: t.endpoint}
	}

	var payload []any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding translate response: %w", err)
	}

	return parseTranslation(payload)
}

// parseTranslation joins the translated segments of a
// [[["translated","original",...],...],...] response
func parseTranslation(payload []any) (string, error) {
	if len(payload) == 0 {
		return "", errors.New("empty translate response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translate response shape: %T", payload[0])
	}

	var sb strings.Builder
	for _, segment := range segments {
		parts, ok := segment.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			sb.WriteString(s)
		}
	}

	if sb.Len() == 0 {
		return "", errors.New("translate response contained no text")
	}

	return sb.String(), nil
}

// LanguageDetector reports which corpus language a text is written in
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

type linguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector builds an English/Gujarati detector. Building loads the
// language models, so callers keep one per process.
func NewLanguageDetector() LanguageDetector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Gujarati).
		Build()
	return &linguaDetector{detector: detector}
}

func (d *linguaDetector) Detect(text string) (string, bool) {
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}

	switch language {
	case lingua.English:
		return LangEnglish, true
	case lingua.Gujarati:
		return LangGujarati, true
	default:
		return "", false
	}
}

// otherLanguage returns the corpus language a query should be translated into
func otherLanguage(code string) string {
	if code == LangGujarati {
		return LangEnglish
	}
	return LangGujarati
}

// TranslateQuery translates term into the other corpus language for use as an
// alternate match. It never fails: on any error it logs and returns "" so the
// caller searches with the untranslated term only.
func TranslateQuery(ctx context.Context, translator Translator, detector LanguageDetector, term, fallbackTarget string) string {
	if translator == nil || strings.TrimSpace(term) == "" {
		return ""
	}

	target := fallbackTarget
	if detector != nil {
		if lang, ok := detector.Detect(term); ok {
			target = otherLanguage(lang)
		}
	}

	log.Printf("→ Translating %q to %s", term, target)
	translated, err := translator.Translate(ctx, term, LangAuto, target)
	if err != nil {
		log.Printf("✗ Translation failed, searching untranslated term: %v", err)
		return ""
	}

	translated = strings.TrimSpace(translated)
	if strings.EqualFold(translated, strings.TrimSpace(term)) {
		return ""
	}

	log.Printf("✓ Translated: %s", translated)
	return translated
}
