// processor.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// ErrEmptyQuery is returned when a search is requested without a query
var ErrEmptyQuery = errors.New("search query is empty")

// Processor holds the process-scoped state shared by every command and
// request: settings, collaborators, the language detector and the
// generation history.
type Processor struct {
	settings   *Settings
	overrides  *ConfigOverrides
	translator Translator
	generator  Generator
	fetcher    *ContentFetcher
	history    *History
	now        func() time.Time

	detectorOnce sync.Once
	newDetector  func() LanguageDetector
	detector     LanguageDetector
}

// Option customizes a Processor
type Option func(*Processor)

// WithTranslator replaces the default Google translator
func WithTranslator(t Translator) Option {
	return func(p *Processor) { p.translator = t }
}

// WithGenerator uses g instead of building a generator from settings
func WithGenerator(g Generator) Option {
	return func(p *Processor) { p.generator = g }
}

// WithFetcher replaces the content fetcher used by Import
func WithFetcher(f *ContentFetcher) Option {
	return func(p *Processor) { p.fetcher = f }
}

// WithDetector uses d instead of the lingua detector
func WithDetector(d LanguageDetector) Option {
	return func(p *Processor) {
		p.newDetector = func() LanguageDetector { return d }
	}
}

// WithClock sets the clock used for history timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// NewProcessor creates a processor for the given settings
func NewProcessor(settings *Settings, overrides *ConfigOverrides, opts ...Option) *Processor {
	p := &Processor{
		settings:    settings,
		overrides:   overrides,
		translator:  NewGoogleTranslator(settings.Translator.Endpoint, settings.TranslatorTimeout()),
		fetcher:     NewContentFetcher(30 * time.Second),
		history:     NewHistory(),
		now:         time.Now,
		newDetector: NewLanguageDetector,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Settings returns the processor settings
func (p *Processor) Settings() *Settings {
	return p.settings
}

// History returns the generation history
func (p *Processor) History() *History {
	return p.history
}

// languageDetector builds the detector on first use
func (p *Processor) languageDetector() LanguageDetector {
	p.detectorOnce.Do(func() {
		debugLog("Building language detector")
		p.detector = p.newDetector()
	})
	return p.detector
}

// SearchRequest describes one search
type SearchRequest struct {
	Query     string
	Range     DateRange
	Translate bool
}

// Search loads the corpus, optionally translates the query, filters the
// articles and renders each hit with the search terms highlighted.
func (p *Processor) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	// The term is matched as given; surrounding spaces are part of it
	query := req.Query
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	reference, err := p.settings.ReferenceTime()
	if err != nil {
		return nil, err
	}

	log.Printf("→ Loading articles from %s", p.settings.DataDirectory)
	articles, err := LoadArticles(p.settings.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("loading articles: %w", err)
	}

	var alternate string
	if req.Translate {
		alternate = TranslateQuery(ctx, p.translator, p.languageDetector(), query, p.settings.Search.DefaultTarget)
	}

	matches := SearchArticles(articles, Query{Term: query, Alternate: alternate, Range: req.Range}, reference)
	log.Printf("✓ %d of %d articles match %q (%s)", len(matches), len(articles), query, req.Range)

	hits := make([]SearchHit, 0, len(matches))
	for _, article := range matches {
		hits = append(hits, SearchHit{
			Article:  article,
			Rendered: HighlightText(FormatArticleContent(article.Content), query, alternate),
		})
	}

	return &SearchResult{
		Query:         query,
		Alternate:     alternate,
		Range:         req.Range,
		ReferenceDate: reference,
		Hits:          hits,
	}, nil
}

// Generate validates the request, fills defaults from settings, runs the
// generator and records the result in the history.
func (p *Processor) Generate(ctx context.Context, req GenerationRequest) (*HistoryEntry, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	if req.Model == "" {
		req.Model = p.settings.Generator.Active().Model
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = p.settings.Generator.MaxTokens
	}

	if err := p.settings.Generator.validateParams(req.Model, req.Temperature, req.MaxTokens); err != nil {
		return nil, err
	}

	generator, err := p.getGenerator()
	if err != nil {
		return nil, err
	}

	log.Printf("→ Generating with %s (temperature %.1f, max tokens %d)", req.Model, req.Temperature, req.MaxTokens)
	text, err := generator.Generate(ctx, req)
	logGeneration(req, err)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	entry := p.history.Add(req.Prompt, text, req.Model, p.now())
	return &entry, nil
}

// getGenerator returns the injected generator or builds one from settings,
// looking up the credential on every call.
func (p *Processor) getGenerator() (Generator, error) {
	if p.generator != nil {
		return p.generator, nil
	}

	apiKey, err := LookupCredential(p.settings.Generator.Provider, p.settings.Generator.SecretsFile)
	if err != nil {
		return nil, err
	}

	systemPrompt, err := LoadSystemPrompt(p.overrides)
	if err != nil {
		return nil, err
	}

	return NewGenerator(&p.settings.Generator, apiKey, systemPrompt, p.settings.GeneratorTimeout())
}
