package main

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".samachar/"

// Generation limits
const (
	minTemperature = 0.0
	maxTemperature = 1.0
	minMaxTokens   = 100
	maxMaxTokens   = 2000
)

// Settings validation errors
var (
	ErrInvalidReferenceDate = errors.New("reference_date must be a DD-MM-YYYY date")
	ErrInvalidLanguage      = errors.New("language must be 'en' or 'gu'")
	ErrInvalidProvider      = errors.New("generator.provider must be 'openai' or 'anthropic'")
	ErrInvalidTemperature   = errors.New("temperature must be between 0.0 and 1.0")
	ErrInvalidMaxTokens     = errors.New("max_tokens must be between 100 and 2000")
	ErrUnknownModel         = errors.New("model is not offered by the provider")
	ErrMissingModel         = errors.New("no default model configured")
	ErrMissingEndpoint      = errors.New("translator.endpoint is required")
	ErrInvalidTarget        = errors.New("search.default_target must be 'en' or 'gu'")
)

// ConfigOverrides holds command line overrides for settings and embedded files
type ConfigOverrides struct {
	SettingsPath     *string
	SystemPromptPath *string
	DataDirectory    *string
}

//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/generator-system-prompt.md
var defaultSystemPrompt string

// Settings represents the YAML configuration structure
type Settings struct {
	DataDirectory string             `yaml:"data_directory"`
	ReferenceDate string             `yaml:"reference_date"`
	Language      string             `yaml:"language"`
	Search        SearchSettings     `yaml:"search"`
	Translator    TranslatorSettings `yaml:"translator"`
	Generator     GeneratorSettings  `yaml:"generator"`
	Server        ServerSettings     `yaml:"server"`
}

// SearchSettings controls query translation during search
type SearchSettings struct {
	Translate     bool   `yaml:"translate"`
	DefaultTarget string `yaml:"default_target"`
}

// TranslatorSettings configures the translation endpoint
type TranslatorSettings struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// GeneratorSettings configures the text generation provider
type GeneratorSettings struct {
	Provider       string                      `yaml:"provider"`
	Temperature    float64                     `yaml:"temperature"`
	MaxTokens      int                         `yaml:"max_tokens"`
	SecretsFile    string                      `yaml:"secrets_file"`
	TimeoutSeconds int                         `yaml:"timeout_seconds"`
	Providers      map[string]ProviderSettings `yaml:"providers"`
}

// ProviderSettings holds the models offered by one provider
type ProviderSettings struct {
	Model   string   `yaml:"model"`
	Models  []string `yaml:"models"`
	BaseURL string   `yaml:"base_url"`
}

// Active returns the settings of the selected provider
func (g *GeneratorSettings) Active() ProviderSettings {
	return g.Providers[g.Provider]
}

// ServerSettings configures the HTTP API
type ServerSettings struct {
	Address string `yaml:"address"`
}

// GetConfigPath returns the full path to a config file
func GetConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// LoadSettings loads settings honoring overrides. Without an explicit settings
// path the default file is created from the embedded copy on first run.
func LoadSettings(overrides *ConfigOverrides) (*Settings, error) {
	var settings *Settings
	var err error

	if overrides != nil && overrides.SettingsPath != nil {
		// Explicit settings file must exist
		settings, err = loadSettingsRequired(*overrides.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("loading settings %s: %w", *overrides.SettingsPath, err)
		}
	} else {
		if err := ensureConfigExists(); err != nil {
			return nil, fmt.Errorf("ensuring config files exist: %w", err)
		}
		settings, err = loadSettings(GetConfigPath("settings.yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
	}

	if overrides != nil && overrides.DataDirectory != nil {
		settings.DataDirectory = *overrides.DataDirectory
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return settings, nil
}

// DefaultSettings returns the embedded settings
func DefaultSettings() *Settings {
	var settings Settings
	if err := yaml.Unmarshal([]byte(defaultSettings), &settings); err != nil {
		log.Fatalf("Critical error: embedded settings are invalid: %v", err)
	}
	return &settings
}

// loadSettings loads settings from YAML file with fallback to defaults
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return DefaultSettings(), nil
	}

	// Start from defaults so a partial file keeps sensible values
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	return settings, nil
}

// loadSettingsRequired loads settings from YAML file, failing if file doesn't exist
func loadSettingsRequired(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, err
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	return settings, nil
}

// ensureConfigExists creates config directory and writes settings.yaml if needed
func ensureConfigExists() error {
	err := os.MkdirAll(defaultConfigDir, 0755)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write settings.yaml - this should be customized by users
	settingsFile := GetConfigPath("settings.yaml")
	if _, err := os.Stat(settingsFile); os.IsNotExist(err) {
		err = os.WriteFile(settingsFile, []byte(defaultSettings), 0644)
		if err != nil {
			return fmt.Errorf("writing settings.yaml: %w", err)
		}
	}

	return nil
}

// Validate validates the settings.
func (s *Settings) Validate() error {
	if _, err := s.ReferenceTime(); err != nil {
		return err
	}

	if !isSupportedLanguage(s.Language) {
		return ErrInvalidLanguage
	}

	if !isSupportedLanguage(s.Search.DefaultTarget) {
		return ErrInvalidTarget
	}

	if s.Translator.Endpoint == "" {
		return ErrMissingEndpoint
	}

	switch s.Generator.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProvider, s.Generator.Provider)
	}

	for name, provider := range s.Generator.Providers {
		if provider.Model == "" {
			return fmt.Errorf("%w: generator.providers.%s", ErrMissingModel, name)
		}
		if len(provider.Models) > 0 && !slices.Contains(provider.Models, provider.Model) {
			return fmt.Errorf("%w: %q in generator.providers.%s", ErrUnknownModel, provider.Model, name)
		}
	}

	return s.Generator.validateParams(s.Generator.Active().Model, s.Generator.Temperature, s.Generator.MaxTokens)
}

// validateParams checks generation parameters against the configured limits
// and the selected provider's model list
func (g *GeneratorSettings) validateParams(model string, temperature float64, maxTokens int) error {
	if temperature < minTemperature || temperature > maxTemperature {
		return fmt.Errorf("%w: %.2f", ErrInvalidTemperature, temperature)
	}

	if maxTokens < minMaxTokens || maxTokens > maxMaxTokens {
		return fmt.Errorf("%w: %d", ErrInvalidMaxTokens, maxTokens)
	}

	if model == "" {
		return fmt.Errorf("%w: generator.providers.%s", ErrMissingModel, g.Provider)
	}

	if models := g.Active().Models; len(models) > 0 && !slices.Contains(models, model) {
		return fmt.Errorf("%w: %q for %s", ErrUnknownModel, model, g.Provider)
	}

	return nil
}

// ReferenceTime parses the configured reference date
func (s *Settings) ReferenceTime() (time.Time, error) {
	if s.ReferenceDate == "" {
		return DefaultReferenceDate, nil
	}

	t, err := time.Parse(DateLayout, s.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidReferenceDate, s.ReferenceDate)
	}

	return t, nil
}

// TranslatorTimeout returns the translator HTTP timeout
func (s *Settings) TranslatorTimeout() time.Duration {
	if s.Translator.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.Translator.TimeoutSeconds) * time.Second
}

// GeneratorTimeout returns the generator HTTP timeout
func (s *Settings) GeneratorTimeout() time.Duration {
	if s.Generator.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.Generator.TimeoutSeconds) * time.Second
}

// LoadSystemPrompt returns the generator system prompt (from override file or embedded)
func LoadSystemPrompt(overrides *ConfigOverrides) (string, error) {
	if overrides != nil && overrides.SystemPromptPath != nil {
		data, err := os.ReadFile(*overrides.SystemPromptPath)
		if err != nil {
			return "", fmt.Errorf("reading system prompt %s: %w", *overrides.SystemPromptPath, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.TrimSpace(defaultSystemPrompt), nil
}

func isSupportedLanguage(code string) bool {
	return code == LangEnglish || code == LangGujarati
}
