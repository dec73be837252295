package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
	"github.com/joho/godotenv"
)

// Supported generation providers
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var (
	// ErrMissingCredential is returned when no API key is configured for the provider
	ErrMissingCredential = errors.New("API key not found")
	// ErrEmptyPrompt is returned when a generation is requested without a prompt
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// GenerationRequest holds the prompt and sampling parameters for one generation
type GenerationRequest struct {
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Generator produces text for a prompt
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// credentialEnvVar returns the variable holding the provider's API key
func credentialEnvVar(provider string) string {
	if provider == ProviderAnthropic {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// LookupCredential finds the provider API key in the secrets file, then in the
// environment. The secrets file is read without touching the environment.
func LookupCredential(provider, secretsFile string) (string, error) {
	name := credentialEnvVar(provider)

	if secretsFile != "" {
		secrets, err := godotenv.Read(secretsFile)
		if err == nil && secrets[name] != "" {
			return secrets[name], nil
		}
		if err != nil && !os.IsNotExist(err) {
			debugLog("Reading secrets file %s: %v", secretsFile, err)
		}
	}

	if key := os.Getenv(name); key != "" {
		return key, nil
	}

	return "", fmt.Errorf("%w: set %s in %s or the environment", ErrMissingCredential, name, secretsFile)
}

// NewGenerator creates the generator configured in settings
func NewGenerator(settings *GeneratorSettings, apiKey, systemPrompt string, timeout time.Duration) (Generator, error) {
	switch settings.Provider {
	case ProviderOpenAI:
		return NewOpenAIGenerator(apiKey, settings.Active().BaseURL, systemPrompt, timeout)
	case ProviderAnthropic:
		return NewAnthropicGenerator(apiKey, systemPrompt)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidProvider, settings.Provider)
	}
}

// OpenAIGenerator talks to the OpenAI HTTP API. Chat models ("gpt-*") use
// chat completions; other models use the legacy completions endpoint.
type OpenAIGenerator struct {
	apiKey       string
	baseURL      string
	systemPrompt string
	httpClient   *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

// NewOpenAIGenerator creates an OpenAI generator
func NewOpenAIGenerator(apiKey, baseURL, systemPrompt string, timeout time.Duration) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIGenerator{
		apiKey:       apiKey,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		systemPrompt: systemPrompt,
		httpClient:   &http.Client{Timeout: timeout},
	}, nil
}

// Generate implements Generator
func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	chat := strings.HasPrefix(req.Model, "gpt")

	var body any
	endpoint := g.baseURL + "/completions"
	if chat {
		endpoint = g.baseURL + "/chat/completions"
		var messages []chatMessage
		if g.systemPrompt != "" {
			messages = append(messages, chatMessage{Role: "system", Content: g.systemPrompt})
		}
		messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})
		body = chatRequest{
			Model:       req.Model,
			Messages:    messages,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		}
	} else {
		body = completionRequest{
			Model:       req.Model,
			Prompt:      req.Prompt,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	debugLog("OpenAI API response: status=%d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	if len(out.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	if chat {
		return strings.TrimSpace(out.Choices[0].Message.Content), nil
	}
	return strings.TrimSpace(out.Choices[0].Text), nil
}

// AnthropicGenerator generates text with Claude models through llmkit
type AnthropicGenerator struct {
	apiKey       string
	systemPrompt string
}

// NewAnthropicGenerator creates an Anthropic generator
func NewAnthropicGenerator(apiKey, systemPrompt string) (*AnthropicGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	return &AnthropicGenerator{apiKey: apiKey, systemPrompt: systemPrompt}, nil
}

// Generate implements Generator
func (g *AnthropicGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	settings := types.RequestSettings{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	response, err := anthropic.PromptWithSettings(g.systemPrompt, req.Prompt, "", g.apiKey, settings)
	if err != nil {
		return "", fmt.Errorf("anthropic prompt: %w", err)
	}

	if len(response.Content) == 0 {
		return "", errors.New("no content in response")
	}

	return strings.TrimSpace(response.Content[0].Text), nil
}

// logGeneration reports the outcome of a generation call
func logGeneration(req GenerationRequest, err error) {
	if err != nil {
		log.Printf("✗ Generation with %s failed: %v", req.Model, err)
		return
	}
	log.Printf("✓ Generated text with %s", req.Model)
}
