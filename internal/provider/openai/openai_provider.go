// Package openai implements generation over OpenAI-compatible Chat
// Completions APIs (DeepSeek and OpenAI).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rhai/internal/config"
	"rhai/internal/port"
	"rhai/internal/provider"
)

const (
	deepSeekURL   = "https://api.deepseek.com/chat/completions"
	deepSeekModel = "deepseek-chat"
	openAIURL     = "https://api.openai.com/v1/chat/completions"
	openAIModel   = "gpt-4o-mini"
)

func init() {
	provider.RegisterProvider("deepseek", func(cfg *config.ProviderConfig) (port.GenerationProvider, error) {
		return NewDeepSeek(cfg), nil
	})
	provider.RegisterProvider("openai", func(cfg *config.ProviderConfig) (port.GenerationProvider, error) {
		return NewOpenAI(cfg), nil
	})
}

// Provider implements port.GenerationProvider over a Chat Completions endpoint.
type Provider struct {
	name        string
	apiKey      string
	model       string
	endpoint    string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewDeepSeek creates a provider for the DeepSeek chat API.
func NewDeepSeek(cfg *config.ProviderConfig) *Provider {
	return newProvider("deepseek", cfg, endpointOr(cfg, deepSeekURL), deepSeekModel)
}

// NewOpenAI creates a provider for the OpenAI chat API.
func NewOpenAI(cfg *config.ProviderConfig) *Provider {
	return newProvider("openai", cfg, endpointOr(cfg, openAIURL), openAIModel)
}

// NewProviderWithEndpoint creates a provider pointing at a custom API endpoint (for testing).
func NewProviderWithEndpoint(name string, cfg *config.ProviderConfig, endpoint string) *Provider {
	return newProvider(name, cfg, endpoint, deepSeekModel)
}

func endpointOr(cfg *config.ProviderConfig, fallback string) string {
	if cfg.Endpoint != "" {
		return cfg.Endpoint
	}
	return fallback
}

func newProvider(name string, cfg *config.ProviderConfig, endpoint, defaultModel string) *Provider {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 3000
	}
	timeout := cfg.Timeout()
	if timeout == 0 {
		timeout = 45 * time.Second
	}
	return &Provider{
		name:        name,
		apiKey:      cfg.APIKey,
		model:       model,
		endpoint:    endpoint,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name used in logs and metrics.
func (p *Provider) Name() string {
	return p.name
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

func (p *Provider) Complete(ctx context.Context, input port.CompletionInput) (*port.CompletionOutput, error) {
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: input.SystemPrompt},
			{Role: "user", Content: input.UserPrompt},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Stream:      false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, provider.TransportError(p.name, fmt.Errorf("calling %s API: %w", p.name, err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.TransportError(p.name, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, provider.StatusError(p.name, resp.StatusCode, respBody, resp.Header.Get("Retry-After"))
	}

	return p.parseResponse(respBody)
}

// apiResponse models the Chat Completions API response.
type apiResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message *struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

func (p *Provider) parseResponse(body []byte) (*port.CompletionOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, provider.MalformedError(p.name, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return nil, provider.MalformedError(p.name, nil)
	}

	if resp.Choices[0].FinishReason == "length" {
		return nil, provider.MalformedError(p.name, fmt.Errorf("output truncated (finish_reason: length)"))
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return nil, provider.MalformedError(p.name, nil)
	}

	model := resp.Model
	if model == "" {
		model = p.model
	}

	return &port.CompletionOutput{
		Text:        text,
		ModelUsed:   model,
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}
