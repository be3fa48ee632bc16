// Package gemini provides Google Gemini API integration through its
// OpenAI-compatible endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"wikiquiz/internal/core"
	"wikiquiz/internal/httpclient"
)

const (
	// Gemini provides an OpenAI-compatible endpoint
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

	defaultModel = "gemini-flash-latest"

	// Generation parameters tuned for structured quiz output: low
	// temperature for format stability, enough tokens for ten questions.
	temperature = 0.3
	maxTokens   = 1024
)

// Provider implements core.TextGenerator against the Gemini API.
type Provider struct {
	client  *http.Client
	apiKey  string
	baseURL string
	model   string
}

// New creates a Gemini provider. If client is nil, a default pooled
// client is used.
func New(apiKey string, client *http.Client) *Provider {
	if client == nil {
		client = httpclient.NewDefaultHTTPClient()
	}
	return &Provider{
		client:  client,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
	}
}

// WithModel overrides the default model.
func (p *Provider) WithModel(model string) *Provider {
	p.model = model
	return p
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
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends a single-turn completion request and returns the raw
// model text. Deadline expiry comes back as a timeout error; every other
// failure as a provider error, so the caller's retry loop can treat them
// uniformly.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", core.NewProviderError("failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", core.NewProviderError("failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", core.NewTimeoutError("Gemini request exceeded the generation deadline")
		}
		return "", core.NewProviderError("failed to send request", err)
	}
	defer func() {
		_ = resp.Body.Close() //nolint:errcheck
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", core.NewProviderError("failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", core.NewProviderError(fmt.Sprintf("Gemini API error (status %d): %s", resp.StatusCode, string(respBody)), nil)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", core.NewProviderError("failed to unmarshal response", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", core.NewProviderError("Gemini API returned no choices", nil)
	}

	return chatResp.Choices[0].Message.Content, nil
}
