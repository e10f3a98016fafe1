// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/social-agent/internal/httputil"
)

const (
	defaultAnthropicURL = "https://api.anthropic.com"
	anthropicVersion    = "2023-06-01"
)

// AnthropicProvider calls the Claude Messages API.
type AnthropicProvider struct {
	apiKey  string
	apiURL  string
	retrier *httputil.Retrier
}

// NewAnthropicProvider returns a provider for apiURL (default
// https://api.anthropic.com). A nil retrier sends each request once.
func NewAnthropicProvider(apiURL, apiKey string, retrier *httputil.Retrier) *AnthropicProvider {
	apiURL = strings.TrimRight(apiURL, "/")
	if apiURL == "" {
		apiURL = defaultAnthropicURL
	}
	if retrier == nil {
		retrier = &httputil.Retrier{}
	}
	return &AnthropicProvider{apiKey: apiKey, apiURL: apiURL, retrier: retrier}
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends one Messages API request and returns the first text block.
func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if req.Model == "" {
		return "", errors.New("anthropic: model is required")
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	bodyBytes, err := json.Marshal(claudeRequest{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		Messages:    req.Messages,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/v1/messages", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("anthropic: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.retrier.Do(ctx, httpReq)
	if err != nil {
		return "", fmt.Errorf("anthropic: calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var cResp claudeResponse
		if json.Unmarshal(body, &cResp) == nil && cResp.Error != nil {
			return "", fmt.Errorf("anthropic: %s: %s (status %d)", cResp.Error.Type, cResp.Error.Message, resp.StatusCode)
		}
		return "", fmt.Errorf("anthropic: Claude API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("anthropic: decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("anthropic: no text content in Claude API response")
}
