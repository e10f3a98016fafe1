// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm sends prompts to a text-generation provider. A Client walks an
// ordered list of models until one answers, records every failed attempt in
// a diagnostic log, and never lets a provider failure escape as a panic or
// an unhandled error: CallModel flattens failures into an error payload that
// the response parser turns into a sentinel record.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/social-agent/internal/httputil"
	"github.com/pdiddy/social-agent/pkg/types"
)

// Provider abstracts the text-generation API so tests can supply a fake.
// Complete returns the generated text or a failure; an empty completion is
// a failure.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is one generation request for one model.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// defaultModels lists the model fallback order per provider, cheapest first.
var defaultModels = map[types.ProviderName][]string{
	types.ProviderOpenAI:    {"gpt-4o-mini", "gpt-4o", "gpt-3.5-turbo"},
	types.ProviderAnthropic: {"claude-3-5-haiku-latest", "claude-sonnet-4-5-20250929"},
}

// credentialNames maps providers to the environment variable holding the key.
var credentialNames = map[types.ProviderName]string{
	types.ProviderOpenAI:    "OPENAI_API_KEY",
	types.ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// DefaultModels returns the built-in fallback order for provider.
func DefaultModels(provider types.ProviderName) []string {
	models := defaultModels[provider]
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// CredentialName returns the environment variable that holds the
// provider's API key.
func CredentialName(provider types.ProviderName) string {
	if name, ok := credentialNames[provider]; ok {
		return name
	}
	return strings.ToUpper(string(provider)) + "_API_KEY"
}

// NewProvider constructs the provider named in cfg. The returned handle is
// meant to be built once at startup and injected into a Client.
func NewProvider(cfg types.AIConfig, logger logrus.FieldLogger) (Provider, error) {
	retrier := &httputil.Retrier{
		Client:     &http.Client{},
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	}
	switch types.ProviderName(strings.ToLower(string(cfg.Provider))) {
	case types.ProviderOpenAI, "":
		return NewOpenAIProvider(cfg.APIURL, cfg.APIKey, retrier), nil
	case types.ProviderAnthropic:
		return NewAnthropicProvider(cfg.APIURL, cfg.APIKey, retrier), nil
	default:
		return nil, fmt.Errorf("unknown provider %q: use openai or anthropic", cfg.Provider)
	}
}
