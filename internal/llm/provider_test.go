// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/social-agent/internal/httputil"
	"github.com/pdiddy/social-agent/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func userRequest(model string) CompletionRequest {
	return CompletionRequest{
		Model:       model,
		Messages:    []Message{{Role: "user", Content: "write a post"}},
		Temperature: 0.7,
		MaxTokens:   150,
	}
}

func TestOpenAIProviderComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		assert.Equal(t, 0.7, body["temperature"])
		assert.Equal(t, float64(150), body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"{\"caption\":\"Hi\"}"}}]}`)
	}))
	defer ts.Close()

	p := NewOpenAIProvider(ts.URL+"/", "sk-test", nil)
	text, err := p.Complete(context.Background(), userRequest("gpt-4o-mini"))
	require.NoError(t, err)
	assert.Equal(t, `{"caption":"Hi"}`, text)
}

func TestOpenAIProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error object", http.StatusUnauthorized, `{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`, "Incorrect API key"},
		{"plain error body", http.StatusBadGateway, `upstream down`, "upstream down"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`, "empty completion"},
		{"bad json", http.StatusOK, `{"choices":`, "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			_, err := NewOpenAIProvider(ts.URL, "k", nil).Complete(context.Background(), userRequest("m"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpenAIProviderLegacyText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"choices":[{"text":"legacy answer"}]}`)
	}))
	defer ts.Close()

	text, err := NewOpenAIProvider(ts.URL, "k", nil).Complete(context.Background(), userRequest("m"))
	require.NoError(t, err)
	assert.Equal(t, "legacy answer", text)
}

func TestOpenAIProviderRequiresModel(t *testing.T) {
	_, err := NewOpenAIProvider("http://unused", "k", nil).Complete(context.Background(), CompletionRequest{})
	assert.Error(t, err)
}

func TestAnthropicProviderComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req claudeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-test", req.Model)
		assert.Equal(t, 150, req.MaxTokens)
		assert.Len(t, req.Messages, 1)

		io.WriteString(w, `{"content":[{"type":"text","text":"hello from claude"}]}`)
	}))
	defer ts.Close()

	p := NewAnthropicProvider(ts.URL, "sk-ant", nil)
	text, err := p.Complete(context.Background(), userRequest("claude-test"))
	require.NoError(t, err)
	assert.Equal(t, "hello from claude", text)
}

func TestAnthropicProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"typed error", http.StatusBadRequest, `{"type":"error","error":{"type":"invalid_request_error","message":"bad model"}}`, "bad model"},
		{"untyped error", http.StatusInternalServerError, `oops`, "returned 500"},
		{"no text block", http.StatusOK, `{"content":[]}`, "no text content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			_, err := NewAnthropicProvider(ts.URL, "k", nil).Complete(context.Background(), userRequest("m"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewProviderRetriesRateLimits(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `{"choices":[{"message":{"content":"after retry"}}]}`)
	}))
	defer ts.Close()

	p, err := NewProvider(types.AIConfig{
		Provider:   types.ProviderOpenAI,
		APIURL:     ts.URL,
		APIKey:     "k",
		MaxRetries: 2,
	}, nil)
	require.NoError(t, err)

	text, err := p.Complete(context.Background(), userRequest("m"))
	require.NoError(t, err)
	assert.Equal(t, "after retry", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNewProviderSelection(t *testing.T) {
	p, err := NewProvider(types.AIConfig{Provider: "Anthropic"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &AnthropicProvider{}, p)

	p, err = NewProvider(types.AIConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, p)

	_, err = NewProvider(types.AIConfig{Provider: "cohere"}, nil)
	assert.ErrorContains(t, err, "unknown provider")
}

func TestCredentialName(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", CredentialName(types.ProviderOpenAI))
	assert.Equal(t, "ANTHROPIC_API_KEY", CredentialName(types.ProviderAnthropic))
	assert.Equal(t, "MISTRAL_API_KEY", CredentialName("mistral"))
}
