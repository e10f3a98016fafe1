// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/timeout"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/social-agent/pkg/types"
)

const (
	defaultTemperature    = 0.7
	defaultMaxTokens      = 150
	defaultAttemptTimeout = 30 * time.Second
)

// Client generates text with model fallback. It is safe for concurrent use;
// the provider handle is shared and the diagnostic log serialises writes.
type Client struct {
	provider       Provider
	providerName   types.ProviderName
	hasCredential  bool
	credentialName string
	models         []string
	temperature    float64
	maxTokens      int
	attemptTimeout time.Duration
	diag           *DiagnosticLog
	logger         logrus.FieldLogger
}

// NewClient returns a client for cfg. Zero values in cfg take defaults:
// provider openai, that provider's model list, temperature 0.7, 150 tokens
// and a 30s attempt timeout. provider may be nil, in which case every call
// fails with ErrClientUnavailable. diag and logger may be nil.
func NewClient(cfg types.AIConfig, provider Provider, diag *DiagnosticLog, logger logrus.FieldLogger) *Client {
	name := cfg.Provider
	if name == "" {
		name = types.ProviderOpenAI
	}
	models := cfg.Models
	if len(models) == 0 {
		models = DefaultModels(name)
	}
	credential := cfg.CredentialName
	if credential == "" {
		credential = CredentialName(name)
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	attemptTimeout := cfg.AttemptTimeout
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	return &Client{
		provider:       provider,
		providerName:   name,
		hasCredential:  strings.TrimSpace(cfg.APIKey) != "",
		credentialName: credential,
		models:         models,
		temperature:    temperature,
		maxTokens:      maxTokens,
		attemptTimeout: attemptTimeout,
		diag:           diag,
		logger:         logger,
	}
}

// Models returns the fallback order in use.
func (c *Client) Models() []string {
	out := make([]string, len(c.models))
	copy(out, c.models)
	return out
}

// chainState is the position of a fallback walk.
type chainState int

const (
	chainTrying chainState = iota
	chainSucceeded
	chainExhausted
)

// fallbackChain walks the model list: trying(i) moves to succeeded on
// success, to trying(i+1) on failure, and to exhausted after the last model
// fails. No model is tried twice.
type fallbackChain struct {
	models   []string
	index    int
	state    chainState
	attempts []Attempt
}

func newFallbackChain(models []string) *fallbackChain {
	c := &fallbackChain{models: models}
	if len(models) == 0 {
		c.state = chainExhausted
	}
	return c
}

func (c *fallbackChain) current() string { return c.models[c.index] }

func (c *fallbackChain) succeed() { c.state = chainSucceeded }

func (c *fallbackChain) fail(a Attempt) {
	c.attempts = append(c.attempts, a)
	c.index++
	if c.index >= len(c.models) {
		c.state = chainExhausted
	}
}

// abort ends the walk early, e.g. when the caller's context is done.
func (c *fallbackChain) abort() { c.state = chainExhausted }

// Generate sends prompt to each model in order and returns the first
// successful completion. maxTokens <= 0 uses the configured budget.
//
// Errors: *CredentialError when no key is configured, ErrClientUnavailable
// (wrapped) when no provider handle exists, *ExhaustedError when every
// model failed. Each failed attempt is recorded in the diagnostic log.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !c.hasCredential {
		return "", &CredentialError{Name: c.credentialName}
	}
	if c.provider == nil {
		return "", fmt.Errorf("%s %w", c.providerName, ErrClientUnavailable)
	}
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	chain := newFallbackChain(c.models)
	for chain.state == chainTrying {
		model := chain.current()
		start := time.Now()
		text, err := c.attempt(ctx, model, prompt, maxTokens)
		elapsed := time.Since(start)

		if err == nil {
			chain.succeed()
			c.logger.WithFields(logrus.Fields{
				"model":   model,
				"attempt": chain.index + 1,
				"elapsed": elapsed.String(),
			}).Debug("generation succeeded")
			return text, nil
		}

		a := Attempt{Model: model, Number: chain.index + 1, Err: err, Elapsed: elapsed}
		c.diag.Record(a)
		c.logger.WithFields(logrus.Fields{
			"model":   model,
			"attempt": a.Number,
			"error":   err.Error(),
		}).Warn("model attempt failed, falling back")
		chain.fail(a)

		if ctx.Err() != nil {
			chain.abort()
		}
	}
	return "", &ExhaustedError{Attempts: chain.attempts}
}

// attempt runs a single model call bounded by the attempt timeout.
func (c *Client) attempt(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	req := CompletionRequest{
		Model:       model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
	}
	policy := timeout.NewBuilder[string](c.attemptTimeout).Build()
	return failsafe.With[string](policy).
		WithContext(ctx).
		GetWithExecution(func(exec failsafe.Execution[string]) (string, error) {
			return c.provider.Complete(exec.Context(), req)
		})
}

// CallModel is Generate with failures flattened: on error it returns the
// JSON error payload from ErrorPayload instead.
func (c *Client) CallModel(ctx context.Context, prompt string, maxTokens int) string {
	text, err := c.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return ErrorPayload(err)
	}
	return text
}

// ErrorPayload renders err as a post object whose caption carries the
// error prefix, e.g. {"caption":"(error) OPENAI_API_KEY not set","hashtags":"","cta":""}.
// The message is JSON-escaped, so the payload always parses.
func ErrorPayload(err error) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if encErr := enc.Encode(types.ErrorRecord(msg)); encErr != nil {
		return `{"caption":"(error) unknown error","hashtags":"","cta":""}`
	}
	return strings.TrimSpace(buf.String())
}
