// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ProviderName identifies the text-generation provider.
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
)

// AIConfig holds settings for calls to the text-generation provider.
type AIConfig struct {
	// Provider selects the API shape: openai or anthropic.
	Provider ProviderName `json:"provider" yaml:"provider"`

	// APIURL overrides the provider base URL (e.g. for a compatible gateway).
	APIURL string `json:"api_url,omitempty" yaml:"api_url,omitempty"`

	// APIKey is the provider credential. Empty is allowed; every call then
	// yields an error record without touching the network.
	APIKey string `json:"-" yaml:"-"`

	// CredentialName is the environment name of the credential, used in
	// the "not set" message (e.g. "OPENAI_API_KEY").
	CredentialName string `json:"credential_name" yaml:"credential_name"`

	// Models lists model identifiers in priority order. The first is the
	// primary; the rest are fallbacks.
	Models []string `json:"models" yaml:"models"`

	// Temperature is the sampling temperature for every attempt (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens is the output-token budget per attempt (default 150).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// AttemptTimeout bounds a single model attempt (default 30s).
	AttemptTimeout time.Duration `json:"attempt_timeout" yaml:"attempt_timeout"`

	// MaxRetries is the number of HTTP 429 retries inside one attempt (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// GenerationConfig holds settings for the post generation stage.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// Concurrency bounds the number of in-flight generation requests
	// (default 4; 1 runs strictly in order).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// ErrorLog is the path of the append-only diagnostic log
	// (default "social_agent_error.log").
	ErrorLog string `json:"error_log" yaml:"error_log"`

	// PlatformsFile optionally points to a YAML file that overrides or
	// extends the built-in platform guidelines.
	PlatformsFile string `json:"platforms_file,omitempty" yaml:"platforms_file,omitempty"`
}

// DraftsConfig holds settings for the drafts archive.
type DraftsConfig struct {
	// DraftsDir is the directory holding drafts.db and exports.
	DraftsDir string `json:"drafts_dir" yaml:"drafts_dir"`

	// MaxResults is the default maximum number of listed posts (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// NotifyConfig holds settings for sharing calendars to Slack.
type NotifyConfig struct {
	SlackToken   string `json:"-" yaml:"-"`
	SlackChannel string `json:"slack_channel,omitempty" yaml:"slack_channel,omitempty"`

	// SlackAPIURL overrides the Slack Web API base URL (tests).
	SlackAPIURL string `json:"slack_api_url,omitempty" yaml:"slack_api_url,omitempty"`
}
