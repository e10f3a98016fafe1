// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/social-agent/internal/llm"
	"github.com/pdiddy/social-agent/internal/platform"
	"github.com/pdiddy/social-agent/internal/secrets"
	"github.com/pdiddy/social-agent/pkg/types"
)

// setDefaults registers the default value of every config key.
func setDefaults() {
	viper.SetDefault("provider", string(types.ProviderOpenAI))
	viper.SetDefault("api_url", "")
	viper.SetDefault("models", []string{})
	viper.SetDefault("temperature", 0.7)
	viper.SetDefault("max_tokens", 150)
	viper.SetDefault("attempt_timeout", 30*time.Second)
	viper.SetDefault("max_retries", 2)
	viper.SetDefault("concurrency", 4)
	viper.SetDefault("error_log", llm.DefaultErrorLog)
	viper.SetDefault("platforms_file", "")
	viper.SetDefault("drafts_dir", "drafts")
	viper.SetDefault("max_results", 50)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("slack.channel", "")
}

// aiConfig reads provider settings and resolves the credential from the
// environment or loaded secrets.
func aiConfig() types.AIConfig {
	provider := types.ProviderName(viper.GetString("provider"))
	credential := llm.CredentialName(provider)
	return types.AIConfig{
		Provider:       provider,
		APIURL:         viper.GetString("api_url"),
		APIKey:         secrets.Credential(credential, loadedSecrets),
		CredentialName: credential,
		Models:         viper.GetStringSlice("models"),
		Temperature:    viper.GetFloat64("temperature"),
		MaxTokens:      viper.GetInt("max_tokens"),
		AttemptTimeout: viper.GetDuration("attempt_timeout"),
		MaxRetries:     viper.GetInt("max_retries"),
	}
}

func generationConfig() types.GenerationConfig {
	return types.GenerationConfig{
		AIConfig:      aiConfig(),
		Concurrency:   viper.GetInt("concurrency"),
		ErrorLog:      viper.GetString("error_log"),
		PlatformsFile: viper.GetString("platforms_file"),
	}
}

func draftsConfig() types.DraftsConfig {
	return types.DraftsConfig{
		DraftsDir:  viper.GetString("drafts_dir"),
		MaxResults: viper.GetInt("max_results"),
	}
}

// notifyConfig returns Slack settings; channel overrides slack.channel
// when non-empty.
func notifyConfig(channel string) types.NotifyConfig {
	if channel == "" {
		channel = viper.GetString("slack.channel")
	}
	return types.NotifyConfig{
		SlackToken:   secrets.Credential("SLACK_BOT_TOKEN", loadedSecrets),
		SlackChannel: channel,
	}
}

// guidelines loads the platform table, applying platforms_file if set.
func guidelines() (*platform.Table, error) {
	return platform.LoadFile(viper.GetString("platforms_file"))
}
