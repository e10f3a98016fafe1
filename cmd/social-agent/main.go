// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the social-agent CLI. It generates
// platform-specific social media drafts with a text-generation provider,
// archives them, and schedules them into a seven-day content calendar.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/social-agent/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is configured in PersistentPreRunE from log_level.
var logger = logrus.New()

// rootCmd is the base command for the social-agent CLI.
var rootCmd = &cobra.Command{
	Use:   "social-agent",
	Short: "Generate social media posts and a weekly content calendar",
	Long: `social-agent drafts platform-specific social media posts for a campaign
topic, using an OpenAI-compatible or Anthropic text-generation API, and turns
them into a seven-day content calendar exported as CSV.

Credentials are read from the environment, from a .env file, or from
.secrets/<name> files (openai-api-key, anthropic-api-key, slack-bot-token).
A missing credential does not abort generation: every post then carries an
"(error) ..." caption explaining what is missing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := configureLogger(viper.GetString("log_level")); err != nil {
			return err
		}

		envFiles, err := secrets.LoadEnvFiles(".env")
		if err != nil {
			return err
		}
		for _, f := range envFiles {
			logger.WithField("file", f).Debug("loaded environment file")
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./social-agent.yaml or ~/.config/social-agent/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("drafts-dir", "drafts", "directory holding the drafts archive")
	rootCmd.PersistentFlags().String("platforms-file", "", "YAML file overriding or extending platform guidelines")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("drafts_dir", rootCmd.PersistentFlags().Lookup("drafts-dir"))
	viper.BindPFlag("platforms_file", rootCmd.PersistentFlags().Lookup("platforms-file"))

	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("social-agent")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "social-agent"))
		}
	}

	viper.SetEnvPrefix("SOCIAL_AGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configureLogger sets the CLI logger's level and formatter.
func configureLogger(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(lvl)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
