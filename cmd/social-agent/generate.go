// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/social-agent/internal/calendar"
	"github.com/pdiddy/social-agent/internal/drafts"
	"github.com/pdiddy/social-agent/internal/generate"
	"github.com/pdiddy/social-agent/internal/llm"
	"github.com/pdiddy/social-agent/internal/prompt"
	"github.com/pdiddy/social-agent/pkg/types"
)

// suggestedTones are offered in help text; any tone is accepted.
var suggestedTones = []string{"Professional", "Casual", "Funny", "Inspirational"}

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate post variations for each platform",
	Long: `Generate post variations for every requested platform. Each post has
a caption, suggested hashtags and a call to action. Posts that could not be
generated are shown with an "(error) ..." caption; details of each failed
model attempt are appended to the error log.

Suggested tones: ` + strings.Join(suggestedTones, ", ") + `.

Use --save to archive the run, --calendar to write a seven-day CSV calendar,
and --slack-channel to share that calendar in Slack.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	campaign, err := campaignFromFlags(cmd, args)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("save")
	calendarPath, _ := cmd.Flags().GetString("calendar")
	slackChannel, _ := cmd.Flags().GetString("slack-channel")

	cfg := generationConfig()

	table, err := guidelines()
	if err != nil {
		return err
	}
	if unknown := table.Unknown(campaign.Platforms); len(unknown) > 0 {
		logger.WithField("platforms", unknown).Warn("no guidelines for platform; using generic limits")
	}

	diag, err := llm.OpenDiagnosticLog(cfg.ErrorLog)
	if err != nil {
		return err
	}
	defer diag.Close()

	provider, err := llm.NewProvider(cfg.AIConfig, logger)
	if err != nil {
		return err
	}
	client := llm.NewClient(cfg.AIConfig, provider, diag, logger)
	gen := generate.NewGenerator(client, prompt.NewBuilder(table), generate.Options{
		Concurrency: cfg.Concurrency,
		MaxTokens:   cfg.MaxTokens,
		Logger:      logger,
	})

	logger.WithFields(logrus.Fields{
		"topic":      campaign.Topic,
		"platforms":  campaign.Platforms,
		"variations": campaign.Variations,
		"models":     client.Models(),
	}).Info("generating posts")

	ctx := cmd.Context()
	result := gen.GenerateSocialPosts(ctx, campaign)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		renderResult(os.Stdout, campaign.Platforms, result)
	}

	if n := result.Failures(); n > 0 {
		fmt.Fprintf(os.Stderr, "%d post(s) could not be generated; see %s for details\n", n, cfg.ErrorLog)
	}

	if save {
		store, err := drafts.NewStore(draftsConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.SaveRun(ctx, campaign, result, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved run %s\n", run.ID)
	}

	if calendarPath == "" && slackChannel == "" {
		return nil
	}
	entries := calendar.Build(result, campaign.Platforms, time.Now())
	if calendarPath != "" {
		if err := writeCalendar(calendarPath, entries); err != nil {
			return err
		}
	}
	if slackChannel != "" {
		if err := shareCalendar(cmd, slackChannel, campaign.Topic, entries); err != nil {
			return err
		}
	}
	return nil
}

// campaignFromFlags builds and validates the campaign. The topic comes from
// --topic or the positional arguments.
func campaignFromFlags(cmd *cobra.Command, args []string) (types.Campaign, error) {
	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" && len(args) > 0 {
		topic = strings.Join(args, " ")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return types.Campaign{}, errors.New("topic is required: pass it as an argument or with --topic")
	}

	brandVoice, _ := cmd.Flags().GetString("brand-voice")
	platforms, _ := cmd.Flags().GetStringSlice("platforms")
	tone, _ := cmd.Flags().GetString("tone")
	variations, _ := cmd.Flags().GetInt("variations")
	if variations < 1 {
		return types.Campaign{}, fmt.Errorf("variations must be at least 1, got %d", variations)
	}

	cleaned := make([]string, 0, len(platforms))
	for _, p := range platforms {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}

	return types.Campaign{
		Topic:      topic,
		BrandVoice: strings.TrimSpace(brandVoice),
		Platforms:  cleaned,
		Tone:       strings.TrimSpace(tone),
		Variations: variations,
	}, nil
}

func init() {
	generateCmd.Flags().String("topic", "", "campaign topic (or pass it as arguments)")
	generateCmd.Flags().String("brand-voice", "Friendly, startup founders", "brand voice and audience")
	generateCmd.Flags().StringSlice("platforms", []string{"Instagram", "LinkedIn"}, "target platforms in order")
	generateCmd.Flags().String("tone", "Professional", "tone of voice")
	generateCmd.Flags().Int("variations", 2, "variations per platform")
	generateCmd.Flags().Bool("json", false, "print the result as JSON")
	generateCmd.Flags().Bool("save", false, "archive the run in the drafts store")
	generateCmd.Flags().String("calendar", "", "write a 7-day CSV calendar to this path (e.g. "+calendar.DefaultFilename+")")
	generateCmd.Flags().String("slack-channel", "", "post the calendar to this Slack channel")

	generateCmd.Flags().String("provider", "openai", "text-generation provider: openai or anthropic")
	generateCmd.Flags().StringSlice("models", nil, "model fallback order (default depends on provider)")
	generateCmd.Flags().Int("max-tokens", 150, "output token budget per post")
	generateCmd.Flags().Int("concurrency", 4, "maximum requests in flight")
	generateCmd.Flags().String("error-log", llm.DefaultErrorLog, "append-only log of failed model attempts")

	viper.BindPFlag("provider", generateCmd.Flags().Lookup("provider"))
	viper.BindPFlag("models", generateCmd.Flags().Lookup("models"))
	viper.BindPFlag("max_tokens", generateCmd.Flags().Lookup("max-tokens"))
	viper.BindPFlag("concurrency", generateCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("error_log", generateCmd.Flags().Lookup("error-log"))

	rootCmd.AddCommand(generateCmd)
}
