// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify shares content calendars with a Slack channel.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/pdiddy/social-agent/pkg/types"
)

// emptyCaption is shown for days without a generated post.
const emptyCaption = "_(no post)_"

// SlackNotifier posts calendars to one channel.
type SlackNotifier struct {
	api     *slack.Client
	channel string
}

// NewSlackNotifier returns a notifier for cfg. A token and a channel are
// required.
func NewSlackNotifier(cfg types.NotifyConfig) (*SlackNotifier, error) {
	if cfg.SlackToken == "" {
		return nil, errors.New("SLACK_BOT_TOKEN not set")
	}
	if cfg.SlackChannel == "" {
		return nil, errors.New("no slack channel configured")
	}

	var opts []slack.Option
	if cfg.SlackAPIURL != "" {
		apiURL := cfg.SlackAPIURL
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		opts = append(opts, slack.OptionAPIURL(apiURL))
	}

	return &SlackNotifier{
		api:     slack.New(cfg.SlackToken, opts...),
		channel: cfg.SlackChannel,
	}, nil
}

// PostCalendar sends entries as a single message and returns its
// timestamp.
func (n *SlackNotifier) PostCalendar(ctx context.Context, topic string, entries []types.CalendarEntry) (string, error) {
	_, ts, err := n.api.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(CalendarText(topic, entries), false),
		slack.MsgOptionBlocks(calendarBlocks(topic, entries)...),
	)
	if err != nil {
		return "", fmt.Errorf("posting calendar to %s: %w", n.channel, err)
	}
	return ts, nil
}

// CalendarText renders entries as plain text, one day per line.
func CalendarText(topic string, entries []types.CalendarEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Content calendar: %s\n", headline(topic))
	for _, e := range entries {
		fmt.Fprintf(&b, "%s %s: %s\n", e.Date, e.Platform, captionOrPlaceholder(e.Caption))
	}
	return strings.TrimRight(b.String(), "\n")
}

func calendarBlocks(topic string, entries []types.CalendarEntry) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "Content calendar: "+headline(topic), false, false)),
	}
	for _, e := range entries {
		text := fmt.Sprintf("*%s* · %s\n%s", e.Date, e.Platform, captionOrPlaceholder(e.Caption))
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil))
	}
	return blocks
}

func headline(topic string) string {
	if strings.TrimSpace(topic) == "" {
		return "next 7 days"
	}
	return topic
}

func captionOrPlaceholder(caption string) string {
	if strings.TrimSpace(caption) == "" {
		return emptyCaption
	}
	return caption
}
