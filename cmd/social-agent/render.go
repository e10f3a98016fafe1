// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/social-agent/internal/calendar"
	"github.com/pdiddy/social-agent/internal/notify"
	"github.com/pdiddy/social-agent/pkg/types"
)

// renderResult prints each platform's variations in request order. Error
// records are shown as warnings.
func renderResult(w io.Writer, platforms []string, result types.GenerationResult) {
	seen := make(map[string]bool, len(platforms))
	for _, p := range platforms {
		if seen[p] {
			continue
		}
		seen[p] = true

		fmt.Fprintf(w, "== %s ==\n", p)
		for i, item := range result[p] {
			fmt.Fprintf(w, "\nVariation %d\n", i+1)
			if item.IsError() {
				fmt.Fprintf(w, "  warning: %s\n", item.ErrorMessage())
				continue
			}
			fmt.Fprintf(w, "  Caption:  %s\n", item.Caption)
			if item.Hashtags != "" {
				fmt.Fprintf(w, "  Hashtags: %s\n", item.Hashtags)
			}
			if item.CTA != "" {
				fmt.Fprintf(w, "  CTA:      %s\n", item.CTA)
			}
		}
		fmt.Fprintln(w)
	}
}

// renderCalendar prints entries as an aligned table.
func renderCalendar(w io.Writer, entries []types.CalendarEntry) {
	fmt.Fprintf(w, "%-10s  %-12s  %s\n", "Date", "Platform", "Caption")
	for _, e := range entries {
		caption := e.Caption
		if len(caption) > 60 {
			caption = caption[:57] + "..."
		}
		fmt.Fprintf(w, "%-10s  %-12s  %s\n", e.Date, e.Platform, caption)
	}
}

// writeCalendar writes entries as CSV to path, or to stdout when path is "-".
func writeCalendar(path string, entries []types.CalendarEntry) error {
	if path == "-" {
		return calendar.WriteCSV(os.Stdout, entries)
	}
	data, err := calendar.ExportCSV(entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing calendar %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Calendar written to %s\n", path)
	return nil
}

// shareCalendar posts entries to a Slack channel.
func shareCalendar(cmd *cobra.Command, channel, topic string, entries []types.CalendarEntry) error {
	n, err := notify.NewSlackNotifier(notifyConfig(channel))
	if err != nil {
		return err
	}
	ts, err := n.PostCalendar(cmd.Context(), topic, entries)
	if err != nil {
		return err
	}
	logger.WithField("ts", ts).Debug("calendar posted to slack")
	fmt.Fprintf(os.Stderr, "Calendar shared to %s\n", channel)
	return nil
}
