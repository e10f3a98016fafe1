// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/social-agent/internal/calendar"
	"github.com/pdiddy/social-agent/internal/drafts"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Build a 7-day content calendar from an archived run",
	Long: `Calendar schedules one post per day for seven days starting today (or
--start), rotating through the run's platforms and their variations. The
calendar is written as CSV with columns date, platform, caption.

Without --run the most recently archived run is used. Save runs with
"generate --save".`,
	RunE: runCalendar,
}

func runCalendar(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetString("run")
	output, _ := cmd.Flags().GetString("output")
	startStr, _ := cmd.Flags().GetString("start")
	slackChannel, _ := cmd.Flags().GetString("slack-channel")

	start := time.Now()
	if startStr != "" {
		t, err := time.ParseInLocation(calendar.DateLayout, startStr, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --start %q: use YYYY-MM-DD", startStr)
		}
		start = t
	}

	store, err := drafts.NewStore(draftsConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if runID == "" {
		if runID, err = store.LatestRunID(ctx); err != nil {
			return fmt.Errorf("no run to schedule (save one with generate --save): %w", err)
		}
	}
	run, err := store.LoadRun(ctx, runID)
	if err != nil {
		return err
	}

	entries := calendar.Build(run.Result, run.Campaign.Platforms, start)
	if output != "-" {
		renderCalendar(os.Stdout, entries)
	}
	if err := writeCalendar(output, entries); err != nil {
		return err
	}

	if slackChannel != "" {
		return shareCalendar(cmd, slackChannel, run.Campaign.Topic, entries)
	}
	return nil
}

func init() {
	calendarCmd.Flags().String("run", "", "archived run ID (default: latest run)")
	calendarCmd.Flags().StringP("output", "o", calendar.DefaultFilename, `CSV output path ("-" for stdout)`)
	calendarCmd.Flags().String("start", "", "first calendar day as YYYY-MM-DD (default: today)")
	calendarCmd.Flags().String("slack-channel", "", "also post the calendar to this Slack channel")

	rootCmd.AddCommand(calendarCmd)
}
