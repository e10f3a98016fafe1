// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package calendar turns a generation result into a seven-day posting
// schedule and exports it as CSV.
package calendar

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/social-agent/pkg/types"
)

const (
	// Days is the length of a calendar.
	Days = 7

	// DefaultPlatform fills the schedule when no platforms were requested.
	DefaultPlatform = "Instagram"

	// DateLayout is the calendar date format.
	DateLayout = "2006-01-02"

	// DefaultFilename is the suggested export file name.
	DefaultFilename = "content_calendar.csv"
)

var csvHeader = []string{"date", "platform", "caption"}

// Build assigns one post per day for Days days starting at today. Platforms
// rotate in the given order and each platform's variations rotate by day
// index. A platform with no records (or missing from results) gets an
// empty caption. Build has no side effects.
func Build(results types.GenerationResult, platforms []string, today time.Time) []types.CalendarEntry {
	if len(platforms) == 0 {
		platforms = []string{DefaultPlatform}
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	entries := make([]types.CalendarEntry, 0, Days)
	for i := range Days {
		platform := platforms[i%len(platforms)]
		var caption string
		if items := results[platform]; len(items) > 0 {
			caption = items[i%len(items)].Caption
		}
		entries = append(entries, types.CalendarEntry{
			Date:     start.AddDate(0, 0, i).Format(DateLayout),
			Platform: platform,
			Caption:  caption,
		})
	}
	return entries
}

// WriteCSV writes entries to w with a date,platform,caption header.
// Fields containing commas, quotes or newlines are quoted.
func WriteCSV(w io.Writer, entries []types.CalendarEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Date, e.Platform, e.Caption}); err != nil {
			return fmt.Errorf("writing csv row %s: %w", e.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV renders entries as CSV bytes.
func ExportCSV(entries []types.CalendarEntry) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadCSV parses a calendar previously written by WriteCSV.
func ReadCSV(r io.Reader) ([]types.CalendarEntry, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading calendar csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading calendar csv: missing header")
	}
	header := records[0]
	if len(header) != len(csvHeader) || header[0] != csvHeader[0] || header[1] != csvHeader[1] || header[2] != csvHeader[2] {
		return nil, fmt.Errorf("reading calendar csv: unexpected header %v", header)
	}

	entries := make([]types.CalendarEntry, 0, len(records)-1)
	for _, rec := range records[1:] {
		entries = append(entries, types.CalendarEntry{Date: rec[0], Platform: rec[1], Caption: rec[2]})
	}
	return entries, nil
}
