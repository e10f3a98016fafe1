// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the social-agent pipeline:
// platform guidelines, generation requests, post records, generation results,
// calendar entries, and the saved runs kept by the drafts archive.
package types

import (
	"strings"
	"time"
)

// ErrorPrefix marks a PostRecord whose generation failed. The remainder of
// the caption carries the failure message.
const ErrorPrefix = "(error) "

// errorMarker is ErrorPrefix without the trailing space; detection tolerates
// captions that were trimmed by the parser.
const errorMarker = "(error)"

// PlatformGuideline holds the static per-platform constraints used to steer
// prompt content.
type PlatformGuideline struct {
	// Platform is the platform name as shown to users (e.g. "LinkedIn").
	Platform string `json:"platform" yaml:"platform"`

	// MaxLength is the maximum caption length in characters.
	MaxLength int `json:"max_length" yaml:"max_length"`

	// StyleNotes are short stylistic hints passed to the model.
	StyleNotes string `json:"style_notes" yaml:"style_notes"`
}

// GenerationRequest describes one variation to generate for one platform.
type GenerationRequest struct {
	Topic      string `json:"topic" yaml:"topic"`
	BrandVoice string `json:"brand_voice" yaml:"brand_voice"`
	Platform   string `json:"platform" yaml:"platform"`
	Tone       string `json:"tone" yaml:"tone"`

	// Variation is the 1-based variation index embedded in the prompt.
	Variation int `json:"variation" yaml:"variation"`
}

// PostRecord is one generated post draft. Hashtags is a comma-separated
// list and may be empty, as may CTA.
type PostRecord struct {
	Caption  string `json:"caption" yaml:"caption"`
	Hashtags string `json:"hashtags" yaml:"hashtags"`
	CTA      string `json:"cta" yaml:"cta"`
}

// ErrorRecord returns a sentinel record whose caption carries msg behind
// ErrorPrefix.
func ErrorRecord(msg string) PostRecord {
	return PostRecord{Caption: ErrorPrefix + msg}
}

// IsError reports whether the record is an error sentinel.
func (p PostRecord) IsError() bool {
	return strings.HasPrefix(p.Caption, errorMarker)
}

// ErrorMessage returns the failure message of a sentinel record, or "" for
// a regular record.
func (p PostRecord) ErrorMessage() string {
	if !p.IsError() {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(p.Caption, errorMarker))
}

// GenerationResult maps each requested platform to its records, ordered by
// variation index ascending.
type GenerationResult map[string][]PostRecord

// Failures counts sentinel records across all platforms.
func (r GenerationResult) Failures() int {
	n := 0
	for _, items := range r {
		for _, item := range items {
			if item.IsError() {
				n++
			}
		}
	}
	return n
}

// CalendarEntry is one day of the content calendar.
type CalendarEntry struct {
	// Date is the calendar day in YYYY-MM-DD format.
	Date     string `json:"date" yaml:"date"`
	Platform string `json:"platform" yaml:"platform"`
	Caption  string `json:"caption" yaml:"caption"`
}

// Campaign bundles the inputs of one generation batch.
type Campaign struct {
	// Topic is the campaign subject. Callers reject empty topics.
	Topic string `json:"topic" yaml:"topic"`

	// BrandVoice optionally describes the brand voice and audience.
	BrandVoice string `json:"brand_voice" yaml:"brand_voice"`

	// Platforms lists target platforms in order. Duplicates are not removed.
	Platforms []string `json:"platforms" yaml:"platforms"`

	// Tone is a free-form tone label (e.g. "Professional").
	Tone string `json:"tone" yaml:"tone"`

	// Variations is the number of variations per platform.
	Variations int `json:"variations" yaml:"variations"`
}

// Request builds the GenerationRequest for one platform and variation.
func (c Campaign) Request(platform string, variation int) GenerationRequest {
	return GenerationRequest{
		Topic:      c.Topic,
		BrandVoice: c.BrandVoice,
		Platform:   platform,
		Tone:       c.Tone,
		Variation:  variation,
	}
}

// Run is a generation batch saved in the drafts archive.
type Run struct {
	ID        string           `json:"id" yaml:"id"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
	Campaign  Campaign         `json:"campaign" yaml:"campaign"`
	Result    GenerationResult `json:"result" yaml:"result"`
}
