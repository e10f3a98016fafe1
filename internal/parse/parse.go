// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse recovers a PostRecord from the free-form text a model
// returns. It first looks for a JSON object and falls back to line
// heuristics; it never fails.
package parse

import (
	"encoding/json"
	"strings"

	"github.com/pdiddy/social-agent/pkg/types"
)

// ctaCues are the lower-case substrings that mark a call-to-action line.
var ctaCues = []string{"cta", "call to action", "visit", "check", "register"}

// Response converts raw model output into a PostRecord. The result always
// carries three fields, whatever the input.
func Response(raw string) types.PostRecord {
	if rec, ok := fromJSON(raw); ok {
		return rec
	}
	return fromLines(raw)
}

// fromJSON decodes the text between the first '{' and the last '}'.
// Fields that are present must be strings; anything else rejects the block.
func fromJSON(raw string) (types.PostRecord, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return types.PostRecord{}, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &obj); err != nil {
		return types.PostRecord{}, false
	}

	var rec types.PostRecord
	for key, dst := range map[string]*string{
		"caption":  &rec.Caption,
		"hashtags": &rec.Hashtags,
		"cta":      &rec.CTA,
	} {
		v, ok := obj[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return types.PostRecord{}, false
		}
		*dst = strings.TrimSpace(s)
	}
	return rec, true
}

// fromLines treats raw as unstructured text: the first non-blank line is
// the caption, hashtag lines and CTA lines are collected separately.
func fromLines(raw string) types.PostRecord {
	lines := nonBlankLines(raw)

	var rec types.PostRecord
	if len(lines) > 0 {
		rec.Caption = lines[0]
	}

	var hashtags, cta []string
	for _, l := range lines {
		lower := strings.ToLower(l)
		if strings.Contains(l, "#") || strings.Contains(lower, "hashtag") {
			hashtags = append(hashtags, l)
		}
		if hasCTACue(lower) {
			cta = append(cta, l)
		}
	}
	rec.Hashtags = strings.Join(hashtags, " ")
	rec.CTA = strings.Join(cta, " ")
	return rec
}

func hasCTACue(lower string) bool {
	for _, cue := range ctaCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// nonBlankLines splits on any line boundary and returns trimmed,
// non-empty lines.
func nonBlankLines(s string) []string {
	fields := strings.FieldsFunc(s, isLineBreak)
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
