// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := Default()

	assert.Equal(t, []string{"Instagram", "LinkedIn", "X/Twitter", "Facebook", "TikTok"}, table.Names())

	tests := []struct {
		platform string
		maxLen   int
		notes    string
	}{
		{"Instagram", 2200, "Focus on visuals, include hashtags"},
		{"LinkedIn", 1300, "Professional, value-first"},
		{"X/Twitter", 280, "Concise, engaging hooks"},
		{"Facebook", 63206, "Conversational, community-focused"},
		{"TikTok", 150, "Short, punchy, CTA-based"},
	}
	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			g, ok := table.Lookup(tt.platform)
			require.True(t, ok)
			assert.Equal(t, tt.maxLen, g.MaxLength)
			assert.Equal(t, tt.notes, g.StyleNotes)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	g, ok := Default().Lookup("Mastodon")
	assert.False(t, ok)
	assert.Zero(t, g)

	_, ok = Default().Lookup("linkedin")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestUnknown(t *testing.T) {
	got := Default().Unknown([]string{"Threads", "LinkedIn", "Mastodon", "Threads"})
	assert.Equal(t, []string{"Mastodon", "Threads"}, got)
	assert.Empty(t, Default().Unknown([]string{"TikTok"}))
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, table *Table)
		errMsg  string
	}{
		{
			name: "overrides built-in and appends new platform",
			content: `platforms:
  - platform: LinkedIn
    max_length: 3000
    style_notes: Thought leadership
  - platform: Threads
    max_length: 500
    style_notes: Casual, conversational
`,
			check: func(t *testing.T, table *Table) {
				g, ok := table.Lookup("LinkedIn")
				require.True(t, ok)
				assert.Equal(t, 3000, g.MaxLength)
				assert.Equal(t, "Thought leadership", g.StyleNotes)

				names := table.Names()
				assert.Equal(t, "LinkedIn", names[1], "override keeps built-in position")
				assert.Equal(t, "Threads", names[len(names)-1])
				assert.Len(t, table.All(), 6)
			},
		},
		{
			name:    "missing platform name",
			content: "platforms:\n  - max_length: 10\n",
			errMsg:  "missing platform name",
		},
		{
			name:    "negative max length",
			content: "platforms:\n  - platform: Bad\n    max_length: -1\n",
			errMsg:  "negative max_length",
		},
		{
			name:    "invalid yaml",
			content: "platforms: [unterminated",
			errMsg:  "parsing platform guidelines",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "platforms.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			table, err := LoadFile(path)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			tt.check(t, table)
		})
	}
}

func TestLoadFileEmptyPath(t *testing.T) {
	table, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default().Names(), table.Names())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading platform guidelines")
}
