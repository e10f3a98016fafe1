// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package platform holds the static platform guideline table consulted by
// the prompt builder. The built-in table can be extended or overridden from
// a YAML file at startup; after that the table is read-only.
package platform

import (
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/social-agent/pkg/types"
)

// builtin is the default guideline table.
var builtin = []types.PlatformGuideline{
	{Platform: "Instagram", MaxLength: 2200, StyleNotes: "Focus on visuals, include hashtags"},
	{Platform: "LinkedIn", MaxLength: 1300, StyleNotes: "Professional, value-first"},
	{Platform: "X/Twitter", MaxLength: 280, StyleNotes: "Concise, engaging hooks"},
	{Platform: "Facebook", MaxLength: 63206, StyleNotes: "Conversational, community-focused"},
	{Platform: "TikTok", MaxLength: 150, StyleNotes: "Short, punchy, CTA-based"},
}

// Table is an immutable lookup from platform name to guideline.
type Table struct {
	byName map[string]types.PlatformGuideline
	order  []string
}

// Default returns the built-in guideline table.
func Default() *Table {
	return newTable(builtin)
}

func newTable(guidelines []types.PlatformGuideline) *Table {
	t := &Table{byName: make(map[string]types.PlatformGuideline, len(guidelines))}
	for _, g := range guidelines {
		if _, ok := t.byName[g.Platform]; !ok {
			t.order = append(t.order, g.Platform)
		}
		t.byName[g.Platform] = g
	}
	return t
}

// Lookup returns the guideline for platform. Names are matched exactly.
func (t *Table) Lookup(platform string) (types.PlatformGuideline, bool) {
	g, ok := t.byName[platform]
	return g, ok
}

// Names returns platform names in table order: built-ins first, then
// platforms added by overrides.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// All returns every guideline in table order.
func (t *Table) All() []types.PlatformGuideline {
	out := make([]types.PlatformGuideline, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	return out
}

// overrideFile is the YAML shape of a guideline override file.
type overrideFile struct {
	Platforms []types.PlatformGuideline `yaml:"platforms"`
}

// LoadFile returns the built-in table merged with the guidelines in a YAML
// file. Entries with an existing platform name replace the built-in entry;
// new names are appended. An empty path returns the built-in table.
func LoadFile(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading platform guidelines: %w", err)
	}
	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing platform guidelines %s: %w", path, err)
	}

	merged := make([]types.PlatformGuideline, 0, len(builtin)+len(f.Platforms))
	merged = append(merged, builtin...)
	for i, g := range f.Platforms {
		if g.Platform == "" {
			return nil, fmt.Errorf("platform guideline %d in %s: missing platform name", i, path)
		}
		if g.MaxLength < 0 {
			return nil, fmt.Errorf("platform %q: negative max_length %d", g.Platform, g.MaxLength)
		}
		merged = append(merged, g)
	}
	return newTable(merged), nil
}

// Unknown returns the given platforms that are missing from the table,
// deduplicated and sorted. Unknown platforms are still generated for; the
// CLI only prints a notice.
func (t *Table) Unknown(platforms []string) []string {
	seen := make(map[string]bool)
	var unknown []string
	for _, p := range platforms {
		if _, ok := t.byName[p]; ok || seen[p] {
			continue
		}
		seen[p] = true
		unknown = append(unknown, p)
	}
	sort.Strings(unknown)
	return unknown
}
