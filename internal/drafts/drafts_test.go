// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package drafts

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/social-agent/pkg/types"
)

var t0 = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.DraftsConfig{DraftsDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleCampaign() types.Campaign {
	return types.Campaign{
		Topic:      "spring launch",
		BrandVoice: "Friendly, startup founders",
		Platforms:  []string{"LinkedIn", "Instagram"},
		Tone:       "Professional",
		Variations: 2,
	}
}

func sampleResult() types.GenerationResult {
	return types.GenerationResult{
		"LinkedIn": {
			{Caption: "We are hiring 50% more engineers", Hashtags: "#jobs,#go", CTA: "Apply today"},
			types.ErrorRecord("Could not generate content - timeout"),
		},
		"Instagram": {
			{Caption: "Sunny launch day", Hashtags: "#launch", CTA: "Visit the shop"},
			{Caption: "Behind the scenes", Hashtags: "#team", CTA: ""},
		},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveRun(ctx, sampleCampaign(), sampleResult(), t0)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	loaded, err := s.LoadRun(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, loaded.ID)
	assert.True(t, t0.Equal(loaded.CreatedAt))
	assert.Equal(t, sampleCampaign(), loaded.Campaign)
	assert.Equal(t, sampleResult(), loaded.Result)
}

func TestLoadRunKeepsEmptyPlatforms(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := types.Campaign{Topic: "t", Platforms: []string{"TikTok"}, Variations: 0}
	saved, err := s.SaveRun(ctx, c, types.GenerationResult{"TikTok": {}}, t0)
	require.NoError(t, err)

	loaded, err := s.LoadRun(ctx, saved.ID)
	require.NoError(t, err)
	require.Contains(t, loaded.Result, "TikTok")
	assert.Empty(t, loaded.Result["TikTok"])
}

func TestLoadRunNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestLatestRunID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.LatestRunID(ctx)
	assert.ErrorIs(t, err, ErrRunNotFound)

	older, err := s.SaveRun(ctx, sampleCampaign(), sampleResult(), t0)
	require.NoError(t, err)
	newer, err := s.SaveRun(ctx, sampleCampaign(), sampleResult(), t0.Add(1500*time.Millisecond))
	require.NoError(t, err)
	require.NotEqual(t, older.ID, newer.ID)

	id, err := s.LatestRunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, id)
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.SaveRun(ctx, sampleCampaign(), sampleResult(), t0)
	require.NoError(t, err)
	c := sampleCampaign()
	c.Topic = "summer sale"
	second, err := s.SaveRun(ctx, c, types.GenerationResult{"LinkedIn": {{Caption: "x"}}}, t0.Add(time.Hour))
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, "summer sale", runs[0].Topic)
	assert.Equal(t, 1, runs[0].Posts)
	assert.Equal(t, 0, runs[0].Failed)
	assert.Equal(t, first.ID, runs[1].ID)
	assert.Equal(t, 4, runs[1].Posts)
	assert.Equal(t, 1, runs[1].Failed)

	limited, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRetrieveFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.SaveRun(ctx, sampleCampaign(), sampleResult(), t0)
	require.NoError(t, err)

	tests := []struct {
		name     string
		opts     QueryOptions
		captions []string
	}{
		{"all successful in platform order", QueryOptions{}, []string{"We are hiring 50% more engineers", "Sunny launch day", "Behind the scenes"}},
		{"include failed", QueryOptions{IncludeFailed: true}, []string{"We are hiring 50% more engineers", "(error) Could not generate content - timeout", "Sunny launch day", "Behind the scenes"}},
		{"platform", QueryOptions{Platform: "Instagram"}, []string{"Sunny launch day", "Behind the scenes"}},
		{"query matches hashtags case-insensitively", QueryOptions{Query: "#LAUNCH"}, []string{"Sunny launch day"}},
		{"query matches cta", QueryOptions{Query: "apply"}, []string{"We are hiring 50% more engineers"}},
		{"percent is literal", QueryOptions{Query: "50%"}, []string{"We are hiring 50% more engineers"}},
		{"underscore is literal", QueryOptions{Query: "_"}, nil},
		{"run id", QueryOptions{RunID: run.ID, Platform: "LinkedIn"}, []string{"We are hiring 50% more engineers"}},
		{"other run id", QueryOptions{RunID: "nope"}, nil},
		{"max results", QueryOptions{MaxResults: 1}, []string{"We are hiring 50% more engineers"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.Retrieve(ctx, tt.opts)
			require.NoError(t, err)
			var captions []string
			for _, r := range results {
				captions = append(captions, r.Caption)
				assert.Equal(t, run.ID, r.RunID)
				assert.Equal(t, "spring launch", r.Topic)
			}
			assert.Equal(t, tt.captions, captions)
		})
	}
}

func TestRetrieveVariationAndFailedFlag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.SaveRun(ctx, sampleCampaign(), sampleResult(), t0)
	require.NoError(t, err)

	results, err := s.Retrieve(ctx, QueryOptions{Platform: "LinkedIn", IncludeFailed: true})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Variation)
	assert.False(t, results[0].Failed)
	assert.Equal(t, 2, results[1].Variation)
	assert.True(t, results[1].Failed)
}

func TestDeleteRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	run, err := s.SaveRun(ctx, sampleCampaign(), sampleResult(), t0)
	require.NoError(t, err)

	require.NoError(t, s.DeleteRun(ctx, run.ID))
	_, err = s.LoadRun(ctx, run.ID)
	assert.ErrorIs(t, err, ErrRunNotFound)

	results, err := s.Retrieve(ctx, QueryOptions{IncludeFailed: true})
	require.NoError(t, err)
	assert.Empty(t, results)

	assert.ErrorIs(t, s.DeleteRun(ctx, run.ID), ErrRunNotFound)
}

func TestExportJSON(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.SaveRun(ctx, sampleCampaign(), sampleResult(), t0)
	require.NoError(t, err)

	path, err := s.ExportJSON(ctx, QueryOptions{Platform: "Instagram"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Sunny launch day", entries[0]["caption"])
	assert.Equal(t, "Instagram", entries[0]["platform"])
	assert.Equal(t, float64(1), entries[0]["variation"])
}

func TestExportYAML(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.SaveRun(ctx, sampleCampaign(), sampleResult(), t0)
	require.NoError(t, err)

	path, err := s.ExportYAML(ctx, QueryOptions{IncludeFailed: true})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &entries))
	require.Len(t, entries, 4)
	assert.Equal(t, "LinkedIn", entries[0]["platform"])
	assert.Equal(t, "#jobs,#go", entries[0]["hashtags"])
	assert.Equal(t, true, entries[1]["failed"])
}

func TestExportEmptyArchive(t *testing.T) {
	s := newTestStore(t)
	path, err := s.ExportJSON(context.Background(), QueryOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
