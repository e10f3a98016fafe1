// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate fans a campaign out into one generation request per
// platform and variation, runs them on a bounded worker pool, and assembles
// the parsed posts into a GenerationResult.
package generate

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/social-agent/internal/llm"
	"github.com/pdiddy/social-agent/internal/parse"
	"github.com/pdiddy/social-agent/internal/prompt"
	"github.com/pdiddy/social-agent/pkg/types"
)

// DefaultConcurrency is the number of requests in flight when none is
// configured.
const DefaultConcurrency = 4

// TextGenerator abstracts the generation client so tests can supply a fake.
// Implementations return generated text or an error; the orchestrator turns
// errors into sentinel records.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

var _ TextGenerator = (*llm.Client)(nil)

// Options configures a Generator.
type Options struct {
	// Concurrency bounds in-flight requests (default 4). 1 runs requests
	// strictly in platform then variation order.
	Concurrency int

	// MaxTokens is passed to every request; <= 0 uses the client default.
	MaxTokens int

	Logger logrus.FieldLogger
}

// Generator produces post drafts for a campaign.
type Generator struct {
	client      TextGenerator
	prompts     *prompt.Builder
	concurrency int
	maxTokens   int
	logger      logrus.FieldLogger
}

// NewGenerator returns a Generator that renders prompts with prompts and
// sends them through client. A nil builder uses the built-in guidelines.
func NewGenerator(client TextGenerator, prompts *prompt.Builder, opts Options) *Generator {
	if prompts == nil {
		prompts = prompt.NewBuilder(nil)
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Generator{
		client:      client,
		prompts:     prompts,
		concurrency: concurrency,
		maxTokens:   opts.MaxTokens,
		logger:      logger,
	}
}

// outcome is the result of one slot: a parsed record or the failure that
// prevented one. Exactly one of the fields is meaningful.
type outcome struct {
	record types.PostRecord
	err    error
}

func (o outcome) flatten() types.PostRecord {
	if o.err != nil {
		return types.ErrorRecord(o.err.Error())
	}
	return o.record
}

// GenerateSocialPosts generates campaign.Variations posts for every
// platform in campaign.Platforms. The result has one key per distinct
// platform, each holding exactly Variations records in variation order;
// failed slots hold sentinel records. When a platform is listed twice the
// later occurrence's records are kept.
//
// Requests run concurrently up to the configured limit. Result structure
// does not depend on completion order.
func (g *Generator) GenerateSocialPosts(ctx context.Context, campaign types.Campaign) types.GenerationResult {
	variations := max(campaign.Variations, 0)

	slots := make([][]outcome, len(campaign.Platforms))
	for i := range slots {
		slots[i] = make([]outcome, variations)
	}

	eg := new(errgroup.Group)
	eg.SetLimit(g.concurrency)

	for pi, platform := range campaign.Platforms {
		for v := 1; v <= variations; v++ {
			req := campaign.Request(platform, v)
			eg.Go(func() error {
				slots[pi][v-1] = g.generateOne(ctx, req)
				return nil
			})
		}
	}
	// Workers never return errors; failures live in their slots.
	_ = eg.Wait()

	result := make(types.GenerationResult, len(campaign.Platforms))
	for pi, platform := range campaign.Platforms {
		items := make([]types.PostRecord, variations)
		for v, o := range slots[pi] {
			items[v] = o.flatten()
		}
		result[platform] = items
	}

	if n := result.Failures(); n > 0 {
		g.logger.WithFields(logrus.Fields{
			"topic":    campaign.Topic,
			"failures": n,
		}).Warn("some posts could not be generated")
	}
	return result
}

// generateOne renders, generates and parses a single variation.
func (g *Generator) generateOne(ctx context.Context, req types.GenerationRequest) (o outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = outcome{err: fmt.Errorf("generation panicked: %v", r)}
		}
	}()

	text, err := g.client.Generate(ctx, g.prompts.Build(req), g.maxTokens)
	if err != nil {
		g.logger.WithFields(logrus.Fields{
			"platform":  req.Platform,
			"variation": req.Variation,
		}).Debug(err.Error())
		return outcome{err: err}
	}

	record := parse.Response(text)
	g.logger.WithFields(logrus.Fields{
		"platform":  req.Platform,
		"variation": req.Variation,
	}).Debug("post generated")
	return outcome{record: record}
}
