// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt renders the instruction sent to the text-generation
// provider for one platform variation.
package prompt

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"github.com/pdiddy/social-agent/internal/platform"
	"github.com/pdiddy/social-agent/pkg/types"
)

// fallbackMaxLength is the caption limit requested for platforms missing
// from the guideline table.
const fallbackMaxLength = 200

// postPromptTmpl asks for one caption, hashtags and a CTA as strict JSON.
// The variation index makes repeated prompts for the same platform differ;
// output diversity comes from the provider's sampling temperature.
var postPromptTmpl = template.Must(template.New("post").Parse(`You are a professional social media copywriter.

Topic: {{.Topic}}
Brand Voice: {{.BrandVoice}}
Platform: {{.Platform}} (Notes: {{.Notes}}, Max length: {{.MaxLengthLabel}})
Tone: {{.Tone}}

Task:
- Generate ONE caption optimized for the platform
- Add suggested hashtags (comma-separated)
- Add one CTA sentence (if applicable)
- Keep caption under {{.Limit}} characters

Output in STRICT JSON format (only JSON):
{
  "caption": "",
  "hashtags": "",
  "cta": ""
}

Variation: {{.Variation}}
`))

// promptData is the template input.
type promptData struct {
	types.GenerationRequest
	Notes          string
	MaxLengthLabel string
	Limit          int
}

// Builder renders prompts against a guideline table.
type Builder struct {
	guidelines *platform.Table
}

// NewBuilder returns a Builder that consults table. A nil table uses the
// built-in guidelines.
func NewBuilder(table *platform.Table) *Builder {
	if table == nil {
		table = platform.Default()
	}
	return &Builder{guidelines: table}
}

// Build renders the prompt for req. Unknown platforms get an empty
// guideline: no notes, "N/A" as the displayed max length and a
// 200-character limit.
func (b *Builder) Build(req types.GenerationRequest) string {
	data := promptData{
		GenerationRequest: req,
		MaxLengthLabel:    "N/A",
		Limit:             fallbackMaxLength,
	}
	if g, ok := b.guidelines.Lookup(req.Platform); ok {
		data.Notes = g.StyleNotes
		data.MaxLengthLabel = strconv.Itoa(g.MaxLength)
		data.Limit = g.MaxLength
	}

	var buf bytes.Buffer
	// The template only references fields of promptData, so Execute
	// cannot fail on a well-formed value.
	if err := postPromptTmpl.Execute(&buf, data); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}
