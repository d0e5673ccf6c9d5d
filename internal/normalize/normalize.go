// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns a raw free-text dataset query into a corrected
// query string plus search keywords, using a language-model call. Every
// failure path degrades to the raw query; normalization never blocks a
// search from running.
package normalize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/dataset-scout/pkg/types"
)

// queryPromptTmpl is the prompt sent to the text model for each raw query.
// It instructs the model to answer with strict JSON so the response can be
// parsed without free-text scraping.
var queryPromptTmpl = template.Must(template.New("normalize").Parse(`You are a dataset search assistant. Rewrite the user's dataset query and extract search keywords.

Correct any spelling or grammar mistakes in the query, keeping its meaning. Then extract up to five short keywords or phrases that a dataset catalog search would match.

Respond with a JSON object containing "fixed_query" (the corrected query) and "keywords" (an array of strings). Do not include any text outside the JSON object.

Example response:
{"fixed_query": "sentiment analysis movie reviews", "keywords": ["sentiment analysis", "movie reviews"]}

User query:
{{.Query}}
`))

// TextBackend abstracts the text-generation API so tests can supply a mock.
// Complete sends one prompt and returns the model's raw text reply.
type TextBackend interface {
	Available() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

// Normalizer corrects queries through a TextBackend, falling back to the
// raw query whenever the backend is unavailable or misbehaves.
type Normalizer struct {
	backend TextBackend
	logger  *zap.Logger
}

// New returns a Normalizer using the given backend. A nil logger disables
// diagnostics.
func New(backend TextBackend, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{backend: backend, logger: logger}
}

// Normalize produces the QuerySpec for a raw query. It never returns an
// error: when the backend is missing, unavailable, or returns anything
// unusable, the fallback spec echoes the raw query through every field.
func (n *Normalizer) Normalize(ctx context.Context, raw string) types.QuerySpec {
	if n.backend == nil || !n.backend.Available() {
		n.logger.Warn("query normalization skipped",
			zap.String("stage", "normalize"),
			zap.String("cause", "text backend not configured"))
		return types.FallbackQuerySpec(raw)
	}

	prompt, err := renderQueryPrompt(raw)
	if err != nil {
		n.logger.Warn("query normalization failed",
			zap.String("stage", "normalize"),
			zap.Error(err))
		return types.FallbackQuerySpec(raw)
	}

	reply, err := n.backend.Complete(ctx, prompt)
	if err != nil {
		n.logger.Warn("query normalization failed",
			zap.String("stage", "normalize"),
			zap.Error(err))
		return types.FallbackQuerySpec(raw)
	}

	spec, err := parseQueryReply(raw, reply)
	if err != nil {
		n.logger.Warn("query normalization failed",
			zap.String("stage", "normalize"),
			zap.Error(err))
		return types.FallbackQuerySpec(raw)
	}

	n.logger.Info("query normalized",
		zap.String("fixed_query", spec.FixedQuery),
		zap.Strings("keywords", spec.Keywords))
	return spec
}

// queryReply is the JSON shape the prompt demands from the model.
type queryReply struct {
	FixedQuery string   `json:"fixed_query"`
	Keywords   []string `json:"keywords"`
}

// parseQueryReply converts the model's raw reply into a QuerySpec. A reply
// without a usable fixed query is an error (the caller falls back fully); a
// usable fixed query with no keywords degrades to a single-keyword spec.
func parseQueryReply(raw, reply string) (types.QuerySpec, error) {
	var qr queryReply
	if err := json.Unmarshal([]byte(StripCodeFence(reply)), &qr); err != nil {
		return types.QuerySpec{}, fmt.Errorf("parsing normalizer response: %w", err)
	}

	fixed := strings.TrimSpace(qr.FixedQuery)
	if fixed == "" {
		return types.QuerySpec{}, fmt.Errorf("normalizer response missing fixed_query")
	}

	var keywords []string
	for _, kw := range qr.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		keywords = []string{fixed}
	}

	return types.QuerySpec{
		OriginalQuery: raw,
		FixedQuery:    fixed,
		Keywords:      keywords,
	}, nil
}

// StripCodeFence removes a markdown code fence (``` or ```json) wrapped
// around a reply. Models add fences despite JSON-only instructions; the
// content inside is returned unchanged.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		// Single-line fence: ```{...}```
		return strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	// Drop the language tag on the opening fence line.
	s = strings.TrimSpace(s[i+1:])
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// renderQueryPrompt executes the normalization prompt template.
func renderQueryPrompt(raw string) (string, error) {
	var buf bytes.Buffer
	if err := queryPromptTmpl.Execute(&buf, struct{ Query string }{Query: raw}); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
