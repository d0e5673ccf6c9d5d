// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores merged candidates against the corrected query by
// embedding cosine similarity and sorts them descending. Any embedding
// failure degrades to the unranked input; scoring is all-or-none, never
// partial.
package rank

import (
	"context"
	"math"
	"sort"

	"github.com/viterin/vek/vek32"
	"go.uber.org/zap"

	"github.com/pdiddy/dataset-scout/pkg/types"
)

// maxDescriptionChars bounds the description text sent for embedding.
const maxDescriptionChars = 500

// Embedder produces embedding vectors for queries and candidate documents.
// Implementations distinguish query-intent from document-intent inputs and
// preserve input order in batch calls.
type Embedder interface {
	Available() bool
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Ranker attaches similarity scores to candidates via an Embedder.
type Ranker struct {
	embedder Embedder
	logger   *zap.Logger
}

// New returns a Ranker using the given embedder. A nil logger disables
// diagnostics.
func New(embedder Embedder, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{embedder: embedder, logger: logger}
}

// Rank returns the candidates scored against the query and sorted
// descending by score; the bool reports whether scoring was applied. On any
// failure the caller's slice comes back unchanged: same order, no scores.
func (r *Ranker) Rank(ctx context.Context, query string, candidates []types.Candidate) ([]types.Candidate, bool) {
	if len(candidates) == 0 {
		return candidates, false
	}
	if r.embedder == nil || !r.embedder.Available() {
		r.logger.Warn("ranking skipped",
			zap.String("stage", "rank"),
			zap.String("cause", "embedding backend not configured"))
		return candidates, false
	}

	queryVec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		r.logger.Warn("ranking failed",
			zap.String("stage", "rank"),
			zap.Error(err))
		return candidates, false
	}

	docs := make([]string, len(candidates))
	for i, c := range candidates {
		docs[i] = embeddingInput(c)
	}

	docVecs, err := r.embedder.EmbedDocuments(ctx, docs)
	if err != nil {
		r.logger.Warn("ranking failed",
			zap.String("stage", "rank"),
			zap.Error(err))
		return candidates, false
	}
	if len(docVecs) != len(candidates) {
		r.logger.Warn("ranking failed",
			zap.String("stage", "rank"),
			zap.Int("candidates", len(candidates)),
			zap.Int("embeddings", len(docVecs)))
		return candidates, false
	}

	// Scores attach to a copy so every fallback path above hands back the
	// caller's slice untouched.
	ranked := make([]types.Candidate, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		score := cosineSimilarity(queryVec, docVecs[i])
		ranked[i].Score = &score
	}

	// Stable sort: equal scores keep catalog concatenation order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Score > *ranked[j].Score
	})

	r.logger.Info("candidates ranked",
		zap.Int("count", len(ranked)),
		zap.Float64("top_score", *ranked[0].Score))
	return ranked, true
}

// embeddingInput builds the document text embedded for one candidate:
// "{title}: {description}" with the description cut at maxDescriptionChars.
func embeddingInput(c types.Candidate) string {
	desc := c.Description
	if len(desc) > maxDescriptionChars {
		desc = desc[:maxDescriptionChars]
	}
	return c.Title + ": " + desc
}

// cosineSimilarity returns dot(a,b) / (|a|·|b|). A zero-norm or mismatched
// vector yields 0 rather than dividing by zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	normA := math.Sqrt(float64(vek32.Dot(a, a)))
	normB := math.Sqrt(float64(vek32.Dot(b, b)))
	if normA == 0 || normB == 0 {
		return 0
	}
	return float64(vek32.Dot(a, b)) / (normA * normB)
}
