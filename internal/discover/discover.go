// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover orchestrates the dataset discovery pipeline: query
// normalization, parallel catalog search, and relevance ranking. Stages
// degrade independently; a run returns whatever the healthy stages could
// contribute, and fails only on caller misuse.
package discover

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/dataset-scout/internal/catalog"
	"github.com/pdiddy/dataset-scout/pkg/types"
)

// QueryNormalizer rewrites a raw user query into a QuerySpec. Implementations
// never fail: when normalization cannot run they return the fallback spec.
type QueryNormalizer interface {
	Normalize(ctx context.Context, raw string) types.QuerySpec
}

// CandidateRanker orders candidates by relevance to a query. The boolean
// reports whether scores were attached; when false the input comes back in
// its original order with no scores.
type CandidateRanker interface {
	Rank(ctx context.Context, query string, candidates []types.Candidate) ([]types.Candidate, bool)
}

// Result is the outcome of one discovery run.
type Result struct {
	Query         types.QuerySpec   `json:"query" yaml:"query"`
	Candidates    []types.Candidate `json:"candidates" yaml:"candidates"`
	CatalogErrors []string          `json:"catalog_errors,omitempty" yaml:"catalog_errors,omitempty"`
	Ranked        bool              `json:"ranked" yaml:"ranked"`
}

// Engine runs discovery against a fixed set of collaborators. Everything is
// injected at construction; the engine holds no state between runs, so a
// single Engine is safe for concurrent use.
type Engine struct {
	normalizer QueryNormalizer
	catalogs   []catalog.Catalog
	ranker     CandidateRanker
	logger     *zap.Logger
	limit      int
}

// NewEngine builds an Engine. normalizer and ranker may be nil, in which case
// the corresponding stage is skipped with a log entry. A nil logger is
// replaced with a no-op logger.
func NewEngine(cfg types.DiscoveryConfig, normalizer QueryNormalizer, catalogs []catalog.Catalog, ranker CandidateRanker, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		normalizer: normalizer,
		catalogs:   catalogs,
		ranker:     ranker,
		logger:     logger,
		limit:      cfg.MaxPerCatalog,
	}
}

// Discover runs the pipeline for rawQuery: normalize the query unless the
// caller opted out, fan out to every available catalog in parallel, merge
// the per-catalog blocks, and rank the merged list. Errors are returned only
// for an empty query or an engine with no catalogs; everything else degrades
// into a partial Result.
func (e *Engine) Discover(ctx context.Context, rawQuery string, applyNormalization bool) (Result, error) {
	rawQuery = strings.TrimSpace(rawQuery)
	if rawQuery == "" {
		return Result{}, fmt.Errorf("query is empty: describe the dataset you are looking for")
	}
	if len(e.catalogs) == 0 {
		return Result{}, fmt.Errorf("no catalogs configured")
	}

	spec := types.FallbackQuerySpec(rawQuery)
	if applyNormalization {
		if e.normalizer != nil {
			spec = e.normalizer.Normalize(ctx, rawQuery)
		} else {
			e.logger.Warn("query normalization skipped",
				zap.String("stage", "normalize"),
				zap.String("cause", "no normalizer configured"))
		}
	}

	candidates, catalogErrors := e.searchAll(ctx, spec.SearchTerm())

	ranked := candidates
	wasRanked := false
	if e.ranker != nil {
		// Relevance is judged against the corrected query, not the
		// keyword search term.
		ranked, wasRanked = e.ranker.Rank(ctx, spec.FixedQuery, candidates)
	} else if len(candidates) > 0 {
		e.logger.Warn("ranking skipped",
			zap.String("stage", "rank"),
			zap.String("cause", "no ranker configured"))
	}

	return Result{
		Query:         spec,
		Candidates:    ranked,
		CatalogErrors: catalogErrors,
		Ranked:        wasRanked,
	}, nil
}

type catalogResult struct {
	name       string
	candidates []types.Candidate
	err        error
}

// searchAll queries every available catalog concurrently. Each catalog
// delivers its candidates as one block, so ordering within a catalog
// survives the merge; only the block order varies between runs.
func (e *Engine) searchAll(ctx context.Context, term string) ([]types.Candidate, []string) {
	opts := catalog.SearchOptions{Limit: e.limit}

	var catalogErrors []string
	ch := make(chan catalogResult, len(e.catalogs))
	var wg sync.WaitGroup
	for _, c := range e.catalogs {
		if !c.Available() {
			e.logger.Warn("catalog skipped",
				zap.String("stage", "catalog_search"),
				zap.String("catalog", c.Name()),
				zap.String("cause", "not configured"))
			catalogErrors = append(catalogErrors, fmt.Sprintf("%s: not configured", c.Name()))
			continue
		}
		wg.Add(1)
		go func(c catalog.Catalog) {
			defer wg.Done()
			found, err := c.Search(ctx, term, opts)
			ch <- catalogResult{name: c.Name(), candidates: found, err: err}
		}(c)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var merged []types.Candidate
	for res := range ch {
		if res.err != nil {
			e.logger.Warn("catalog search failed",
				zap.String("stage", "catalog_search"),
				zap.String("catalog", res.name),
				zap.Error(res.err))
			catalogErrors = append(catalogErrors, fmt.Sprintf("%s: %v", res.name, res.err))
			continue
		}
		e.logger.Info("catalog search completed",
			zap.String("catalog", res.name),
			zap.Int("candidates", len(res.candidates)))
		merged = append(merged, res.candidates...)
	}

	return merged, catalogErrors
}
