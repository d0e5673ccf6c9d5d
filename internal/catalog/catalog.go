// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog queries external dataset catalogs and maps their native
// result shapes into unified candidates.
package catalog

import (
	"context"
	"errors"

	"github.com/pdiddy/dataset-scout/pkg/types"
)

// Catalog searches a single external dataset catalog. Each catalog (Kaggle,
// Hugging Face) implements this interface per the Strategy pattern.
type Catalog interface {
	// Name returns the catalog identifier used in logs and error messages.
	Name() string

	// Available reports whether the catalog can be called at all (required
	// credentials present). Unavailable catalogs are skipped, not called.
	Available() bool

	// Search issues one catalog query and returns candidates in the
	// catalog's own sort order. Failures are returned as errors for the
	// orchestrator to degrade on.
	Search(ctx context.Context, term string, opts SearchOptions) ([]types.Candidate, error)
}

// SearchOptions carries per-call search parameters. Zero values select each
// catalog's own defaults.
type SearchOptions struct {
	// Sort overrides the catalog's configured result ordering.
	Sort string

	// Limit caps the number of candidates returned. Values outside
	// (0, MaxResultsPerCatalog] are clamped to MaxResultsPerCatalog.
	Limit int
}

// MaxResultsPerCatalog bounds how many candidates one catalog may
// contribute. The cap bounds the ranking stage's embedding batch and keeps
// end-to-end latency predictable.
const MaxResultsPerCatalog = 15

// ErrNotConfigured reports that a catalog is missing required credentials.
// The orchestrator skips unconfigured catalogs instead of calling them.
var ErrNotConfigured = errors.New("catalog not configured")

// capLimit resolves the effective result limit for an adapter call.
func capLimit(n int) int {
	if n <= 0 || n > MaxResultsPerCatalog {
		return MaxResultsPerCatalog
	}
	return n
}
