// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/dataset-scout/pkg/types"
)

// kaggleAPIBase is the Kaggle dataset list endpoint. Declared as a var so
// tests can substitute an httptest server.
var kaggleAPIBase = "https://www.kaggle.com/api/v1/datasets/list"

// kaggleDatasetURL is the canonical dataset page prefix. The "datasets/"
// path segment is mandatory; a link without it is broken.
const kaggleDatasetURL = "https://www.kaggle.com/datasets/"

const kaggleDefaultSort = "votes"

// KaggleCatalog queries the Kaggle datasets API. Kaggle requires basic auth
// on every call, so the catalog is unavailable until both credentials are
// configured.
type KaggleCatalog struct {
	Client   *http.Client
	Username string
	Key      string

	// SortBy is the configured list ordering; empty selects "votes".
	SortBy string
}

// Name returns the catalog identifier.
func (c *KaggleCatalog) Name() string { return string(types.SourceKaggle) }

// Available reports whether both Kaggle credentials are configured.
func (c *KaggleCatalog) Available() bool { return c.Username != "" && c.Key != "" }

// Search queries the Kaggle dataset list and maps each entry into a
// Candidate. Results keep Kaggle's own ordering.
func (c *KaggleCatalog) Search(ctx context.Context, term string, opts SearchOptions) ([]types.Candidate, error) {
	if !c.Available() {
		return nil, fmt.Errorf("kaggle: %w", ErrNotConfigured)
	}

	sortBy := opts.Sort
	if sortBy == "" {
		sortBy = c.SortBy
	}
	if sortBy == "" {
		sortBy = kaggleDefaultSort
	}
	limit := capLimit(opts.Limit)

	params := url.Values{
		"search": {term},
		"sortBy": {sortBy},
		"page":   {"1"},
	}
	reqURL := kaggleAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.Username, c.Key)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Kaggle API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Kaggle API returned HTTP %d", resp.StatusCode)
	}

	var datasets []kaggleDataset
	if err := json.NewDecoder(resp.Body).Decode(&datasets); err != nil {
		return nil, fmt.Errorf("parsing Kaggle response: %w", err)
	}

	var results []types.Candidate
	for _, d := range datasets {
		if len(results) >= limit {
			break
		}
		results = append(results, mapKaggleDataset(d))
	}
	return results, nil
}

// mapKaggleDataset converts one native Kaggle entry into the unified
// Candidate shape, applying the title and description fallback rules.
func mapKaggleDataset(d kaggleDataset) types.Candidate {
	ref := NormalizeRef(d.Ref)

	title := d.Title
	if title == "" {
		title = RefTail(ref)
	}

	description := d.Subtitle
	if description == "" {
		description = title
	}

	return types.Candidate{
		ID:          ref,
		Title:       title,
		Description: description,
		Source:      types.SourceKaggle,
		URL:         kaggleDatasetURL + ref,
		Downloads:   d.DownloadCount,
	}
}

// Kaggle API JSON structures. The list endpoint returns a bare array of
// dataset objects.
type kaggleDataset struct {
	Ref           string `json:"ref"`
	Title         string `json:"title"`
	Subtitle      string `json:"subtitle"`
	DownloadCount int    `json:"downloadCount"`
	VoteCount     int    `json:"voteCount"`
}
