// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/dataset-scout/pkg/types"
)

// huggingFaceAPIBase is the Hugging Face Hub dataset list endpoint.
// Declared as a var so tests can substitute an httptest server.
var huggingFaceAPIBase = "https://huggingface.co/api/datasets"

// huggingFaceDatasetURL is the canonical dataset page prefix. The
// "datasets/" path segment is mandatory; a link without it is broken.
const huggingFaceDatasetURL = "https://huggingface.co/datasets/"

const huggingFaceDefaultSort = "downloads"

// HuggingFaceCatalog queries the Hugging Face Hub API. Anonymous access is
// allowed, so the catalog is always available; a token only raises rate
// limits and unlocks gated listings.
type HuggingFaceCatalog struct {
	Client *http.Client
	Token  string

	// Sort is the configured list ordering; empty selects "downloads".
	Sort string
}

// Name returns the catalog identifier.
func (c *HuggingFaceCatalog) Name() string { return string(types.SourceHuggingFace) }

// Available always reports true; the Hub accepts anonymous requests.
func (c *HuggingFaceCatalog) Available() bool { return true }

// Search queries the Hub dataset list and maps each entry into a Candidate.
// Results keep the Hub's own ordering (sort field descending).
func (c *HuggingFaceCatalog) Search(ctx context.Context, term string, opts SearchOptions) ([]types.Candidate, error) {
	sortBy := opts.Sort
	if sortBy == "" {
		sortBy = c.Sort
	}
	if sortBy == "" {
		sortBy = huggingFaceDefaultSort
	}
	limit := capLimit(opts.Limit)

	params := url.Values{
		"search":    {term},
		"sort":      {sortBy},
		"direction": {"-1"},
		"limit":     {strconv.Itoa(limit)},
		"full":      {"true"},
	}
	reqURL := huggingFaceAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Hugging Face API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Hugging Face API returned HTTP %d", resp.StatusCode)
	}

	var datasets []huggingFaceDataset
	if err := json.NewDecoder(resp.Body).Decode(&datasets); err != nil {
		return nil, fmt.Errorf("parsing Hugging Face response: %w", err)
	}

	var results []types.Candidate
	for _, d := range datasets {
		if len(results) >= limit {
			break
		}
		results = append(results, mapHuggingFaceDataset(d))
	}
	return results, nil
}

// mapHuggingFaceDataset converts one native Hub entry into the unified
// Candidate shape. Hub entries rarely carry a display name, so the title
// usually falls back to the tail of the "namespace/dataset" id.
func mapHuggingFaceDataset(d huggingFaceDataset) types.Candidate {
	id := NormalizeRef(d.ID)

	title := d.CardData.PrettyName
	if title == "" {
		title = RefTail(id)
	}

	description := d.Description
	if description == "" {
		description = title
	}

	return types.Candidate{
		ID:          id,
		Title:       title,
		Description: description,
		Source:      types.SourceHuggingFace,
		URL:         huggingFaceDatasetURL + id,
		Downloads:   d.Downloads,
	}
}

// Hugging Face Hub API JSON structures. The list endpoint returns a bare
// array of dataset objects.
type huggingFaceDataset struct {
	ID          string              `json:"id"`
	Description string              `json:"description"`
	Downloads   int                 `json:"downloads"`
	Likes       int                 `json:"likes"`
	CardData    huggingFaceCardData `json:"cardData"`
}

type huggingFaceCardData struct {
	PrettyName string `json:"pretty_name"`
}
