// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed provides the embedding client behind the relevance ranker.
// The Voyage API distinguishes query-intent from document-intent inputs;
// both calls return one vector per input, preserving input order.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// voyageAPIURL is the Voyage embeddings endpoint. Package-level var for
// test substitution.
var voyageAPIURL = "https://api.voyageai.com/v1/embeddings"

const (
	inputTypeQuery    = "query"
	inputTypeDocument = "document"
)

// VoyageClient calls the Voyage AI embeddings API.
type VoyageClient struct {
	APIKey string
	Model  string
	Client *http.Client
}

// Available reports whether an API key is configured.
func (v *VoyageClient) Available() bool { return v.APIKey != "" }

// voyageRequest is the request body for the Voyage embeddings API.
type voyageRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	InputType  string   `json:"input_type,omitempty"`
	Truncation bool     `json:"truncation"`
}

// voyageResponse is the response body from the Voyage embeddings API.
type voyageResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Model      string      `json:"model"`
}

// EmbedQuery embeds a single search query in query-intent mode.
func (v *VoyageClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := v.embed(ctx, []string{text}, inputTypeQuery)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedDocuments embeds a batch of candidate documents in document-intent
// mode. The returned slice has one vector per input in input order.
func (v *VoyageClient) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return v.embed(ctx, texts, inputTypeDocument)
}

func (v *VoyageClient) embed(ctx context.Context, texts []string, inputType string) ([][]float32, error) {
	if !v.Available() {
		return nil, fmt.Errorf("voyage API key not configured")
	}

	reqBody := voyageRequest{
		Input:      texts,
		Model:      v.Model,
		InputType:  inputType,
		Truncation: true,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, voyageAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.APIKey)

	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Voyage API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Voyage API returned %d: %s", resp.StatusCode, string(body))
	}

	var vResp voyageResponse
	if err := json.NewDecoder(resp.Body).Decode(&vResp); err != nil {
		return nil, fmt.Errorf("decoding Voyage response: %w", err)
	}

	// A count mismatch would silently misalign scores with candidates.
	if len(vResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("Voyage API returned %d embeddings for %d inputs", len(vResp.Embeddings), len(texts))
	}

	return vResp.Embeddings, nil
}
