// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/dataset-scout/pkg/types"
)

// --- Request construction (URL params, auth) ---

func TestHuggingFaceSearchRequestParams(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	old := huggingFaceAPIBase
	huggingFaceAPIBase = ts.URL
	defer func() { huggingFaceAPIBase = old }()

	c := &HuggingFaceCatalog{Client: ts.Client()}
	_, err := c.Search(context.Background(), "sentiment analysis", SearchOptions{Limit: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := capturedReq.URL.Query()
	if got := q.Get("search"); got != "sentiment analysis" {
		t.Errorf("search param = %q, want %q", got, "sentiment analysis")
	}
	if got := q.Get("sort"); got != "downloads" {
		t.Errorf("sort param = %q, want default %q", got, "downloads")
	}
	if got := q.Get("direction"); got != "-1" {
		t.Errorf("direction param = %q, want %q", got, "-1")
	}
	if got := q.Get("limit"); got != "10" {
		t.Errorf("limit param = %q, want %q", got, "10")
	}
	if got := q.Get("full"); got != "true" {
		t.Errorf("full param = %q, want %q", got, "true")
	}
}

func TestHuggingFaceSearchLimitClamped(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	old := huggingFaceAPIBase
	huggingFaceAPIBase = ts.URL
	defer func() { huggingFaceAPIBase = old }()

	c := &HuggingFaceCatalog{Client: ts.Client()}
	if _, err := c.Search(context.Background(), "test", SearchOptions{Limit: 100}); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if got := capturedReq.URL.Query().Get("limit"); got != "15" {
		t.Errorf("limit param = %q, want clamped %q", got, "15")
	}
}

func TestHuggingFaceSearchTokenHeader(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		wantValue string
	}{
		{"with token", "hf_abc123", "Bearer hf_abc123"},
		{"anonymous", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedReq *http.Request
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedReq = r
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `[]`)
			}))
			defer ts.Close()

			old := huggingFaceAPIBase
			huggingFaceAPIBase = ts.URL
			defer func() { huggingFaceAPIBase = old }()

			c := &HuggingFaceCatalog{Client: ts.Client(), Token: tt.token}
			if _, err := c.Search(context.Background(), "test", SearchOptions{}); err != nil {
				t.Fatalf("Search: %v", err)
			}

			if got := capturedReq.Header.Get("Authorization"); got != tt.wantValue {
				t.Errorf("Authorization header = %q, want %q", got, tt.wantValue)
			}
		})
	}
}

// --- Candidate mapping ---

func TestHuggingFaceSearchCandidateMapping(t *testing.T) {
	resp := `[
		{"id":"stanfordnlp/imdb","description":"Large Movie Review Dataset","downloads":250000,"likes":320,"cardData":{"pretty_name":"IMDB"}},
		{"id":"acme/raw-corpus","downloads":12},
		{"id":"squad","description":"","downloads":99000}
	]`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, resp)
	}))
	defer ts.Close()

	old := huggingFaceAPIBase
	huggingFaceAPIBase = ts.URL
	defer func() { huggingFaceAPIBase = old }()

	c := &HuggingFaceCatalog{Client: ts.Client()}
	results, err := c.Search(context.Background(), "movie reviews", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	named := results[0]
	if named.ID != "stanfordnlp/imdb" {
		t.Errorf("ID = %q, want %q", named.ID, "stanfordnlp/imdb")
	}
	if named.Title != "IMDB" {
		t.Errorf("Title = %q, want pretty name %q", named.Title, "IMDB")
	}
	if named.Description != "Large Movie Review Dataset" {
		t.Errorf("Description = %q, want %q", named.Description, "Large Movie Review Dataset")
	}
	if named.Source != types.SourceHuggingFace {
		t.Errorf("Source = %q, want %q", named.Source, types.SourceHuggingFace)
	}
	if named.Downloads != 250000 {
		t.Errorf("Downloads = %d, want 250000", named.Downloads)
	}
	if named.Score != nil {
		t.Errorf("Score = %v, want nil before ranking", *named.Score)
	}

	// No pretty name and no description: title falls back to the id tail,
	// description to the title.
	bare := results[1]
	if bare.Title != "raw-corpus" {
		t.Errorf("fallback Title = %q, want %q", bare.Title, "raw-corpus")
	}
	if bare.Description != "raw-corpus" {
		t.Errorf("fallback Description = %q, want %q", bare.Description, "raw-corpus")
	}

	// Bare ids with no namespace keep the whole id as tail.
	plain := results[2]
	if plain.Title != "squad" {
		t.Errorf("bare id Title = %q, want %q", plain.Title, "squad")
	}
}

func TestHuggingFaceSearchURLTemplate(t *testing.T) {
	resp := `[{"id":"stanfordnlp/imdb","description":"reviews","downloads":1}]`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, resp)
	}))
	defer ts.Close()

	old := huggingFaceAPIBase
	huggingFaceAPIBase = ts.URL
	defer func() { huggingFaceAPIBase = old }()

	c := &HuggingFaceCatalog{Client: ts.Client()}
	results, err := c.Search(context.Background(), "test", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := "https://huggingface.co/datasets/stanfordnlp/imdb"
	if results[0].URL != want {
		t.Errorf("URL = %q, want %q", results[0].URL, want)
	}
	// A URL missing the datasets/ segment is a broken link.
	if !strings.Contains(results[0].URL, "/datasets/") {
		t.Errorf("URL %q missing mandatory /datasets/ segment", results[0].URL)
	}
	if !strings.HasSuffix(results[0].URL, results[0].ID) {
		t.Errorf("URL %q does not end with candidate ID %q", results[0].URL, results[0].ID)
	}
}

// --- Result cap ---

func TestHuggingFaceSearchCapsResults(t *testing.T) {
	// A server that ignores the limit parameter must still be capped
	// client-side.
	var entries []string
	for i := 0; i < 30; i++ {
		entries = append(entries, fmt.Sprintf(`{"id":"org/ds-%d","downloads":%d}`, i, 1000-i))
	}
	resp := "[" + strings.Join(entries, ",") + "]"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, resp)
	}))
	defer ts.Close()

	old := huggingFaceAPIBase
	huggingFaceAPIBase = ts.URL
	defer func() { huggingFaceAPIBase = old }()

	c := &HuggingFaceCatalog{Client: ts.Client()}
	results, err := c.Search(context.Background(), "test", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != MaxResultsPerCatalog {
		t.Errorf("len(results) = %d, want cap %d", len(results), MaxResultsPerCatalog)
	}

	// Catalog order is preserved up to the cap.
	for i, r := range results {
		wantID := fmt.Sprintf("org/ds-%d", i)
		if r.ID != wantID {
			t.Errorf("results[%d].ID = %q, want %q", i, r.ID, wantID)
		}
	}
}

// --- Error cases ---

func TestHuggingFaceSearchHTTPErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{"429 rate limit", http.StatusTooManyRequests, "HTTP 429"},
		{"503 unavailable", http.StatusServiceUnavailable, "HTTP 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			old := huggingFaceAPIBase
			huggingFaceAPIBase = ts.URL
			defer func() { huggingFaceAPIBase = old }()

			c := &HuggingFaceCatalog{Client: ts.Client()}
			_, err := c.Search(context.Background(), "test", SearchOptions{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestHuggingFaceSearchMalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":`)
	}))
	defer ts.Close()

	old := huggingFaceAPIBase
	huggingFaceAPIBase = ts.URL
	defer func() { huggingFaceAPIBase = old }()

	c := &HuggingFaceCatalog{Client: ts.Client()}
	_, err := c.Search(context.Background(), "test", SearchOptions{})
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Errorf("error = %q, want substring 'parsing'", err.Error())
	}
}

// --- Availability and name ---

func TestHuggingFaceAlwaysAvailable(t *testing.T) {
	c := &HuggingFaceCatalog{}
	if !c.Available() {
		t.Error("Available() = false, want true for anonymous access")
	}
}

func TestHuggingFaceCatalogName(t *testing.T) {
	c := &HuggingFaceCatalog{}
	if got := c.Name(); got != "huggingface" {
		t.Errorf("Name() = %q, want %q", got, "huggingface")
	}
}
