// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the dataset-scout pipeline:
// the unified dataset candidate, the normalized query spec, and the per-stage
// configuration blocks.
package types

// CandidateSource identifies the catalog a candidate was found in.
type CandidateSource string

const (
	// SourceKaggle marks candidates returned by the Kaggle dataset catalog.
	SourceKaggle CandidateSource = "kaggle"

	// SourceHuggingFace marks candidates returned by the Hugging Face Hub.
	SourceHuggingFace CandidateSource = "huggingface"
)

// Candidate is the unified representation of one discoverable dataset,
// regardless of which catalog produced it. Catalog adapters construct
// candidates; the ranking stage may attach a score; nothing mutates the
// source after construction.
type Candidate struct {
	// ID is the catalog-scoped dataset reference: "owner/dataset" on Kaggle,
	// "namespace/dataset" (or a bare name) on Hugging Face. IDs are unique
	// only within a single source.
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable dataset name. When the catalog returns no
	// distinct title, this is the final path segment of the ID.
	Title string `json:"title" yaml:"title"`

	// Description is the summary text used as ranking input. Falls back to
	// Title when the catalog gives none.
	Description string `json:"description" yaml:"description"`

	// Source identifies which catalog found this candidate.
	Source CandidateSource `json:"source" yaml:"source"`

	// URL is the canonical browser link to the dataset page.
	URL string `json:"url" yaml:"url"`

	// Downloads is the catalog's popularity count for the dataset. Zero when
	// the catalog does not report one.
	Downloads int `json:"downloads" yaml:"downloads"`

	// Score is the cosine similarity against the query, attached by the
	// ranking stage. A nil pointer means the candidate was never scored,
	// which is distinct from a score of zero.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}
