// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// QuerySpec is the normalized form of a user query. Every pipeline run
// carries one, whether normalization succeeded, failed, or was skipped.
type QuerySpec struct {
	// OriginalQuery is the user's input exactly as received.
	OriginalQuery string `json:"original_query" yaml:"original_query"`

	// FixedQuery is the spelling- and grammar-corrected form of the query.
	// Equal to OriginalQuery when normalization was skipped or failed.
	FixedQuery string `json:"fixed_query" yaml:"fixed_query"`

	// Keywords are the extracted search terms, never empty: at minimum the
	// raw query as a single element.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// FallbackQuerySpec builds the spec used when normalization is skipped or
// fails: the raw query passes through every field untouched.
func FallbackQuerySpec(raw string) QuerySpec {
	return QuerySpec{
		OriginalQuery: raw,
		FixedQuery:    raw,
		Keywords:      []string{raw},
	}
}

// SearchTerm returns the catalog search string: all keywords joined by
// single spaces.
func (q QuerySpec) SearchTerm() string {
	return strings.Join(q.Keywords, " ")
}
