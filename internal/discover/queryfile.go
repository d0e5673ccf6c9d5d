// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dataset-scout/pkg/types"
)

// QueryFile is the on-disk representation of a discovery run and its
// candidates. A run can be saved to a file and re-rendered later without
// hitting any API again.
type QueryFile struct {
	Query   QueryParams       `yaml:"query"`
	Config  QueryFileConfig   `yaml:"config"`
	Results []types.Candidate `yaml:"results"`
	Summary QuerySummary      `yaml:"summary"`
}

// QueryParams stores the resolved query in a serializable form.
type QueryParams struct {
	OriginalQuery string   `yaml:"original_query"`
	FixedQuery    string   `yaml:"fixed_query"`
	Keywords      []string `yaml:"keywords,omitempty"`
}

// QueryFileConfig stores the discovery settings that produced the results.
type QueryFileConfig struct {
	MaxPerCatalog int  `yaml:"max_per_catalog"`
	Normalized    bool `yaml:"normalized"`
}

// QuerySummary stores run statistics and a timestamp.
type QuerySummary struct {
	Total         int       `yaml:"total"`
	Ranked        bool      `yaml:"ranked"`
	CatalogErrors []string  `yaml:"catalog_errors,omitempty"`
	Timestamp     time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a discovery result to a YAML file.
func WriteQueryFile(path string, res Result, cfg types.DiscoveryConfig, normalized bool) error {
	qf := QueryFile{
		Query: QueryParams{
			OriginalQuery: res.Query.OriginalQuery,
			FixedQuery:    res.Query.FixedQuery,
			Keywords:      res.Query.Keywords,
		},
		Config: QueryFileConfig{
			MaxPerCatalog: cfg.MaxPerCatalog,
			Normalized:    normalized,
		},
		Results: res.Candidates,
		Summary: QuerySummary{
			Total:         len(res.Candidates),
			Ranked:        res.Ranked,
			CatalogErrors: res.CatalogErrors,
			Timestamp:     time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToResult reconstructs the in-memory result from a saved file.
func (qf *QueryFile) ToResult() Result {
	return Result{
		Query: types.QuerySpec{
			OriginalQuery: qf.Query.OriginalQuery,
			FixedQuery:    qf.Query.FixedQuery,
			Keywords:      qf.Query.Keywords,
		},
		Candidates:    qf.Results,
		CatalogErrors: qf.Summary.CatalogErrors,
		Ranked:        qf.Summary.Ranked,
	}
}
