package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that call external
// services.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout (default 8s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "dataset-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// KaggleConfig holds settings for the Kaggle catalog adapter.
type KaggleConfig struct {
	HTTPConfig `yaml:",inline"`

	// Username is the Kaggle account name used for basic auth.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`

	// Key is the Kaggle API key paired with Username. The adapter reports
	// itself unavailable when either credential is missing.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	// SortBy is the Kaggle list ordering (default "votes").
	SortBy string `json:"sort_by" yaml:"sort_by"`
}

// HuggingFaceConfig holds settings for the Hugging Face catalog adapter.
type HuggingFaceConfig struct {
	HTTPConfig `yaml:",inline"`

	// Token is an optional Hub access token; anonymous requests are allowed.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Sort is the Hub list ordering (default "downloads").
	Sort string `json:"sort" yaml:"sort"`
}

// NormalizeConfig holds settings for the query normalization stage.
type NormalizeConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the text model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the text API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens bounds the model response length (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// EmbeddingConfig holds settings for the embedding client behind the ranker.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the embedding model identifier (e.g. "voyage-3.5-lite").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the embedding API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// DiscoveryConfig holds settings for the discovery orchestrator and its
// presentation defaults.
type DiscoveryConfig struct {
	// MaxPerCatalog is the number of candidates requested from each catalog
	// (default 15, which is also the hard upper bound).
	MaxPerCatalog int `json:"max_per_catalog" yaml:"max_per_catalog"`

	// TopN is the number of ranked candidates shown by default (default 5).
	TopN int `json:"top_n" yaml:"top_n"`

	// EnableKaggle controls whether the Kaggle catalog is consulted.
	EnableKaggle bool `json:"enable_kaggle" yaml:"enable_kaggle"`

	// EnableHuggingFace controls whether the Hugging Face catalog is consulted.
	EnableHuggingFace bool `json:"enable_hugging_face" yaml:"enable_hugging_face"`
}

// HistoryConfig holds settings for the discovery history store.
type HistoryConfig struct {
	// HistoryDir is the base directory for history data (contains discovery.db).
	HistoryDir string `json:"history_dir" yaml:"history_dir"`

	// MaxRuns is the default maximum number of runs listed (default 20).
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Discovery   DiscoveryConfig   `json:"discovery" yaml:"discovery"`
	Kaggle      KaggleConfig      `json:"kaggle" yaml:"kaggle"`
	HuggingFace HuggingFaceConfig `json:"hugging_face" yaml:"hugging_face"`
	Normalize   NormalizeConfig   `json:"normalize" yaml:"normalize"`
	Embedding   EmbeddingConfig   `json:"embedding" yaml:"embedding"`
	History     HistoryConfig     `json:"history" yaml:"history"`
}
