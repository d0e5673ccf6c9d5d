// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/dataset-scout/internal/catalog"
	"github.com/pdiddy/dataset-scout/internal/discover"
	"github.com/pdiddy/dataset-scout/internal/embed"
	"github.com/pdiddy/dataset-scout/internal/httputil"
	"github.com/pdiddy/dataset-scout/internal/normalize"
	"github.com/pdiddy/dataset-scout/internal/rank"
	"github.com/pdiddy/dataset-scout/pkg/types"
)

const defaultUserAgent = "dataset-scout/0.1"

func setConfigDefaults() {
	viper.SetDefault("http.timeout", 8*time.Second)
	viper.SetDefault("http.user_agent", defaultUserAgent)
	viper.SetDefault("discovery.max_per_catalog", catalog.MaxResultsPerCatalog)
	viper.SetDefault("discovery.top_n", 5)
	viper.SetDefault("discovery.enable_kaggle", true)
	viper.SetDefault("discovery.enable_huggingface", true)
	viper.SetDefault("kaggle.sort_by", "votes")
	viper.SetDefault("huggingface.sort", "downloads")
	viper.SetDefault("normalize.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("normalize.max_tokens", 1024)
	viper.SetDefault("embedding.model", "voyage-3.5-lite")
	viper.SetDefault("history.dir", "history")
	viper.SetDefault("history.max_runs", 20)
}

// pipelineConfig assembles the full pipeline configuration from viper
// (config file, environment, defaults) and the loaded secrets. A value in
// the config file wins over a secret file of the same meaning.
func pipelineConfig() types.PipelineConfig {
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}

	return types.PipelineConfig{
		Discovery: types.DiscoveryConfig{
			MaxPerCatalog:     viper.GetInt("discovery.max_per_catalog"),
			TopN:              viper.GetInt("discovery.top_n"),
			EnableKaggle:      viper.GetBool("discovery.enable_kaggle"),
			EnableHuggingFace: viper.GetBool("discovery.enable_huggingface"),
		},
		Kaggle: types.KaggleConfig{
			HTTPConfig: httpCfg,
			Username:   secretDefault("kaggle-username", viper.GetString("kaggle.username")),
			Key:        secretDefault("kaggle-key", viper.GetString("kaggle.key")),
			SortBy:     viper.GetString("kaggle.sort_by"),
		},
		HuggingFace: types.HuggingFaceConfig{
			HTTPConfig: httpCfg,
			Token:      secretDefault("huggingface-token", viper.GetString("huggingface.token")),
			Sort:       viper.GetString("huggingface.sort"),
		},
		Normalize: types.NormalizeConfig{
			HTTPConfig: httpCfg,
			Model:      viper.GetString("normalize.model"),
			APIKey:     secretDefault("anthropic-api-key", viper.GetString("normalize.api_key")),
			MaxTokens:  viper.GetInt("normalize.max_tokens"),
		},
		Embedding: types.EmbeddingConfig{
			HTTPConfig: httpCfg,
			Model:      viper.GetString("embedding.model"),
			APIKey:     secretDefault("voyage-api-key", viper.GetString("embedding.api_key")),
		},
		History: types.HistoryConfig{
			HistoryDir: viper.GetString("history.dir"),
			MaxRuns:    viper.GetInt("history.max_runs"),
		},
	}
}

// buildEngine wires real clients into a discovery engine. The normalizer and
// ranker are always constructed; whether they actually run is decided by
// their capability checks at call time.
func buildEngine(cfg types.PipelineConfig, logger *zap.Logger) (*discover.Engine, error) {
	var catalogs []catalog.Catalog
	if cfg.Discovery.EnableKaggle {
		catalogs = append(catalogs, &catalog.KaggleCatalog{
			Client:   httputil.NewClient(cfg.Kaggle.HTTPConfig),
			Username: cfg.Kaggle.Username,
			Key:      cfg.Kaggle.Key,
			SortBy:   cfg.Kaggle.SortBy,
		})
	}
	if cfg.Discovery.EnableHuggingFace {
		catalogs = append(catalogs, &catalog.HuggingFaceCatalog{
			Client: httputil.NewClient(cfg.HuggingFace.HTTPConfig),
			Token:  cfg.HuggingFace.Token,
			Sort:   cfg.HuggingFace.Sort,
		})
	}
	if len(catalogs) == 0 {
		return nil, fmt.Errorf("no catalogs enabled: enable kaggle or huggingface in the config")
	}

	normalizer := normalize.New(&normalize.ClaudeBackend{
		APIKey:    cfg.Normalize.APIKey,
		Model:     cfg.Normalize.Model,
		MaxTokens: cfg.Normalize.MaxTokens,
		Client:    httputil.NewClient(cfg.Normalize.HTTPConfig),
	}, logger)

	ranker := rank.New(&embed.VoyageClient{
		APIKey: cfg.Embedding.APIKey,
		Model:  cfg.Embedding.Model,
		Client: httputil.NewClient(cfg.Embedding.HTTPConfig),
	}, logger)

	return discover.NewEngine(cfg.Discovery, normalizer, catalogs, ranker, logger), nil
}
