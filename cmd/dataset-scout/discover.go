// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/dataset-scout/internal/discover"
	"github.com/pdiddy/dataset-scout/internal/history"
	"github.com/pdiddy/dataset-scout/internal/logging"
	"github.com/pdiddy/dataset-scout/pkg/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [query]",
	Short: "Search dataset catalogs for a natural-language query",
	Long: `Searches Kaggle and Hugging Face for datasets matching the query.

The query is first normalized by a language model (typo fixes, keyword
extraction), then sent to every enabled catalog in parallel, and the merged
candidates are ranked by semantic relevance. Any stage without credentials
or with a failing dependency is skipped and the pipeline carries on with
what it has.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiscover,
}

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Render a saved query file",
	Long:  `Reads a YAML query file written by discover --save and prints its results.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	discoverCmd.Flags().Bool("no-normalize", false, "send the query to catalogs verbatim")
	discoverCmd.Flags().Int("limit", 0, "max candidates per catalog (1-15, 0 = config default)")
	discoverCmd.Flags().Int("top", 0, "rows to print (0 = config default)")
	discoverCmd.Flags().Bool("json", false, "emit the full result as JSON")
	discoverCmd.Flags().String("save", "", "write the result to a YAML query file")
	discoverCmd.Flags().Bool("no-history", false, "skip recording the run in history")
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(showCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := logging.New(debug)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	cfg := pipelineConfig()
	if cmd.Flags().Changed("limit") {
		limit, _ := cmd.Flags().GetInt("limit")
		cfg.Discovery.MaxPerCatalog = limit
	}
	topN := cfg.Discovery.TopN
	if cmd.Flags().Changed("top") {
		topN, _ = cmd.Flags().GetInt("top")
	}

	engine, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	noNormalize, _ := cmd.Flags().GetBool("no-normalize")
	res, err := engine.Discover(context.Background(), query, !noNormalize)
	if err != nil {
		return err
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut {
		if err := discover.FormatJSON(res, topN, os.Stdout); err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
	} else {
		printNotices(res, os.Stderr)
		discover.FormatTable(res, topN, os.Stdout)
	}

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := discover.WriteQueryFile(savePath, res, cfg.Discovery, !noNormalize); err != nil {
			return fmt.Errorf("saving query file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved results to %s\n", savePath)
	}

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		recordRun(res, !noNormalize, cfg.History, logger)
	}

	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	qf, err := discover.ReadQueryFile(args[0])
	if err != nil {
		return err
	}

	res := qf.ToResult()
	printNotices(res, os.Stderr)
	discover.FormatTable(res, 0, os.Stdout)
	return nil
}

// printNotices surfaces query corrections and degradation warnings on the
// diagnostic stream, keeping stdout clean for the results table.
func printNotices(res discover.Result, w io.Writer) {
	if res.Query.FixedQuery != res.Query.OriginalQuery {
		fmt.Fprintf(w, "Query corrected to: %s\n", res.Query.FixedQuery)
	}
	for _, e := range res.CatalogErrors {
		fmt.Fprintf(w, "warning: %s\n", e)
	}
	if !res.Ranked && len(res.Candidates) > 0 {
		fmt.Fprintln(w, "warning: smart ranking unavailable; showing catalog order")
	}
}

// recordRun persists the run in history. History is bookkeeping; a failure
// never spoils the results already printed.
func recordRun(res discover.Result, normalized bool, cfg types.HistoryConfig, logger *zap.Logger) {
	store, err := history.NewStore(cfg)
	if err != nil {
		logger.Warn("history record failed", zap.Error(err))
		return
	}
	defer store.Close()

	id, err := store.Record(context.Background(), res, normalized)
	if err != nil {
		logger.Warn("history record failed", zap.Error(err))
		return
	}
	fmt.Fprintf(os.Stderr, "Recorded run %s\n", id[:8])
}
