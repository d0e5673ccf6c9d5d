// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dataset-scout/internal/discover"
	"github.com/pdiddy/dataset-scout/internal/history"
	"github.com/pdiddy/dataset-scout/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded discovery runs",
	Long: `History manages the local run archive. Every discover run is recorded
in a SQLite database; use subcommands to list recent runs, replay one,
or full-text search across all candidates ever returned.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent discovery runs",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-19s  %-40s  %10s  %-6s\n",
		"Run", "When", "Query", "Candidates", "Ranked")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range runs {
		query := r.FixedQuery
		if len(query) > 40 {
			query = query[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-8s  %-19s  %-40s  %10d  %-6v\n",
			r.ID[:8], r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			query, r.Candidates, r.Ranked)
	}

	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Replay a recorded run's results",
	Long: `Show prints the results table of a recorded run. The run ID may be
any unique prefix of the full ID, as printed by history list.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, candidates, err := store.Run(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Run %s recorded %s\n", run.ID[:8],
		run.CreatedAt.Local().Format("2006-01-02 15:04:05"))

	res := discover.Result{
		Query: types.QuerySpec{
			OriginalQuery: run.OriginalQuery,
			FixedQuery:    run.FixedQuery,
			Keywords:      run.Keywords,
		},
		Candidates:    candidates,
		CatalogErrors: run.CatalogErrors,
		Ranked:        run.Ranked,
	}
	printNotices(res, os.Stderr)
	discover.FormatTable(res, 0, os.Stdout)
	return nil
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search across recorded candidates",
	Long: `Search runs an FTS5 query over the titles, descriptions, and query
text of every recorded candidate, ordered by match relevance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHistorySearch,
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	hits, err := store.SearchCandidates(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-8s  %-45s  %-12s  %s\n",
		"Rank", "Run", "Title", "Source", "Query")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, h := range hits {
		title := h.Title
		if len(title) > 45 {
			title = title[:42] + "..."
		}
		query := h.Query
		if len(query) > 30 {
			query = query[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-8s  %-45s  %-12s  %s\n",
			i+1, h.RunID[:8], title, h.Source, query)
	}

	fmt.Fprintf(os.Stdout, "\n%d matches\n", len(hits))
	return nil
}

// --- shared helpers ---

func openHistory() (*history.Store, error) {
	return history.NewStore(types.HistoryConfig{
		HistoryDir: viper.GetString("history.dir"),
		MaxRuns:    viper.GetInt("history.max_runs"),
	})
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "maximum runs to list (0 = config default)")
	historySearchCmd.Flags().Int("limit", 0, "maximum matches (0 = config default)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historySearchCmd)

	rootCmd.AddCommand(historyCmd)
}
