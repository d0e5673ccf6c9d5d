package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/dataset-scout/internal/discover"
	"github.com/pdiddy/dataset-scout/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	historyDir := filepath.Join(t.TempDir(), "history")
	store, err := NewStore(types.HistoryConfig{HistoryDir: historyDir})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, historyDir
}

func rankedResult() discover.Result {
	s1, s2 := 0.91, 0.44
	return discover.Result{
		Query: types.QuerySpec{
			OriginalQuery: "german credid risk",
			FixedQuery:    "german credit risk",
			Keywords:      []string{"german", "credit", "risk"},
		},
		Candidates: []types.Candidate{
			{
				ID:          "uci/german-credit",
				Title:       "German Credit Risk",
				Description: "Loan applicants classified by credit risk",
				Source:      types.SourceKaggle,
				URL:         "https://www.kaggle.com/datasets/uci/german-credit",
				Downloads:   52000,
				Score:       &s1,
			},
			{
				ID:          "south-german-credit",
				Title:       "south-german-credit",
				Description: "Correction of the original German credit dataset",
				Source:      types.SourceHuggingFace,
				URL:         "https://huggingface.co/datasets/south-german-credit",
				Downloads:   1800,
				Score:       &s2,
			},
		},
		CatalogErrors: []string{"huggingface: connection refused"},
		Ranked:        true,
	}
}

func unrankedResult() discover.Result {
	return discover.Result{
		Query: types.QuerySpec{
			OriginalQuery: "tweet sentiment",
			FixedQuery:    "tweet sentiment",
			Keywords:      []string{"tweet", "sentiment"},
		},
		Candidates: []types.Candidate{
			{
				ID:          "tweets/airline-sentiment",
				Title:       "Airline Tweet Sentiment",
				Description: "Tweets about US airlines labeled by sentiment",
				Source:      types.SourceKaggle,
				URL:         "https://www.kaggle.com/datasets/tweets/airline-sentiment",
				Downloads:   33000,
			},
		},
	}
}

// --- schema ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store, _ := testStore(t)

	for _, table := range []string{"runs", "candidates", "candidates_fts"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, table,
		).Scan(&count)
		require.NoError(t, err)
		assert.NotZero(t, count, "table %s does not exist", table)
	}
}

func TestNewStoreCreatesDBFile(t *testing.T) {
	_, historyDir := testStore(t)

	_, err := os.Stat(filepath.Join(historyDir, dbFile))
	assert.NoError(t, err, "database file not created")
}

func TestNewStoreReopensExistingDB(t *testing.T) {
	historyDir := filepath.Join(t.TempDir(), "history")
	cfg := types.HistoryConfig{HistoryDir: historyDir}

	first, err := NewStore(cfg)
	require.NoError(t, err)
	_, err = first.Record(context.Background(), rankedResult(), true)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(cfg)
	require.NoError(t, err)
	defer second.Close()

	runs, err := second.Runs(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "recorded run should survive a reopen")
}

// --- record and load ---

func TestRecordAndRun(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	id, err := store.Record(ctx, rankedResult(), true)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, candidates, err := store.Run(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, run.ID)
	assert.Equal(t, "german credid risk", run.OriginalQuery)
	assert.Equal(t, "german credit risk", run.FixedQuery)
	assert.Equal(t, []string{"german", "credit", "risk"}, run.Keywords)
	assert.True(t, run.Ranked)
	assert.True(t, run.Normalized)
	assert.Equal(t, []string{"huggingface: connection refused"}, run.CatalogErrors)
	assert.Equal(t, 2, run.Candidates)
	assert.False(t, run.CreatedAt.IsZero())

	require.Len(t, candidates, 2)
	assert.Equal(t, "uci/german-credit", candidates[0].ID)
	assert.Equal(t, types.SourceKaggle, candidates[0].Source)
	assert.Equal(t, "https://www.kaggle.com/datasets/uci/german-credit", candidates[0].URL)
	assert.Equal(t, 52000, candidates[0].Downloads)
	require.NotNil(t, candidates[0].Score)
	assert.InDelta(t, 0.91, *candidates[0].Score, 0.0001)
	assert.Equal(t, "south-german-credit", candidates[1].ID)
}

func TestRecordUnrankedRun(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	id, err := store.Record(ctx, unrankedResult(), false)
	require.NoError(t, err)

	run, candidates, err := store.Run(ctx, id)
	require.NoError(t, err)
	assert.False(t, run.Ranked)
	assert.False(t, run.Normalized)
	assert.Empty(t, run.CatalogErrors)
	require.Len(t, candidates, 1)
	assert.Nil(t, candidates[0].Score, "unranked candidate should load with a nil score")
}

func TestRunByPrefix(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	id, err := store.Record(ctx, rankedResult(), true)
	require.NoError(t, err)

	run, _, err := store.Run(ctx, id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
}

func TestRunNotFound(t *testing.T) {
	store, _ := testStore(t)

	_, _, err := store.Run(context.Background(), "ffffffff")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// --- listing ---

func TestRunsNewestFirst(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	first, err := store.Record(ctx, rankedResult(), true)
	require.NoError(t, err)
	second, err := store.Record(ctx, unrankedResult(), false)
	require.NoError(t, err)

	runs, err := store.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)
	assert.Equal(t, 1, runs[0].Candidates)
	assert.Equal(t, 2, runs[1].Candidates)
}

func TestRunsLimit(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Record(ctx, unrankedResult(), false)
		require.NoError(t, err)
	}

	runs, err := store.Runs(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunsEmptyStore(t *testing.T) {
	store, _ := testStore(t)

	runs, err := store.Runs(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

// --- full-text search ---

func TestSearchCandidates(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	id, err := store.Record(ctx, rankedResult(), true)
	require.NoError(t, err)
	_, err = store.Record(ctx, unrankedResult(), false)
	require.NoError(t, err)

	tests := []struct {
		name    string
		query   string
		wantMin int
		wantID  string
	}{
		{"matches title", "credit", 2, "uci/german-credit"},
		{"matches description", "airlines", 1, "tweets/airline-sentiment"},
		{"no match", "oceanography", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := store.SearchCandidates(ctx, tt.query, 0)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(hits), tt.wantMin)
			if tt.wantID == "" {
				assert.Empty(t, hits)
				return
			}
			found := false
			for _, hit := range hits {
				if hit.ID == tt.wantID {
					found = true
					assert.NotEmpty(t, hit.RunID)
					assert.NotEmpty(t, hit.Query)
					assert.NotEmpty(t, hit.URL)
					assert.False(t, hit.CreatedAt.IsZero())
				}
			}
			assert.True(t, found, "expected a hit for %s", tt.wantID)
		})
	}

	// A hit from the ranked run carries its run ID and score.
	hits, err := store.SearchCandidates(ctx, "german", 0)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	for _, hit := range hits {
		assert.Equal(t, id, hit.RunID)
		assert.NotNil(t, hit.Score)
	}
}

func TestSearchCandidatesMatchesQueryText(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	// The search term appears only in the run's query, not in any
	// candidate title or description.
	res := unrankedResult()
	res.Query.FixedQuery = "microblog polarity corpus"
	_, err := store.Record(ctx, res, true)
	require.NoError(t, err)

	hits, err := store.SearchCandidates(ctx, "microblog", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "tweets/airline-sentiment", hits[0].ID)
	assert.Equal(t, "microblog polarity corpus", hits[0].Query)
}

func TestSearchCandidatesLimit(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()

	_, err := store.Record(ctx, rankedResult(), true)
	require.NoError(t, err)

	hits, err := store.SearchCandidates(ctx, "credit", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}
