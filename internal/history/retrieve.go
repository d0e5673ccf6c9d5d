// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/dataset-scout/pkg/types"
)

// Run is a recorded discovery run.
type Run struct {
	ID            string
	OriginalQuery string
	FixedQuery    string
	Keywords      []string
	Ranked        bool
	Normalized    bool
	CatalogErrors []string
	Candidates    int
	CreatedAt     time.Time
}

// CandidateHit is a full-text match over stored candidates, joined with the
// run that produced it.
type CandidateHit struct {
	types.Candidate
	RunID     string
	Query     string
	CreatedAt time.Time
}

const runColumns = `r.id, r.original_query, r.fixed_query, r.keywords, r.ranked, r.normalized,
	r.catalog_errors, r.created_at,
	(SELECT count(*) FROM candidates c WHERE c.run_id = r.id)`

// Runs returns recent runs, newest first. A non-positive limit uses the
// store default.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxRuns
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+`
		FROM runs r
		ORDER BY r.created_at DESC, r.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Run loads a single run and its candidates in recorded order. id may be a
// unique prefix of the full run ID; the newest match wins.
func (s *Store) Run(ctx context.Context, id string) (Run, []types.Candidate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+`
		FROM runs r
		WHERE r.id LIKE ? || '%'
		ORDER BY r.created_at DESC, r.rowid DESC
		LIMIT 1`, id)

	run, err := scanRun(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, nil, fmt.Errorf("run %s not found", id)
		}
		return Run{}, nil, fmt.Errorf("looking up run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT dataset_id, title, description, source, url, downloads, score
		FROM candidates
		WHERE run_id = ?
		ORDER BY position`, run.ID)
	if err != nil {
		return Run{}, nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var candidates []types.Candidate
	for rows.Next() {
		var (
			c      types.Candidate
			source string
			score  sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &source, &c.URL, &c.Downloads, &score); err != nil {
			return Run{}, nil, fmt.Errorf("scanning candidate: %w", err)
		}
		c.Source = types.CandidateSource(source)
		if score.Valid {
			v := score.Float64
			c.Score = &v
		}
		candidates = append(candidates, c)
	}
	return run, candidates, rows.Err()
}

// SearchCandidates runs an FTS5 query over the titles, descriptions, and
// originating query text of every stored candidate. Results are ranked by
// match relevance.
func (s *Store) SearchCandidates(ctx context.Context, query string, limit int) ([]CandidateHit, error) {
	if limit <= 0 {
		limit = s.maxRuns
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.dataset_id, c.title, c.description, c.source, c.url, c.downloads, c.score,
			c.run_id, r.fixed_query, r.created_at
		FROM candidates_fts
		JOIN candidates c ON c.rowid = candidates_fts.rowid
		JOIN runs r ON r.id = c.run_id
		WHERE candidates_fts MATCH ?
		ORDER BY candidates_fts.rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var hits []CandidateHit
	for rows.Next() {
		var (
			hit       CandidateHit
			source    string
			score     sql.NullFloat64
			createdAt string
		)
		if err := rows.Scan(&hit.ID, &hit.Title, &hit.Description, &source, &hit.URL, &hit.Downloads, &score,
			&hit.RunID, &hit.Query, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		hit.Source = types.CandidateSource(source)
		if score.Valid {
			v := score.Float64
			hit.Score = &v
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			hit.CreatedAt = t
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

func scanRun(scan func(dest ...any) error) (Run, error) {
	var (
		run       Run
		keywords  sql.NullString
		catErrors sql.NullString
		createdAt string
	)
	if err := scan(&run.ID, &run.OriginalQuery, &run.FixedQuery, &keywords,
		&run.Ranked, &run.Normalized, &catErrors, &createdAt, &run.Candidates); err != nil {
		return Run{}, err
	}
	if keywords.Valid {
		json.Unmarshal([]byte(keywords.String), &run.Keywords)
	}
	if catErrors.Valid {
		json.Unmarshal([]byte(catErrors.String), &run.CatalogErrors)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = t
	}
	return run, nil
}
