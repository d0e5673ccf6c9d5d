// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists completed discovery runs in a local SQLite
// database and serves them back for listing, inspection, and full-text
// search over previously seen candidates.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/dataset-scout/internal/discover"
	"github.com/pdiddy/dataset-scout/pkg/types"
)

const dbFile = "discovery.db"

// Store manages the discovery history SQLite database.
type Store struct {
	db      *sql.DB
	maxRuns int
}

// NewStore opens or creates the history database at
// historyDir/discovery.db. It creates the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.HistoryDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.HistoryDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxRuns := cfg.MaxRuns
	if maxRuns <= 0 {
		maxRuns = 20
	}

	s := &Store{db: db, maxRuns: maxRuns}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			original_query TEXT NOT NULL,
			fixed_query TEXT NOT NULL,
			keywords TEXT,
			ranked INTEGER NOT NULL,
			normalized INTEGER NOT NULL,
			catalog_errors TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			dataset_id TEXT NOT NULL,
			title TEXT,
			description TEXT,
			query TEXT,
			source TEXT NOT NULL,
			url TEXT NOT NULL,
			downloads INTEGER,
			score REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_run_id ON candidates(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='candidates_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE candidates_fts USING fts5(title, description, query, content=candidates, content_rowid=rowid)`,
			`CREATE TRIGGER candidates_ai AFTER INSERT ON candidates BEGIN
				INSERT INTO candidates_fts(rowid, title, description, query)
				VALUES (new.rowid, new.title, new.description, new.query);
			END`,
			`CREATE TRIGGER candidates_ad AFTER DELETE ON candidates BEGIN
				INSERT INTO candidates_fts(candidates_fts, rowid, title, description, query)
				VALUES('delete', old.rowid, old.title, old.description, old.query);
			END`,
			`CREATE TRIGGER candidates_au AFTER UPDATE ON candidates BEGIN
				INSERT INTO candidates_fts(candidates_fts, rowid, title, description, query)
				VALUES('delete', old.rowid, old.title, old.description, old.query);
				INSERT INTO candidates_fts(rowid, title, description, query)
				VALUES (new.rowid, new.title, new.description, new.query);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Record stores a completed discovery run and returns its generated run ID.
// normalized reports whether the run was invoked with normalization on.
func (s *Store) Record(ctx context.Context, res discover.Result, normalized bool) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	keywordsJSON, _ := json.Marshal(res.Query.Keywords)
	errorsJSON, _ := json.Marshal(res.CatalogErrors)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, original_query, fixed_query, keywords, ranked, normalized, catalog_errors, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, res.Query.OriginalQuery, res.Query.FixedQuery, string(keywordsJSON),
		res.Ranked, normalized, string(errorsJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO candidates (run_id, position, dataset_id, title, description, query, source, url, downloads, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	// The run's query text rides along on every candidate row so the FTS
	// index covers it.
	for i, c := range res.Candidates {
		_, err := stmt.ExecContext(ctx,
			runID, i, c.ID, c.Title, c.Description, res.Query.FixedQuery,
			string(c.Source), c.URL, c.Downloads, c.Score,
		)
		if err != nil {
			return "", fmt.Errorf("inserting candidate %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}
