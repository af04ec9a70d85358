// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists the raw citation list of each generated answer
// so it can be reloaded and re-ranked later. Citations are stored in their
// original order; ranking is never persisted.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citerank/pkg/types"
)

const dbFile = "citerank.db"

// ErrNotFound is returned when no answer exists with the requested id.
var ErrNotFound = errors.New("answer not found")

// Record is one answer together with the citations retrieved for it.
type Record struct {
	ID        string           `json:"id" yaml:"id"`
	Query     string           `json:"query,omitempty" yaml:"query,omitempty"`
	Answer    string           `json:"answer,omitempty" yaml:"answer,omitempty"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
	Citations []types.Citation `json:"citations" yaml:"citations"`
}

// Summary is a Record without its citations, used for listings.
type Summary struct {
	ID            string    `json:"id" yaml:"id"`
	Query         string    `json:"query,omitempty" yaml:"query,omitempty"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	CitationCount int       `json:"citation_count" yaml:"citation_count"`
}

// Store manages the history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the history database at cfg.DataDir/citerank.db
// and creates the schema if it does not exist.
func Open(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS answers (
			id TEXT PRIMARY KEY,
			query TEXT,
			answer TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			answer_id TEXT NOT NULL REFERENCES answers(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			text TEXT,
			namespace TEXT,
			category TEXT,
			score REAL,
			sub_query TEXT,
			raw TEXT NOT NULL,
			UNIQUE(answer_id, idx)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_namespace ON citations(namespace)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS citations_fts USING fts5(text, content=citations, content_rowid=rowid)`,
		`CREATE TRIGGER IF NOT EXISTS citations_ai AFTER INSERT ON citations BEGIN
			INSERT INTO citations_fts(rowid, text) VALUES (new.rowid, new.text);
		END`,
		`CREATE TRIGGER IF NOT EXISTS citations_ad AFTER DELETE ON citations BEGIN
			INSERT INTO citations_fts(citations_fts, rowid, text) VALUES('delete', old.rowid, old.text);
		END`,
		`CREATE TRIGGER IF NOT EXISTS citations_au AFTER UPDATE ON citations BEGIN
			INSERT INTO citations_fts(citations_fts, rowid, text) VALUES('delete', old.rowid, old.text);
			INSERT INTO citations_fts(rowid, text) VALUES (new.rowid, new.text);
		END`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores rec, replacing any earlier record with the same id. The
// citations keep their order so reloading reproduces display numbers.
func (s *Store) Save(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record id is required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM citations WHERE answer_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("deleting old citations: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO answers (id, query, answer, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			query=excluded.query, answer=excluded.answer, created_at=excluded.created_at`,
		rec.ID, rec.Query, rec.Answer, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting answer: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO citations (answer_id, idx, text, namespace, category, score, sub_query, raw)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range rec.Citations {
		raw, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encoding citation %d: %w", i, err)
		}
		var score sql.NullFloat64
		if c.Score != nil {
			score = sql.NullFloat64{Float64: *c.Score, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID, i, c.Text, c.Namespace, c.Category, score, c.Query, string(raw),
		); err != nil {
			return fmt.Errorf("inserting citation %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Get loads the record with the given id, citations in original order.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	rec := Record{ID: id}
	var query, answer sql.NullString
	var created string

	err := s.db.QueryRowContext(ctx,
		`SELECT query, answer, created_at FROM answers WHERE id = ?`, id,
	).Scan(&query, &answer, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("looking up answer: %w", err)
	}
	rec.Query = query.String
	rec.Answer = answer.String
	if rec.CreatedAt, err = parseCreatedAt(created); err != nil {
		return Record{}, fmt.Errorf("answer %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT raw FROM citations WHERE answer_id = ? ORDER BY idx`, id)
	if err != nil {
		return Record{}, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	rec.Citations = []types.Citation{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return Record{}, fmt.Errorf("scanning citation: %w", err)
		}
		var c types.Citation
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return Record{}, fmt.Errorf("decoding citation: %w", err)
		}
		rec.Citations = append(rec.Citations, c)
	}
	return rec, rows.Err()
}

func parseCreatedAt(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing created_at %q: %w", s, err)
	}
	return t, nil
}

// List returns the most recent answers, newest first. A limit of zero uses
// the store default.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.query, a.created_at, count(c.rowid)
		 FROM answers a
		 LEFT JOIN citations c ON c.answer_id = a.id
		 GROUP BY a.id
		 ORDER BY a.created_at DESC, a.id
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing answers: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sm Summary
		var query sql.NullString
		var created string
		if err := rows.Scan(&sm.ID, &query, &created, &sm.CitationCount); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		sm.Query = query.String
		if sm.CreatedAt, err = parseCreatedAt(created); err != nil {
			return nil, fmt.Errorf("answer %s: %w", sm.ID, err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Delete removes an answer and its citations.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM citations WHERE answer_id = ?`, id); err != nil {
		return fmt.Errorf("deleting citations: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting answer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}
