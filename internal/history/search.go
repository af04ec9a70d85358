// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"strings"
)

// Hit is a stored citation matching a full-text search.
type Hit struct {
	AnswerID  string `json:"answer_id" yaml:"answer_id"`
	Index     int    `json:"index" yaml:"index"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Snippet   string `json:"snippet" yaml:"snippet"`
}

// Search runs an FTS5 query over stored citation text. Hits are ranked by
// relevance; Index is the citation's original position in its answer.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.answer_id, c.idx, c.namespace,
			snippet(citations_fts, 0, '[', ']', '...', 12)
		 FROM citations_fts
		 JOIN citations c ON c.rowid = citations_fts.rowid
		 WHERE citations_fts MATCH ?
		 ORDER BY citations_fts.rank
		 LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching citations: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.AnswerID, &h.Index, &h.Namespace, &h.Snippet); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
