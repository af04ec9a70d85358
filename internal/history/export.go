// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citerank/internal/rank"
	"github.com/pdiddy/citerank/pkg/types"
)

// ExportEntry is one displayed citation in an export.
type ExportEntry struct {
	Number    int              `json:"number" yaml:"number"`
	Type      types.SourceType `json:"type" yaml:"type"`
	Section   rank.SectionKind `json:"section" yaml:"section"`
	Title     string           `json:"title,omitempty" yaml:"title,omitempty"`
	Category  string           `json:"category" yaml:"category"`
	Text      string           `json:"text,omitempty" yaml:"text,omitempty"`
	Namespace string           `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Score     *float64         `json:"score,omitempty" yaml:"score,omitempty"`
}

// Export is the ranked view of a stored answer.
type Export struct {
	ID        string             `json:"id" yaml:"id"`
	Query     string             `json:"query,omitempty" yaml:"query,omitempty"`
	CreatedAt time.Time          `json:"created_at" yaml:"created_at"`
	Citations []ExportEntry      `json:"citations" yaml:"citations"`
	Summary   rank.FilterSummary `json:"summary" yaml:"summary"`
}

// BuildExport ranks rec's citations with rk.
func BuildExport(rec Record, rk *rank.Ranker) Export {
	out := rk.Rank(rec.Citations)
	exp := Export{
		ID:        rec.ID,
		Query:     rec.Query,
		CreatedAt: rec.CreatedAt,
		Citations: make([]ExportEntry, len(out.Citations)),
		Summary:   out.Summary,
	}
	for i, rc := range out.Citations {
		src := rk.Classifier().Resolve(rc.Citation)
		category := "context"
		if rc.Citation.IsDirect() {
			category = types.CategoryDirect
		}
		exp.Citations[i] = ExportEntry{
			Number:    rc.Number(),
			Type:      src.Type(),
			Section:   rank.SectionFor(src.Type()),
			Title:     src.Title(),
			Category:  category,
			Text:      rc.Citation.Text,
			Namespace: rc.Citation.Namespace,
			Score:     rc.Citation.Score,
		}
	}
	return exp
}

// Export writes the ranked view of the answer with id to w as YAML or JSON.
func (s *Store) Export(ctx context.Context, id, format string, rk *rank.Ranker, w io.Writer) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	exp := BuildExport(rec, rk)

	switch format {
	case "yaml", "":
		data, err := yaml.Marshal(exp)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(exp)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}
