// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank filters, deduplicates, and orders retrieved citations for
// display. Every stage is a pure function of its input: the input slice is
// never mutated and each surviving citation keeps its original index, which
// in-text markers like [3] refer to.
package rank

import (
	"go.uber.org/zap"

	"github.com/pdiddy/citerank/internal/classify"
	"github.com/pdiddy/citerank/pkg/types"
)

// Ranker runs the eligibility filter and presentation sorter.
type Ranker struct {
	clf    *classify.Classifier
	logger *zap.Logger
}

// New returns a Ranker. A nil clf uses the default registry; a nil logger
// discards debug output.
func New(clf *classify.Classifier, logger *zap.Logger) *Ranker {
	if clf == nil {
		clf = classify.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{clf: clf, logger: logger}
}

// Classifier returns the classifier used for filtering and sorting.
func (r *Ranker) Classifier() *classify.Classifier { return r.clf }

// Output holds the ranked citations and filter statistics.
type Output struct {
	Citations []types.RankedCitation `json:"citations" yaml:"citations"`
	Summary   FilterSummary          `json:"summary" yaml:"summary"`
}

// Rank filters cs and sorts the survivors for display.
func (r *Ranker) Rank(cs []types.Citation) Output {
	eligible, summary := r.FilterEligible(cs)
	return Output{
		Citations: r.SortForDisplay(eligible),
		Summary:   summary,
	}
}
