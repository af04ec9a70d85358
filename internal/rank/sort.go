// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"sort"

	"github.com/pdiddy/citerank/pkg/types"
)

// Priority ranks source types within a category; lower sorts first.
func Priority(t types.SourceType) int {
	switch t {
	case types.SourceTafsir:
		return 1
	case types.SourceRisale, types.SourceClassical:
		return 2
	case types.SourceVideo:
		return 3
	case types.SourceFatwa:
		return 4
	default:
		return 5
	}
}

// SortForDisplay orders rs with all direct citations before context ones,
// then by source priority. Ties keep their input order. rs is not modified.
func (r *Ranker) SortForDisplay(rs []types.RankedCitation) []types.RankedCitation {
	type keyed struct {
		rc       types.RankedCitation
		direct   bool
		priority int
	}

	ks := make([]keyed, len(rs))
	for i, rc := range rs {
		ks[i] = keyed{
			rc:       rc,
			direct:   rc.Citation.IsDirect(),
			priority: Priority(r.clf.Classify(rc.Citation)),
		}
	}

	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].direct != ks[j].direct {
			return ks[i].direct
		}
		return ks[i].priority < ks[j].priority
	})

	out := make([]types.RankedCitation, len(ks))
	for i, k := range ks {
		out[i] = k.rc
	}
	return out
}
