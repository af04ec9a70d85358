// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import "github.com/pdiddy/citerank/pkg/types"

// SectionKind names a visual group of citations.
type SectionKind string

const (
	SectionCommentary SectionKind = "commentary"
	SectionBooks      SectionKind = "books"
	SectionVideos     SectionKind = "videos"
	SectionFatwas     SectionKind = "fatwas"
	SectionOther      SectionKind = "other"
)

// sectionOrder follows Priority: commentary=1 through other=5.
var sectionOrder = []SectionKind{
	SectionCommentary,
	SectionBooks,
	SectionVideos,
	SectionFatwas,
	SectionOther,
}

// Section is one display group of ranked citations.
type Section struct {
	Kind      SectionKind            `json:"kind" yaml:"kind"`
	Citations []types.RankedCitation `json:"citations" yaml:"citations"`
}

// SectionFor returns the display section for a source type.
func SectionFor(t types.SourceType) SectionKind {
	return sectionOrder[Priority(t)-1]
}

// Sections groups rs by display section. Sections appear in priority order,
// empty ones are omitted, and citations keep their order from rs.
func (r *Ranker) Sections(rs []types.RankedCitation) []Section {
	groups := make(map[SectionKind][]types.RankedCitation)
	for _, rc := range rs {
		k := SectionFor(r.clf.Classify(rc.Citation))
		groups[k] = append(groups[k], rc)
	}

	var out []Section
	for _, k := range sectionOrder {
		if len(groups[k]) == 0 {
			continue
		}
		out = append(out, Section{Kind: k, Citations: groups[k]})
	}
	return out
}
