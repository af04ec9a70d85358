// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"regexp"
	"strconv"

	"github.com/pdiddy/citerank/pkg/types"
)

// markerRe matches numeric in-text markers like [1] or [12].
var markerRe = regexp.MustCompile(`\[(\d+)\]`)

// Marker is an in-text citation reference found in generated prose.
type Marker struct {
	// Number is the 1-based display number inside the brackets.
	Number int `json:"number" yaml:"number"`

	// Offset is the byte offset of the first occurrence in the answer.
	Offset int `json:"offset" yaml:"offset"`

	// Position is the index into the ranked list, or -1 when the marker
	// points at a citation that was filtered out or never existed.
	Position int `json:"position" yaml:"position"`
}

// Resolved reports whether the marker points at a displayed citation.
func (m Marker) Resolved() bool { return m.Position >= 0 }

// ResolveMarkers finds each distinct [n] marker in answer, in order of
// first appearance, and maps it to the ranked citation whose display
// number is n.
func ResolveMarkers(answer string, rs []types.RankedCitation) []Marker {
	byNumber := make(map[int]int, len(rs))
	for i, rc := range rs {
		byNumber[rc.Number()] = i
	}

	seen := make(map[int]bool)
	var markers []Marker
	for _, loc := range markerRe.FindAllStringSubmatchIndex(answer, -1) {
		n, err := strconv.Atoi(answer[loc[2]:loc[3]])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true

		pos, ok := byNumber[n]
		if !ok {
			pos = -1
		}
		markers = append(markers, Marker{Number: n, Offset: loc[0], Position: pos})
	}
	return markers
}
