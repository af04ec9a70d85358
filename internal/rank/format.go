// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/citerank/pkg/types"
)

// FormatTable writes the ranked citations as a human-readable table to w.
func (r *Ranker) FormatTable(out Output, w io.Writer) {
	if len(out.Citations) == 0 {
		fmt.Fprintln(w, "No citations to display.")
		writeSummary(out.Summary, w)
		return
	}

	fmt.Fprintf(w, "%-4s  %-7s  %-13s  %-40s  %-6s  %s\n",
		"No.", "Cat", "Type", "Source", "Score", "Text")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, rc := range out.Citations {
		c := rc.Citation
		cat := "context"
		if c.IsDirect() {
			cat = "direct"
		}
		src := r.clf.Resolve(c)
		score := ""
		if c.Score != nil {
			score = fmt.Sprintf("%.2f", *c.Score)
		}
		fmt.Fprintf(w, "[%-2d]  %-7s  %-13s  %-40s  %-6s  %s\n",
			rc.Number(), cat, src.Type(), truncate(src.Title(), 40), score, truncate(oneLine(c.Text), 30))
	}

	writeSummary(out.Summary, w)
}

func writeSummary(s FilterSummary, w io.Writer) {
	fmt.Fprintf(w, "\n%d of %d citations", s.Kept, s.Input)
	if s.Dropped() > 0 {
		fmt.Fprintf(w, " (%d placeholder, %d bare QA, %d duplicates removed)",
			s.PlaceholderClassical, s.BareQA, s.Duplicates)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the ranked output as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	if out.Citations == nil {
		out.Citations = []types.RankedCitation{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to max runes, ending with "..." when cut.
func truncate(s string, max int) string {
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	return string(rs[:max-3]) + "..."
}
