// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/citerank/pkg/types"
)

// TextPrefixLen is the number of leading runes of citation text that take
// part in the duplicate key. Long citations sharing this prefix collapse.
const TextPrefixLen = 100

// DropReason names the rule that excluded a citation.
type DropReason string

const (
	DropPlaceholderClassical DropReason = "placeholder_classical"
	DropBareQA               DropReason = "bare_qa"
	DropDuplicate            DropReason = "duplicate"
)

// FilterSummary counts the citations each rule excluded.
type FilterSummary struct {
	Input                int `json:"input" yaml:"input"`
	Kept                 int `json:"kept" yaml:"kept"`
	PlaceholderClassical int `json:"placeholder_classical" yaml:"placeholder_classical"`
	BareQA               int `json:"bare_qa" yaml:"bare_qa"`
	Duplicates           int `json:"duplicates" yaml:"duplicates"`
}

// Dropped returns the number of excluded citations.
func (s FilterSummary) Dropped() int {
	return s.PlaceholderClassical + s.BareQA + s.Duplicates
}

// FilterEligible drops unattributable classical fragments, leftover raw QA
// pairs, and exact duplicates from cs. The first occurrence of a duplicate
// wins. Survivors keep their relative order and original index.
func (r *Ranker) FilterEligible(cs []types.Citation) ([]types.RankedCitation, FilterSummary) {
	summary := FilterSummary{Input: len(cs)}
	seen := make(map[string]struct{}, len(cs))
	kept := make([]types.RankedCitation, 0, len(cs))

	for i, c := range cs {
		reason, drop := r.exclusion(c, seen)
		if drop {
			switch reason {
			case DropPlaceholderClassical:
				summary.PlaceholderClassical++
			case DropBareQA:
				summary.BareQA++
			case DropDuplicate:
				summary.Duplicates++
			}
			r.logger.Debug("citation dropped",
				zap.Int("index", i),
				zap.String("reason", string(reason)),
				zap.String("namespace", c.Namespace),
			)
			continue
		}
		kept = append(kept, types.RankedCitation{Citation: c, OriginalIndex: i})
	}

	summary.Kept = len(kept)
	return kept, summary
}

// exclusion applies the rules in order. Every bare QA pair is also an
// unattributed classical record, so the narrower rule is checked first to
// keep the counts meaningful. The dedup key is recorded only for citations
// that pass the other rules, so a dropped placeholder never shadows a later
// valid copy.
func (r *Ranker) exclusion(c types.Citation, seen map[string]struct{}) (DropReason, bool) {
	if isBareQA(c) {
		return DropBareQA, true
	}
	if isPlaceholderClassical(r.clf.Classify(c), c) {
		return DropPlaceholderClassical, true
	}
	key := DedupKey(c)
	if _, ok := seen[key]; ok {
		return DropDuplicate, true
	}
	seen[key] = struct{}{}
	return "", false
}

// isPlaceholderClassical reports a classical citation with neither a
// source file nor a book name.
func isPlaceholderClassical(t types.SourceType, c types.Citation) bool {
	return t == types.SourceClassical &&
		!c.Metadata.Has(types.MetaSourceFile) &&
		!c.Metadata.Has(types.MetaBookName)
}

// bareQAKeys is the exact metadata key set of an unclassified QA pair.
var bareQAKeys = []string{types.MetaAnswer, types.MetaQuestion, types.MetaText}

// isBareQA reports a namespace-less citation whose metadata holds exactly
// answer, question, and text and is not a web fatwa.
func isBareQA(c types.Citation) bool {
	if c.Namespace != "" || c.Metadata == nil {
		return false
	}
	if c.Metadata.String(types.MetaContentType) == types.ContentTypeFatwa {
		return false
	}
	if len(c.Metadata) != len(bareQAKeys) {
		return false
	}
	for _, k := range bareQAKeys {
		if _, ok := c.Metadata[k]; !ok {
			return false
		}
	}
	return true
}

// DedupKey returns the identity of c for duplicate detection: the text
// prefix, source, source file, namespace, book name, question, and answer.
// Each field is length-prefixed, so no field content can shift a boundary.
func DedupKey(c types.Citation) string {
	m := c.Metadata
	fields := []string{
		textPrefix(c.Text),
		m.String(types.MetaSource),
		m.String(types.MetaSourceFile),
		c.Namespace,
		m.String(types.MetaBookName),
		m.String(types.MetaQuestion),
		m.String(types.MetaAnswer),
	}
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(strconv.Itoa(len(f)))
		b.WriteByte(':')
		b.WriteString(f)
	}
	return b.String()
}

func textPrefix(s string) string {
	n := 0
	for i := range s {
		if n == TextPrefixLen {
			return s[:i]
		}
		n++
	}
	return s
}
