// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for citerank.
// Citation records arrive from the retrieval backend with loosely shaped
// metadata; SourceType and RankedCitation are derived from them.
package types

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// SourceType is the normalized source category derived from a citation.
// It is never stored; the classifier recomputes it on demand.
type SourceType string

const (
	SourceClassical SourceType = "CLS"
	SourceModern    SourceType = "MOD"
	SourceRisale    SourceType = "RIS"
	SourceVideo     SourceType = "YT"
	SourceTafsir    SourceType = "TAF"
	SourceFatwa     SourceType = "islamqa_fatwa"
	SourceUnknown   SourceType = "UNKNOWN"
)

// CategoryDirect marks a citation that matched the user's query exactly.
// Any other category value, including none, is treated as context.
const CategoryDirect = "direct"

// Recognized metadata keys.
const (
	MetaType         = "type"
	MetaContentType  = "content_type"
	MetaSource       = "source"
	MetaSourceFile   = "source_file"
	MetaBookName     = "book_name"
	MetaPageNumber   = "page_number"
	MetaVolume       = "volume"
	MetaQuestion     = "question"
	MetaAnswer       = "answer"
	MetaText         = "text"
	MetaURL          = "url"
	MetaSourceLink   = "source_link"
	MetaVideoID      = "video_id"
	MetaTitle        = "title"
	MetaThumbnailURL = "thumbnail_url"
	MetaTimestamp    = "timestamp"
	MetaSurahNumber  = "surah_number"
	MetaAyahNumber   = "ayah_number"
	MetaAuthor       = "author"
)

// ContentTypeFatwa is the content_type emitted by the web fatwa pipeline.
const ContentTypeFatwa = "islamqa_fatwa"

// maxExactInt bounds float64 values converted to int64 without overflow.
const maxExactInt = 1 << 63

// Metadata is the open-ended bag of fields attached to a citation by the
// retrieval backend. Values keep whatever shape the decoder produced.
type Metadata map[string]any

// String returns the value for key as a string. Absent and null values
// return "". Numbers are formatted without a trailing ".0".
func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < maxExactInt {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// Has reports whether key carries a non-empty value.
func (m Metadata) Has(key string) bool {
	return m.String(key) != ""
}

// Int returns the value for key as an int. The second result is false when
// the key is absent or its value is not a whole number.
func (m Metadata) Int(key string) (int, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x != math.Trunc(x) || !(math.Abs(x) < maxExactInt) {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Keys returns the metadata keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Citation is a single retrieved source record attached to a generated
// answer. Every field is optional; an empty string means absent.
type Citation struct {
	// ID is the backend's identifier for the record, if any.
	ID any `json:"id,omitempty" yaml:"id,omitempty"`

	// Text is the quoted passage.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Namespace identifies the retrieval collection the record came from.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`

	// Metadata carries source attribution fields. Nil means absent.
	Metadata Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Category is "direct" for exact query matches; anything else is context.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Score is the backend's relevance score.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`

	// Query is the sub-query that produced this citation.
	Query string `json:"query,omitempty" yaml:"query,omitempty"`
}

// IsDirect reports whether the citation is an exact match to the query.
func (c Citation) IsDirect() bool {
	return c.Category == CategoryDirect
}

// RankedCitation pairs a surviving citation with its position in the
// original, unfiltered input list.
type RankedCitation struct {
	Citation Citation `json:"citation" yaml:"citation"`

	// OriginalIndex is the 0-based position in the unfiltered input.
	OriginalIndex int `json:"original_index" yaml:"original_index"`
}

// Number returns the 1-based display number used by in-text markers.
func (r RankedCitation) Number() int {
	return r.OriginalIndex + 1
}

// Citations strips the original indexes from rs.
func Citations(rs []RankedCitation) []Citation {
	out := make([]Citation, len(rs))
	for i, r := range rs {
		out[i] = r.Citation
	}
	return out
}
