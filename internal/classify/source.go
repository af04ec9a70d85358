// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/citerank/pkg/types"
)

// Source is the typed view of a citation's metadata, built once after
// classification so display code never re-reads the raw bag.
type Source interface {
	Type() types.SourceType
	Title() string
}

// Book covers the book-like types: classical texts, modern scholarship and
// the Risale-i Nur collection.
type Book struct {
	Kind       types.SourceType `json:"kind" yaml:"kind"`
	BookName   string           `json:"book_name,omitempty" yaml:"book_name,omitempty"`
	SourceFile string           `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	Source     string           `json:"source,omitempty" yaml:"source,omitempty"`
	Author     string           `json:"author,omitempty" yaml:"author,omitempty"`
	Volume     string           `json:"volume,omitempty" yaml:"volume,omitempty"`
	Page       string           `json:"page,omitempty" yaml:"page,omitempty"`
}

func (b Book) Type() types.SourceType { return b.Kind }

// Title prefers the book name, then the source label, then the file name.
func (b Book) Title() string {
	name := firstNonEmpty(b.BookName, b.Source, b.SourceFile)
	var loc []string
	if b.Volume != "" {
		loc = append(loc, "vol. "+b.Volume)
	}
	if b.Page != "" {
		loc = append(loc, "p. "+b.Page)
	}
	if len(loc) == 0 {
		return name
	}
	return name + ", " + strings.Join(loc, ", ")
}

// Video is a YouTube transcript excerpt.
type Video struct {
	VideoID      string `json:"video_id,omitempty" yaml:"video_id,omitempty"`
	VideoTitle   string `json:"title,omitempty" yaml:"title,omitempty"`
	URL          string `json:"url,omitempty" yaml:"url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	Timestamp    string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

func (Video) Type() types.SourceType { return types.SourceVideo }

func (v Video) Title() string {
	return firstNonEmpty(v.VideoTitle, v.VideoID, v.URL)
}

// maxStartSeconds bounds playback offsets to what fits an int32.
const maxStartSeconds = math.MaxInt32

// StartSeconds parses Timestamp as seconds, "mm:ss" or "hh:mm:ss".
// It returns false when the timestamp is absent or malformed.
func (v Video) StartSeconds() (int, bool) {
	ts := strings.TrimSpace(v.Timestamp)
	if ts == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(ts, 64); err == nil {
		if math.IsNaN(f) || f < 0 || f > maxStartSeconds {
			return 0, false
		}
		return int(f), true
	}
	total := 0
	parts := strings.Split(ts, ":")
	if len(parts) > 3 {
		return 0, false
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > maxStartSeconds {
			return 0, false
		}
		total = total*60 + n
		if total > maxStartSeconds {
			return 0, false
		}
	}
	return total, true
}

// WatchURL returns a link that starts playback at the timestamp. It uses
// the explicit URL when present, otherwise builds one from VideoID.
func (v Video) WatchURL() string {
	base := v.URL
	if base == "" {
		if v.VideoID == "" {
			return ""
		}
		base = "https://www.youtube.com/watch?v=" + url.QueryEscape(v.VideoID)
	}
	secs, ok := v.StartSeconds()
	if !ok || secs == 0 {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("t", strconv.Itoa(secs)+"s")
	u.RawQuery = q.Encode()
	return u.String()
}

// Tafsir is a Quranic commentary passage.
type Tafsir struct {
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Surah  int    `json:"surah,omitempty" yaml:"surah,omitempty"`
	Ayah   int    `json:"ayah,omitempty" yaml:"ayah,omitempty"`
}

func (Tafsir) Type() types.SourceType { return types.SourceTafsir }

func (t Tafsir) Title() string {
	ref := t.Reference()
	switch {
	case t.Source != "" && ref != "":
		return t.Source + " " + ref
	case t.Source != "":
		return t.Source
	default:
		return ref
	}
}

// Reference formats the verse as "surah:ayah", or just the surah number
// when the ayah is unknown.
func (t Tafsir) Reference() string {
	switch {
	case t.Surah > 0 && t.Ayah > 0:
		return fmt.Sprintf("%d:%d", t.Surah, t.Ayah)
	case t.Surah > 0:
		return strconv.Itoa(t.Surah)
	default:
		return ""
	}
}

// Fatwa is a web fatwa page.
type Fatwa struct {
	Question string `json:"question,omitempty" yaml:"question,omitempty"`
	Answer   string `json:"answer,omitempty" yaml:"answer,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
}

func (Fatwa) Type() types.SourceType { return types.SourceFatwa }

func (f Fatwa) Title() string {
	return firstNonEmpty(f.Question, f.URL)
}

// Unknown carries the raw metadata of a citation no rule recognized, or
// of a forward-compatible type hint this version does not model.
type Unknown struct {
	Kind     types.SourceType `json:"kind" yaml:"kind"`
	Metadata types.Metadata   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

func (u Unknown) Type() types.SourceType { return u.Kind }

func (u Unknown) Title() string {
	return firstNonEmpty(
		u.Metadata.String(types.MetaTitle),
		u.Metadata.String(types.MetaSource),
		u.Metadata.String(types.MetaURL),
	)
}

// Resolve classifies cit and builds its typed source view.
func (c *Classifier) Resolve(cit types.Citation) Source {
	m := cit.Metadata
	switch t := c.Classify(cit); t {
	case types.SourceClassical, types.SourceModern, types.SourceRisale:
		return Book{
			Kind:       t,
			BookName:   m.String(types.MetaBookName),
			SourceFile: m.String(types.MetaSourceFile),
			Source:     m.String(types.MetaSource),
			Author:     m.String(types.MetaAuthor),
			Volume:     m.String(types.MetaVolume),
			Page:       m.String(types.MetaPageNumber),
		}
	case types.SourceVideo:
		return Video{
			VideoID:      m.String(types.MetaVideoID),
			VideoTitle:   m.String(types.MetaTitle),
			URL:          firstNonEmpty(m.String(types.MetaURL), m.String(types.MetaSourceLink)),
			ThumbnailURL: m.String(types.MetaThumbnailURL),
			Timestamp:    m.String(types.MetaTimestamp),
		}
	case types.SourceTafsir:
		surah, _ := m.Int(types.MetaSurahNumber)
		ayah, _ := m.Int(types.MetaAyahNumber)
		return Tafsir{
			Source: firstNonEmpty(m.String(types.MetaSource), m.String(types.MetaBookName)),
			Surah:  surah,
			Ayah:   ayah,
		}
	case types.SourceFatwa:
		return Fatwa{
			Question: m.String(types.MetaQuestion),
			Answer:   m.String(types.MetaAnswer),
			URL:      firstNonEmpty(m.String(types.MetaURL), m.String(types.MetaSourceLink)),
		}
	default:
		return Unknown{Kind: t, Metadata: m}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
