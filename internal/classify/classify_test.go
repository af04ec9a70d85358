// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citerank/internal/registry"
	"github.com/pdiddy/citerank/pkg/types"
)

func fixtureRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.New(registry.File{
		Version: "fixture",
		Risale:  []string{"ris-ns"},
		Video:   []string{"yt-ns", "youtube-qa-pairs"},
		Tafsir:  []string{"taf-ns"},
	})
	require.NoError(t, err)
	return r
}

func TestClassify(t *testing.T) {
	clf := New(fixtureRegistry(t))

	tests := []struct {
		name string
		cit  types.Citation
		want types.SourceType
	}{
		{"classic hint", types.Citation{Metadata: types.Metadata{"type": "classic"}}, types.SourceClassical},
		{"cls hint upper", types.Citation{Metadata: types.Metadata{"type": "CLS"}}, types.SourceClassical},
		{"modern hint", types.Citation{Metadata: types.Metadata{"type": "Modern"}}, types.SourceModern},
		{"mod hint", types.Citation{Metadata: types.Metadata{"type": "mod"}}, types.SourceModern},
		{"risale hint", types.Citation{Metadata: types.Metadata{"type": "risale"}}, types.SourceRisale},
		{"ris hint", types.Citation{Metadata: types.Metadata{"type": "RIS"}}, types.SourceRisale},
		{"youtube hint", types.Citation{Metadata: types.Metadata{"type": "youtube"}}, types.SourceVideo},
		{"yt hint", types.Citation{Metadata: types.Metadata{"type": "yt"}}, types.SourceVideo},
		{"taf hint passes through", types.Citation{Metadata: types.Metadata{"type": "taf"}}, types.SourceTafsir},
		{"unknown hint upper-cased", types.Citation{Metadata: types.Metadata{"type": "podcast"}}, types.SourceType("PODCAST")},
		{"empty hint falls through to default", types.Citation{Metadata: types.Metadata{"type": ""}}, types.SourceClassical},
		{
			"explicit type beats namespace",
			types.Citation{Namespace: "ris-ns", Metadata: types.Metadata{"type": "youtube"}},
			types.SourceVideo,
		},
		{
			"explicit type beats content_type",
			types.Citation{Metadata: types.Metadata{"type": "modern", "content_type": "islamqa_fatwa"}},
			types.SourceModern,
		},
		{
			"fatwa content_type",
			types.Citation{Metadata: types.Metadata{"content_type": "islamqa_fatwa", "url": "https://example.com"}},
			types.SourceFatwa,
		},
		{
			"fatwa content_type beats namespace",
			types.Citation{Namespace: "taf-ns", Metadata: types.Metadata{"content_type": "islamqa_fatwa"}},
			types.SourceFatwa,
		},
		{"risale namespace", types.Citation{Namespace: "ris-ns"}, types.SourceRisale},
		{"youtube namespace", types.Citation{Namespace: "youtube-qa-pairs"}, types.SourceVideo},
		{"tafsir namespace", types.Citation{Namespace: "taf-ns"}, types.SourceTafsir},
		{"unregistered namespace", types.Citation{Namespace: "sahih-muslim"}, types.SourceUnknown},
		{"bare record", types.Citation{}, types.SourceClassical},
		{"bare record with metadata", types.Citation{Metadata: types.Metadata{"book_name": "Riyad as-Salihin"}}, types.SourceClassical},
		{"other content_type, no namespace", types.Citation{Metadata: types.Metadata{"content_type": "article"}}, types.SourceClassical},
		{"numeric hint", types.Citation{Metadata: types.Metadata{"type": 7.0}}, types.SourceType("7")},
		{"null hint", types.Citation{Metadata: types.Metadata{"type": nil}}, types.SourceClassical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clf.Classify(tt.cit))
		})
	}
}

func TestNewNilRegistryUsesDefault(t *testing.T) {
	clf := New(nil)
	assert.Equal(t, registry.DefaultVersion, clf.Registry().Version())
	assert.Equal(t, types.SourceVideo, clf.Classify(types.Citation{Namespace: "youtube-qa-pairs"}))
}

func TestClassifyTotal(t *testing.T) {
	clf := New(fixtureRegistry(t))

	metas := []types.Metadata{
		nil,
		{},
		{"type": "classic"},
		{"type": "unheard-of"},
		{"content_type": "islamqa_fatwa"},
		{"type": []any{"x"}},
		{"content_type": 12},
	}
	namespaces := []string{"", "ris-ns", "yt-ns", "taf-ns", "nowhere"}
	known := map[types.SourceType]bool{
		types.SourceClassical: true, types.SourceModern: true, types.SourceRisale: true,
		types.SourceVideo: true, types.SourceTafsir: true, types.SourceFatwa: true,
		types.SourceUnknown: true,
	}

	for _, m := range metas {
		for _, ns := range namespaces {
			cit := types.Citation{Namespace: ns, Metadata: m}
			var got types.SourceType
			assert.NotPanics(t, func() { got = clf.Classify(cit) })
			assert.NotEmpty(t, got)
			if m.String("type") == "" {
				assert.True(t, known[got], "unexpected type %q for %+v", got, cit)
			}
		}
	}
}

func TestResolve(t *testing.T) {
	clf := New(fixtureRegistry(t))

	t.Run("classical book", func(t *testing.T) {
		src := clf.Resolve(types.Citation{Metadata: types.Metadata{
			"book_name": "Ihya Ulum al-Din", "volume": 2.0, "page_number": 114.0,
		}})
		book, ok := src.(Book)
		require.True(t, ok)
		assert.Equal(t, types.SourceClassical, book.Type())
		assert.Equal(t, "Ihya Ulum al-Din, vol. 2, p. 114", book.Title())
	})

	t.Run("risale by namespace", func(t *testing.T) {
		src := clf.Resolve(types.Citation{Namespace: "ris-ns", Metadata: types.Metadata{"source_file": "sozler.pdf"}})
		assert.Equal(t, types.SourceRisale, src.Type())
		assert.Equal(t, "sozler.pdf", src.Title())
	})

	t.Run("video", func(t *testing.T) {
		src := clf.Resolve(types.Citation{Namespace: "yt-ns", Metadata: types.Metadata{
			"video_id": "abc123", "title": "On Patience", "timestamp": "01:02:03",
		}})
		v, ok := src.(Video)
		require.True(t, ok)
		assert.Equal(t, "On Patience", v.Title())
		assert.Equal(t, "https://www.youtube.com/watch?t=3723s&v=abc123", v.WatchURL())
	})

	t.Run("tafsir", func(t *testing.T) {
		src := clf.Resolve(types.Citation{Namespace: "taf-ns", Metadata: types.Metadata{
			"source": "Ibn Kathir", "surah_number": 2.0, "ayah_number": "255",
		}})
		tf, ok := src.(Tafsir)
		require.True(t, ok)
		assert.Equal(t, "2:255", tf.Reference())
		assert.Equal(t, "Ibn Kathir 2:255", tf.Title())
	})

	t.Run("fatwa falls back to source_link", func(t *testing.T) {
		src := clf.Resolve(types.Citation{Metadata: types.Metadata{
			"content_type": "islamqa_fatwa", "source_link": "https://islamqa.info/en/1",
		}})
		f, ok := src.(Fatwa)
		require.True(t, ok)
		assert.Equal(t, "https://islamqa.info/en/1", f.URL)
		assert.Equal(t, "https://islamqa.info/en/1", f.Title())
	})

	t.Run("unknown keeps raw metadata", func(t *testing.T) {
		src := clf.Resolve(types.Citation{Namespace: "elsewhere", Metadata: types.Metadata{"title": "Blog post"}})
		u, ok := src.(Unknown)
		require.True(t, ok)
		assert.Equal(t, types.SourceUnknown, u.Type())
		assert.Equal(t, "Blog post", u.Title())
	})

	t.Run("pass-through hint", func(t *testing.T) {
		src := clf.Resolve(types.Citation{Metadata: types.Metadata{"type": "podcast"}})
		assert.Equal(t, types.SourceType("PODCAST"), src.Type())
	})
}

func TestVideoStartSeconds(t *testing.T) {
	tests := []struct {
		ts   string
		want int
		ok   bool
	}{
		{"", 0, false},
		{"95", 95, true},
		{"95.7", 95, true},
		{"1:35", 95, true},
		{"1:00:00", 3600, true},
		{"1:2:3:4", 0, false},
		{"ab:cd", 0, false},
		{"-5", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-Inf", 0, false},
		{"1e30", 0, false},
		{"99999999999:00", 0, false},
		{"9999999:00:00", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.ts, func(t *testing.T) {
			got, ok := Video{Timestamp: tt.ts}.StartSeconds()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVideoWatchURL(t *testing.T) {
	assert.Equal(t, "", Video{}.WatchURL())
	assert.Equal(t, "https://www.youtube.com/watch?v=xyz", Video{VideoID: "xyz"}.WatchURL())
	assert.Equal(t, "https://youtu.be/xyz?t=90s", Video{URL: "https://youtu.be/xyz", Timestamp: "90"}.WatchURL())
	for _, ts := range []string{"NaN", "Inf", "1e30"} {
		assert.Equal(t, "https://www.youtube.com/watch?v=abc", Video{VideoID: "abc", Timestamp: ts}.WatchURL(), ts)
	}
}
