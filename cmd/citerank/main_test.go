// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citerank/internal/rank"
	"github.com/pdiddy/citerank/pkg/types"
)

const sampleJSON = `[
  {"text": "Patience is at the first stroke.", "metadata": {"source": "Sahih Muslim", "book_name": "Sahih Muslim"}},
  {"text": "Seek help through patience.", "namespace": "tafsir-ibn-kathir", "category": "direct"},
  {"text": "x", "metadata": {"question": "Q?", "answer": "A.", "text": "x"}},
  {"text": "Patience is at the first stroke.", "metadata": {"source": "Sahih Muslim", "book_name": "Sahih Muslim"}}
]`

const sampleYAML = `citations:
  - text: Episode on sabr
    namespace: youtube-qa-pairs
    metadata:
      video_id: abc123
      title: On Sabr
  - text: Fatwa body
    metadata:
      content_type: islamqa_fatwa
      question: Is patience obligatory?
`

func TestDecodeCitations(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		isYAML  bool
		wantLen int
		wantErr bool
	}{
		{"json list", sampleJSON, false, 4, false},
		{"json wrapped", `{"citations": [{"text": "a"}]}`, false, 1, false},
		{"yaml wrapped", sampleYAML, true, 2, false},
		{"yaml list", "- text: a\n- text: b\n", true, 2, false},
		{"empty input", "  \n", false, 0, false},
		{"malformed json", `[{"text": `, false, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := decodeCitations([]byte(tt.data), tt.isYAML)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, cs, tt.wantLen)
		})
	}
}

func TestReadCitationsYAMLKeepsMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cits.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cs, err := readCitations(path, nil)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, "abc123", cs[0].Metadata.String(types.MetaVideoID))
	assert.Equal(t, types.ContentTypeFatwa, cs[1].Metadata.String(types.MetaContentType))
}

func TestReadCitationsStdin(t *testing.T) {
	cs, err := readCitations("-", strings.NewReader(sampleJSON))
	require.NoError(t, err)
	assert.Len(t, cs, 4)
}

func TestRankCommandJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cits.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"rank", path, "--json"})
	require.NoError(t, rootCmd.Execute())

	var out rank.Output
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	require.Len(t, out.Citations, 2)
	assert.Equal(t, 2, out.Citations[0].Number(), "direct tafsir first")
	assert.Equal(t, 1, out.Citations[1].Number())
	assert.Equal(t, 1, out.Summary.BareQA)
	assert.Equal(t, 1, out.Summary.Duplicates)
}

func TestWriteMarkers(t *testing.T) {
	var buf bytes.Buffer
	writeMarkers([]rank.Marker{
		{Number: 1, Offset: 4, Position: 0},
		{Number: 3, Offset: 20, Position: -1},
	}, &buf)
	assert.Contains(t, buf.String(), "2 marker(s), 1 unresolved")
	assert.Contains(t, buf.String(), "[3] at offset 20")

	buf.Reset()
	writeMarkers(nil, &buf)
	assert.Contains(t, buf.String(), "No citation markers")
}
