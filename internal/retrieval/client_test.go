// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citerank/pkg/types"
)

const sampleResponse = `{
  "citations": [
    {"id": 17, "text": "Seek help through patience and prayer.", "namespace": "tafsir-ibn-kathir",
     "category": "direct", "score": 0.93, "metadata": {"surah_number": 2, "ayah_number": 153}},
    {"text": "Patience is at the first stroke.", "metadata": {"book_name": "Sahih Muslim", "page_number": 926},
     "query": "patience at calamity"},
    {"metadata": {"content_type": "islamqa_fatwa", "url": "https://islamqa.info/en/answers/1"}}
  ]
}`

func testConfig(endpoint string) types.RetrievalConfig {
	return types.RetrievalConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "citerank-test/0.1"},
		Endpoint:   endpoint,
		APIKey:     "secret-key",
		TopK:       7,
	}
}

func TestRetrieve(t *testing.T) {
	var got Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/retrieve", r.URL.Path)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, "citerank-test/0.1", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(sampleResponse))
	}))
	defer ts.Close()

	c, err := NewClient(testConfig(ts.URL+"/"), ts.Client(), nil)
	require.NoError(t, err)

	cits, err := c.Retrieve(context.Background(), Request{Query: "patience", Namespaces: []string{"tafsir-ibn-kathir"}})
	require.NoError(t, err)

	assert.Equal(t, "patience", got.Query)
	assert.Equal(t, 7, got.TopK)
	assert.Equal(t, []string{"tafsir-ibn-kathir"}, got.Namespaces)

	require.Len(t, cits, 3)
	assert.Equal(t, float64(17), cits[0].ID)
	assert.Equal(t, "direct", cits[0].Category)
	require.NotNil(t, cits[0].Score)
	assert.Equal(t, 0.93, *cits[0].Score)
	assert.Equal(t, "Sahih Muslim", cits[1].Metadata.String(types.MetaBookName))
	assert.Equal(t, "patience at calamity", cits[1].Query)
	assert.Nil(t, cits[2].Score)
	assert.Equal(t, types.ContentTypeFatwa, cits[2].Metadata.String(types.MetaContentType))
}

func TestRetrieveDefaultTopK(t *testing.T) {
	var got Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"citations": []}`))
	}))
	defer ts.Close()

	cfg := testConfig(ts.URL)
	cfg.TopK = 0
	c, err := NewClient(cfg, ts.Client(), nil)
	require.NoError(t, err)

	cits, err := c.Retrieve(context.Background(), Request{Query: "q"})
	require.NoError(t, err)
	assert.Empty(t, cits)
	assert.Equal(t, defaultTopK, got.TopK)
}

func TestRetrieveErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errMsg  string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("upstream down"))
			},
			errMsg: "HTTP 502: upstream down",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"citations": [`))
			},
			errMsg: "parsing retrieval response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			c, err := NewClient(testConfig(ts.URL), ts.Client(), nil)
			require.NoError(t, err)

			_, err = c.Retrieve(context.Background(), Request{Query: "q"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRetrieveEmptyQuery(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	c, err := NewClient(testConfig(ts.URL), ts.Client(), nil)
	require.NoError(t, err)

	_, err = c.Retrieve(context.Background(), Request{Query: "   "})
	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient(types.RetrievalConfig{}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")
}
