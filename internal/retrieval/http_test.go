package retrieval

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Saumya1404/SHL/internal/catalog"
	"github.com/Saumya1404/SHL/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSearch(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/shl_assessments/search", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"points": [
			{"id": 3, "score": 0.032, "payload": {"name": "Java 8 (New)", "test_type": ["Knowledge & Skills"], "assessment_duration": 18, "url": "https://example.com/java", "remote_testing": "Yes"}},
			{"id": "opq", "score": 0.016, "payload": {"name": "OPQ32r", "test_type": ["Personality & Behavior"]}}
		]}`))
	}))
	defer server.Close()

	h := NewHTTP(server.URL, "shl_assessments", "secret", time.Second, nil)
	limit := 40
	got, err := h.Search(context.Background(), Request{
		LexicalQuery: "java java",
		DenseQuery:   "Java developer",
		Filter:       &query.Filter{Must: []query.Condition{{Key: catalog.PayloadDuration, Range: &query.Range{Lte: &limit}}}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"3", "opq"}, ids(got))
	assert.InDelta(t, 0.032, got[0].RelevanceScore, 1e-12)
	assert.True(t, got[0].RemoteTesting)
	require.NotNil(t, got[0].Duration)
	assert.Equal(t, 18, *got[0].Duration)

	assert.Equal(t, "java java", received["lexical_query"])
	assert.Equal(t, "Java developer", received["dense_query"])
	assert.Equal(t, float64(defaultLimit), received["limit"])
	assert.Equal(t, "shl_assessments", received["collection"])
	assert.NotNil(t, received["filter"])
}

func TestHTTPSearchGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"points": [{"id": 1, "score": 0.5, "payload": {"name": "A"}}]}`))
		_ = gz.Close()
	}))
	defer server.Close()

	got, err := NewHTTP(server.URL, "", "", time.Second, nil).Search(context.Background(), Request{LexicalQuery: "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestHTTPSearchLargeIntegerIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"points": [
			{"id": 100, "score": 0.5, "payload": {"name": "A"}},
			{"id": 12345678, "score": 0.4, "payload": {"name": "B"}},
			{"id": "9e1f", "score": 0.3, "payload": {"name": "C"}}
		]}`))
	}))
	defer server.Close()

	got, err := NewHTTP(server.URL, "c", "", time.Second, nil).Search(context.Background(), Request{LexicalQuery: "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "12345678", "9e1f"}, ids(got))
}

func TestHTTPSearchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewHTTP(server.URL, "c", "", time.Second, nil).Search(context.Background(), Request{LexicalQuery: "a"})
	assert.Error(t, err)

	_, err = NewHTTP("", "c", "", time.Second, nil).Search(context.Background(), Request{LexicalQuery: "a"})
	assert.Error(t, err)
}

func TestHTTPSearchEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"points": []}`))
	}))
	defer server.Close()

	got, err := NewHTTP(server.URL, "c", "", time.Second, nil).Search(context.Background(), Request{LexicalQuery: "a"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
