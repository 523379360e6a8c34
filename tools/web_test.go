package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchURL(t *testing.T) {
	registry := newTestRegistry(t, nil)

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("lesson content"))
		}))
		defer server.Close()

		result := registry.FetchURL(context.Background(), server.URL)
		fetched, ok := result.(FetchResult)
		require.True(t, ok)
		assert.Equal(t, "success", fetched.Status)
		assert.Equal(t, "lesson content", fetched.Content)
		assert.Contains(t, fetched.ContentType, "text/plain")
	})

	t.Run("CapsBodySize", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", registry.maxFetchBytes+4096)))
		}))
		defer server.Close()

		result := registry.FetchURL(context.Background(), server.URL)
		fetched, ok := result.(FetchResult)
		require.True(t, ok)
		assert.Len(t, fetched.Content, registry.maxFetchBytes)
	})

	t.Run("NonOKStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		result := registry.FetchURL(context.Background(), server.URL)
		failure, ok := result.(ErrorResult)
		require.True(t, ok)
		assert.Contains(t, failure.Error, "status 404")
	})

	t.Run("UnreachableHost", func(t *testing.T) {
		result := registry.FetchURL(context.Background(), "http://127.0.0.1:1/nope")
		_, ok := result.(ErrorResult)
		assert.True(t, ok)
	})
}

func TestSearchResultParsing(t *testing.T) {
	// Exercise the result extraction against a canned DuckDuckGo-shaped page
	// served locally
	page := `<html><body>
		<a class="result__a" href="https://go.dev/tour">A Tour of Go</a>
		<a class="result__a" href="https://go.dev/doc">Go Documentation</a>
		<a class="other" href="https://example.com">not a result</a>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	registry := newTestRegistry(t, nil)
	body, _, err := registry.get(context.Background(), server.URL)
	require.NoError(t, err)
	defer body.Close()

	result := registry.parseSearchResults(body, "go tutorial")
	search, ok := result.(WebSearchResult)
	require.True(t, ok)
	assert.Equal(t, "go tutorial", search.Query)
	require.Len(t, search.Results, 2)
	assert.Equal(t, "A Tour of Go", search.Results[0].Title)
	assert.Equal(t, "https://go.dev/tour", search.Results[0].URL)
}
