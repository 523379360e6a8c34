package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// maxSearchResults bounds web_search to the first few hits
const maxSearchResults = 5

// WebSearchResult is the outcome of a web_search invocation
type WebSearchResult struct {
	Tool    string     `json:"tool"`
	Status  string     `json:"status"`
	Query   string     `json:"query"`
	Results []WebMatch `json:"results"`
}

// WebMatch is one search hit
type WebMatch struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// FetchResult is the outcome of a fetch_url invocation
type FetchResult struct {
	Tool        string `json:"tool"`
	Status      string `json:"status"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

// WebSearch queries DuckDuckGo's HTML endpoint and extracts the first
// result links. No API key is needed.
func (r *Registry) WebSearch(ctx context.Context, query string) any {
	endpoint := "https://html.duckduckgo.com/html/?q=" + url.QueryEscape(query)

	body, _, err := r.get(ctx, endpoint)
	if err != nil {
		return ErrorResult{Error: fmt.Sprintf("web search failed: %v", err)}
	}
	defer body.Close()

	return r.parseSearchResults(body, query)
}

// parseSearchResults extracts the first result links from a DuckDuckGo
// HTML results page.
func (r *Registry) parseSearchResults(body io.Reader, query string) any {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return ErrorResult{Error: fmt.Sprintf("failed to parse search results: %v", err)}
	}

	results := make([]WebMatch, 0, maxSearchResults)
	doc.Find("a.result__a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		results = append(results, WebMatch{Title: sel.Text(), URL: href})
		return len(results) < maxSearchResults
	})

	return WebSearchResult{
		Tool:    "web_search",
		Status:  "success",
		Query:   query,
		Results: results,
	}
}

// FetchURL retrieves a page, capping the body at the configured size
func (r *Registry) FetchURL(ctx context.Context, target string) any {
	body, contentType, err := r.get(ctx, target)
	if err != nil {
		return ErrorResult{Error: fmt.Sprintf("failed to fetch URL: %v", err)}
	}
	defer body.Close()

	content, err := io.ReadAll(io.LimitReader(body, int64(r.maxFetchBytes)))
	if err != nil {
		return ErrorResult{Error: fmt.Sprintf("failed to read response body: %v", err)}
	}

	return FetchResult{
		Tool:        "fetch_url",
		Status:      "success",
		URL:         target,
		Content:     string(content),
		ContentType: contentType,
	}
}

func (r *Registry) get(ctx context.Context, target string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}
