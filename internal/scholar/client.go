// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar resolves author name strings against the Semantic Scholar
// Graph API and verifies candidate identities by paper-title overlap.
// Implements: prd002-resolution (R1-R4);
//
//	docs/ARCHITECTURE § Resolution.
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/huyxdang/author-search/internal/httputil"
	"github.com/huyxdang/author-search/pkg/types"
)

// scholarAPIBase is the Semantic Scholar Graph API root. Declared as a var
// so tests can substitute an httptest server.
var scholarAPIBase = "https://api.semanticscholar.org/graph/v1"

const (
	searchFields = "authorId,name"
	authorFields = "name,affiliations,citationCount,paperCount,hIndex,papers.title"

	// searchLimit caps candidate lists; only the first candidate is used
	// (R1.3), the rest exist for debugging output.
	searchLimit = 5
)

// Client queries the Semantic Scholar author endpoints (R1.1).
type Client struct {
	Client *http.Client
	APIKey string
	cfg    types.ResolverConfig
}

// NewClient returns a Client configured per cfg.
func NewClient(httpClient *http.Client, cfg types.ResolverConfig) *Client {
	return &Client{Client: httpClient, APIKey: cfg.APIKey, cfg: cfg}
}

// Candidate is one author returned by the search endpoint.
type Candidate struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

// Paper is a claimed paper on an external author record.
type Paper struct {
	Title string `json:"title"`
}

// Author is the full external author record (R1.4).
type Author struct {
	AuthorID      string   `json:"authorId"`
	Name          string   `json:"name"`
	Affiliations  []string `json:"affiliations"`
	CitationCount int      `json:"citationCount"`
	PaperCount    int      `json:"paperCount"`
	HIndex        int      `json:"hIndex"`
	Papers        []Paper  `json:"papers"`
}

// SearchAuthors queries the author search endpoint for candidates matching
// name, in source-provided order (R1.2).
func (c *Client) SearchAuthors(ctx context.Context, name string) ([]Candidate, error) {
	if name == "" {
		return nil, fmt.Errorf("empty author name")
	}

	params := url.Values{
		"query":  {name},
		"fields": {searchFields},
		"limit":  {fmt.Sprintf("%d", searchLimit)},
	}
	reqURL := scholarAPIBase + "/author/search?" + params.Encode()

	var sr searchResponse
	if err := c.getJSON(ctx, reqURL, &sr); err != nil {
		return nil, fmt.Errorf("author search for %q: %w", name, err)
	}
	return sr.Data, nil
}

// GetAuthor fetches the full record for one author ID, including claimed
// paper titles (R1.4).
func (c *Client) GetAuthor(ctx context.Context, authorID string) (*Author, error) {
	if authorID == "" {
		return nil, fmt.Errorf("empty author ID")
	}

	params := url.Values{"fields": {authorFields}}
	reqURL := scholarAPIBase + "/author/" + url.PathEscape(authorID) + "?" + params.Encode()

	var author Author
	if err := c.getJSON(ctx, reqURL, &author); err != nil {
		return nil, fmt.Errorf("fetching author %s: %w", authorID, err)
	}
	return &author, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	return nil
}

// Semantic Scholar API JSON structures.
type searchResponse struct {
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Data   []Candidate `json:"data"`
}
