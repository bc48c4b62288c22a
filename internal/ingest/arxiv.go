// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest fetches papers from arXiv and groups them by author name.
// Implements: prd001-ingest (R1-R4);
//
//	docs/ARCHITECTURE § Ingest.
package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/huyxdang/author-search/internal/httputil"
	"github.com/huyxdang/author-search/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const defaultPageSize = 100

// ArxivClient fetches paper metadata from the arXiv Atom API (R1.1).
// Page requests are paced by a rate limiter so batch fetches stay inside
// arXiv's published guidance of one request every three seconds.
type ArxivClient struct {
	Client  *http.Client
	limiter *rate.Limiter
	cfg     types.FetchConfig
}

// NewArxivClient returns a client configured per cfg.
func NewArxivClient(client *http.Client, cfg types.FetchConfig) *ArxivClient {
	interval := cfg.RequestInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	return &ArxivClient{
		Client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		cfg:     cfg,
	}
}

// FetchCategory pages through one category's submissions, newest first,
// and returns papers published on or after the configured start year
// (R1.2, R1.3). Duplicate arXiv IDs within the category are dropped.
// Paging stops once a page yields only papers older than the start year
// or the category is exhausted.
func (c *ArxivClient) FetchCategory(ctx context.Context, category string, w io.Writer) ([]types.Paper, error) {
	var papers []types.Paper
	seen := make(map[string]bool)

	for start := 0; ; start += c.cfg.PageSize {
		if c.cfg.MaxPerCategory > 0 && len(papers) >= c.cfg.MaxPerCategory {
			papers = papers[:c.cfg.MaxPerCategory]
			break
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return papers, err
		}

		page, err := c.fetchPage(ctx, category, start)
		if err != nil {
			return papers, fmt.Errorf("fetching %s at offset %d: %w", category, start, err)
		}
		if len(page) == 0 {
			break
		}

		pastWindow := true
		for _, p := range page {
			if p.Year() < c.cfg.StartYear {
				continue
			}
			pastWindow = false
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			papers = append(papers, p)
		}

		if len(papers) > 0 && len(papers)%500 == 0 {
			fmt.Fprintf(w, "  %s: %d papers so far\n", category, len(papers))
		}

		// Results arrive newest first, so a page entirely before the start
		// year means everything after it is older still.
		if pastWindow {
			break
		}
	}

	return papers, nil
}

// FetchAll fetches every configured category and merges the results,
// dropping papers already seen under another category (R1.4). A category
// that fails mid-fetch contributes what it returned before the failure;
// the error is reported as a warning on w rather than aborting the run.
func (c *ArxivClient) FetchAll(ctx context.Context, w io.Writer) ([]types.Paper, error) {
	if len(c.cfg.Categories) == 0 {
		return nil, fmt.Errorf("no arXiv categories configured")
	}

	var all []types.Paper
	seen := make(map[string]bool)

	for _, category := range c.cfg.Categories {
		fmt.Fprintf(w, "fetching %s\n", category)

		papers, err := c.FetchCategory(ctx, category, w)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			fmt.Fprintf(w, "warning: %v\n", err)
		}

		added := 0
		for _, p := range papers {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			all = append(all, p)
			added++
		}
		fmt.Fprintf(w, "  %s: %d papers (%d new)\n", category, len(papers), added)
	}

	fmt.Fprintf(w, "total unique papers: %d\n", len(all))
	return all, nil
}

func (c *ArxivClient) fetchPage(ctx context.Context, category string, start int) ([]types.Paper, error) {
	url := fmt.Sprintf("%s?search_query=cat:%s&start=%d&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, category, start, c.cfg.PageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var papers []types.Paper
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		p := types.Paper{
			ID:              arxivID,
			Title:           strings.Join(strings.Fields(entry.Title), " "),
			Abstract:        strings.TrimSpace(entry.Summary),
			PrimaryCategory: entry.PrimaryCategory.Term,
		}

		for _, a := range entry.Authors {
			p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
		}
		for _, cat := range entry.Categories {
			p.Categories = append(p.Categories, cat.Term)
		}

		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			p.Published = t
		}

		papers = append(papers, p)
	}
	return papers, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID              string          `xml:"id"`
	Title           string          `xml:"title"`
	Summary         string          `xml:"summary"`
	Published       string          `xml:"published"`
	Authors         []arxivXMLAuthor `xml:"author"`
	Categories      []arxivCategory `xml:"category"`
	PrimaryCategory arxivCategory   `xml:"primary_category"`
}

type arxivXMLAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
