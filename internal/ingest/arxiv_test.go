// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/huyxdang/author-search/pkg/types"
)

// atomEntry renders one Atom feed entry the way the arXiv API does.
func atomEntry(id, title, published string, authors ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<entry>
  <id>http://arxiv.org/abs/%s</id>
  <title>%s</title>
  <summary>Some abstract text.</summary>
  <published>%s</published>
  <primary_category term="cs.CL"/>
  <category term="cs.CL"/>
  <category term="cs.LG"/>
`, id, title, published)
	for _, a := range authors {
		fmt.Fprintf(&b, "  <author><name>%s</name></author>\n", a)
	}
	b.WriteString("</entry>\n")
	return b.String()
}

func atomFeed(entries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
` + strings.Join(entries, "") + `</feed>`
}

func testFetchCfg() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig:      types.HTTPConfig{UserAgent: "author-search-test/0.1"},
		Categories:      []string{"cs.CL"},
		StartYear:       2020,
		PageSize:        100,
		RequestInterval: time.Microsecond,
	}
}

func TestFetchCategoryParsesEntries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") != "0" {
			fmt.Fprint(w, atomFeed())
			return
		}
		fmt.Fprint(w, atomFeed(
			atomEntry("2301.07041v2", "Attention  Is\n  All You Need Again", "2023-01-17T12:00:00Z", "Jane Smith", "John Doe"),
		))
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	c := NewArxivClient(ts.Client(), testFetchCfg())
	papers, err := c.FetchCategory(context.Background(), "cs.CL", io.Discard)
	if err != nil {
		t.Fatalf("FetchCategory: %v", err)
	}

	if len(papers) != 1 {
		t.Fatalf("got %d papers, want 1", len(papers))
	}
	p := papers[0]
	if p.ID != "2301.07041" {
		t.Errorf("ID = %q, want %q (version suffix stripped)", p.ID, "2301.07041")
	}
	if p.Title != "Attention Is All You Need Again" {
		t.Errorf("Title = %q, want whitespace collapsed", p.Title)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "Jane Smith" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if p.Year() != 2023 {
		t.Errorf("Year = %d, want 2023", p.Year())
	}
	if p.PrimaryCategory != "cs.CL" || len(p.Categories) != 2 {
		t.Errorf("categories = %q / %v", p.PrimaryCategory, p.Categories)
	}
}

func TestFetchCategoryFiltersByStartYear(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") != "0" {
			fmt.Fprint(w, atomFeed())
			return
		}
		fmt.Fprint(w, atomFeed(
			atomEntry("2301.00001", "Recent", "2023-01-01T00:00:00Z", "A"),
			atomEntry("1901.00001", "Ancient", "2019-01-01T00:00:00Z", "A"),
		))
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	c := NewArxivClient(ts.Client(), testFetchCfg())
	papers, err := c.FetchCategory(context.Background(), "cs.CL", io.Discard)
	if err != nil {
		t.Fatalf("FetchCategory: %v", err)
	}

	if len(papers) != 1 || papers[0].Title != "Recent" {
		t.Errorf("papers = %+v, want only the 2023 paper", papers)
	}
}

func TestFetchCategoryStopsPastStartYear(t *testing.T) {
	var requests int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// Every page is entirely older than the start year.
		fmt.Fprint(w, atomFeed(
			atomEntry(fmt.Sprintf("1801.%05d", requests), "Old", "2018-01-01T00:00:00Z", "A"),
		))
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	c := NewArxivClient(ts.Client(), testFetchCfg())
	papers, err := c.FetchCategory(context.Background(), "cs.CL", io.Discard)
	if err != nil {
		t.Fatalf("FetchCategory: %v", err)
	}

	if len(papers) != 0 {
		t.Errorf("got %d papers, want 0", len(papers))
	}
	if requests != 1 {
		t.Errorf("made %d requests, want 1 (stop once a page falls before the window)", requests)
	}
}

func TestFetchAllDeduplicatesAcrossCategories(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") != "0" {
			fmt.Fprint(w, atomFeed())
			return
		}
		// Both categories return the same cross-listed paper.
		fmt.Fprint(w, atomFeed(
			atomEntry("2301.00001", "Cross-listed", "2023-01-01T00:00:00Z", "A"),
		))
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	cfg := testFetchCfg()
	cfg.Categories = []string{"cs.CL", "cs.LG"}

	c := NewArxivClient(ts.Client(), cfg)
	papers, err := c.FetchAll(context.Background(), io.Discard)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if len(papers) != 1 {
		t.Errorf("got %d papers, want 1 after cross-category dedup", len(papers))
	}
}

func TestFetchAllContinuesAfterCategoryFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RawQuery, "cs.CL") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if r.URL.Query().Get("start") != "0" {
			fmt.Fprint(w, atomFeed())
			return
		}
		fmt.Fprint(w, atomFeed(
			atomEntry("2302.00001", "Survivor", "2023-02-01T00:00:00Z", "B"),
		))
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	cfg := testFetchCfg()
	cfg.Categories = []string{"cs.CL", "cs.LG"}

	c := NewArxivClient(ts.Client(), cfg)
	papers, err := c.FetchAll(context.Background(), io.Discard)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if len(papers) != 1 || papers[0].Title != "Survivor" {
		t.Errorf("papers = %+v, want the cs.LG paper despite the cs.CL failure", papers)
	}
}

func TestFetchCategoryRespectsMaxPerCategory(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := r.URL.Query().Get("start")
		fmt.Fprint(w, atomFeed(
			atomEntry("23"+start+".00001", "P1-"+start, "2023-01-01T00:00:00Z", "A"),
			atomEntry("23"+start+".00002", "P2-"+start, "2023-01-01T00:00:00Z", "A"),
		))
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	cfg := testFetchCfg()
	cfg.PageSize = 2
	cfg.MaxPerCategory = 3

	c := NewArxivClient(ts.Client(), cfg)
	papers, err := c.FetchCategory(context.Background(), "cs.CL", io.Discard)
	if err != nil {
		t.Fatalf("FetchCategory: %v", err)
	}

	if len(papers) != 3 {
		t.Errorf("got %d papers, want cap of 3", len(papers))
	}
}
