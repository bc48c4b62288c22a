// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/huyxdang/author-search/internal/ingest"
	"github.com/huyxdang/author-search/internal/store"
	"github.com/huyxdang/author-search/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "author-search/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Crawl recent arXiv papers into the local database",
	Long: `Fetch pages through the arXiv API for each configured category,
filters papers to the requested year window, deduplicates across categories,
and stores the result in the local database. Requests are paced to arXiv's
published rate guidance.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringSlice("categories", []string{"cs.CL", "cs.CV", "cs.LG"}, "arXiv categories to crawl")
	fetchCmd.Flags().Int("start-year", time.Now().Year()-2, "exclude papers published before this year")
	fetchCmd.Flags().Int("max-per-category", 0, "cap results per category (0 = no cap)")
	fetchCmd.Flags().Int("page-size", 0, "results per API page (default 100)")
	fetchCmd.Flags().Duration("request-interval", 0, "minimum delay between page requests (default 3s)")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	categories, _ := cmd.Flags().GetStringSlice("categories")
	startYear, _ := cmd.Flags().GetInt("start-year")
	maxPerCategory, _ := cmd.Flags().GetInt("max-per-category")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	interval, _ := cmd.Flags().GetDuration("request-interval")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Categories:      categories,
		StartYear:       startYear,
		MaxPerCategory:  maxPerCategory,
		PageSize:        pageSize,
		RequestInterval: interval,
	}

	client := ingest.NewArxivClient(&http.Client{Timeout: cfg.Timeout}, cfg)

	papers, err := client.FetchAll(context.Background(), os.Stdout)
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SavePapers(context.Background(), papers); err != nil {
		return err
	}

	fmt.Printf("stored %d papers\n", len(papers))
	return nil
}

// openStore opens the SQLite store under the shared --data-dir flag.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = "data"
	}
	return store.NewStore(types.StoreConfig{DataDir: dataDir})
}
