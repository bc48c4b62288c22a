// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/huyxdang/author-search/internal/index"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search author profiles",
	Long: `Search queries author profiles. The default mode runs SQLite
full-text search over profile names and narrative text. With --semantic the
query is embedded and matched against the vector index instead, which
requires a prior index run.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("semantic", false, "use the vector index instead of full-text search")
	searchCmd.Flags().Int("limit", 10, "maximum number of results")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	searchCmd.Flags().String("qdrant-url", "http://localhost:6333", "Qdrant HTTP endpoint")
	searchCmd.Flags().String("qdrant-api-key", "", "Qdrant API key (default from .secrets/)")
	searchCmd.Flags().String("collection", "authors", "Qdrant collection name")
	searchCmd.Flags().String("embedding-model", "text-embedding-3-small", "embedding model identifier")
	searchCmd.Flags().String("openai-api-key", "", "OpenAI API key for embeddings (default from .secrets/)")
	searchCmd.Flags().Int("dimensions", 1536, "embedding vector size")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	semantic, _ := cmd.Flags().GetBool("semantic")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if semantic {
		return runSemanticSearch(cmd, query, limit, jsonOutput)
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	profiles, err := s.SearchProfiles(context.Background(), query, limit)
	if err != nil {
		return err
	}

	hits := make([]index.Hit, len(profiles))
	for i, p := range profiles {
		hits[i] = index.Hit{
			Name:        p.Name,
			PaperCount:  p.PaperCount,
			CareerStage: string(p.CareerStage.Stage),
			ProfileText: p.ProfileText,
		}
	}
	return formatSearchOutput(hits, jsonOutput)
}

func runSemanticSearch(cmd *cobra.Command, query string, limit int, jsonOutput bool) error {
	cfg := indexConfigFromFlags(cmd)
	if cfg.EmbeddingAPIKey == "" {
		return fmt.Errorf("an OpenAI API key is required for semantic search: set --openai-api-key or .secrets/openai-api-key")
	}

	httpClient := &http.Client{Timeout: 2 * time.Minute}
	indexer := index.NewIndexer(
		index.NewOpenAIEmbedder(cfg, httpClient),
		index.NewQdrant(cfg, httpClient),
		os.Stderr,
	)

	hits, err := indexer.Search(context.Background(), query, limit)
	if err != nil {
		return err
	}
	return formatSearchOutput(hits, jsonOutput)
}

func formatSearchOutput(hits []index.Hit, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-30s  %-6s  %-14s  %s\n",
		"Rank", "Author", "Papers", "Stage", "Profile")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, h := range hits {
		text := strings.ReplaceAll(h.ProfileText, "\n", " ")
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		name := h.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-30s  %-6d  %-14s  %s\n",
			i+1, name, h.PaperCount, h.CareerStage, text)
	}
	return nil
}
