// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/huyxdang/author-search/internal/index"
	"github.com/huyxdang/author-search/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Push author profiles into the vector index",
	Long: `Index embeds each stored profile narrative and upserts it into a
Qdrant collection for semantic search. Re-running overwrites existing points,
so the index follows profile rebuilds.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("qdrant-url", "http://localhost:6333", "Qdrant HTTP endpoint")
	indexCmd.Flags().String("qdrant-api-key", "", "Qdrant API key (default from .secrets/)")
	indexCmd.Flags().String("collection", "authors", "Qdrant collection name")
	indexCmd.Flags().String("embedding-model", "text-embedding-3-small", "embedding model identifier")
	indexCmd.Flags().String("openai-api-key", "", "OpenAI API key for embeddings (default from .secrets/)")
	indexCmd.Flags().Int("dimensions", 1536, "embedding vector size")

	rootCmd.AddCommand(indexCmd)
}

// indexConfigFromFlags builds the vector index settings shared by the index
// and search commands.
func indexConfigFromFlags(cmd *cobra.Command) types.IndexConfig {
	url, _ := cmd.Flags().GetString("qdrant-url")
	qdrantKey, _ := cmd.Flags().GetString("qdrant-api-key")
	collection, _ := cmd.Flags().GetString("collection")
	model, _ := cmd.Flags().GetString("embedding-model")
	openaiKey, _ := cmd.Flags().GetString("openai-api-key")
	dimensions, _ := cmd.Flags().GetInt("dimensions")

	return types.IndexConfig{
		URL:             url,
		APIKey:          secretDefault("qdrant-api-key", qdrantKey),
		Collection:      collection,
		EmbeddingModel:  model,
		EmbeddingAPIKey: secretDefault("openai-api-key", openaiKey),
		Dimensions:      dimensions,
	}
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := indexConfigFromFlags(cmd)
	if cfg.EmbeddingAPIKey == "" {
		return fmt.Errorf("an OpenAI API key is required for embeddings: set --openai-api-key or .secrets/openai-api-key")
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	profiles, err := s.ListProfiles(ctx)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles in the database: run profiles first")
	}

	httpClient := &http.Client{Timeout: 2 * time.Minute}
	indexer := index.NewIndexer(
		index.NewOpenAIEmbedder(cfg, httpClient),
		index.NewQdrant(cfg, httpClient),
		os.Stdout,
	)

	n, err := indexer.IndexProfiles(ctx, profiles)
	if err != nil {
		return err
	}

	fmt.Printf("indexed %d profiles into %s\n", n, cfg.Collection)
	return nil
}
