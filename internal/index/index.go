// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"io"

	"github.com/huyxdang/author-search/pkg/types"
)

// embedBatchSize caps how many narratives go into one embeddings call.
const embedBatchSize = 64

// Indexer embeds profile narratives and writes them to the vector store.
type Indexer struct {
	embedder Embedder
	qdrant   *Qdrant
	w        io.Writer
}

// NewIndexer returns an Indexer writing progress output to w.
func NewIndexer(embedder Embedder, qdrant *Qdrant, w io.Writer) *Indexer {
	return &Indexer{embedder: embedder, qdrant: qdrant, w: w}
}

// IndexProfiles ensures the collection exists, then embeds and upserts all
// profiles in batches. It returns the number of profiles indexed (R5.2).
// Profiles without narrative text are skipped with a warning.
func (ix *Indexer) IndexProfiles(ctx context.Context, profiles []*types.AuthorProfile) (int, error) {
	if err := ix.qdrant.EnsureCollection(ctx); err != nil {
		return 0, fmt.Errorf("ensuring collection: %w", err)
	}

	var eligible []*types.AuthorProfile
	for _, p := range profiles {
		if p.ProfileText == "" {
			fmt.Fprintf(ix.w, "warning: skipping %s: empty profile text\n", p.Name)
			continue
		}
		eligible = append(eligible, p)
	}

	indexed := 0
	for start := 0; start < len(eligible); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(eligible) {
			end = len(eligible)
		}
		batch := eligible[start:end]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.ProfileText
		}

		vectors, err := ix.embedder.Embed(ctx, texts)
		if err != nil {
			return indexed, fmt.Errorf("embedding batch: %w", err)
		}
		if err := ix.qdrant.UpsertProfiles(ctx, batch, vectors); err != nil {
			return indexed, fmt.Errorf("upserting batch: %w", err)
		}

		indexed += len(batch)
		fmt.Fprintf(ix.w, "indexed %d/%d profiles\n", indexed, len(eligible))
	}

	return indexed, nil
}

// Search embeds the query text and returns the closest profiles (R5.3).
func (ix *Indexer) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	vectors, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected one query vector, got %d", len(vectors))
	}
	return ix.qdrant.SearchVector(ctx, vectors[0], limit)
}
