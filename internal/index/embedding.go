// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index maintains a vector index of profile narratives for semantic
// search over authors.
// Implements: prd005-index (R4, R5).
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/huyxdang/author-search/pkg/types"
)

// Embedder turns a batch of texts into vectors. Per Strategy pattern so
// tests can supply a mock (R4.1).
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// embeddingsAPIURL is the OpenAI embeddings endpoint. Package-level var for
// test substitution.
var embeddingsAPIURL = "https://api.openai.com/v1/embeddings"

// OpenAIEmbedder calls the OpenAI embeddings API.
type OpenAIEmbedder struct {
	APIKey string
	Model  string
	Client *http.Client
}

// NewOpenAIEmbedder returns an embedder for cfg's embedding model.
func NewOpenAIEmbedder(cfg types.IndexConfig, httpClient *http.Client) *OpenAIEmbedder {
	model := cfg.EmbeddingModel
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &OpenAIEmbedder{APIKey: cfg.EmbeddingAPIKey, Model: model, Client: httpClient}
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed requests vectors for all texts in one call. The API may reorder
// results; they are returned in input order (R4.2).
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	bodyBytes, err := json.Marshal(embeddingRequest{Input: texts, Model: e.Model})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, embeddingsAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling embeddings API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embeddings API returned %d: %s", resp.StatusCode, string(body))
	}

	var eResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&eResp); err != nil {
		return nil, fmt.Errorf("decoding embeddings response: %w", err)
	}
	if len(eResp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings API returned %d vectors for %d inputs", len(eResp.Data), len(texts))
	}

	sort.Slice(eResp.Data, func(i, j int) bool { return eResp.Data[i].Index < eResp.Data[j].Index })

	vectors := make([][]float64, len(eResp.Data))
	for i, d := range eResp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
