// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"

	"github.com/huyxdang/author-search/pkg/types"
)

// Qdrant is a minimal REST client to a Qdrant collection holding one point
// per author profile. It assumes cosine distance.
type Qdrant struct {
	cfg    types.IndexConfig
	client *http.Client
}

// NewQdrant returns a client for cfg's collection. httpClient may be nil.
func NewQdrant(cfg types.IndexConfig, httpClient *http.Client) *Qdrant {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Qdrant{cfg: cfg, client: httpClient}
}

// EnsureCollection creates the collection if it does not exist (R5.1).
// Qdrant answers 200 for an existing collection with the same schema.
func (q *Qdrant) EnsureCollection(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     q.cfg.Dimensions,
			"distance": "Cosine",
		},
	}
	return q.doJSON(ctx, http.MethodPut,
		fmt.Sprintf("%s/collections/%s", q.cfg.URL, q.cfg.Collection), body, nil)
}

// UpsertProfiles writes one point per profile, keyed by a stable hash of
// the author name so re-indexing overwrites instead of duplicating (R5.2).
func (q *Qdrant) UpsertProfiles(ctx context.Context, profiles []*types.AuthorProfile, vectors [][]float64) error {
	if len(profiles) != len(vectors) {
		return fmt.Errorf("profiles and vectors length mismatch: %d vs %d", len(profiles), len(vectors))
	}

	points := make([]map[string]any, len(profiles))
	for i, p := range profiles {
		points[i] = map[string]any{
			"id":     pointID(p.Name),
			"vector": vectors[i],
			"payload": map[string]any{
				"name":         p.Name,
				"paper_count":  p.PaperCount,
				"career_stage": string(p.CareerStage.Stage),
				"profile_text": p.ProfileText,
			},
		}
	}

	body := map[string]any{"points": points}
	return q.doJSON(ctx, http.MethodPut,
		fmt.Sprintf("%s/collections/%s/points?wait=true", q.cfg.URL, q.cfg.Collection), body, nil)
}

// Hit is one semantic search result.
type Hit struct {
	Name        string  `json:"name" yaml:"name"`
	Score       float64 `json:"score" yaml:"score"`
	PaperCount  int     `json:"paper_count" yaml:"paper_count"`
	CareerStage string  `json:"career_stage" yaml:"career_stage"`
	ProfileText string  `json:"profile_text" yaml:"profile_text"`
}

// SearchVector returns the closest profiles to the query vector (R5.3).
func (q *Qdrant) SearchVector(ctx context.Context, vector []float64, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 5
	}
	reqBody := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := q.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/collections/%s/points/search", q.cfg.URL, q.cfg.Collection), reqBody, &resp); err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		h := Hit{Score: r.Score}
		if v, ok := r.Payload["name"].(string); ok {
			h.Name = v
		}
		if v, ok := r.Payload["paper_count"].(float64); ok {
			h.PaperCount = int(v)
		}
		if v, ok := r.Payload["career_stage"].(string); ok {
			h.CareerStage = v
		}
		if v, ok := r.Payload["profile_text"].(string); ok {
			h.ProfileText = v
		}
		hits = append(hits, h)
	}
	return hits, nil
}

func (q *Qdrant) doJSON(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if q.cfg.APIKey != "" {
		req.Header.Set("api-key", q.cfg.APIKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling qdrant: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant %s %s returned %d: %s", method, url, resp.StatusCode, string(respBody))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// pointID derives a stable numeric point id from the author name. Qdrant
// point ids must be unsigned integers or UUIDs.
func pointID(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
