// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/huyxdang/author-search/pkg/types"
)

// VerificationThreshold is the minimum title overlap for a candidate to be
// accepted as the same person (R2.3).
const VerificationThreshold = 0.2

// Resolver resolves author names against Semantic Scholar with a per-name
// cache. A name seen twice receives byte-identical treatment without a
// second external call, including names whose first resolution failed
// (R3.1). Population is at-most-once per key, so Resolve is safe to call
// from the parallel profile build.
type Resolver struct {
	client *Client
	w      io.Writer

	mu    sync.Mutex
	cache map[string]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	res  *types.ResolutionResult
}

// NewResolver returns a Resolver that reports resolution warnings to w.
func NewResolver(client *Client, w io.Writer) *Resolver {
	return &Resolver{
		client: client,
		w:      w,
		cache:  make(map[string]*cacheEntry),
	}
}

// Resolve returns the external identity resolution for name, or nil when no
// match was found. External failures (network, not-found) degrade to nil
// rather than propagating: an unresolved author still gets a profile (R3.2).
func (r *Resolver) Resolve(ctx context.Context, name string, crawled []types.Paper) *types.ResolutionResult {
	r.mu.Lock()
	e, ok := r.cache[name]
	if !ok {
		e = &cacheEntry{}
		r.cache[name] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		e.res = r.resolve(ctx, name, crawled)
	})
	return e.res
}

func (r *Resolver) resolve(ctx context.Context, name string, crawled []types.Paper) *types.ResolutionResult {
	candidates, err := r.client.SearchAuthors(ctx, name)
	if err != nil {
		fmt.Fprintf(r.w, "warning: resolution failed for %q: %v\n", name, err)
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}

	// First candidate only; the source's own ranking is trusted (R1.3).
	author, err := r.client.GetAuthor(ctx, candidates[0].AuthorID)
	if err != nil {
		fmt.Fprintf(r.w, "warning: author fetch failed for %q: %v\n", name, err)
		return nil
	}

	ratio := TitleOverlap(crawled, author.Papers)
	verified := ratio >= VerificationThreshold
	if !verified {
		// Weak evidence is suppressed, not reported (R2.4).
		ratio = 0.0
	}

	// Affiliations and counts are reported regardless of verification;
	// identity confidence and metadata richness are independent (R3.3).
	return &types.ResolutionResult{
		Affiliations:  author.Affiliations,
		Locations:     deriveLocations(author.Affiliations),
		CitationCount: author.CitationCount,
		PaperCount:    author.PaperCount,
		HIndex:        author.HIndex,
		Verified:      verified,
		OverlapRatio:  ratio,
	}
}

// deriveLocations extracts location strings from affiliation suffixes.
// The Graph API carries no location field, but affiliations commonly trail
// with city and country segments ("VinAI Research, Hanoi, Vietnam").
// The institution segment itself is dropped.
func deriveLocations(affiliations []string) []string {
	var locations []string
	seen := make(map[string]bool)
	for _, aff := range affiliations {
		parts := strings.Split(aff, ",")
		for _, part := range parts[1:] {
			loc := strings.TrimSpace(part)
			if loc == "" || seen[loc] {
				continue
			}
			seen[loc] = true
			locations = append(locations, loc)
		}
	}
	return locations
}
