// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"strings"

	"github.com/huyxdang/author-search/pkg/types"
)

// TitleOverlap computes the Jaccard similarity between the normalized title
// sets of the crawled papers and an external candidate's claimed papers
// (R2.1). Titles are case-folded before comparison; no further normalization
// is applied. Papers without an extractable title contribute nothing to
// their side.
//
// Either side empty returns exactly 0.0. This is policy, not the undefined
// 0/0 Jaccard case: an empty side carries no identity evidence (R2.2).
func TitleOverlap(crawled []types.Paper, claimed []Paper) float64 {
	a := make(map[string]bool, len(crawled))
	for _, p := range crawled {
		if t := normalizeTitle(p.Title); t != "" {
			a[t] = true
		}
	}

	b := make(map[string]bool, len(claimed))
	for _, p := range claimed {
		if t := normalizeTitle(p.Title); t != "" {
			b[t] = true
		}
	}

	return jaccard(a, b)
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// jaccard returns |a ∩ b| / |a ∪ b|, or 0.0 when either set is empty.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for t := range a {
		if b[t] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
