// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import "github.com/huyxdang/author-search/pkg/types"

// GroupByAuthor partitions papers into per-author sequences keyed by the
// exact author name string (R2.2). A paper with N co-authors appears in all
// N groups; membership is shared, not exclusive. Papers with no authors are
// skipped. Sequence order follows input order, which is not necessarily
// chronological.
func GroupByAuthor(papers []types.Paper) map[string][]types.Paper {
	groups := make(map[string][]types.Paper)
	for _, p := range papers {
		for _, name := range p.Authors {
			if name == "" {
				continue
			}
			groups[name] = append(groups[name], p)
		}
	}
	return groups
}
