// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile assembles author profiles from crawled papers, identity
// resolution results, and inferred signals.
// Implements: prd004-profiles (R1, R2, R4, R5).
package profile

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/huyxdang/author-search/internal/signals"
	"github.com/huyxdang/author-search/pkg/types"
)

// Resolver looks up an author's external identity record. Implementations
// return nil when no confident record exists; the builder substitutes
// defaults (R2.3).
type Resolver interface {
	Resolve(ctx context.Context, name string, papers []types.Paper) *types.ResolutionResult
}

// Narrator turns an assembled profile into prose. Per Strategy pattern so
// tests can supply a mock (prd004-profiles R4.1).
type Narrator interface {
	Narrate(ctx context.Context, profile *types.AuthorProfile) (string, error)
}

// Builder composes AuthorProfile records from grouped papers.
type Builder struct {
	resolver Resolver
	narrator Narrator
	cfg      types.ProfileConfig
	w        io.Writer
}

// NewBuilder returns a Builder writing progress output to w. narrator may be
// nil, in which case every profile uses the deterministic fallback text.
func NewBuilder(resolver Resolver, narrator Narrator, cfg types.ProfileConfig, w io.Writer) *Builder {
	return &Builder{resolver: resolver, narrator: narrator, cfg: cfg, w: w}
}

// Build assembles the profile for one author from their paper group. Every
// stage degrades rather than fails: a missing identity record yields
// defaults, a narrator error yields the fallback text. The only error out
// of Build is context cancellation (R1.4).
func (b *Builder) Build(ctx context.Context, name string, papers []types.Paper) (*types.AuthorProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	first, last := yearSpan(papers)
	yearsActive := 0
	if last > first {
		yearsActive = last - first
	}

	res := b.resolver.Resolve(ctx, name, papers)
	found := res != nil
	if !found {
		res = &types.ResolutionResult{}
	}
	if res.Affiliations == nil {
		// Keep exports byte-stable: an empty list, never JSON null.
		res.Affiliations = []string{}
	}

	prof := &types.AuthorProfile{
		Name:          name,
		PaperCount:    len(papers),
		FirstYear:     first,
		LastYear:      last,
		YearsActive:   yearsActive,
		Affiliations:  res.Affiliations,
		CitationCount: res.CitationCount,
		Nationality:   signals.InferNationality(name, res.Affiliations, res.Locations),
		CareerStage:   signals.InferCareerStage(len(papers), yearsActive, res.CitationCount),
		Evolution:     signals.ExtractEvolution(papers),
		Metadata: types.ProfileMetadata{
			SemanticScholarFound: found,
			Verified:             res.Verified,
			OverlapRatio:         res.OverlapRatio,
		},
	}

	prof.ProfileText = b.narrate(ctx, prof)
	return prof, nil
}

// BuildAll builds profiles for every author group with at least MinPapers
// papers, up to cfg.Concurrency groups in flight at once (R5.1). Results are
// sorted by author name. Individual author failures abort the batch only on
// context cancellation.
func (b *Builder) BuildAll(ctx context.Context, groups map[string][]types.Paper) ([]*types.AuthorProfile, error) {
	names := make([]string, 0, len(groups))
	for name, papers := range groups {
		if len(papers) < b.cfg.MinPapers {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	concurrency := b.cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	var mu sync.Mutex
	profiles := make([]*types.AuthorProfile, 0, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, name := range names {
		name := name
		g.Go(func() error {
			fmt.Fprintf(b.w, "profiling %s (%d papers)\n", name, len(groups[name]))
			prof, err := b.Build(gctx, name, groups[name])
			if err != nil {
				return fmt.Errorf("profiling %s: %w", name, err)
			}
			mu.Lock()
			profiles = append(profiles, prof)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

// narrate produces the profile text, falling back to the deterministic
// summary when no narrator is configured or the narrator fails (R4.3).
func (b *Builder) narrate(ctx context.Context, prof *types.AuthorProfile) string {
	if b.narrator == nil {
		return FallbackNarrative(prof)
	}
	text, err := b.narrator.Narrate(ctx, prof)
	if err != nil {
		fmt.Fprintf(b.w, "warning: narrative generation for %s failed, using fallback: %v\n", prof.Name, err)
		return FallbackNarrative(prof)
	}
	if strings.TrimSpace(text) == "" {
		return FallbackNarrative(prof)
	}
	return text
}

// yearSpan returns the earliest and latest publication years, ignoring
// papers without a date.
func yearSpan(papers []types.Paper) (first, last int) {
	for _, p := range papers {
		y := p.Year()
		if y == 0 {
			continue
		}
		if first == 0 || y < first {
			first = y
		}
		if y > last {
			last = y
		}
	}
	return first, last
}

// FallbackNarrative renders a profile as plain factual prose without any
// model call. It is used when narrative generation is unavailable and must
// produce usable text from the structured fields alone (R4.3).
func FallbackNarrative(p *types.AuthorProfile) string {
	var b strings.Builder

	if p.FirstYear > 0 {
		fmt.Fprintf(&b, "%s has published %d papers between %d and %d.",
			p.Name, p.PaperCount, p.FirstYear, p.LastYear)
	} else {
		fmt.Fprintf(&b, "%s has published %d papers.", p.Name, p.PaperCount)
	}

	fmt.Fprintf(&b, " %s (%s).", p.CareerStage.Description, p.CareerStage.Temporal)

	if len(p.Affiliations) > 0 {
		fmt.Fprintf(&b, " Affiliated with %s.", strings.Join(p.Affiliations, ", "))
	}
	if p.CitationCount > 0 {
		fmt.Fprintf(&b, " Cited %d times.", p.CitationCount)
	}

	if len(p.Nationality) > 0 {
		labels := make([]string, 0, len(p.Nationality))
		for label := range p.Nationality {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		fmt.Fprintf(&b, " Background signals suggest: %s.", strings.Join(labels, ", "))
	}

	if len(p.Evolution.RecentFocus) > 0 {
		if p.Evolution.Transition {
			fmt.Fprintf(&b, " Research focus shifted from %s to %s.",
				strings.Join(p.Evolution.EarlyFocus, ", "),
				strings.Join(p.Evolution.RecentFocus, ", "))
		} else {
			fmt.Fprintf(&b, " Research has consistently focused on %s.",
				strings.Join(p.Evolution.RecentFocus, ", "))
		}
	}

	return b.String()
}
