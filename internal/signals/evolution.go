// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signals

import (
	"sort"
	"strings"

	"github.com/huyxdang/author-search/pkg/types"
)

const (
	// focusTokenCount is how many topic tokens represent each window.
	focusTokenCount = 5

	// transitionThreshold is the focus-set similarity below which the
	// author's topics are considered to have shifted (R3.3).
	transitionThreshold = 0.25

	minTokenLength = 3
)

// stopwords excludes generic English and academic boilerplate from topic
// tokens. Domain terms ("transformer", "segmentation") pass through.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "these": true, "those": true, "are": true,
	"was": true, "were": true, "our": true, "can": true, "has": true,
	"have": true, "not": true, "its": true, "into": true, "over": true,
	"between": true, "both": true, "been": true, "but": true, "also": true,
	"such": true, "than": true, "then": true, "when": true, "which": true,
	"while": true, "where": true, "how": true, "what": true, "who": true,
	"all": true, "any": true, "each": true, "more": true, "most": true,
	"other": true, "some": true, "their": true, "them": true, "they": true,
	"via": true, "use": true, "used": true, "uses": true, "using": true,
	"based": true, "new": true, "novel": true, "paper": true,
	"present": true, "presents": true, "propose": true, "proposes": true,
	"proposed": true, "approach": true, "approaches": true,
	"method": true, "methods": true, "result": true, "results": true,
	"show": true, "shows": true, "shown": true, "study": true,
	"task": true, "tasks": true, "work": true,
}

// ExtractEvolution characterizes whether an author's topical focus shifted
// or stayed stable between their earliest and most recent work (R3). The
// input order is irrelevant; papers are sorted by publication date
// internally. Both focus lists are always populated as well as possible:
// zero papers yield empty lists, a single paper duplicates its topics into
// both windows. This function never fails on any input size (R3.4).
func ExtractEvolution(papers []types.Paper) types.ResearchEvolution {
	if len(papers) == 0 {
		return types.ResearchEvolution{
			EarlyFocus:  []string{},
			RecentFocus: []string{},
			Consistent:  true,
		}
	}

	sorted := make([]types.Paper, len(papers))
	copy(sorted, papers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published.Before(sorted[j].Published)
	})

	if len(sorted) == 1 {
		focus := topTokens(sorted)
		return types.ResearchEvolution{
			EarlyFocus:  focus,
			RecentFocus: focus,
			Consistent:  true,
		}
	}

	mid := len(sorted) / 2
	early := topTokens(sorted[:mid])
	recent := topTokens(sorted[mid:])

	evolution := types.ResearchEvolution{
		EarlyFocus:  early,
		RecentFocus: recent,
	}

	// Without tokens on both sides there is no evidence of a shift.
	if len(early) == 0 || len(recent) == 0 {
		evolution.Consistent = true
		return evolution
	}

	if tokenSimilarity(early, recent) < transitionThreshold {
		evolution.Transition = true
	} else {
		evolution.Consistent = true
	}
	return evolution
}

// topTokens returns the most frequent topic tokens across the window's
// titles and abstracts, ties broken alphabetically for determinism.
func topTokens(papers []types.Paper) []string {
	counts := make(map[string]int)
	for _, p := range papers {
		for _, token := range tokenize(p.Title + " " + p.Abstract) {
			counts[token]++
		}
	}

	tokens := make([]string, 0, len(counts))
	for t := range counts {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})

	if len(tokens) > focusTokenCount {
		tokens = tokens[:focusTokenCount]
	}
	return tokens
}

func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	var tokens []string
	for _, f := range strings.Fields(cleaned) {
		if len(f) < minTokenLength || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// tokenSimilarity is the Jaccard similarity of two token lists.
func tokenSimilarity(a, b []string) float64 {
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
