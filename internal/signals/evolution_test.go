// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signals

import (
	"fmt"
	"testing"
	"time"

	"github.com/huyxdang/author-search/pkg/types"
)

func paperAt(year int, title, abstract string) types.Paper {
	return types.Paper{
		Title:     title,
		Abstract:  abstract,
		Published: time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestExtractEvolutionEmpty(t *testing.T) {
	got := ExtractEvolution(nil)
	if len(got.EarlyFocus) != 0 || len(got.RecentFocus) != 0 {
		t.Errorf("empty input should yield empty focus lists, got %+v", got)
	}
	if got.Transition || !got.Consistent {
		t.Errorf("empty input should be consistent, got %+v", got)
	}
}

func TestExtractEvolutionSinglePaper(t *testing.T) {
	got := ExtractEvolution([]types.Paper{
		paperAt(2020, "Neural Machine Translation", "Attention mechanisms for translation quality"),
	})
	if len(got.EarlyFocus) == 0 {
		t.Fatal("single paper should still produce focus tokens")
	}
	if fmt.Sprint(got.EarlyFocus) != fmt.Sprint(got.RecentFocus) {
		t.Errorf("single paper should duplicate focus into both windows: %v vs %v",
			got.EarlyFocus, got.RecentFocus)
	}
	if got.Transition || !got.Consistent {
		t.Errorf("single paper should be consistent, got %+v", got)
	}
}

func TestExtractEvolutionTransition(t *testing.T) {
	papers := []types.Paper{
		paperAt(2016, "Statistical Parsing of Dependency Grammar",
			"Dependency parsing with statistical grammar induction across corpora"),
		paperAt(2017, "Grammar Induction from Treebank Corpora",
			"Treebank grammar parsing and dependency structures"),
		paperAt(2022, "Image Segmentation with Convolutional Networks",
			"Convolutional segmentation of medical images"),
		paperAt(2023, "Medical Image Classification",
			"Convolutional networks for medical image classification"),
	}

	got := ExtractEvolution(papers)
	if !got.Transition {
		t.Fatalf("disjoint topic windows should flag a transition, got %+v", got)
	}
	if got.Consistent {
		t.Error("transition and consistent are mutually exclusive")
	}
	if len(got.EarlyFocus) == 0 || len(got.RecentFocus) == 0 {
		t.Errorf("both windows should have focus tokens: %+v", got)
	}
}

func TestExtractEvolutionConsistent(t *testing.T) {
	papers := []types.Paper{
		paperAt(2018, "Dependency Parsing with Neural Networks",
			"Neural dependency parsing models"),
		paperAt(2019, "Neural Dependency Parsing at Scale",
			"Scaling neural models for dependency parsing"),
		paperAt(2021, "Multilingual Dependency Parsing",
			"Neural dependency parsing across languages"),
		paperAt(2022, "Robust Neural Dependency Parsing",
			"Neural models for robust dependency parsing"),
	}

	got := ExtractEvolution(papers)
	if got.Transition {
		t.Fatalf("stable topics should not flag a transition, got %+v", got)
	}
	if !got.Consistent {
		t.Error("stable topics should be flagged consistent")
	}
}

func TestExtractEvolutionIgnoresInputOrder(t *testing.T) {
	ordered := []types.Paper{
		paperAt(2016, "Dependency Grammar Parsing", "Grammar parsing and treebank dependency corpora"),
		paperAt(2017, "Treebank Grammar Induction", "Grammar treebank parsing dependency"),
		paperAt(2022, "Convolutional Image Segmentation", "Convolutional segmentation of images"),
		paperAt(2023, "Image Classification Networks", "Convolutional image classification networks"),
	}
	shuffled := []types.Paper{ordered[2], ordered[0], ordered[3], ordered[1]}

	a := ExtractEvolution(ordered)
	b := ExtractEvolution(shuffled)
	if fmt.Sprint(a) != fmt.Sprint(b) {
		t.Errorf("evolution must not depend on input order:\n%+v\n%+v", a, b)
	}
}

func TestExtractEvolutionFocusLimit(t *testing.T) {
	var papers []types.Paper
	for i := 0; i < 6; i++ {
		papers = append(papers, paperAt(2015+i,
			"Quantum Entanglement Dynamics Coherence Decoherence Superposition Interference",
			"Entanglement coherence decoherence superposition interference qubit lattices"))
	}

	got := ExtractEvolution(papers)
	if len(got.EarlyFocus) > 5 || len(got.RecentFocus) > 5 {
		t.Errorf("focus windows are capped at five tokens, got %d and %d",
			len(got.EarlyFocus), len(got.RecentFocus))
	}
}

func TestExtractEvolutionStopwordsAndShortTokens(t *testing.T) {
	got := ExtractEvolution([]types.Paper{
		paperAt(2020, "A Novel Method for the Study of AI",
			"We propose a new approach using our method"),
	})
	for _, tok := range got.EarlyFocus {
		if stopwords[tok] {
			t.Errorf("stopword %q leaked into focus tokens %v", tok, got.EarlyFocus)
		}
		if len(tok) < 3 {
			t.Errorf("short token %q leaked into focus tokens %v", tok, got.EarlyFocus)
		}
	}
}

func TestExtractEvolutionFlagsExclusive(t *testing.T) {
	cases := [][]types.Paper{
		nil,
		{paperAt(2020, "Graph Neural Networks", "Graphs")},
		{
			paperAt(2018, "Speech Recognition Acoustics", "Acoustic speech models"),
			paperAt(2023, "Protein Folding Structures", "Folding protein structures"),
		},
	}

	for i, papers := range cases {
		got := ExtractEvolution(papers)
		if got.Transition == got.Consistent {
			t.Errorf("case %d: exactly one of transition/consistent must be set, got %+v", i, got)
		}
	}
}
