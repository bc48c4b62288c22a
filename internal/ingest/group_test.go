// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"testing"

	"github.com/huyxdang/author-search/pkg/types"
)

func TestGroupByAuthorSingleAuthor(t *testing.T) {
	papers := []types.Paper{
		{Title: "Paper 1", Authors: []string{"John Doe"}},
		{Title: "Paper 2", Authors: []string{"John Doe"}},
		{Title: "Paper 3", Authors: []string{"John Doe"}},
	}

	groups := GroupByAuthor(papers)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if got := len(groups["John Doe"]); got != 3 {
		t.Errorf("John Doe has %d papers, want 3", got)
	}
}

func TestGroupByAuthorSharedMembership(t *testing.T) {
	papers := []types.Paper{
		{Title: "Paper 1", Authors: []string{"John Doe", "Jane Smith"}},
		{Title: "Paper 2", Authors: []string{"John Doe", "Bob Lee"}},
	}

	groups := GroupByAuthor(papers)

	if got := len(groups["John Doe"]); got != 2 {
		t.Errorf("John Doe has %d papers, want 2", got)
	}
	if got := len(groups["Jane Smith"]); got != 1 {
		t.Errorf("Jane Smith has %d papers, want 1", got)
	}
	if got := len(groups["Bob Lee"]); got != 1 {
		t.Errorf("Bob Lee has %d papers, want 1", got)
	}

	// The shared paper lands in both co-author groups.
	if groups["John Doe"][0].Title != "Paper 1" || groups["Jane Smith"][0].Title != "Paper 1" {
		t.Error("co-authored paper missing from one of its author groups")
	}
}

func TestGroupByAuthorMembershipCountConservation(t *testing.T) {
	papers := []types.Paper{
		{Title: "A", Authors: []string{"X", "Y"}},
		{Title: "B", Authors: []string{"X"}},
		{Title: "C", Authors: []string{"X", "Y", "Z"}},
		{Title: "D"},
	}

	wantTotal := 0
	for _, p := range papers {
		wantTotal += len(p.Authors)
	}

	groups := GroupByAuthor(papers)

	gotTotal := 0
	for _, seq := range groups {
		gotTotal += len(seq)
	}
	if gotTotal != wantTotal {
		t.Errorf("total group membership = %d, want %d", gotTotal, wantTotal)
	}
}

func TestGroupByAuthorSkipsAuthorlessPapers(t *testing.T) {
	papers := []types.Paper{
		{Title: "No authors"},
		{Title: "Empty name", Authors: []string{""}},
		{Title: "Real", Authors: []string{"Jane Smith"}},
	}

	groups := GroupByAuthor(papers)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if _, ok := groups[""]; ok {
		t.Error("empty author name must not form a group")
	}
}

func TestGroupByAuthorEmptyInput(t *testing.T) {
	groups := GroupByAuthor(nil)
	if len(groups) != 0 {
		t.Errorf("got %d groups for empty input, want 0", len(groups))
	}
}

func TestGroupByAuthorPreservesInputOrder(t *testing.T) {
	papers := []types.Paper{
		{Title: "Second-published, first-listed", Authors: []string{"A"}},
		{Title: "First-published, second-listed", Authors: []string{"A"}},
	}

	groups := GroupByAuthor(papers)

	seq := groups["A"]
	if seq[0].Title != papers[0].Title || seq[1].Title != papers[1].Title {
		t.Error("group sequence does not preserve input order")
	}
}
