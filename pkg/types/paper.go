// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the author-search pipeline.
// Implements: prd001-ingest (Paper, R2.1);
//
//	prd002-resolution (ResolutionResult, R3.1-R3.4);
//	prd003-signals (NationalitySignals, CareerStageInfo, ResearchEvolution);
//	prd004-profiles (AuthorProfile, ProfileMetadata).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import "time"

// Paper holds the metadata for one crawled paper.
// Per prd001-ingest R2.1: identifier, title, abstract, author name strings
// in source order, publication timestamp, and category tags. Papers are
// immutable once fetched.
type Paper struct {
	// ID is the arXiv identifier (e.g. "2301.07041" or "2301.07041v2").
	ID string `json:"arxiv_id" yaml:"arxiv_id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract. May be empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the paper's author name strings in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the publication or preprint timestamp.
	Published time.Time `json:"published" yaml:"published"`

	// Categories lists the arXiv category tags (e.g. "cs.CL").
	Categories []string `json:"categories" yaml:"categories"`

	// PrimaryCategory is the paper's primary arXiv category.
	PrimaryCategory string `json:"primary_category,omitempty" yaml:"primary_category,omitempty"`
}

// Year returns the publication year, or 0 when the timestamp is unset.
func (p Paper) Year() int {
	if p.Published.IsZero() {
		return 0
	}
	return p.Published.Year()
}
