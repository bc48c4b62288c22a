// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResolutionResult holds the outcome of one external identity resolution
// against Semantic Scholar. A nil *ResolutionResult means no match was
// attempted or found. Per prd002-resolution R3.1-R3.4.
type ResolutionResult struct {
	// Affiliations lists the matched author's affiliation strings as
	// returned by the source. Duplicates are not removed.
	Affiliations []string `json:"affiliations" yaml:"affiliations"`

	// Locations lists location strings derived from the matched author record.
	Locations []string `json:"locations" yaml:"locations"`

	// CitationCount is the matched author's total citation count.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// PaperCount is the matched author's total paper count at the source.
	PaperCount int `json:"paper_count" yaml:"paper_count"`

	// HIndex is the matched author's h-index at the source.
	HIndex int `json:"h_index" yaml:"h_index"`

	// Verified is true iff the title overlap between the crawled papers and
	// the candidate's claimed papers met the verification threshold.
	Verified bool `json:"verified" yaml:"verified"`

	// OverlapRatio is the Jaccard title overlap in [0,1]. When Verified is
	// false the raw ratio is suppressed and 0.0 is reported (R3.4: weak
	// evidence is not surfaced).
	OverlapRatio float64 `json:"overlap_ratio" yaml:"overlap_ratio"`
}

// NationalitySignals maps a nationality label (e.g. "vietnam", "chinese") to
// the evidence strings that qualified it. Absence of a key means no evidence
// crossed the inclusion threshold for that label; labels are not mutually
// exclusive. Per prd003-signals R1.
type NationalitySignals map[string][]string

// CareerStage is a discrete classification of research seniority.
type CareerStage string

const (
	StagePhDStudent  CareerStage = "phd_student"
	StagePostdoc     CareerStage = "postdoc"
	StageEarlyCareer CareerStage = "early_career"
	StageMidCareer   CareerStage = "mid_career"
	StageSenior      CareerStage = "senior"
)

// CareerStageInfo is the career-stage classifier output. Fully determined by
// its three numeric inputs; exactly one stage per invocation.
type CareerStageInfo struct {
	// Stage is the classified career stage.
	Stage CareerStage `json:"stage" yaml:"stage"`

	// Description is a human-readable justification for the stage, including
	// the citation-impact rationale when the upgrade override fired.
	Description string `json:"description" yaml:"description"`

	// Temporal is a coarse recency marker derived from years active alone.
	Temporal string `json:"temporal" yaml:"temporal"`
}

// ResearchEvolution describes an author's topical focus over time.
// Both focus lists are always present, even for zero or one input papers.
// Per prd003-signals R3.
type ResearchEvolution struct {
	// EarlyFocus lists representative topic tokens from the oldest papers.
	EarlyFocus []string `json:"early_focus" yaml:"early_focus"`

	// RecentFocus lists representative topic tokens from the newest papers.
	RecentFocus []string `json:"recent_focus" yaml:"recent_focus"`

	// Transition is true when the topical focus shifted between windows.
	Transition bool `json:"transition" yaml:"transition"`

	// Consistent is true when the topical focus remained stable.
	Consistent bool `json:"consistent" yaml:"consistent"`
}

// ProfileMetadata records resolution provenance for debugging and downstream
// confidence filtering. Per prd004-profiles R2.3.
type ProfileMetadata struct {
	// SemanticScholarFound is true when an external identity was resolved.
	SemanticScholarFound bool `json:"semantic_scholar_found" yaml:"semantic_scholar_found"`

	// Verified mirrors ResolutionResult.Verified (false when unresolved).
	Verified bool `json:"verified" yaml:"verified"`

	// OverlapRatio mirrors ResolutionResult.OverlapRatio (0.0 when unresolved).
	OverlapRatio float64 `json:"overlap_ratio" yaml:"overlap_ratio"`
}

// AuthorProfile is the terminal artifact of the pipeline: one consolidated
// record per unique author name string, constructed once per run and never
// mutated afterwards. Per prd004-profiles R2.
type AuthorProfile struct {
	// Name is the author name string this profile was built for.
	Name string `json:"name" yaml:"name"`

	// PaperCount is the number of crawled papers attributed to the name.
	PaperCount int `json:"paper_count" yaml:"paper_count"`

	// FirstYear is the earliest publication year (0 with no dated papers).
	FirstYear int `json:"first_year" yaml:"first_year"`

	// LastYear is the latest publication year (0 with no dated papers).
	LastYear int `json:"last_year" yaml:"last_year"`

	// YearsActive is LastYear - FirstYear; 0 for single-year authors.
	YearsActive int `json:"years_active" yaml:"years_active"`

	// Affiliations comes from the resolved external record (empty when
	// unresolved).
	Affiliations []string `json:"affiliations" yaml:"affiliations"`

	// CitationCount comes from the resolved external record (0 when
	// unresolved).
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// Nationality maps qualifying nationality labels to evidence strings.
	Nationality NationalitySignals `json:"nationality_signals" yaml:"nationality_signals"`

	// CareerStage is the inferred career-stage record.
	CareerStage CareerStageInfo `json:"career_stage" yaml:"career_stage"`

	// Evolution is the inferred research-evolution record.
	Evolution ResearchEvolution `json:"research_evolution" yaml:"research_evolution"`

	// ProfileText is the narrative used for embedding and display. Falls
	// back to a locally assembled summary when the summarization call fails.
	ProfileText string `json:"profile_text" yaml:"profile_text"`

	// Metadata records resolution provenance.
	Metadata ProfileMetadata `json:"metadata" yaml:"metadata"`
}
