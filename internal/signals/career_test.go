// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signals

import (
	"strings"
	"testing"

	"github.com/huyxdang/author-search/pkg/types"
)

func TestInferCareerStageBands(t *testing.T) {
	tests := []struct {
		name        string
		papers      int
		years       int
		citations   int
		wantStage   types.CareerStage
	}{
		{"phd student", 5, 2, 50, types.StagePhDStudent},
		{"postdoc", 10, 4, 200, types.StagePostdoc},
		{"early career", 20, 7, 800, types.StageEarlyCareer},
		{"mid career", 40, 12, 3000, types.StageMidCareer},
		{"senior", 80, 20, 15000, types.StageSenior},
		{"single paper", 1, 1, 0, types.StagePhDStudent},
		{"zero everything", 0, 0, 0, types.StagePhDStudent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferCareerStage(tt.papers, tt.years, tt.citations)
			if got.Stage != tt.wantStage {
				t.Errorf("InferCareerStage(%d, %d, %d).Stage = %q, want %q",
					tt.papers, tt.years, tt.citations, got.Stage, tt.wantStage)
			}
			if got.Description == "" {
				t.Error("description must never be empty")
			}
			if got.Temporal == "" {
				t.Error("temporal marker must never be empty")
			}
		})
	}
}

func TestInferCareerStageBandBoundaries(t *testing.T) {
	tests := []struct {
		papers int
		years  int
		want   types.CareerStage
	}{
		// Crossing either cap leaves the band.
		{7, 3, types.StagePhDStudent},
		{8, 3, types.StagePostdoc},
		{7, 4, types.StagePostdoc},
		{14, 5, types.StagePostdoc},
		{15, 5, types.StageEarlyCareer},
		{14, 6, types.StageEarlyCareer},
		{29, 9, types.StageEarlyCareer},
		{30, 9, types.StageMidCareer},
		{59, 15, types.StageMidCareer},
		{60, 15, types.StageSenior},
		{59, 16, types.StageSenior},
	}

	for _, tt := range tests {
		got := InferCareerStage(tt.papers, tt.years, 0)
		if got.Stage != tt.want {
			t.Errorf("InferCareerStage(%d, %d, 0).Stage = %q, want %q",
				tt.papers, tt.years, got.Stage, tt.want)
		}
	}
}

func TestInferCareerStageCitationPromotion(t *testing.T) {
	got := InferCareerStage(6, 3, 1500)
	if got.Stage != types.StageEarlyCareer {
		t.Fatalf("1500 citations should promote phd_student to early_career, got %q", got.Stage)
	}
	if !strings.Contains(got.Description, "significant research impact") {
		t.Errorf("promoted description should note the citation impact, got %q", got.Description)
	}
}

func TestInferCareerStageCitationsNeverDemote(t *testing.T) {
	got := InferCareerStage(40, 12, 1000)
	if got.Stage != types.StageMidCareer {
		t.Errorf("citation floor below the base band must not demote, got %q", got.Stage)
	}
	if strings.Contains(got.Description, "significant research impact") {
		t.Errorf("non-promotion should keep the plain description, got %q", got.Description)
	}
}

func TestInferCareerStageExtremeCitations(t *testing.T) {
	got := InferCareerStage(500, 30, 50000)
	if got.Stage != types.StageSenior {
		t.Errorf("expected senior, got %q", got.Stage)
	}
	// Already senior: the override matched but did not promote.
	if strings.Contains(got.Description, "significant research impact") {
		t.Errorf("no promotion happened, got %q", got.Description)
	}
}

func TestInferCareerStageCitationFloorBoundary(t *testing.T) {
	below := InferCareerStage(5, 2, 249)
	if below.Stage != types.StagePhDStudent {
		t.Errorf("249 citations must not promote, got %q", below.Stage)
	}
	at := InferCareerStage(5, 2, 250)
	if at.Stage != types.StagePostdoc {
		t.Errorf("250 citations should promote to postdoc, got %q", at.Stage)
	}
}

func TestTemporalMarkers(t *testing.T) {
	tests := []struct {
		years int
		want  string
	}{
		{0, "very recent entrant to the field"},
		{1, "very recent entrant to the field"},
		{2, "entered the field within the last few years"},
		{3, "entered the field within the last few years"},
		{4, "active in the field for a number of years"},
		{10, "active in the field for a number of years"},
		{11, "a long-running presence in the field"},
		{30, "a long-running presence in the field"},
	}

	for _, tt := range tests {
		got := InferCareerStage(5, tt.years, 0)
		if got.Temporal != tt.want {
			t.Errorf("temporal marker for %d years = %q, want %q", tt.years, got.Temporal, tt.want)
		}
	}
}
