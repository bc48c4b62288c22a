// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signals

import (
	"fmt"

	"github.com/huyxdang/author-search/pkg/types"
)

// careerBand is one row of the base classification ladder. A candidate
// stays in a band only while both counts sit below the band's caps; crossing
// either cap moves them to the next band. Bands are closed-open: the cap
// value itself belongs to the next band (R2.1).
type careerBand struct {
	stage       types.CareerStage
	maxPapers   int // exclusive
	maxYears    int // exclusive
	description string
}

var careerBands = []careerBand{
	{types.StagePhDStudent, 8, 4,
		"Likely a PhD student building an initial publication record"},
	{types.StagePostdoc, 15, 6,
		"Publication volume consistent with a postdoctoral researcher"},
	{types.StageEarlyCareer, 30, 10,
		"An early-career researcher with an established publication record"},
	{types.StageMidCareer, 60, 16,
		"A mid-career researcher with a substantial body of work"},
}

const seniorDescription = "A senior researcher with a long, sustained publication record"

// citationOverride is one row of the upgrade ladder: at or above the
// citation floor, the stage is promoted to at least minStage. Overrides
// never demote (R2.2).
type citationOverride struct {
	minCitations int
	minStage     types.CareerStage
}

var citationOverrides = []citationOverride{
	{20000, types.StageSenior},
	{5000, types.StageMidCareer},
	{1000, types.StageEarlyCareer},
	{250, types.StagePostdoc},
}

// stageRank orders stages from junior to senior for the upgrade-only
// comparison.
var stageRank = map[types.CareerStage]int{
	types.StagePhDStudent:  0,
	types.StagePostdoc:     1,
	types.StageEarlyCareer: 2,
	types.StageMidCareer:   3,
	types.StageSenior:      4,
}

var stageDescriptions = map[types.CareerStage]string{
	types.StagePhDStudent:  careerBands[0].description,
	types.StagePostdoc:     careerBands[1].description,
	types.StageEarlyCareer: careerBands[2].description,
	types.StageMidCareer:   careerBands[3].description,
	types.StageSenior:      seniorDescription,
}

// InferCareerStage classifies research seniority from publication volume,
// active years, and citation impact. It is a pure function of its three
// inputs (R2). High citation counts promote the base band, never demote it;
// when a promotion fires, the description says so.
func InferCareerStage(paperCount, yearsActive, citationCount int) types.CareerStageInfo {
	stage := baseStage(paperCount, yearsActive)

	promoted := false
	for _, o := range citationOverrides {
		if citationCount >= o.minCitations {
			if stageRank[o.minStage] > stageRank[stage] {
				stage = o.minStage
				promoted = true
			}
			break
		}
	}

	description := stageDescriptions[stage]
	if promoted {
		description = fmt.Sprintf(
			"%s; citation numbers indicate significant research impact for the publication volume",
			description)
	}

	return types.CareerStageInfo{
		Stage:       stage,
		Description: description,
		Temporal:    temporalMarker(yearsActive),
	}
}

func baseStage(paperCount, yearsActive int) types.CareerStage {
	for _, band := range careerBands {
		if paperCount < band.maxPapers && yearsActive < band.maxYears {
			return band.stage
		}
	}
	return types.StageSenior
}

// temporalMarker is a coarse recency label derived from years active alone,
// independent of stage (R2.3).
func temporalMarker(yearsActive int) string {
	switch {
	case yearsActive <= 1:
		return "very recent entrant to the field"
	case yearsActive <= 3:
		return "entered the field within the last few years"
	case yearsActive <= 10:
		return "active in the field for a number of years"
	default:
		return "a long-running presence in the field"
	}
}
