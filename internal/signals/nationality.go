// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package signals derives structured profile signals from an author's paper
// set and resolved external metadata: nationality likelihood, career stage,
// and research-topic evolution.
// Implements: prd003-signals (R1-R3);
//
//	docs/ARCHITECTURE § Signal Inference.
package signals

import (
	"fmt"
	"strings"

	"github.com/huyxdang/author-search/pkg/types"
)

// Channel weights and the inclusion threshold for nationality signals (R1.2).
// A name pattern alone (0.3) never qualifies a label; an affiliation or
// location match (0.5) reaches the threshold on its own. This resolves the
// single-strong-channel ambiguity deterministically: inclusion is decided
// purely by accumulated weight.
const (
	nameWeight        = 0.3
	affiliationWeight = 0.5
	locationWeight    = 0.5

	inclusionThreshold = 0.5
)

// signalChannel identifies one evidence channel in the rule table.
type signalChannel int

const (
	channelName signalChannel = iota
	channelAffiliation
	channelLocation
)

// signalRule binds one nationality label to one evidence channel. The rule
// table keeps the heuristics flat and uniform; adding a label is adding rows,
// not branches (R1.1).
type signalRule struct {
	label    string
	channel  signalChannel
	weight   float64
	keywords []string
}

var nationalityRules = []signalRule{
	// Vietnamese researchers.
	{"vietnam", channelName, nameWeight, []string{
		"nguyen", "tran", "pham", "hoang", "phan", "vu", "vo", "dang",
		"bui", "do", "ho", "ngo", "duong", "huynh", "le", "ly", "truong",
	}},
	{"vietnam", channelAffiliation, affiliationWeight, []string{
		"vinai", "vinuniversity", "vietnam national university",
		"hanoi university", "fpt", "viettel",
	}},
	{"vietnam", channelLocation, locationWeight, []string{
		"vietnam", "hanoi", "ho chi minh", "da nang", "hue",
	}},

	// Chinese researchers.
	{"chinese", channelName, nameWeight, []string{
		"zhang", "wang", "li", "liu", "chen", "yang", "huang", "zhao",
		"wu", "zhou", "xu", "sun", "ma", "zhu", "hu", "guo", "lin",
	}},
	{"chinese", channelAffiliation, affiliationWeight, []string{
		"tsinghua", "peking university", "fudan", "zhejiang university",
		"chinese academy of sciences", "shanghai jiao tong",
		"university of science and technology of china",
	}},
	{"chinese", channelLocation, locationWeight, []string{
		"china", "beijing", "shanghai", "shenzhen", "hangzhou", "nanjing",
	}},

	// Korean researchers.
	{"korean", channelName, nameWeight, []string{
		"kim", "park", "choi", "jung", "kang", "cho", "yoon", "jang", "lim",
	}},
	{"korean", channelAffiliation, affiliationWeight, []string{
		"kaist", "seoul national university", "postech", "yonsei",
		"korea university", "korea advanced institute",
	}},
	{"korean", channelLocation, locationWeight, []string{
		"korea", "seoul", "daejeon", "pohang",
	}},
}

// InferNationality evaluates the rule table against an author's name,
// affiliation strings, and location strings, and returns the labels whose
// accumulated evidence weight crossed the inclusion threshold (R1.3).
// Labels are independent; zero, one, or many may qualify. A label that does
// not qualify is absent from the map, never present with empty evidence.
func InferNationality(name string, affiliations []string, locations []string) types.NationalitySignals {
	weights := make(map[string]float64)
	evidence := make(map[string][]string)

	for _, rule := range nationalityRules {
		matched := rule.match(name, affiliations, locations)
		if len(matched) == 0 {
			continue
		}
		// A channel contributes its weight once however many keywords hit.
		weights[rule.label] += rule.weight
		evidence[rule.label] = append(evidence[rule.label], matched...)
	}

	signals := make(types.NationalitySignals)
	for label, weight := range weights {
		if weight >= inclusionThreshold {
			signals[label] = evidence[label]
		}
	}
	return signals
}

// match returns the evidence strings this rule produces for the input, or
// nil when the channel does not fire.
func (r signalRule) match(name string, affiliations []string, locations []string) []string {
	switch r.channel {
	case channelName:
		return r.matchNameTokens(name)
	case channelAffiliation:
		return r.matchSubstrings(affiliations, "affiliation")
	case channelLocation:
		return r.matchSubstrings(locations, "location")
	}
	return nil
}

// matchNameTokens checks whole name tokens against the surname list, so
// "Le" matches but "Lee" and "Leung" do not.
func (r signalRule) matchNameTokens(name string) []string {
	var matched []string
	for _, token := range strings.Fields(strings.ToLower(name)) {
		for _, kw := range r.keywords {
			if token == kw {
				matched = append(matched, fmt.Sprintf("name pattern: %s", token))
			}
		}
	}
	return matched
}

// matchSubstrings reports each candidate string containing a keyword. The
// evidence carries the original string, so "VinAI Research" appears verbatim
// in the profile's evidence trail.
func (r signalRule) matchSubstrings(candidates []string, kind string) []string {
	var matched []string
	for _, c := range candidates {
		lower := strings.ToLower(c)
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, fmt.Sprintf("%s: %s", kind, c))
				break
			}
		}
	}
	return matched
}
