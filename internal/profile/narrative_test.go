// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/huyxdang/author-search/pkg/types"
)

func sampleProfile() *types.AuthorProfile {
	return &types.AuthorProfile{
		Name:          "Nguyen Van An",
		PaperCount:    12,
		FirstYear:     2018,
		LastYear:      2024,
		YearsActive:   6,
		Affiliations:  []string{"VinAI Research"},
		CitationCount: 320,
		Nationality:   types.NationalitySignals{"vietnam": {"affiliation: VinAI Research"}},
		CareerStage: types.CareerStageInfo{
			Stage:       types.StageEarlyCareer,
			Description: "An early-career researcher with an established publication record",
			Temporal:    "active in the field for a number of years",
		},
		Evolution: types.ResearchEvolution{
			EarlyFocus:  []string{"parsing", "grammar"},
			RecentFocus: []string{"translation", "multilingual"},
			Transition:  true,
		},
		Metadata: types.ProfileMetadata{SemanticScholarFound: true, Verified: true, OverlapRatio: 0.6},
	}
}

func chatReply(text string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + jsonString(text) + `}}]}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestNarrateSendsPromptAndParsesReply(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("request body: %v", err)
		}
		w.Write([]byte(chatReply("  A concise profile.  ")))
	}))
	defer srv.Close()

	oldURL := openaiAPIURL
	openaiAPIURL = srv.URL
	defer func() { openaiAPIURL = oldURL }()

	n := &OpenAINarrator{APIKey: "sk-test", Model: "gpt-4o-mini"}
	text, err := n.Narrate(context.Background(), sampleProfile())
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}

	if text != "A concise profile." {
		t.Errorf("reply should be trimmed, got %q", text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v", gotBody.Messages)
	}

	prompt := gotBody.Messages[0].Content
	for _, want := range []string{"Nguyen Van An", "12", "2018-2024", "VinAI Research", "vietnam", "translation"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestNarrateRetriesTransientFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(chatReply("Recovered.")))
	}))
	defer srv.Close()

	oldURL := openaiAPIURL
	openaiAPIURL = srv.URL
	defer func() { openaiAPIURL = oldURL }()

	n := &OpenAINarrator{APIKey: "k", Model: "m", MaxRetries: 3}
	text, err := n.Narrate(context.Background(), sampleProfile())
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if text != "Recovered." {
		t.Errorf("text = %q", text)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestNarrateExhaustsRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	oldURL := openaiAPIURL
	openaiAPIURL = srv.URL
	defer func() { openaiAPIURL = oldURL }()

	n := &OpenAINarrator{APIKey: "k", Model: "m", MaxRetries: 2}
	if _, err := n.Narrate(context.Background(), sampleProfile()); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("expected maxRetries+1 = 3 calls, got %d", calls)
	}
}

func TestNarrateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	oldURL := openaiAPIURL
	openaiAPIURL = srv.URL
	defer func() { openaiAPIURL = oldURL }()

	n := &OpenAINarrator{APIKey: "k", Model: "m", MaxRetries: 0}
	if _, err := n.Narrate(context.Background(), sampleProfile()); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestRenderNarrativePromptUnverified(t *testing.T) {
	prof := sampleProfile()
	prof.Metadata.Verified = false

	prompt, err := renderNarrativePrompt(prof)
	if err != nil {
		t.Fatalf("renderNarrativePrompt: %v", err)
	}
	if !strings.Contains(prompt, "unverified") {
		t.Errorf("unverified profiles should carry the hedge note:\n%s", prompt)
	}

	prof.Metadata.Verified = true
	prompt, err = renderNarrativePrompt(prof)
	if err != nil {
		t.Fatalf("renderNarrativePrompt: %v", err)
	}
	if strings.Contains(prompt, "unverified") {
		t.Errorf("verified profiles should not carry the hedge note:\n%s", prompt)
	}
}
