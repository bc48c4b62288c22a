// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/huyxdang/author-search/pkg/types"
)

// narrativePromptTmpl is the prompt sent to the OpenAI API for one profile.
// It receives the structured facts and asks for a short third-person
// narrative grounded strictly in them. Per prd004-profiles R4.2.
var narrativePromptTmpl = template.Must(template.New("narrative").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`You are a research analyst writing author profiles. Write a concise third-person profile paragraph (3-5 sentences) for the researcher described below. Use only the facts given; do not invent affiliations, topics, or achievements. Plain prose, no headings or bullet points.

Name: {{.Name}}
Papers crawled: {{.PaperCount}}{{if .FirstYear}} ({{.FirstYear}}-{{.LastYear}}){{end}}
Career stage: {{.CareerStage.Stage}} - {{.CareerStage.Description}} ({{.CareerStage.Temporal}})
{{- if .Affiliations}}
Affiliations: {{join .Affiliations ", "}}
{{- end}}
{{- if .CitationCount}}
Citations: {{.CitationCount}}
{{- end}}
{{- if .NationalityLabels}}
Background signals: {{join .NationalityLabels ", "}}
{{- end}}
{{- if .Evolution.RecentFocus}}
{{- if .Evolution.Transition}}
Early topics: {{join .Evolution.EarlyFocus ", "}}
Recent topics: {{join .Evolution.RecentFocus ", "}} (the focus shifted)
{{- else}}
Topics: {{join .Evolution.RecentFocus ", "}} (consistent over time)
{{- end}}
{{- end}}
{{- if not .Verified}}
Note: the external identity match is unverified; hedge claims that depend on it.
{{- end}}
`))

// openaiAPIURL is the OpenAI chat completions endpoint. Package-level var
// for test substitution.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// narrativeBackoffBase controls the base duration for exponential backoff
// between narrator attempts. Tests override this to avoid real sleeps.
var narrativeBackoffBase = time.Second

// OpenAINarrator generates profile narratives through the OpenAI chat
// completions API.
type OpenAINarrator struct {
	APIKey     string
	Model      string
	MaxRetries int
	Client     *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Narrate renders the prompt for one profile and calls the API with
// exponential backoff (R4.4).
func (n *OpenAINarrator) Narrate(ctx context.Context, prof *types.AuthorProfile) (string, error) {
	prompt, err := renderNarrativePrompt(prof)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	maxRetries := n.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * narrativeBackoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := n.complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

func (n *OpenAINarrator) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       n.Model,
		Temperature: 0.4,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.APIKey)

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OpenAI API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding OpenAI response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}

	return strings.TrimSpace(cResp.Choices[0].Message.Content), nil
}

// narrativeData flattens an AuthorProfile for the prompt template.
type narrativeData struct {
	Name              string
	PaperCount        int
	FirstYear         int
	LastYear          int
	CareerStage       types.CareerStageInfo
	Affiliations      []string
	CitationCount     int
	NationalityLabels []string
	Evolution         types.ResearchEvolution
	Verified          bool
}

func renderNarrativePrompt(prof *types.AuthorProfile) (string, error) {
	labels := make([]string, 0, len(prof.Nationality))
	for label := range prof.Nationality {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	data := narrativeData{
		Name:              prof.Name,
		PaperCount:        prof.PaperCount,
		FirstYear:         prof.FirstYear,
		LastYear:          prof.LastYear,
		CareerStage:       prof.CareerStage,
		Affiliations:      prof.Affiliations,
		CitationCount:     prof.CitationCount,
		NationalityLabels: labels,
		Evolution:         prof.Evolution,
		Verified:          prof.Metadata.Verified,
	}

	var buf bytes.Buffer
	if err := narrativePromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
