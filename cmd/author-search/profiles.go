// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/huyxdang/author-search/internal/ingest"
	"github.com/huyxdang/author-search/internal/profile"
	"github.com/huyxdang/author-search/internal/scholar"
	"github.com/huyxdang/author-search/pkg/types"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Build author profiles from stored papers",
	Long: `Profiles groups stored papers by author name, verifies each author
against Semantic Scholar by title overlap, infers nationality, career-stage,
and research-evolution signals, and synthesizes a narrative profile for each
author. Profiles land in the local database and data/profiles.yaml.

Narrative generation uses the OpenAI API when a key is available; otherwise
each profile carries a deterministic factual summary.`,
	RunE: runProfiles,
}

func init() {
	profilesCmd.Flags().String("model", "gpt-4o-mini", "AI model identifier for narrative generation")
	profilesCmd.Flags().Int("concurrency", 4, "author groups processed in parallel")
	profilesCmd.Flags().Int("min-papers", 1, "skip author names with fewer papers")
	profilesCmd.Flags().Bool("no-narrative", false, "skip AI narrative generation, use fallback summaries")
	profilesCmd.Flags().String("s2-api-key", "", "Semantic Scholar API key (default from .secrets/)")
	profilesCmd.Flags().String("openai-api-key", "", "OpenAI API key (default from .secrets/)")
	profilesCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	model, _ := cmd.Flags().GetString("model")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	minPapers, _ := cmd.Flags().GetInt("min-papers")
	noNarrative, _ := cmd.Flags().GetBool("no-narrative")
	s2Key, _ := cmd.Flags().GetString("s2-api-key")
	openaiKey, _ := cmd.Flags().GetString("openai-api-key")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	papers, err := s.ListPapers(ctx)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		return fmt.Errorf("no papers in the database: run fetch first")
	}

	groups := ingest.GroupByAuthor(papers)
	fmt.Printf("grouped %d papers into %d author names\n", len(papers), len(groups))

	resolverCfg := types.ResolverConfig{
		HTTPConfig: types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent},
		APIKey:     secretDefault("semantic-scholar-api-key", s2Key),
	}
	scholarClient := scholar.NewClient(&http.Client{Timeout: timeout}, resolverCfg)
	resolver := scholar.NewResolver(scholarClient, os.Stdout)

	var narrator profile.Narrator
	if !noNarrative {
		key := secretDefault("openai-api-key", openaiKey)
		if key == "" {
			fmt.Fprintln(os.Stderr, "warning: no OpenAI API key, using fallback summaries")
		} else {
			narrator = &profile.OpenAINarrator{
				APIKey: key,
				Model:  model,
				Client: &http.Client{Timeout: 2 * time.Minute},
			}
		}
	}

	cfg := types.ProfileConfig{
		AIConfig:    types.AIConfig{Model: model},
		Concurrency: concurrency,
		MinPapers:   minPapers,
	}

	builder := profile.NewBuilder(resolver, narrator, cfg, os.Stdout)
	profiles, err := builder.BuildAll(ctx, groups)
	if err != nil {
		return err
	}

	if err := s.SaveProfiles(ctx, profiles); err != nil {
		return err
	}
	if err := s.ExportYAML(ctx); err != nil {
		return err
	}

	fmt.Printf("built %d profiles\n", len(profiles))
	return nil
}
