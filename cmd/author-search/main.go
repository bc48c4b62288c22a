// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the author-search CLI.
// Implements: prd001-ingest, prd002-resolution, prd003-signals,
//             prd004-profiles, prd005-index (CLI surface).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huyxdang/author-search/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the author-search CLI.
var rootCmd = &cobra.Command{
	Use:   "author-search",
	Short: "Author identity resolution and profile synthesis for arXiv authors",
	Long: `author-search crawls recent arXiv papers, groups them by author name,
verifies each author against Semantic Scholar, infers background and career
signals, and synthesizes searchable author profiles.

Each pipeline stage is a subcommand: fetch crawls papers, profiles builds
author profiles, index pushes profiles into the vector store, and search
queries them.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; secrets files take precedence over nothing,
		// explicit flags over both.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./author-search.yaml or ~/.config/author-search/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "base directory for the paper and profile database")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("author-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "author-search"))
		}
	}

	viper.SetEnvPrefix("AUTHOR_SEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
