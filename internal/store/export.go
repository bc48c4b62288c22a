// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes all profiles to dataDir/profiles.yaml, ordered by
// author name (R2.3).
func (s *Store) ExportYAML(ctx context.Context) error {
	profiles, err := s.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	data, err := yaml.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dataDir, "profiles.yaml"), data, 0o644)
}

// ExportJSON writes all profiles to dataDir/profiles.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	profiles, err := s.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dataDir, "profiles.json"), data, 0o644)
}
