//go:build mage

// Package main contains Mage build targets for author-search developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"data",
	"bin",
}

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "author-search"
	cmdPkg  = "./cmd/author-search"

	// sqliteTags enables the FTS5 module in mattn/go-sqlite3; without it
	// the store fails at schema creation with "no such module: fts5".
	sqliteTags = "sqlite_fts5"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-tags", sqliteTags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the full test suite.
func Test() error {
	return sh.RunV("go", "test", "-tags", sqliteTags, "./...")
}

// Pipeline runs the full fetch, profiles, index sequence with defaults.
func Pipeline() error {
	mg.SerialDeps(Init, Build)
	bin := filepath.Join(binDir, binName)
	for _, stage := range []string{"fetch", "profiles", "index"} {
		if err := sh.RunV(bin, stage); err != nil {
			return fmt.Errorf("%s: %w", stage, err)
		}
	}
	return nil
}
