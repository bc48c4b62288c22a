// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists crawled papers and author profiles in SQLite and
// serves full-text search over profile narratives. Build with the
// sqlite_fts5 tag so mattn/go-sqlite3 compiles the FTS5 module, for
// example: go test -tags sqlite_fts5 ./...
// Implements: prd005-index (R1, R2, R3).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/huyxdang/author-search/pkg/types"
)

const dbFile = "authors.db"

// Store manages the author-search SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// NewStore opens or creates the database at dataDir/authors.db, creating
// the schema if it does not exist (R1.1).
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: cfg.DataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			abstract TEXT,
			authors TEXT,
			published TEXT,
			categories TEXT,
			primary_category TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			paper_count INTEGER,
			first_year INTEGER,
			last_year INTEGER,
			years_active INTEGER,
			affiliations TEXT,
			citation_count INTEGER,
			nationality TEXT,
			career_stage TEXT,
			career_description TEXT,
			career_temporal TEXT,
			early_focus TEXT,
			recent_focus TEXT,
			transition INTEGER,
			consistent INTEGER,
			profile_text TEXT,
			ss_found INTEGER,
			verified INTEGER,
			overlap_ratio REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_stage ON profiles(career_stage)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='profiles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE profiles_fts USING fts5(name, profile_text, content=profiles, content_rowid=rowid)`,
			`CREATE TRIGGER profiles_ai AFTER INSERT ON profiles BEGIN
				INSERT INTO profiles_fts(rowid, name, profile_text) VALUES (new.rowid, new.name, new.profile_text);
			END`,
			`CREATE TRIGGER profiles_ad AFTER DELETE ON profiles BEGIN
				INSERT INTO profiles_fts(profiles_fts, rowid, name, profile_text) VALUES('delete', old.rowid, old.name, old.profile_text);
			END`,
			`CREATE TRIGGER profiles_au AFTER UPDATE ON profiles BEGIN
				INSERT INTO profiles_fts(profiles_fts, rowid, name, profile_text) VALUES('delete', old.rowid, old.name, old.profile_text);
				INSERT INTO profiles_fts(rowid, name, profile_text) VALUES (new.rowid, new.name, new.profile_text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SavePapers upserts crawled papers in one transaction (R1.2).
func (s *Store) SavePapers(ctx context.Context, papers []types.Paper) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, title, abstract, authors, published, categories, primary_category)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, abstract=excluded.abstract, authors=excluded.authors,
			published=excluded.published, categories=excluded.categories,
			primary_category=excluded.primary_category`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range papers {
		authorsJSON, _ := json.Marshal(p.Authors)
		categoriesJSON, _ := json.Marshal(p.Categories)
		published := ""
		if !p.Published.IsZero() {
			published = p.Published.UTC().Format(time.RFC3339)
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Title, p.Abstract, string(authorsJSON),
			published, string(categoriesJSON), p.PrimaryCategory,
		); err != nil {
			return fmt.Errorf("upserting paper %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// ListPapers returns all stored papers ordered by publication date, newest
// first.
func (s *Store) ListPapers(ctx context.Context) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, abstract, authors, published, categories, primary_category
		 FROM papers ORDER BY published DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var (
			p              types.Paper
			authorsJSON    sql.NullString
			published      sql.NullString
			categoriesJSON sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Abstract, &authorsJSON,
			&published, &categoriesJSON, &p.PrimaryCategory); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &p.Authors)
		}
		if categoriesJSON.Valid {
			json.Unmarshal([]byte(categoriesJSON.String), &p.Categories)
		}
		if published.Valid && published.String != "" {
			if t, err := time.Parse(time.RFC3339, published.String); err == nil {
				p.Published = t
			}
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// SaveProfiles upserts author profiles in one transaction, keyed by author
// name (R2.1). The FTS index follows through triggers.
func (s *Store) SaveProfiles(ctx context.Context, profiles []*types.AuthorProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO profiles (name, paper_count, first_year, last_year, years_active,
			affiliations, citation_count, nationality,
			career_stage, career_description, career_temporal,
			early_focus, recent_focus, transition, consistent,
			profile_text, ss_found, verified, overlap_ratio)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			paper_count=excluded.paper_count, first_year=excluded.first_year,
			last_year=excluded.last_year, years_active=excluded.years_active,
			affiliations=excluded.affiliations, citation_count=excluded.citation_count,
			nationality=excluded.nationality, career_stage=excluded.career_stage,
			career_description=excluded.career_description, career_temporal=excluded.career_temporal,
			early_focus=excluded.early_focus, recent_focus=excluded.recent_focus,
			transition=excluded.transition, consistent=excluded.consistent,
			profile_text=excluded.profile_text, ss_found=excluded.ss_found,
			verified=excluded.verified, overlap_ratio=excluded.overlap_ratio`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range profiles {
		affiliationsJSON, _ := json.Marshal(p.Affiliations)
		nationalityJSON, _ := json.Marshal(p.Nationality)
		earlyJSON, _ := json.Marshal(p.Evolution.EarlyFocus)
		recentJSON, _ := json.Marshal(p.Evolution.RecentFocus)

		if _, err := stmt.ExecContext(ctx,
			p.Name, p.PaperCount, p.FirstYear, p.LastYear, p.YearsActive,
			string(affiliationsJSON), p.CitationCount, string(nationalityJSON),
			string(p.CareerStage.Stage), p.CareerStage.Description, p.CareerStage.Temporal,
			string(earlyJSON), string(recentJSON),
			boolInt(p.Evolution.Transition), boolInt(p.Evolution.Consistent),
			p.ProfileText, boolInt(p.Metadata.SemanticScholarFound),
			boolInt(p.Metadata.Verified), p.Metadata.OverlapRatio,
		); err != nil {
			return fmt.Errorf("upserting profile %s: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

const profileColumns = `name, paper_count, first_year, last_year, years_active,
	affiliations, citation_count, nationality,
	career_stage, career_description, career_temporal,
	early_focus, recent_focus, transition, consistent,
	profile_text, ss_found, verified, overlap_ratio`

// qualifiedProfileColumns prefixes each column with the profiles table name
// for queries joining profiles_fts, which carries name and profile_text
// columns of its own.
var qualifiedProfileColumns = func() string {
	cols := strings.Split(profileColumns, ",")
	for i, col := range cols {
		cols[i] = "profiles." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}()

// GetProfile returns the profile for one author name, or sql.ErrNoRows
// wrapped when absent.
func (s *Store) GetProfile(ctx context.Context, name string) (*types.AuthorProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE name = ?`, name)
	prof, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile %s not found", name)
		}
		return nil, fmt.Errorf("loading profile %s: %w", name, err)
	}
	return prof, nil
}

// ListProfiles returns all profiles ordered by author name.
func (s *Store) ListProfiles(ctx context.Context) ([]*types.AuthorProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()
	return collectProfiles(rows)
}

// SearchProfiles runs an FTS5 match over profile names and narrative text,
// ranked by relevance (R3.1). limit <= 0 means no explicit cap beyond the
// default of 20.
func (s *Store) SearchProfiles(ctx context.Context, query string, limit int) ([]*types.AuthorProfile, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+qualifiedProfileColumns+`
		 FROM profiles_fts
		 JOIN profiles ON profiles.rowid = profiles_fts.rowid
		 WHERE profiles_fts MATCH ?
		 ORDER BY profiles_fts.rank
		 LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching profiles: %w", err)
	}
	defer rows.Close()
	return collectProfiles(rows)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*types.AuthorProfile, error) {
	var (
		p                types.AuthorProfile
		affiliationsJSON sql.NullString
		nationalityJSON  sql.NullString
		stage            string
		earlyJSON        sql.NullString
		recentJSON       sql.NullString
		transition       int
		consistent       int
		ssFound          int
		verified         int
	)

	err := row.Scan(
		&p.Name, &p.PaperCount, &p.FirstYear, &p.LastYear, &p.YearsActive,
		&affiliationsJSON, &p.CitationCount, &nationalityJSON,
		&stage, &p.CareerStage.Description, &p.CareerStage.Temporal,
		&earlyJSON, &recentJSON, &transition, &consistent,
		&p.ProfileText, &ssFound, &verified, &p.Metadata.OverlapRatio,
	)
	if err != nil {
		return nil, err
	}

	p.CareerStage.Stage = types.CareerStage(stage)
	if affiliationsJSON.Valid {
		json.Unmarshal([]byte(affiliationsJSON.String), &p.Affiliations)
	}
	if nationalityJSON.Valid {
		json.Unmarshal([]byte(nationalityJSON.String), &p.Nationality)
	}
	if earlyJSON.Valid {
		json.Unmarshal([]byte(earlyJSON.String), &p.Evolution.EarlyFocus)
	}
	if recentJSON.Valid {
		json.Unmarshal([]byte(recentJSON.String), &p.Evolution.RecentFocus)
	}
	p.Evolution.Transition = transition != 0
	p.Evolution.Consistent = consistent != 0
	p.Metadata.SemanticScholarFound = ssFound != 0
	p.Metadata.Verified = verified != 0
	return &p, nil
}

func collectProfiles(rows *sql.Rows) ([]*types.AuthorProfile, error) {
	var profiles []*types.AuthorProfile
	for rows.Next() {
		prof, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		profiles = append(profiles, prof)
	}
	return profiles, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
