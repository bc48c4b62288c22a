package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "author-search/0.1"). Per prd001-ingest R4.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the arXiv fetch stage.
// Per prd001-ingest R1.1-R1.4, R4.1-R4.3.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Categories lists the arXiv categories to fetch (e.g. "cs.CL", "cs.CV").
	Categories []string `json:"categories" yaml:"categories"`

	// StartYear excludes papers published before this year.
	StartYear int `json:"start_year" yaml:"start_year"`

	// MaxPerCategory caps results per category. Zero fetches all available.
	MaxPerCategory int `json:"max_per_category" yaml:"max_per_category"`

	// PageSize is the number of results per API page (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// RequestInterval is the minimum delay between page requests (default 3s,
	// matching arXiv's published rate guidance).
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval"`
}

// ResolverConfig holds settings for the external identity resolver.
// Per prd002-resolution R4.1-R4.3.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ProfileConfig holds settings for the profile synthesis stage.
// Per prd004-profiles R4.1-R4.3.
type ProfileConfig struct {
	AIConfig `yaml:",inline"`

	// Concurrency bounds the number of authors processed in parallel
	// (default 4). Distinct author names share no state beyond the
	// resolver cache.
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// MinPapers skips author names with fewer crawled papers. Zero keeps all.
	MinPapers int `json:"min_papers" yaml:"min_papers"`
}

// IndexConfig holds settings for the vector index stage.
// Per prd005-index R1.1-R1.4.
type IndexConfig struct {
	// URL is the Qdrant HTTP endpoint (e.g. "http://localhost:6333").
	URL string `json:"url" yaml:"url"`

	// APIKey is an optional Qdrant API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Collection is the Qdrant collection name (default "authors").
	Collection string `json:"collection" yaml:"collection"`

	// EmbeddingModel is the embedding model identifier
	// (e.g. "text-embedding-3-large").
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`

	// EmbeddingAPIKey is the authentication key for the embedding API.
	EmbeddingAPIKey string `json:"embedding_api_key,omitempty" yaml:"embedding_api_key,omitempty"`

	// Dimensions is the embedding vector size (default 3072).
	Dimensions int `json:"dimensions" yaml:"dimensions"`
}

// StoreConfig holds settings for the local SQLite store.
type StoreConfig struct {
	// DataDir is the base directory for pipeline data (contains authors.db
	// and profile exports).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`
	Profile  ProfileConfig  `json:"profile" yaml:"profile"`
	Index    IndexConfig    `json:"index" yaml:"index"`
	Store    StoreConfig    `json:"store" yaml:"store"`
}
