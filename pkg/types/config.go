package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citerank/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RegistryConfig selects the namespace registry tables.
type RegistryConfig struct {
	// File is an optional YAML registry file. Empty uses the built-in tables.
	File string `json:"file" yaml:"file"`
}

// RetrievalConfig holds settings for the external retrieval service client.
type RetrievalConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the base URL of the retrieval service.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// APIKey authenticates against the retrieval service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// TopK is the number of citations requested per query (default 10).
	TopK int `json:"top_k" yaml:"top_k"`

	// MaxRetries bounds retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// HistoryConfig holds settings for the citation history store.
type HistoryConfig struct {
	// DataDir contains citerank.db.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default limit for list and search queries (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all citerank settings.
type Config struct {
	Registry  RegistryConfig  `json:"registry" yaml:"registry"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	History   HistoryConfig   `json:"history" yaml:"history"`
}
