// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StoreConfig holds settings for the record store client.
type StoreConfig struct {
	// BaseURL is the store's local API root (default "http://127.0.0.1:23119/api").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// MaxResults is the maximum number of records requested per search (default 25).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// CacheTTL is how long search responses are served from the in-memory
	// cache before hitting the store again (default 30s; zero disables caching).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// GraphMode selects the knowledge-base backend.
type GraphMode string

const (
	// GraphModeAPI talks to the host application's local HTTP API.
	GraphModeAPI GraphMode = "api"

	// GraphModeLocal uses the SQLite graph mirror on disk.
	GraphModeLocal GraphMode = "local"
)

// GraphConfig holds settings for the knowledge-base backend.
type GraphConfig struct {
	// Mode selects the backend: "api" or "local".
	Mode GraphMode `json:"mode" yaml:"mode"`

	// BaseURL is the host API root for api mode (default "http://127.0.0.1:12315").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIToken authenticates api-mode requests. Usually loaded from
	// .secrets/graph-api-token rather than the config file.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty"`

	// RequestsPerSecond caps api-mode call rate (default 10).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// DBPath is the SQLite database path for local mode (default "graph/refbridge.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// ImportConfig holds settings for the import stage.
type ImportConfig struct {
	// PropertyKey is the page property under which the record ID is stored
	// at creation time and looked up during existence checks (default "zotero-id").
	PropertyKey string `json:"property_key" yaml:"property_key"`
}

// Config groups all stage configurations.
type Config struct {
	Store  StoreConfig  `json:"store" yaml:"store"`
	Graph  GraphConfig  `json:"graph" yaml:"graph"`
	Import ImportConfig `json:"import" yaml:"import"`
}

// Defaults fills zero-valued fields with their documented defaults.
func (c *Config) Defaults() {
	if c.Store.BaseURL == "" {
		c.Store.BaseURL = "http://127.0.0.1:23119/api"
	}
	if c.Store.MaxResults <= 0 {
		c.Store.MaxResults = 25
	}
	if c.Store.CacheTTL == 0 {
		c.Store.CacheTTL = 30 * time.Second
	}
	if c.Graph.Mode == "" {
		c.Graph.Mode = GraphModeAPI
	}
	if c.Graph.BaseURL == "" {
		c.Graph.BaseURL = "http://127.0.0.1:12315"
	}
	if c.Graph.RequestsPerSecond <= 0 {
		c.Graph.RequestsPerSecond = 10
	}
	if c.Graph.DBPath == "" {
		c.Graph.DBPath = "graph/refbridge.db"
	}
	if c.Import.PropertyKey == "" {
		c.Import.PropertyKey = "zotero-id"
	}
}
