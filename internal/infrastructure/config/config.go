// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for placefolk configuration.
	DefaultConfigDir = ".placefolk"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultScopesFile is the default scopes file name.
	DefaultScopesFile = "scopes.yaml"
	// DefaultEnvFile is loaded into the environment before overrides apply.
	DefaultEnvFile = ".env"
)

// Config holds static configuration (read-only after load).
type Config struct {
	Wikidata     WikidataConfig `yaml:"wikidata,omitempty"`
	Search       SearchConfig   `yaml:"search,omitempty"`
	Cache        CacheConfig    `yaml:"cache,omitempty"`
	Server       ServerConfig   `yaml:"server,omitempty"`
	DefaultScope string         `yaml:"default_scope,omitempty"`
}

// WikidataConfig holds configuration for the remote knowledge base.
type WikidataConfig struct {
	SPARQLEndpoint    string        `yaml:"sparql_endpoint,omitempty"`
	APIEndpoint       string        `yaml:"api_endpoint,omitempty"`
	UserAgent         string        `yaml:"user_agent,omitempty"`
	Timeout           time.Duration `yaml:"timeout,omitempty"`
	RequestsPerSecond float64       `yaml:"requests_per_second,omitempty"`
	Burst             int           `yaml:"burst,omitempty"`
	// SearchLimit is the number of candidates requested from entity search.
	SearchLimit int `yaml:"search_limit,omitempty"`
}

// SearchConfig holds paging and suggestion settings.
type SearchConfig struct {
	PageSize         int           `yaml:"page_size,omitempty"`
	SuggestLimit     int           `yaml:"suggest_limit,omitempty"`
	SuggestDelay     time.Duration `yaml:"suggest_delay,omitempty"`
	MinSuggestLength int           `yaml:"min_suggest_length,omitempty"`
	// MaxSubRegions caps the sub-regions expanded per place; 0 means no cap.
	MaxSubRegions int `yaml:"max_sub_regions,omitempty"`
}

// CacheConfig bounds the in-process caches.
type CacheConfig struct {
	// MaxEntries caps each cache; 0 keeps every entry for the process lifetime.
	MaxEntries int `yaml:"max_entries,omitempty"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Addr        string `yaml:"addr,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	MaxSessions int    `yaml:"max_sessions,omitempty"`
	// RequestTimeout bounds API requests; the suggestion stream is exempt.
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Wikidata: WikidataConfig{
			SPARQLEndpoint:    "https://query.wikidata.org/sparql",
			APIEndpoint:       "https://www.wikidata.org/w/api.php",
			UserAgent:         "placefolk/0.1 (https://github.com/ersonp/placefolk)",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             2,
			SearchLimit:       7,
		},
		Search: SearchConfig{
			PageSize:         12,
			SuggestLimit:     10,
			SuggestDelay:     500 * time.Millisecond,
			MinSuggestLength: 3,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			BaseURL:        "http://localhost:8080/",
			MaxSessions:    1000,
			RequestTimeout: 2 * time.Minute,
		},
		DefaultScope: DefaultScopeName,
	}
}

// Load loads configuration from the .placefolk directory in the given path.
// A missing config file leaves the defaults in place.
func Load(basePath string) (*Config, error) {
	if err := loadEnvFile(basePath); err != nil {
		return nil, err
	}

	cfg := Default()

	data, err := os.ReadFile(ConfigFilePath(basePath))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadEnvFile loads .env without overriding variables that are already set.
func loadEnvFile(basePath string) error {
	envFile := filepath.Join(basePath, DefaultEnvFile)
	if _, err := os.Stat(envFile); err != nil {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PLACEFOLK_SPARQL_ENDPOINT"); v != "" {
		c.Wikidata.SPARQLEndpoint = v
	}
	if v := os.Getenv("PLACEFOLK_API_ENDPOINT"); v != "" {
		c.Wikidata.APIEndpoint = v
	}
	if v := os.Getenv("PLACEFOLK_USER_AGENT"); v != "" {
		c.Wikidata.UserAgent = v
	}
	if v := os.Getenv("PLACEFOLK_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks the configuration for values the services cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Wikidata.SPARQLEndpoint == "" {
		errs = append(errs, errors.New("wikidata.sparql_endpoint is required"))
	}
	if c.Wikidata.APIEndpoint == "" {
		errs = append(errs, errors.New("wikidata.api_endpoint is required"))
	}
	if c.Wikidata.RequestsPerSecond < 0 || c.Wikidata.Burst < 0 || c.Wikidata.SearchLimit < 0 {
		errs = append(errs, errors.New("wikidata rate and limits must not be negative"))
	}
	if c.Search.PageSize < 1 {
		errs = append(errs, fmt.Errorf("search.page_size must be at least 1, got %d", c.Search.PageSize))
	}
	if c.Search.SuggestLimit < 0 || c.Search.MinSuggestLength < 0 || c.Search.MaxSubRegions < 0 || c.Search.SuggestDelay < 0 {
		errs = append(errs, errors.New("search limits must not be negative"))
	}
	if c.Cache.MaxEntries < 0 {
		errs = append(errs, errors.New("cache.max_entries must not be negative"))
	}
	if c.Server.MaxSessions < 0 || c.Server.RequestTimeout < 0 {
		errs = append(errs, errors.New("server.max_sessions and server.request_timeout must not be negative"))
	}
	return errors.Join(errs...)
}

// ConfigDir returns the path to the .placefolk config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// ScopesFilePath returns the path to the scopes file.
func ScopesFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultScopesFile)
}

// Exists checks if a placefolk config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
