package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Placefolk Configuration

wikidata:
  sparql_endpoint: https://query.wikidata.org/sparql
  api_endpoint: https://www.wikidata.org/w/api.php
  # Wikimedia asks clients to identify themselves with contact details.
  user_agent: placefolk/0.1 (https://github.com/ersonp/placefolk)
  timeout: 30s
  requests_per_second: 5
  burst: 2
  search_limit: 7

search:
  page_size: 12
  suggest_limit: 10
  suggest_delay: 500ms
  min_suggest_length: 3
  # max_sub_regions: 50 (0 expands every sub-region)

cache:
  # max_entries: 5000 (0 keeps every entry until exit)
  max_entries: 0

server:
  addr: ":8080"
  base_url: http://localhost:8080/
  max_sessions: 1000
  request_timeout: 2m

default_scope: india
`

// WriteDefault creates the .placefolk directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	configFile := filepath.Join(configDir, DefaultConfigFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
