package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the override variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PLACEFOLK_SPARQL_ENDPOINT",
		"PLACEFOLK_API_ENDPOINT",
		"PLACEFOLK_USER_AGENT",
		"PLACEFOLK_ADDR",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 12, cfg.Search.PageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.SuggestDelay)
	assert.Equal(t, DefaultScopeName, cfg.DefaultScope)
}

func TestLoad_DefaultYAMLMatchesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	content := `
search:
  page_size: 20
  suggest_delay: 250ms
cache:
  max_entries: 100
`
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Search.PageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.SuggestDelay)
	assert.Equal(t, 100, cfg.Cache.MaxEntries)
	assert.Equal(t, 10, cfg.Search.SuggestLimit, "unset keys keep defaults")
	assert.Equal(t, "https://query.wikidata.org/sparql", cfg.Wikidata.SPARQLEndpoint)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLACEFOLK_SPARQL_ENDPOINT", "http://localhost:1/sparql")
	t.Setenv("PLACEFOLK_USER_AGENT", "test-agent")
	t.Setenv("PLACEFOLK_ADDR", ":9090")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1/sparql", cfg.Wikidata.SPARQLEndpoint)
	assert.Equal(t, "test-agent", cfg.Wikidata.UserAgent)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte("PLACEFOLK_ADDR=:7070\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte("search: [unclosed"), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte("search:\n  page_size: -1\n"), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page_size")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing sparql endpoint",
			mutate:  func(c *Config) { c.Wikidata.SPARQLEndpoint = "" },
			wantErr: "sparql_endpoint",
		},
		{
			name:    "missing api endpoint",
			mutate:  func(c *Config) { c.Wikidata.APIEndpoint = "" },
			wantErr: "api_endpoint",
		},
		{
			name:    "zero page size",
			mutate:  func(c *Config) { c.Search.PageSize = 0 },
			wantErr: "page_size",
		},
		{
			name:    "negative cache size",
			mutate:  func(c *Config) { c.Cache.MaxEntries = -1 },
			wantErr: "max_entries",
		},
		{
			name:    "negative sessions",
			mutate:  func(c *Config) { c.Server.MaxSessions = -5 },
			wantErr: "max_sessions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteDefault_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))
	assert.True(t, Exists(dir))

	err := WriteDefault(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
