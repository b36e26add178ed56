package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultScopeName is the built-in scope.
const DefaultScopeName = "india"

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
	// reItemID matches a knowledge-base item id.
	reItemID = regexp.MustCompile(`^Q[1-9][0-9]*$`)
)

// Scope names the country searches are restricted to.
type Scope struct {
	CountryID   string `yaml:"country_id"`
	CountryName string `yaml:"country_name"`
	Language    string `yaml:"language,omitempty"`
	// PlaceClass is the populated-place class suggestions are drawn from.
	PlaceClass string `yaml:"place_class,omitempty"`
}

// Validate checks that the scope can be put into queries.
func (s Scope) Validate() error {
	if !reItemID.MatchString(s.CountryID) {
		return fmt.Errorf("country_id %q is not an item id", s.CountryID)
	}
	if s.CountryName == "" {
		return errors.New("country_name is required")
	}
	if s.PlaceClass != "" && !reItemID.MatchString(s.PlaceClass) {
		return fmt.Errorf("place_class %q is not an item id", s.PlaceClass)
	}
	return nil
}

// DefaultScope returns the built-in India scope.
func DefaultScope() Scope {
	return Scope{
		CountryID:   "Q668",
		CountryName: "India",
		Language:    "en",
		PlaceClass:  "Q515",
	}
}

// ScopesConfig holds user-defined scopes (read/write).
type ScopesConfig struct {
	Scopes map[string]Scope `yaml:"scopes,omitempty"`
}

// LoadScopes loads scopes from the .placefolk directory. The built-in
// scope is always present unless the file redefines it.
func LoadScopes(basePath string) (*ScopesConfig, error) {
	cfg := &ScopesConfig{Scopes: make(map[string]Scope)}

	data, err := os.ReadFile(ScopesFilePath(basePath))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading scopes file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing scopes file: %w", err)
		}
		if cfg.Scopes == nil {
			cfg.Scopes = make(map[string]Scope)
		}
	}

	if _, ok := cfg.Scopes[DefaultScopeName]; !ok {
		cfg.Scopes[DefaultScopeName] = DefaultScope()
	}
	return cfg, nil
}

// Save writes the scopes to the scopes file.
func (s *ScopesConfig) Save(basePath string) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling scopes config: %w", err)
	}

	if err := os.WriteFile(ScopesFilePath(basePath), data, 0600); err != nil {
		return fmt.Errorf("writing scopes file: %w", err)
	}
	return nil
}

// Add validates and adds a scope under its sanitized name.
func (s *ScopesConfig) Add(name string, scope Scope) (string, error) {
	if err := scope.Validate(); err != nil {
		return "", err
	}
	key := SanitizeScopeName(name)
	if s.Scopes == nil {
		s.Scopes = make(map[string]Scope)
	}
	s.Scopes[key] = scope
	return key, nil
}

// Remove removes a scope.
func (s *ScopesConfig) Remove(name string) {
	delete(s.Scopes, SanitizeScopeName(name))
}

// Get returns the scope with the given name.
func (s *ScopesConfig) Get(name string) (Scope, error) {
	scope, ok := s.Scopes[SanitizeScopeName(name)]
	if !ok {
		return Scope{}, fmt.Errorf("scope %q not found (available: %s)", name, strings.Join(s.Names(), ", "))
	}
	return scope, nil
}

// Names returns the scope names in sorted order.
func (s *ScopesConfig) Names() []string {
	names := make([]string, 0, len(s.Scopes))
	for name := range s.Scopes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SanitizeScopeName converts a scope name to a lowercase identifier.
func SanitizeScopeName(name string) string {
	name = strings.ToLower(name)

	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	name = reNonAlphanumeric.ReplaceAllString(name, "")
	name = reMultipleUnderscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return DefaultScopeName
	}
	return name
}
