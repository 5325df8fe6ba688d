// Package config loads the curator configuration from .curator.yml with
// CURATOR_* environment overrides layered on top.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the conventional config file location.
const DefaultPath = ".curator.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CURATOR_*). A missing file is not an
// error: defaults plus env apply. Nested keys use underscores doubled into
// dots, e.g. CURATOR_LIMITS__MAX_TOKENS -> limits.max_tokens.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("CURATOR_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "CURATOR_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderGoogle: true,
	ProviderOpenAI: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of google, openai", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.EmbeddingProvider != "" && !validProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q", c.EmbeddingProvider)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.Ranking.TopK <= 0 {
		return fmt.Errorf("ranking.top_k must be positive")
	}
	if c.Ranking.Candidates < c.Ranking.TopK {
		return fmt.Errorf("ranking.candidates must be at least ranking.top_k")
	}
	if c.Ranking.BoostWeight < 0 || c.Ranking.BoostWeight > 1 {
		return fmt.Errorf("ranking.boost_weight must be in [0, 1]")
	}
	if c.Limits.MinIntervalMS < 0 {
		return fmt.Errorf("limits.min_interval_ms must be non-negative")
	}
	if c.Limits.CacheTTLSeconds < 0 {
		return fmt.Errorf("limits.cache_ttl_seconds must be non-negative")
	}
	if c.Limits.Temperature < 0 || c.Limits.Temperature > 2 {
		return fmt.Errorf("limits.temperature must be in [0, 2]")
	}
	return nil
}
