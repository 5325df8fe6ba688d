package config

// ProviderType identifies a generation or embedding provider.
type ProviderType string

const (
	ProviderGoogle ProviderType = "google"
	ProviderOpenAI ProviderType = "openai"
)

// Config is the top-level curator configuration, corresponding to
// .curator.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`

	DatabasePath string `yaml:"database_path" koanf:"database_path"`
	VectorDir    string `yaml:"vector_dir" koanf:"vector_dir"`

	Listen string `yaml:"listen" koanf:"listen"`

	Ranking RankingConfig `yaml:"ranking" koanf:"ranking"`
	Limits  LimitsConfig  `yaml:"limits" koanf:"limits"`
}

// RankingConfig tunes retrieval and re-ranking.
type RankingConfig struct {
	TopK        int     `yaml:"top_k" koanf:"top_k"`
	Candidates  int     `yaml:"candidates" koanf:"candidates"`
	BoostWeight float64 `yaml:"boost_weight" koanf:"boost_weight"`
}

// LimitsConfig tunes pacing, caching and the preset short-circuit.
type LimitsConfig struct {
	MinIntervalMS   int     `yaml:"min_interval_ms" koanf:"min_interval_ms"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds" koanf:"cache_ttl_seconds"`
	TimeoutSeconds  int     `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	PresetThreshold int     `yaml:"preset_threshold" koanf:"preset_threshold"`
	MaxTokens       int     `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature     float64 `yaml:"temperature" koanf:"temperature"`
}

// DefaultConfig returns a Config with the reference defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderGoogle,
		Model:             "gemini-2.0-flash",
		EmbeddingProvider: ProviderGoogle,
		EmbeddingModel:    "text-embedding-004",
		DatabasePath:      "data/curator.db",
		VectorDir:         "data/vectors",
		Listen:            ":8080",
		Ranking: RankingConfig{
			TopK:        3,
			Candidates:  20,
			BoostWeight: 0.15,
		},
		Limits: LimitsConfig{
			MinIntervalMS:   1000,
			CacheTTLSeconds: 300,
			TimeoutSeconds:  30,
			PresetThreshold: 3,
			MaxTokens:       1024,
			Temperature:     0.7,
		},
	}
}

// APIKeyEnvVar returns the conventional environment variable name for the
// API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderGoogle:
		return "GOOGLE_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
