package config

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
)

// modelPresets maps each provider to its recommended generation and
// embedding models.
var modelPresets = map[ProviderType]struct {
	Models         []string
	EmbeddingModel string
}{
	ProviderGoogle: {
		Models:         []string{"gemini-2.0-flash", "gemini-1.5-pro"},
		EmbeddingModel: "text-embedding-004",
	},
	ProviderOpenAI: {
		Models:         []string{"gpt-4o-mini", "gpt-4o"},
		EmbeddingModel: "text-embedding-3-small",
	},
}

// RunWizard runs an interactive configuration wizard, saves the result to
// .curator.yml and returns it.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to curator! Let's configure your shop assistant.")
	fmt.Println()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"google", "openai"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	preset := modelPresets[provider]

	modelPrompt := promptui.Select{
		Label: "Select generation model",
		Items: preset.Models,
	}
	_, model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}

	listenPrompt := promptui.Prompt{
		Label:   "HTTP listen address",
		Default: ":8080",
	}
	listen, err := listenPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("listen address: %w", err)
	}

	dbPrompt := promptui.Prompt{
		Label:   "SQLite database path",
		Default: "data/curator.db",
	}
	dbPath, err := dbPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = model
	cfg.EmbeddingProvider = provider
	cfg.EmbeddingModel = preset.EmbeddingModel
	cfg.Listen = listen
	cfg.DatabasePath = dbPath

	envVar := APIKeyEnvVar(provider)
	if envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: set %s in your environment before running curator serve.\n", envVar)
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}
