package provider

import (
	"fmt"
)

// NewCompleter creates a Completer based on configuration.
//
// Supported provider types:
//   - ProviderTypeAnthropic: Anthropic Messages API
//   - ProviderTypeOpenAI: OpenAI Chat Completions API
//   - ProviderTypeOpenRouter: OpenRouter (OpenAI-compatible)
//   - ProviderTypeOllama: local Ollama server, no API key
//
// Returns an error if the type is unknown or the vendor constructor fails
// (for example a missing API key).
func NewCompleter(cfg Config) (Completer, error) {
	switch cfg.Type {
	case ProviderTypeAnthropic:
		return NewAnthropicCompleter(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOpenAI:
		return NewOpenAICompleter(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOpenRouter:
		return NewOpenRouterCompleter(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOllama:
		return NewOllamaCompleter(cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a config provider id to a ProviderType.
// Unknown ids are passed through so NewCompleter reports them.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "ollama":
		return ProviderTypeOllama
	case "openrouter":
		return ProviderTypeOpenRouter
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic", "claude":
		return ProviderTypeAnthropic
	default:
		return ProviderType(id)
	}
}
