package provider

import (
	"testing"
)

func TestNewCompleter(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		wantModel   string
	}{
		{
			name:      "ollama with defaults",
			config:    Config{Type: ProviderTypeOllama},
			wantModel: "llama3.1:latest",
		},
		{
			name:      "ollama with custom config",
			config:    Config{Type: ProviderTypeOllama, BaseURL: "http://localhost:11434", Model: "qwen2.5-coder"},
			wantModel: "qwen2.5-coder",
		},
		{
			name:      "openai",
			config:    Config{Type: ProviderTypeOpenAI, APIKey: "test-key"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:      "openrouter",
			config:    Config{Type: ProviderTypeOpenRouter, APIKey: "test-key", Model: "qwen/qwen3-coder:free"},
			wantModel: "qwen/qwen3-coder:free",
		},
		{
			name:      "anthropic",
			config:    Config{Type: ProviderTypeAnthropic, APIKey: "test-key"},
			wantModel: "claude-sonnet-4-5-20250929",
		},
		{
			name:        "anthropic without key",
			config:      Config{Type: ProviderTypeAnthropic},
			expectError: true,
		},
		{
			name:        "openai without key",
			config:      Config{Type: ProviderTypeOpenAI},
			expectError: true,
		},
		{
			name:        "unknown provider type",
			config:      Config{Type: ProviderType("gemini"), APIKey: "k"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer, err := NewCompleter(tt.config)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if completer.Model() != tt.wantModel {
				t.Errorf("expected model %q, got %q", tt.wantModel, completer.Model())
			}
		})
	}
}

func TestFactoryReturnsConcreteTypes(t *testing.T) {
	c, err := NewCompleter(Config{Type: ProviderTypeOllama})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*OllamaCompleter); !ok {
		t.Errorf("expected *OllamaCompleter, got %T", c)
	}

	c, err = NewCompleter(Config{Type: ProviderTypeOpenRouter, APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*OpenAICompleter); !ok {
		t.Errorf("expected *OpenAICompleter, got %T", c)
	}
}

func TestMapProviderIDToType(t *testing.T) {
	tests := map[string]ProviderType{
		"ollama":     ProviderTypeOllama,
		"openrouter": ProviderTypeOpenRouter,
		"openai":     ProviderTypeOpenAI,
		"anthropic":  ProviderTypeAnthropic,
		"claude":     ProviderTypeAnthropic,
		"mystery":    ProviderType("mystery"),
	}
	for id, want := range tests {
		if got := MapProviderIDToType(id); got != want {
			t.Errorf("%s: expected %s, got %s", id, want, got)
		}
	}
}

var (
	_ Completer = (*AnthropicCompleter)(nil)
	_ Completer = (*OpenAICompleter)(nil)
	_ Completer = (*OllamaCompleter)(nil)
)
