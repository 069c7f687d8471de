package provider

import (
	"fmt"
	"primordia/config"
	"primordia/tools"
)

// NewSessionFromConfig builds the model session for the application.
//
// It resolves the API key (environment first, then the credential store),
// creates the Completer for the configured provider and wraps it in a
// Session with the agent system prompt and tool declarations.
//
// When the provider needs a key and none is configured, the returned
// session is unconfigured and the error is ErrNotConfigured wrapped with
// the cause. The session is never nil so callers can render a disabled UI.
func NewSessionFromConfig(cfg *config.Config) (*Session, error) {
	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = tools.DefaultSystemPrompt
	}
	decls := tools.Declarations()

	apiKey := ""
	if cfg.RequiresAPIKey() {
		key, err := config.ResolveAPIKey(cfg)
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Provider] No credential for %s: %v", cfg.Provider, err)
			}
			return NewSession(nil, prompt, decls), fmt.Errorf("%w: %w", ErrNotConfigured, err)
		}
		apiKey = key
	}

	completer, err := NewCompleter(Config{
		Type:    MapProviderIDToType(cfg.Provider),
		BaseURL: cfg.ModelBaseURL,
		Model:   cfg.ModelName,
		APIKey:  apiKey,
	})
	if err != nil {
		return NewSession(nil, prompt, decls), fmt.Errorf("%w: %w", ErrNotConfigured, err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] Initialized %s completer (model: %s)", cfg.Provider, completer.Model())
	}

	return NewSession(completer, prompt, decls), nil
}
