// Package provider turns the conversation with an LLM vendor into a single
// owned Session.
//
// The console supports several vendors (Anthropic, OpenAI, OpenAI-compatible
// OpenRouter, and local Ollama) behind the Completer interface. A Completer
// is stateless: it performs one completion round given the system prompt,
// the whole history and the tool declarations. The Session owns the history
// and hands it to the Completer on every Send.
//
// # Type Conversions
//
// Each Completer converts the provider-agnostic Turn history into its
// vendor's message format. See conversions.go:
//   - ConvertToAnthropicMessages
//   - ConvertToOpenAIMessages
//   - ConvertToOllamaMessages / ConvertFromOllamaToolCalls
//
// # Usage
//
//	completer, err := provider.NewCompleter(provider.Config{
//	    Type:   provider.ProviderTypeAnthropic,
//	    APIKey: key,
//	})
//	if err != nil {
//	    // handle error
//	}
//	session := provider.NewSession(completer, tools.DefaultSystemPrompt, tools.Declarations())
//	reply, err := session.Send(ctx, provider.UserText("deploy pls-hello"))
package provider

import (
	"context"
	"primordia/model"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ProviderType identifies the Completer implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

// Config holds vendor connection settings.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // unused for Ollama
}

// Turn is one entry of the session history.
//
//   - RoleUser turns carry Text.
//   - RoleModel turns carry the reply Text and any ToolCalls.
//   - RoleTool turns carry the Results answering the previous model turn.
type Turn struct {
	Role      model.Role
	Text      string
	ToolCalls []model.ToolCall
	Results   []model.ToolResult
}

// Content is what the console sends to the model: either user text or the
// results for the model's last tool calls.
type Content struct {
	text    string
	results []model.ToolResult
	isTool  bool
}

func UserText(s string) Content {
	return Content{text: s}
}

func ToolResults(results []model.ToolResult) Content {
	return Content{results: results, isTool: true}
}

func (c Content) IsToolResults() bool {
	return c.isTool
}

func (c Content) turn() Turn {
	if c.isTool {
		return Turn{Role: model.RoleTool, Results: append([]model.ToolResult(nil), c.results...)}
	}
	return Turn{Role: model.RoleUser, Text: c.text}
}

// Reply is the model's answer to one Send.
type Reply struct {
	Text      string
	ToolCalls []model.ToolCall
}

// Completer performs one stateless completion round against a vendor API.
type Completer interface {
	Complete(ctx context.Context, system string, history []Turn, tools []mcptypes.Tool) (Reply, error)

	// Model returns the vendor model name used for completions.
	Model() string
}
