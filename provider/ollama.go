package provider

import (
	"context"
	"fmt"
	"primordia/config"
	"primordia/ollama"
	"primordia/tools"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
)

// OllamaCompleter wraps ollama.Client to implement Completer.
type OllamaCompleter struct {
	client *ollama.Client
}

// NewOllamaCompleter creates a completer for a local Ollama server.
// Empty baseURL and model fall back to the ollama package defaults.
func NewOllamaCompleter(baseURL, model string) (*OllamaCompleter, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return &OllamaCompleter{client: client}, nil
}

func (p *OllamaCompleter) Model() string {
	return p.client.Model()
}

// Complete implements Completer.Complete. Tools are only offered to model
// families known to support tool calling.
func (p *OllamaCompleter) Complete(ctx context.Context, system string, history []Turn, decls []mcptypes.Tool) (Reply, error) {
	var ollamaTools []api.Tool
	if len(decls) > 0 {
		if ollama.ModelSupportsToolCalling(p.client.Model()) {
			ollamaTools = tools.ToOllama(decls)
		} else if config.DebugLog != nil {
			config.DebugLog.Printf("[Ollama] Model '%s' is not known to support tools, sending none", p.client.Model())
		}
	}

	msg, err := p.client.Chat(ctx, ConvertToOllamaMessages(system, history), ollamaTools)
	if err != nil {
		return Reply{}, fmt.Errorf("Ollama request failed: %w", err)
	}

	return Reply{
		Text:      msg.Content,
		ToolCalls: ConvertFromOllamaToolCalls(msg.ToolCalls),
	}, nil
}
