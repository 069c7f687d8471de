package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"primordia/model"
	"primordia/tools"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

const anthropicMaxTokens = 4096

// AnthropicCompleter implements Completer with the official Anthropic SDK.
type AnthropicCompleter struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropicCompleter creates an Anthropic completer.
//
// Parameters:
//   - baseURL: API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: model name (default: claude-sonnet-4-5-20250929)
//
// Extra request options, such as a test HTTP client, may be appended.
func NewAnthropicCompleter(baseURL, apiKey, model string, opts ...option.RequestOption) (*AnthropicCompleter, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if model != "" {
		anthropicModel = anthropic.Model(model)
	}

	clientOpts := append([]option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	}, opts...)
	client := anthropic.NewClient(clientOpts...)

	return &AnthropicCompleter{
		client: &client,
		model:  anthropicModel,
	}, nil
}

func (p *AnthropicCompleter) Model() string {
	return string(p.model)
}

// Complete implements Completer.Complete.
func (p *AnthropicCompleter) Complete(ctx context.Context, system string, history []Turn, decls []mcptypes.Tool) (Reply, error) {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  ConvertToAnthropicMessages(history),
		MaxTokens: anthropicMaxTokens,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if len(decls) > 0 {
		params.Tools = tools.ToAnthropic(decls)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return Reply{}, fmt.Errorf("Anthropic request failed: %w", err)
	}

	return anthropicReply(msg.Content), nil
}

func anthropicReply(content []anthropic.ContentBlockUnion) Reply {
	var reply Reply

	for _, block := range content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			reply.Text += b.Text

		case anthropic.ToolUseBlock:
			args := map[string]any{}
			if len(b.Input) > 0 {
				if err := json.Unmarshal(b.Input, &args); err != nil {
					args = map[string]any{}
				}
			}
			reply.ToolCalls = append(reply.ToolCalls, model.ToolCall{
				ID:   b.ID,
				Name: b.Name,
				Args: args,
			})
		}
	}

	return reply
}
