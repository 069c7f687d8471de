package provider

import (
	"context"
	"fmt"
	"primordia/model"
	"primordia/tools"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenAICompleter implements Completer with the official OpenAI SDK. It also
// serves OpenAI-compatible endpoints such as OpenRouter.
type OpenAICompleter struct {
	client openai.Client
	model  string
}

// NewOpenAICompleter creates an OpenAI completer.
//
// Parameters:
//   - baseURL: API base URL (default: "https://api.openai.com/v1")
//   - apiKey: API key (required)
//   - model: model name (default: "gpt-4o-mini")
func NewOpenAICompleter(baseURL, apiKey, model string, opts ...option.RequestOption) (*OpenAICompleter, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	clientOpts := append([]option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	}, opts...)

	return &OpenAICompleter{
		client: openai.NewClient(clientOpts...),
		model:  model,
	}, nil
}

// NewOpenRouterCompleter creates a completer for OpenRouter's
// OpenAI-compatible API.
func NewOpenRouterCompleter(baseURL, apiKey, model string, opts ...option.RequestOption) (*OpenAICompleter, error) {
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}
	if model == "" {
		model = "meta-llama/llama-3.2-90b-instruct"
	}
	return NewOpenAICompleter(baseURL, apiKey, model, opts...)
}

func (p *OpenAICompleter) Model() string {
	return p.model
}

// Complete implements Completer.Complete.
func (p *OpenAICompleter) Complete(ctx context.Context, system string, history []Turn, decls []mcptypes.Tool) (Reply, error) {
	params := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(system, history),
		Model:    openai.ChatModel(p.model),
	}
	if len(decls) > 0 {
		params.Tools = tools.ToOpenAI(decls)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Reply{}, fmt.Errorf("OpenAI request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Reply{}, fmt.Errorf("OpenAI returned no choices")
	}

	msg := resp.Choices[0].Message
	reply := Reply{Text: strings.TrimSpace(msg.Content)}
	for _, call := range msg.ToolCalls {
		if call.Function.Name == "" {
			continue
		}
		reply.ToolCalls = append(reply.ToolCalls, model.ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: ParseToolArguments(call.Function.Arguments),
		})
	}

	return reply, nil
}
