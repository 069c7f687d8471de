package provider

import (
	"encoding/json"
	"fmt"
	"primordia/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
)

// EncodeToolResponse renders a tool result for the model. Strings are sent
// verbatim, everything else as JSON.
func EncodeToolResponse(r model.ToolResult) string {
	if s, ok := r.Response.(string); ok {
		return s
	}
	data, err := json.Marshal(r.Response)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, "unencodable tool response: "+err.Error())
	}
	return string(data)
}

// ParseToolArguments parses a JSON arguments string into a map.
// Malformed input yields an empty map.
func ParseToolArguments(argsJSON string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil || args == nil {
		return make(map[string]any)
	}
	return args
}

func encodeToolArguments(args map[string]any) string {
	if args == nil {
		return "{}"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ConvertToAnthropicMessages converts the history to Anthropic messages.
// Tool results travel as tool_result blocks inside a user message.
func ConvertToAnthropicMessages(history []Turn) []anthropic.MessageParam {
	msgs := make([]anthropic.MessageParam, 0, len(history))

	for _, turn := range history {
		switch turn.Role {
		case model.RoleUser:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Text)))

		case model.RoleModel:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(turn.ToolCalls)+1)
			if turn.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(turn.Text))
			}
			for _, call := range turn.ToolCalls {
				args := call.Args
				if args == nil {
					args = map[string]any{}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, args, call.Name))
			}
			if len(blocks) == 0 {
				blocks = append(blocks, anthropic.NewTextBlock("(no content)"))
			}
			msgs = append(msgs, anthropic.NewAssistantMessage(blocks...))

		case model.RoleTool:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(turn.Results))
			for _, r := range turn.Results {
				blocks = append(blocks, anthropic.NewToolResultBlock(r.CallID, EncodeToolResponse(r), r.IsError))
			}
			msgs = append(msgs, anthropic.NewUserMessage(blocks...))
		}
	}

	return msgs
}

// ConvertToOpenAIMessages converts the system prompt and history to OpenAI
// chat messages. Each tool result becomes its own tool message.
func ConvertToOpenAIMessages(system string, history []Turn) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}

	for _, turn := range history {
		switch turn.Role {
		case model.RoleUser:
			msgs = append(msgs, openai.UserMessage(turn.Text))

		case model.RoleModel:
			asst := openai.ChatCompletionAssistantMessageParam{}
			if turn.Text != "" {
				asst.Content.OfString = openai.String(turn.Text)
			}
			for _, call := range turn.ToolCalls {
				asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: call.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      call.Name,
							Arguments: encodeToolArguments(call.Args),
						},
					},
				})
			}
			msgs = append(msgs, openai.ChatCompletionMessageParamUnion{OfAssistant: &asst})

		case model.RoleTool:
			for _, r := range turn.Results {
				msgs = append(msgs, openai.ToolMessage(EncodeToolResponse(r), r.CallID))
			}
		}
	}

	return msgs
}

// ConvertToOllamaMessages converts the system prompt and history to Ollama
// chat messages.
func ConvertToOllamaMessages(system string, history []Turn) []api.Message {
	msgs := make([]api.Message, 0, len(history)+1)
	if system != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: system})
	}

	for _, turn := range history {
		switch turn.Role {
		case model.RoleUser:
			msgs = append(msgs, api.Message{Role: "user", Content: turn.Text})

		case model.RoleModel:
			msgs = append(msgs, api.Message{
				Role:      "assistant",
				Content:   turn.Text,
				ToolCalls: ConvertToOllamaToolCalls(turn.ToolCalls),
			})

		case model.RoleTool:
			for _, r := range turn.Results {
				msgs = append(msgs, api.Message{Role: "tool", Content: EncodeToolResponse(r)})
			}
		}
	}

	return msgs
}

// ConvertFromOllamaToolCalls converts Ollama tool calls to model tool calls.
// Ollama does not assign call IDs; the session fills them in.
func ConvertFromOllamaToolCalls(calls []api.ToolCall) []model.ToolCall {
	if len(calls) == 0 {
		return nil
	}

	result := make([]model.ToolCall, len(calls))
	for i, call := range calls {
		result[i] = model.ToolCall{
			Name: call.Function.Name,
			Args: map[string]any(call.Function.Arguments),
		}
	}
	return result
}

// ConvertToOllamaToolCalls is the inverse of ConvertFromOllamaToolCalls.
func ConvertToOllamaToolCalls(calls []model.ToolCall) []api.ToolCall {
	if len(calls) == 0 {
		return nil
	}

	result := make([]api.ToolCall, len(calls))
	for i, call := range calls {
		result[i] = api.ToolCall{
			Function: api.ToolCallFunction{
				Name:      call.Name,
				Arguments: call.Args,
			},
		}
	}
	return result
}
