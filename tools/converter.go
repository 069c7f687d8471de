package tools

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
)

// ToOllama converts tool declarations to the Ollama chat API format.
func ToOllama(decls []mcptypes.Tool) []api.Tool {
	result := make([]api.Tool, 0, len(decls))
	for _, decl := range decls {
		result = append(result, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        decl.Name,
				Description: decl.Description,
				Parameters:  ollamaParameters(decl.InputSchema),
			},
		})
	}
	return result
}

func ollamaParameters(schema mcptypes.ToolInputSchema) api.ToolFunctionParameters {
	params := api.ToolFunctionParameters{
		Type:       schema.Type,
		Required:   schema.Required,
		Properties: make(map[string]api.ToolProperty, len(schema.Properties)),
	}
	if schema.Defs != nil {
		params.Defs = schema.Defs
	}
	for name, value := range schema.Properties {
		params.Properties[name] = ollamaProperty(value)
	}
	return params
}

func ollamaProperty(value any) api.ToolProperty {
	prop := api.ToolProperty{}

	propMap, ok := value.(map[string]any)
	if !ok {
		raw, err := json.Marshal(value)
		if err != nil {
			return prop
		}
		if err := json.Unmarshal(raw, &propMap); err != nil {
			return prop
		}
	}

	switch t := propMap["type"].(type) {
	case string:
		prop.Type = api.PropertyType{t}
	case []string:
		prop.Type = api.PropertyType(t)
	case []any:
		types := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok {
				types = append(types, s)
			}
		}
		prop.Type = api.PropertyType(types)
	}

	if desc, ok := propMap["description"].(string); ok {
		prop.Description = desc
	}

	switch enum := propMap["enum"].(type) {
	case []any:
		prop.Enum = enum
	case []string:
		prop.Enum = make([]any, len(enum))
		for i, v := range enum {
			prop.Enum[i] = v
		}
	}

	if items, ok := propMap["items"]; ok {
		prop.Items = items
	}

	return prop
}

// ToOpenAI converts tool declarations to OpenAI function tools.
func ToOpenAI(decls []mcptypes.Tool) []openai.ChatCompletionToolUnionParam {
	if len(decls) == 0 {
		return nil
	}

	result := make([]openai.ChatCompletionToolUnionParam, len(decls))
	for i, decl := range decls {
		params := openai.FunctionParameters{
			"type":       decl.InputSchema.Type,
			"properties": decl.InputSchema.Properties,
		}
		if len(decl.InputSchema.Required) > 0 {
			params["required"] = decl.InputSchema.Required
		}
		if decl.InputSchema.Defs != nil {
			params["$defs"] = decl.InputSchema.Defs
		}

		result[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        decl.Name,
			Description: openai.String(decl.Description),
			Parameters:  params,
		})
	}
	return result
}

// ToAnthropic converts tool declarations to Anthropic tool params.
func ToAnthropic(decls []mcptypes.Tool) []anthropic.ToolUnionParam {
	if len(decls) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, len(decls))
	for i, decl := range decls {
		inputSchema := anthropic.ToolInputSchemaParam{
			Properties: decl.InputSchema.Properties,
		}
		if len(decl.InputSchema.Required) > 0 {
			inputSchema.Required = decl.InputSchema.Required
		}
		if decl.InputSchema.Defs != nil {
			inputSchema.ExtraFields = map[string]any{"$defs": decl.InputSchema.Defs}
		}

		result[i] = anthropic.ToolUnionParamOfTool(inputSchema, decl.Name)
		if decl.Description != "" {
			result[i].OfTool.Description = anthropic.String(decl.Description)
		}
	}
	return result
}
