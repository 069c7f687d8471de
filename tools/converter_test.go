package tools

import (
	"testing"

	"github.com/ollama/ollama/api"
)

func TestToOllamaDeclarations(t *testing.T) {
	result := ToOllama(Declarations())
	if len(result) != 6 {
		t.Fatalf("expected 6 tools, got %d", len(result))
	}

	byName := make(map[string]api.Tool, len(result))
	for _, tool := range result {
		if tool.Type != "function" {
			t.Errorf("%s: expected type 'function', got %q", tool.Function.Name, tool.Type)
		}
		byName[tool.Function.Name] = tool
	}

	submit, ok := byName["submitWorkspaceJob"]
	if !ok {
		t.Fatal("submitWorkspaceJob missing")
	}
	params := submit.Function.Parameters
	if params.Type != "object" {
		t.Errorf("expected object parameters, got %q", params.Type)
	}
	if len(params.Required) != 2 {
		t.Errorf("expected 2 required fields, got %d", len(params.Required))
	}
	typeProp := params.Properties["type"]
	if len(typeProp.Enum) != len(JobTypes) {
		t.Errorf("expected %d enum values, got %d", len(JobTypes), len(typeProp.Enum))
	}
	if len(typeProp.Type) != 1 || typeProp.Type[0] != "string" {
		t.Errorf("unexpected type %v", typeProp.Type)
	}

	list := byName["listFiles"]
	if len(list.Function.Parameters.Properties) != 0 {
		t.Errorf("listFiles should take no arguments")
	}
}

func TestOllamaPropertyConversion(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		validate func(t *testing.T, result api.ToolProperty)
	}{
		{
			name:  "string enum as []string",
			input: map[string]any{"type": "string", "enum": []string{"GET", "POST"}},
			validate: func(t *testing.T, result api.ToolProperty) {
				if len(result.Enum) != 2 || result.Enum[1] != "POST" {
					t.Errorf("unexpected enum %v", result.Enum)
				}
			},
		},
		{
			name:  "union type",
			input: map[string]any{"type": []any{"string", "null"}},
			validate: func(t *testing.T, result api.ToolProperty) {
				if len(result.Type) != 2 {
					t.Errorf("expected 2 types, got %v", result.Type)
				}
			},
		},
		{
			name:  "array with items",
			input: map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			validate: func(t *testing.T, result api.ToolProperty) {
				if result.Items == nil {
					t.Error("expected items to be set")
				}
			},
		},
		{
			name: "struct value is round tripped through JSON",
			input: struct {
				Type        string `json:"type"`
				Description string `json:"description"`
			}{"object", "Request headers."},
			validate: func(t *testing.T, result api.ToolProperty) {
				if result.Description != "Request headers." {
					t.Errorf("unexpected description %q", result.Description)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, ollamaProperty(tt.input))
		})
	}
}

func TestToOpenAIDeclarations(t *testing.T) {
	if ToOpenAI(nil) != nil {
		t.Error("expected nil for no tools")
	}

	result := ToOpenAI(Declarations())
	if len(result) != 6 {
		t.Fatalf("expected 6 tools, got %d", len(result))
	}
	fn := result[4].OfFunction
	if fn == nil {
		t.Fatal("expected function tool")
	}
	if fn.Function.Name != "getWorkspaceJobStatus" {
		t.Errorf("unexpected name %q", fn.Function.Name)
	}
	if _, ok := fn.Function.Parameters["required"]; !ok {
		t.Error("expected required list")
	}
	if _, ok := result[0].OfFunction.Function.Parameters["required"]; ok {
		t.Error("listFiles should not declare required fields")
	}
}

func TestToAnthropicDeclarations(t *testing.T) {
	if ToAnthropic(nil) != nil {
		t.Error("expected nil for no tools")
	}

	result := ToAnthropic(Declarations())
	if len(result) != 6 {
		t.Fatalf("expected 6 tools, got %d", len(result))
	}
	for i, decl := range Declarations() {
		tool := result[i].OfTool
		if tool == nil {
			t.Fatalf("tool %d: expected OfTool", i)
		}
		if tool.Name != decl.Name {
			t.Errorf("tool %d: expected %s, got %s", i, decl.Name, tool.Name)
		}
		if !tool.Description.Valid() {
			t.Errorf("tool %d: description not set", i)
		}
	}
}
