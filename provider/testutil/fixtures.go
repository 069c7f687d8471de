package testutil

import (
	"primordia/model"
	"primordia/provider"
)

// TextReply returns a model reply without tool calls.
func TextReply(text string) Step {
	return Step{Reply: provider.Reply{Text: text}}
}

// ToolReply returns a model reply requesting the given calls.
func ToolReply(text string, calls ...model.ToolCall) Step {
	return Step{Reply: provider.Reply{Text: text, ToolCalls: calls}}
}

// Call builds a tool call with an explicit id.
func Call(id, name string, args map[string]any) model.ToolCall {
	if args == nil {
		args = map[string]any{}
	}
	return model.ToolCall{ID: id, Name: name, Args: args}
}

// SubmitCall is a submitWorkspaceJob call for a run service.
func SubmitCall(id, service string) model.ToolCall {
	return Call(id, "submitWorkspaceJob", map[string]any{
		"type": "deploy-run-service",
		"name": service,
	})
}

// SampleHistory returns a short conversation covering every turn kind.
func SampleHistory() []provider.Turn {
	return []provider.Turn{
		{Role: model.RoleUser, Text: "List my files"},
		{Role: model.RoleModel, Text: "Checking.", ToolCalls: []model.ToolCall{
			Call("call-1", "listFiles", nil),
			Call("call-2", "readFile", map[string]any{"path": "runs/pls-a/index.js"}),
		}},
		{Role: model.RoleTool, Results: []model.ToolResult{
			{CallID: "call-1", ToolName: "listFiles", Response: map[string]any{"files": []any{"runs/pls-a/index.js"}}},
			{CallID: "call-2", ToolName: "readFile", Response: "missing", IsError: true},
		}},
		{Role: model.RoleModel, Text: "You have one file."},
	}
}
