package tools_test

import (
	"context"
	"strings"
	"testing"

	"primordia/gateway"
	"primordia/gateway/gatewaytest"
	"primordia/model"
	"primordia/tools"
)

func errorText(t *testing.T, r model.ToolResult) string {
	t.Helper()
	m, ok := r.Response.(map[string]any)
	if !ok {
		t.Fatalf("expected error map, got %T", r.Response)
	}
	s, _ := m["error"].(string)
	return s
}

func TestExecuteKeepsOrderAndCardinality(t *testing.T) {
	fake := gatewaytest.New(t)
	fake.PutFile("runs/pls-a/index.js", "export {}")
	transcript := model.NewTranscript()
	d := tools.NewDispatcher(fake.Client(), transcript, tools.Options{})

	calls := []model.ToolCall{
		{ID: "c1", Name: "writeFile", Args: map[string]any{"path": "runs/pls-a/package.json", "content": `{"type":"module"}`}},
		{ID: "c2", Name: "doMagic", Args: map[string]any{}},
		{ID: "c3", Name: "readFile", Args: map[string]any{"path": "runs/pls-a/index.js"}},
		{ID: "c4", Name: "listFiles"},
	}

	results := d.Execute(context.Background(), calls)
	if len(results) != len(calls) {
		t.Fatalf("expected %d results, got %d", len(calls), len(results))
	}
	for i, r := range results {
		if r.CallID != calls[i].ID || r.ToolName != calls[i].Name {
			t.Errorf("result %d paired with %s/%s, want %s/%s", i, r.CallID, r.ToolName, calls[i].ID, calls[i].Name)
		}
	}

	if results[0].IsError {
		t.Errorf("writeFile failed: %v", results[0].Response)
	}
	if !results[1].IsError || errorText(t, results[1]) != "Unknown tool: doMagic" {
		t.Errorf("unexpected unknown tool result %+v", results[1])
	}
	if results[2].Response != "export {}" {
		t.Errorf("unexpected readFile result %#v", results[2].Response)
	}
	list, ok := results[3].Response.(gateway.FileList)
	if !ok || len(list.Files) != 2 {
		t.Errorf("unexpected listFiles result %#v", results[3].Response)
	}

	msgs := transcript.Snapshot()
	if len(msgs) != len(calls) {
		t.Fatalf("expected %d transcript entries, got %d", len(calls), len(msgs))
	}
	for i, msg := range msgs {
		if msg.Role != model.RoleTool {
			t.Errorf("entry %d: expected tool role, got %s", i, msg.Role)
		}
		if msg.Text != "Result for "+calls[i].Name {
			t.Errorf("entry %d: unexpected text %q", i, msg.Text)
		}
		if msg.ToolResult == nil || msg.ToolResult.CallID != calls[i].ID {
			t.Errorf("entry %d: missing tool result", i)
		}
	}
}

func TestExecuteValidatesArguments(t *testing.T) {
	tests := []struct {
		name    string
		call    model.ToolCall
		wantErr string
	}{
		{"missing path", model.ToolCall{Name: "readFile", Args: map[string]any{}}, `missing required argument "path"`},
		{"wrong type", model.ToolCall{Name: "readFile", Args: map[string]any{"path": 42.0}}, `argument "path" must be a string`},
		{"missing content", model.ToolCall{Name: "writeFile", Args: map[string]any{"path": "a"}}, `missing required argument "content"`},
		{"bad job type", model.ToolCall{Name: "submitWorkspaceJob", Args: map[string]any{"type": "rm-rf", "name": "pls-x"}}, `invalid job type "rm-rf"`},
		{"missing job name", model.ToolCall{Name: "submitWorkspaceJob", Args: map[string]any{"type": "deploy-function"}}, `missing required argument "name"`},
		{"bad proxy method", model.ToolCall{Name: "proxyRequest", Args: map[string]any{"url": "http://x", "method": "TRACE"}}, "unsupported proxy method"},
		{"headers not object", model.ToolCall{Name: "proxyRequest", Args: map[string]any{"url": "http://x", "headers": "a"}}, `argument "headers" must be an object`},
	}

	fake := gatewaytest.New(t)
	d := tools.NewDispatcher(fake.Client(), nil, tools.Options{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := d.Execute(context.Background(), []model.ToolCall{tt.call})
			if len(results) != 1 || !results[0].IsError {
				t.Fatalf("expected one error result, got %+v", results)
			}
			if got := errorText(t, results[0]); !strings.Contains(got, tt.wantErr) {
				t.Errorf("expected %q in %q", tt.wantErr, got)
			}
		})
	}

	if len(fake.Jobs()) != 0 || len(fake.ProxyCalls()) != 0 {
		t.Error("invalid calls should not reach the backend")
	}
}

func TestExecuteReportsBackendFailures(t *testing.T) {
	fake := gatewaytest.New(t)
	fake.SetSubmitStatus(200)
	d := tools.NewDispatcher(fake.Client(), nil, tools.Options{})

	results := d.Execute(context.Background(), []model.ToolCall{
		{ID: "s", Name: "submitWorkspaceJob", Args: map[string]any{"type": "deploy-run-service", "name": "pls-x"}},
		{ID: "r", Name: "readFile", Args: map[string]any{"path": "missing.txt"}},
	})

	if !results[0].IsError || !strings.Contains(errorText(t, results[0]), "expected status 202, got 200") {
		t.Errorf("unexpected submit result %+v", results[0])
	}
	if results[0].JobID() != "" {
		t.Error("failed submission must not carry a job id")
	}
	if !results[1].IsError || !strings.Contains(errorText(t, results[1]), "404") {
		t.Errorf("unexpected read result %+v", results[1])
	}
}

func TestSubmitResultCarriesJobID(t *testing.T) {
	fake := gatewaytest.New(t)
	d := tools.NewDispatcher(fake.Client(), nil, tools.Options{})

	results := d.Execute(context.Background(), []model.ToolCall{
		{ID: "s", Name: "submitWorkspaceJob", Args: map[string]any{"type": "deploy-run-service", "name": "pls-x"}},
	})
	if results[0].IsError {
		t.Fatalf("unexpected error %v", results[0].Response)
	}
	if got := results[0].JobID(); got == "" || got != fake.Jobs()[0] {
		t.Errorf("expected job id %v, got %q", fake.Jobs(), got)
	}
}

func TestStatusToolGatedByOption(t *testing.T) {
	fake := gatewaytest.New(t)
	call := model.ToolCall{Name: "getWorkspaceJobStatus", Args: map[string]any{"jobId": "job-1"}}

	blocked := tools.NewDispatcher(fake.Client(), nil, tools.Options{}).Execute(context.Background(), []model.ToolCall{call})
	if !blocked[0].IsError {
		t.Fatalf("expected status tool to be rejected, got %+v", blocked[0])
	}
	if msg := errorText(t, blocked[0]); strings.Contains(msg, "Unknown tool") || !strings.Contains(msg, "polled by the console") {
		t.Errorf("declared tool should not be reported as unknown: %q", msg)
	}

	client := fake.Client()
	if _, err := client.SubmitWorkspaceJob(context.Background(), "deploy-function", "pls-f"); err != nil {
		t.Fatal(err)
	}
	allowed := tools.NewDispatcher(client, nil, tools.Options{AllowStatusTool: true}).Execute(context.Background(), []model.ToolCall{call})
	if allowed[0].IsError {
		t.Fatalf("unexpected error %v", allowed[0].Response)
	}
	doc, ok := allowed[0].Response.(model.JobDocument)
	if !ok || doc.Status != model.JobSuccess {
		t.Errorf("unexpected status result %#v", allowed[0].Response)
	}
}

func TestParseKind(t *testing.T) {
	for _, decl := range tools.Declarations() {
		kind, ok := tools.ParseKind(decl.Name)
		if !ok {
			t.Errorf("declared tool %s has no kind", decl.Name)
			continue
		}
		if kind.String() != decl.Name {
			t.Errorf("kind %d renders as %s, want %s", kind, kind, decl.Name)
		}
	}
	if _, ok := tools.ParseKind("deleteEverything"); ok {
		t.Error("unknown tool parsed")
	}
}
