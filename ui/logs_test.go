package ui

import (
	"reflect"
	"testing"

	"primordia/model"
)

func TestFilterLogs(t *testing.T) {
	lines := []string{
		"status PENDING",
		"building image pls-hello",
		"status RUNNING",
		"deployed to http://primordia-local-service-pls-hello:8080",
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query keeps all", "", lines},
		{"exact word", "RUNNING", []string{"status RUNNING"}},
		{"fuzzy keeps original order", "stat", []string{"status PENDING", "status RUNNING"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterLogs(lines, tt.query)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogViewPauseAndClear(t *testing.T) {
	var l logView
	l.sync("job-1")

	logs := []string{"a", "b"}
	if got := l.visible(logs); len(got) != 2 {
		t.Fatalf("expected 2 lines, got %v", got)
	}

	l.togglePause(logs)
	logs = append(logs, "c")
	if got := l.visible(logs); len(got) != 2 {
		t.Errorf("paused view should not grow, got %v", got)
	}

	l.togglePause(logs)
	if got := l.visible(logs); len(got) != 3 {
		t.Errorf("resumed view should show new lines, got %v", got)
	}

	l.clear(logs)
	if got := l.visible(logs); len(got) != 0 {
		t.Errorf("cleared view should be empty, got %v", got)
	}
	logs = append(logs, "d")
	if got := l.visible(logs); !reflect.DeepEqual(got, []string{"d"}) {
		t.Errorf("expected only new line, got %v", got)
	}

	l.sync("job-2")
	if got := l.visible([]string{"x"}); len(got) != 1 {
		t.Errorf("new job should reset the view, got %v", got)
	}
}

func TestLastReply(t *testing.T) {
	msgs := []model.ChatMessage{
		{ID: "user-1", Role: model.RoleUser, Text: "deploy"},
		{ID: "model-1", Role: model.RoleModel, Text: "On it."},
		{ID: "model-2", Role: model.RoleModel, Text: "Using tools...", ToolCalls: []model.ToolCall{{Name: "listFiles"}}},
		{ID: "polling-1", Role: model.RoleModel, Text: "Job job-1 finished with status: SUCCESS"},
		{ID: "error-1", Role: model.RoleModel, Text: "Sorry, something went wrong.", IsError: true},
	}

	got, ok := lastReply(msgs)
	if !ok || got != "On it." {
		t.Errorf("expected the last real reply, got %q", got)
	}

	if _, ok := lastReply(msgs[:1]); ok {
		t.Error("no model reply expected")
	}
}
