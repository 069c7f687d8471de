package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ollama/ollama/api"
)

func TestModelSupportsToolCalling(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"llama3.1:latest", true},
		{"llama3.2:3b", true},
		{"llama3:8b", false},
		{"llama3-gradient", false},
		{"Qwen2.5-Coder:7b", true},
		{"mistral-nemo", true},
		{"codellama:13b", false},
		{"gemma2", false},
		{"something-new", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := ModelSupportsToolCalling(tt.model); got != tt.want {
				t.Errorf("ModelSupportsToolCalling(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("", "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Model() != DefaultModel {
		t.Errorf("expected default model, got %q", c.Model())
	}

	if _, err := NewClient("://bad", "m"); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestChat(t *testing.T) {
	var received api.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.ChatResponse{
			Model: received.Model,
			Message: api.Message{
				Role:    "assistant",
				Content: "Listing files.",
				ToolCalls: []api.ToolCall{{
					Function: api.ToolCallFunction{Name: "listFiles", Arguments: map[string]any{}},
				}},
			},
			Done: true,
		})
	}))
	defer srv.Close()

	c, err := NewClientWithHTTP(srv.URL, "qwen2.5", srv.Client())
	if err != nil {
		t.Fatal(err)
	}

	reply, err := c.Chat(context.Background(), []api.Message{{Role: "user", Content: "files?"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received.Model != "qwen2.5" {
		t.Errorf("expected model in request, got %q", received.Model)
	}
	if received.Stream == nil || *received.Stream {
		t.Error("expected non-streaming request")
	}
	if reply.Content != "Listing files." || reply.Role != "assistant" {
		t.Errorf("unexpected reply %+v", reply)
	}
	if len(reply.ToolCalls) != 1 || reply.ToolCalls[0].Function.Name != "listFiles" {
		t.Errorf("expected one listFiles call, got %+v", reply.ToolCalls)
	}
}

func TestChatServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	c, err := NewClientWithHTTP(srv.URL, "missing", srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Chat(context.Background(), nil, nil); err == nil {
		t.Error("expected error from server")
	}
}
