package provider

import (
	"context"
	"errors"
	"fmt"
	"primordia/config"
	"primordia/model"
	"sync"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ErrNotConfigured is returned by every Session operation when no
// Completer is available, typically because the API key is missing.
var ErrNotConfigured = errors.New("model session is not configured")

// Session is the single conversation with the model. It owns the history
// and is safe for concurrent use, although the orchestrator only ever has
// one Send in flight.
type Session struct {
	mu        sync.Mutex
	completer Completer
	system    string
	tools     []mcptypes.Tool
	history   []Turn
	turns     int
}

// NewSession creates a session. A nil completer yields an unconfigured
// session that rejects every Send with ErrNotConfigured.
func NewSession(completer Completer, systemPrompt string, tools []mcptypes.Tool) *Session {
	return &Session{
		completer: completer,
		system:    systemPrompt,
		tools:     tools,
	}
}

func (s *Session) IsConfigured() bool {
	return s != nil && s.completer != nil
}

// Model returns the vendor model name, or "" when unconfigured.
func (s *Session) Model() string {
	if !s.IsConfigured() {
		return ""
	}
	return s.completer.Model()
}

// Send appends content to the history, asks the model for the next reply
// and records it. If the completion fails the pending turn is dropped so
// the history stays well formed.
func (s *Session) Send(ctx context.Context, content Content) (Reply, error) {
	if !s.IsConfigured() {
		return Reply{}, ErrNotConfigured
	}
	if content.IsToolResults() && len(content.results) == 0 {
		return Reply{}, fmt.Errorf("no tool results to send")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mark := len(s.history)
	s.history = append(s.history, content.turn())

	history := make([]Turn, len(s.history))
	copy(history, s.history)

	reply, err := s.completer.Complete(ctx, s.system, history, s.tools)
	if err != nil {
		s.history = s.history[:mark]
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Session] completion failed after %d turns: %v", s.turns, err)
		}
		return Reply{}, err
	}

	for i := range reply.ToolCalls {
		if reply.ToolCalls[i].ID == "" {
			reply.ToolCalls[i].ID = model.NewMessageID("call")
		}
		if reply.ToolCalls[i].Args == nil {
			reply.ToolCalls[i].Args = map[string]any{}
		}
	}

	s.history = append(s.history, Turn{
		Role:      model.RoleModel,
		Text:      reply.Text,
		ToolCalls: append([]model.ToolCall(nil), reply.ToolCalls...),
	})
	s.turns++

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] turn %d: %d chars, %d tool calls", s.turns, len(reply.Text), len(reply.ToolCalls))
	}

	return reply, nil
}

// Turns returns the number of completed model turns.
func (s *Session) Turns() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Turn {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Reset drops the history. The session stays configured.
func (s *Session) Reset() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.turns = 0
}

// CancelToolCalls answers any tool calls left open by the last model turn
// with error results carrying reason, without calling the model. It is used
// when a tool round is abandoned so the next user message does not follow
// an unanswered tool call. Returns the number of calls answered.
func (s *Session) CancelToolCalls(reason string) int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return 0
	}
	last := s.history[len(s.history)-1]
	if last.Role != model.RoleModel || len(last.ToolCalls) == 0 {
		return 0
	}

	results := make([]model.ToolResult, len(last.ToolCalls))
	for i, call := range last.ToolCalls {
		results[i] = model.ToolResult{
			CallID:   call.ID,
			ToolName: call.Name,
			Response: model.ErrorResponse(reason),
			IsError:  true,
		}
	}
	s.history = append(s.history, Turn{Role: model.RoleTool, Results: results})
	return len(results)
}
