package model

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a transcript entry.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// ToolCall is a structured request from the model to run one tool.
// Tool calls are never mutated after the model emits them.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// ToolResult is the outcome of one ToolCall, paired with it by CallID.
type ToolResult struct {
	CallID   string `json:"callId"`
	ToolName string `json:"toolName"`
	Response any    `json:"response"`
	IsError  bool   `json:"isError,omitempty"`
}

// JobID returns the job identifier carried by a successful job submission
// result, or "" when the result does not reference a job.
func (r ToolResult) JobID() string {
	if r.IsError {
		return ""
	}

	switch v := r.Response.(type) {
	case interface{ GetJobID() string }:
		return v.GetJobID()
	case map[string]any:
		if id, ok := v["jobId"].(string); ok {
			return id
		}
	}
	return ""
}

// ErrorResponse builds the in-band error payload handed back to the model.
func ErrorResponse(message string) map[string]any {
	return map[string]any{"error": message}
}

// ChatMessage is a single transcript entry.
type ChatMessage struct {
	ID         string
	Role       Role
	Text       string
	ToolCalls  []ToolCall
	ToolResult *ToolResult
	IsError    bool
	Timestamp  time.Time
}

// NewMessageID returns a unique transcript id such as "user-<uuid>".
func NewMessageID(kind string) string {
	return kind + "-" + uuid.New().String()
}
