package testutil

import (
	"context"
	"fmt"
	"primordia/provider"
	"sync"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Step is one scripted completion: either a reply or an error.
// Check, when set, inspects the history the completer received.
type Step struct {
	Reply provider.Reply
	Err   error
	Check func(history []provider.Turn) error
}

// MockCompleter replays scripted steps in order and records every call.
type MockCompleter struct {
	mu        sync.Mutex
	steps     []Step
	calls     [][]provider.Turn
	systems   []string
	model     string
	checkErrs []error
}

func NewMockCompleter(steps ...Step) *MockCompleter {
	return &MockCompleter{steps: steps, model: "mock-model"}
}

// Push appends more steps to the script.
func (m *MockCompleter) Push(steps ...Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, steps...)
}

func (m *MockCompleter) Complete(ctx context.Context, system string, history []provider.Turn, tools []mcptypes.Tool) (provider.Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]provider.Turn, len(history))
	copy(snapshot, history)
	m.calls = append(m.calls, snapshot)
	m.systems = append(m.systems, system)

	if err := ctx.Err(); err != nil {
		return provider.Reply{}, err
	}
	if len(m.steps) == 0 {
		return provider.Reply{}, fmt.Errorf("mock completer: no scripted reply for call %d", len(m.calls))
	}

	step := m.steps[0]
	m.steps = m.steps[1:]

	if step.Check != nil {
		if err := step.Check(snapshot); err != nil {
			m.checkErrs = append(m.checkErrs, fmt.Errorf("call %d: %w", len(m.calls), err))
		}
	}
	if step.Err != nil {
		return provider.Reply{}, step.Err
	}
	return step.Reply, nil
}

func (m *MockCompleter) Model() string {
	return m.model
}

// Calls returns the history seen by each completion, in order.
func (m *MockCompleter) Calls() [][]provider.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]provider.Turn(nil), m.calls...)
}

func (m *MockCompleter) Systems() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.systems...)
}

// CheckErrors returns failures reported by Step.Check functions.
func (m *MockCompleter) CheckErrors() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]error(nil), m.checkErrs...)
}

// Remaining reports how many scripted steps were not consumed.
func (m *MockCompleter) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.steps)
}
