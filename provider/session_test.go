package provider_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"primordia/config"
	"primordia/model"
	"primordia/provider"
	"primordia/provider/testutil"
)

func TestUnconfiguredSession(t *testing.T) {
	sessions := map[string]*provider.Session{
		"nil completer": provider.NewSession(nil, "sys", nil),
		"nil session":   nil,
	}

	for name, s := range sessions {
		t.Run(name, func(t *testing.T) {
			if s.IsConfigured() {
				t.Error("expected unconfigured session")
			}
			if _, err := s.Send(context.Background(), provider.UserText("hi")); !errors.Is(err, provider.ErrNotConfigured) {
				t.Errorf("expected ErrNotConfigured, got %v", err)
			}
			if s.Turns() != 0 {
				t.Errorf("expected 0 turns, got %d", s.Turns())
			}
		})
	}
}

func TestSendAccumulatesHistory(t *testing.T) {
	mock := testutil.NewMockCompleter(
		testutil.ToolReply("Looking.", testutil.Call("c1", "listFiles", nil)),
		testutil.TextReply("Done."),
	)
	s := provider.NewSession(mock, "be helpful", nil)
	ctx := context.Background()

	reply, err := s.Send(ctx, provider.UserText("what files?"))
	if err != nil {
		t.Fatal(err)
	}
	if len(reply.ToolCalls) != 1 || reply.ToolCalls[0].ID != "c1" {
		t.Fatalf("unexpected reply %+v", reply)
	}

	results := []model.ToolResult{{CallID: "c1", ToolName: "listFiles", Response: map[string]any{"files": []any{}}}}
	reply, err = s.Send(ctx, provider.ToolResults(results))
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "Done." {
		t.Errorf("unexpected reply %q", reply.Text)
	}

	if s.Turns() != 2 {
		t.Errorf("expected 2 turns, got %d", s.Turns())
	}

	calls := mock.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 completions, got %d", len(calls))
	}
	second := calls[1]
	wantRoles := []model.Role{model.RoleUser, model.RoleModel, model.RoleTool}
	if len(second) != len(wantRoles) {
		t.Fatalf("expected %d turns in history, got %d", len(wantRoles), len(second))
	}
	for i, role := range wantRoles {
		if second[i].Role != role {
			t.Errorf("turn %d: expected %s, got %s", i, role, second[i].Role)
		}
	}
	if second[2].Results[0].CallID != "c1" {
		t.Errorf("tool turn not paired with call")
	}
	if mock.Systems()[0] != "be helpful" {
		t.Errorf("system prompt not forwarded")
	}
}

func TestSendSynthesisesMissingCallIDs(t *testing.T) {
	mock := testutil.NewMockCompleter(testutil.ToolReply("",
		model.ToolCall{Name: "listFiles"},
		model.ToolCall{Name: "listFiles"},
	))
	s := provider.NewSession(mock, "", nil)

	reply, err := s.Send(context.Background(), provider.UserText("go"))
	if err != nil {
		t.Fatal(err)
	}
	a, b := reply.ToolCalls[0].ID, reply.ToolCalls[1].ID
	if !strings.HasPrefix(a, "call-") || !strings.HasPrefix(b, "call-") || a == b {
		t.Errorf("expected distinct call- ids, got %q and %q", a, b)
	}
	if reply.ToolCalls[0].Args == nil {
		t.Error("expected non-nil args")
	}

	history := s.History()
	if history[1].ToolCalls[0].ID != a {
		t.Error("history should record the synthesised id")
	}
}

func TestFailedSendRollsBack(t *testing.T) {
	boom := errors.New("rate limited")
	mock := testutil.NewMockCompleter(
		testutil.TextReply("first"),
		testutil.Step{Err: boom},
		testutil.TextReply("third"),
	)
	s := provider.NewSession(mock, "", nil)
	ctx := context.Background()

	if _, err := s.Send(ctx, provider.UserText("one")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Send(ctx, provider.UserText("two")); !errors.Is(err, boom) {
		t.Fatalf("expected rate limited error, got %v", err)
	}
	if len(s.History()) != 2 {
		t.Fatalf("failed turn should be rolled back, history has %d turns", len(s.History()))
	}
	if _, err := s.Send(ctx, provider.UserText("three")); err != nil {
		t.Fatal(err)
	}

	last := mock.Calls()[2]
	if len(last) != 3 || last[2].Text != "three" {
		t.Errorf("unexpected history on retry: %+v", last)
	}
	if s.Turns() != 2 {
		t.Errorf("expected 2 turns, got %d", s.Turns())
	}
}

func TestSendRejectsEmptyToolResults(t *testing.T) {
	s := provider.NewSession(testutil.NewMockCompleter(), "", nil)
	if _, err := s.Send(context.Background(), provider.ToolResults(nil)); err == nil {
		t.Error("expected error for empty tool results")
	}
}

func TestReset(t *testing.T) {
	s := provider.NewSession(testutil.NewMockCompleter(testutil.TextReply("a")), "", nil)
	if _, err := s.Send(context.Background(), provider.UserText("x")); err != nil {
		t.Fatal(err)
	}
	s.Reset()
	if s.Turns() != 0 || len(s.History()) != 0 {
		t.Error("reset should clear history")
	}
	if !s.IsConfigured() {
		t.Error("reset should keep the completer")
	}
}

func TestNewSessionFromConfig(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvSSHPassphrase, "")

	t.Run("missing key leaves session unconfigured", func(t *testing.T) {
		cfg := &config.Config{
			DataDirectory:    t.TempDir(),
			Provider:         "anthropic",
			CredentialMethod: config.SecurityPlainText,
		}
		s, err := provider.NewSessionFromConfig(cfg)
		if !errors.Is(err, provider.ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
		if !errors.Is(err, config.ErrNoCredential) {
			t.Errorf("expected cause to be kept, got %v", err)
		}
		if s == nil || s.IsConfigured() {
			t.Error("expected a non-nil unconfigured session")
		}
	})

	t.Run("env key configures anthropic", func(t *testing.T) {
		t.Setenv(config.EnvAPIKey, "sk-env")
		cfg := &config.Config{
			DataDirectory:    t.TempDir(),
			Provider:         "anthropic",
			ModelName:        "claude-test",
			CredentialMethod: config.SecurityPlainText,
		}
		s, err := provider.NewSessionFromConfig(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !s.IsConfigured() || s.Model() != "claude-test" {
			t.Errorf("unexpected session model %q", s.Model())
		}
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		cfg := &config.Config{
			DataDirectory:    t.TempDir(),
			Provider:         "ollama",
			CredentialMethod: config.SecurityPlainText,
		}
		s, err := provider.NewSessionFromConfig(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !s.IsConfigured() {
			t.Error("expected configured session")
		}
	})
}

func TestCancelToolCalls(t *testing.T) {
	mock := testutil.NewMockCompleter(
		testutil.ToolReply("", testutil.Call("c1", "listFiles", nil), testutil.Call("c2", "readFile", nil)),
	)
	s := provider.NewSession(mock, "", nil)
	if _, err := s.Send(context.Background(), provider.UserText("go")); err != nil {
		t.Fatal(err)
	}

	if n := s.CancelToolCalls("stopped"); n != 2 {
		t.Fatalf("expected 2 cancelled calls, got %d", n)
	}
	history := s.History()
	last := history[len(history)-1]
	if last.Role != model.RoleTool || len(last.Results) != 2 || !last.Results[1].IsError || last.Results[1].CallID != "c2" {
		t.Errorf("unexpected closing turn %+v", last)
	}

	if n := s.CancelToolCalls("again"); n != 0 {
		t.Errorf("nothing left to cancel, got %d", n)
	}
}
