package app_test

import (
	"errors"
	"testing"
	"time"

	"primordia/app"
	"primordia/config"
	"primordia/gateway/gatewaytest"
	"primordia/job"
	"primordia/model"
	"primordia/orchestrator"
	"primordia/provider"
	"primordia/provider/testutil"
	"primordia/storage"
	"primordia/tools"
)

func newTestModel(t *testing.T, steps ...testutil.Step) (*app.Model, *gatewaytest.Server) {
	t.Helper()
	backend := gatewaytest.New(t)
	client := backend.Client()

	store, err := storage.NewJobStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	transcript := model.NewTranscript()
	tracker := job.NewTracker()
	poller := &job.Poller{Source: client, Interval: time.Millisecond, Transcript: transcript, Tracker: tracker, Store: store}
	session := provider.NewSession(testutil.NewMockCompleter(steps...), "", tools.Declarations())
	orch := orchestrator.New(session, tools.NewDispatcher(client, transcript, tools.Options{}), poller, transcript, orchestrator.Options{})

	m := app.NewModel(&config.Config{}, orch, client, tracker, store, nil, "test")
	t.Cleanup(m.Shutdown)
	return m, backend
}

func TestSubmitPromptRecordsJob(t *testing.T) {
	m, backend := newTestModel(t,
		testutil.ToolReply("", testutil.SubmitCall("c1", "pls-hello")),
		testutil.TextReply("Deployed."),
	)
	backend.ScriptJobs(model.JobRunning, model.JobSuccess)

	if !m.CanSend() {
		t.Fatal("expected input enabled")
	}

	msg := m.SubmitPrompt("deploy")()
	done, ok := msg.(app.SubmitDoneMsg)
	if !ok || done.Err != nil {
		t.Fatalf("unexpected result %#v", msg)
	}

	active, ok := m.ActiveJob()
	if !ok || active.Status != model.JobSuccess {
		t.Errorf("unexpected active job %+v", active)
	}

	hist, ok := m.LoadJobHistory(5)().(app.JobHistoryMsg)
	if !ok || hist.Err != nil || len(hist.Jobs) != 1 || hist.Jobs[0].Status != model.JobSuccess {
		t.Errorf("unexpected job history %+v", hist)
	}

	ev, ok := m.WaitForEvent()().(app.EventMsg)
	if !ok {
		t.Fatal("expected a queued event")
	}
	if ev.Event.Kind != orchestrator.EventTranscript {
		t.Errorf("first event should be the user entry, got %s", ev.Event.Kind)
	}
}

func TestFetchFilesSorted(t *testing.T) {
	m, backend := newTestModel(t)
	backend.PutFile("runs/pls-b/index.js", "b")
	backend.PutFile("runs/pls-a/index.js", "a")

	msg := m.FetchFiles()().(app.FilesLoadedMsg)
	if msg.Err != nil {
		t.Fatal(msg.Err)
	}
	if len(msg.Files) != 2 || msg.Files[0] != "runs/pls-a/index.js" {
		t.Errorf("unexpected files %v", msg.Files)
	}

	file := m.ReadFile("runs/pls-b/index.js")().(app.FileLoadedMsg)
	if file.Err != nil || file.Content != "b" {
		t.Errorf("unexpected file %+v", file)
	}

	missing := m.ReadFile("nope")().(app.FileLoadedMsg)
	if missing.Err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUnconfiguredModelRejectsInput(t *testing.T) {
	transcript := model.NewTranscript()
	orch := orchestrator.New(provider.NewSession(nil, "", nil), nil, nil, transcript, orchestrator.Options{})
	m := app.NewModel(&config.Config{}, orch, nil, nil, nil, provider.ErrNotConfigured, "test")
	defer m.Shutdown()

	if m.CanSend() {
		t.Error("input should be disabled")
	}
	done := m.SubmitPrompt("hi")().(app.SubmitDoneMsg)
	if !errors.Is(done.Err, provider.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", done.Err)
	}
	if _, ok := m.ActiveJob(); ok {
		t.Error("no tracker means no active job")
	}
	if hist := m.LoadJobHistory(5)().(app.JobHistoryMsg); len(hist.Jobs) != 0 {
		t.Error("no store means no history")
	}
}

func TestWaitForEventAfterShutdown(t *testing.T) {
	m, _ := newTestModel(t)
	m.Shutdown()
	if msg := m.WaitForEvent()(); msg != nil {
		t.Errorf("expected nil after shutdown, got %#v", msg)
	}
}
