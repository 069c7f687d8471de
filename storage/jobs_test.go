package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"primordia/model"
)

func newTestStore(t *testing.T) *JobStore {
	t.Helper()
	store, err := NewJobStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewJobStoreCreatesFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJobStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(dir, "jobs.db")); err != nil {
		t.Errorf("expected jobs.db: %v", err)
	}
}

func TestRecordJobUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	received := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := model.JobDocument{
		JobID:      "job-1",
		Status:     model.JobPending,
		ReceivedAt: received,
		Blueprint:  model.JobBlueprint{Type: "deploy-run-service", Name: "pls-hello"},
		Logs:       []string{"queued"},
	}
	if err := store.RecordJob(ctx, doc); err != nil {
		t.Fatal(err)
	}

	done := received.Add(time.Minute)
	doc.Status = model.JobSuccess
	doc.CompletedAt = &done
	doc.Logs = append(doc.Logs, "deployed")
	doc.Outputs = map[string]any{"url": "http://primordia-local-service-pls-hello:8080"}
	if err := store.RecordJob(ctx, doc); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.JobSuccess {
		t.Errorf("expected SUCCESS, got %s", got.Status)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(done) {
		t.Errorf("unexpected completedAt %v", got.CompletedAt)
	}
	if len(got.Logs) != 2 || got.Blueprint.Name != "pls-hello" {
		t.Errorf("document not preserved: %+v", got)
	}
	if out, ok := got.Outputs.(map[string]any); !ok || out["url"] == "" {
		t.Errorf("outputs not preserved: %v", got.Outputs)
	}

	all, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("upsert should keep one row, got %d", len(all))
	}
}

func TestRecentOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"job-1", "job-2", "job-3"} {
		if err := store.RecordJob(ctx, model.JobDocument{JobID: id, Status: model.JobPending}); err != nil {
			t.Fatal(err)
		}
	}

	jobs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].JobID != "job-3" || jobs[1].JobID != "job-2" {
		t.Errorf("unexpected order %s, %s", jobs[0].JobID, jobs[1].JobID)
	}
}

func TestGetUnknownJob(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestRecordJobRequiresID(t *testing.T) {
	store := newTestStore(t)
	if err := store.RecordJob(context.Background(), model.JobDocument{}); err == nil {
		t.Error("expected error for missing id")
	}
}
