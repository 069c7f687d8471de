package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"primordia/model"

	_ "modernc.org/sqlite"
)

// ErrJobNotFound is returned by Get for an unknown job id.
var ErrJobNotFound = errors.New("job not found")

// JobStore keeps the history of jobs seen by the console in a local
// sqlite database. Each job keeps only its latest document.
type JobStore struct {
	db *sql.DB
}

// NewJobStore opens (or creates) jobs.db in dataDir.
func NewJobStore(dataDir string) (*JobStore, error) {
	return OpenJobStore(filepath.Join(dataDir, "jobs.db"))
}

// OpenJobStore opens the database at path. ":memory:" is accepted.
func OpenJobStore(path string) (*JobStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		// each pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &JobStore{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *JobStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		job_id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		blueprint_type TEXT NOT NULL,
		blueprint_name TEXT NOT NULL,
		received_at DATETIME NOT NULL,
		completed_at DATETIME,
		document TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_jobs_updated ON jobs(updated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordJob inserts the document or replaces the stored one for its job.
func (s *JobStore) RecordJob(ctx context.Context, doc model.JobDocument) error {
	if doc.JobID == "" {
		return fmt.Errorf("job document has no id")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", doc.JobID, err)
	}

	var completed any
	if doc.CompletedAt != nil {
		completed = *doc.CompletedAt
	}

	query := `
	INSERT INTO jobs (job_id, status, blueprint_type, blueprint_name, received_at, completed_at, document, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(job_id) DO UPDATE SET
		status = excluded.status,
		completed_at = excluded.completed_at,
		document = excluded.document,
		updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		doc.JobID,
		string(doc.Status),
		doc.Blueprint.Type,
		doc.Blueprint.Name,
		doc.ReceivedAt,
		completed,
		string(data),
		time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to record job %s: %w", doc.JobID, err)
	}
	return nil
}

func (s *JobStore) Get(ctx context.Context, jobID string) (model.JobDocument, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM jobs WHERE job_id = ?`, jobID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.JobDocument{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if err != nil {
		return model.JobDocument{}, fmt.Errorf("failed to load job %s: %w", jobID, err)
	}
	return decodeJob(data)
}

// Recent returns up to limit jobs, most recently updated first.
func (s *JobStore) Recent(ctx context.Context, limit int) ([]model.JobDocument, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `SELECT document FROM jobs ORDER BY updated_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.JobDocument
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		doc, err := decodeJob(data)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, doc)
	}

	return jobs, rows.Err()
}

func (s *JobStore) Close() error {
	return s.db.Close()
}

func decodeJob(data string) (model.JobDocument, error) {
	var doc model.JobDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return model.JobDocument{}, fmt.Errorf("failed to decode job document: %w", err)
	}
	return doc, nil
}
