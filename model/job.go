package model

import "time"

// JobStatus is the lifecycle state of a backend workspace job.
type JobStatus string

const (
	JobPending JobStatus = "PENDING"
	JobRunning JobStatus = "RUNNING"
	JobSuccess JobStatus = "SUCCESS"
	JobFailed  JobStatus = "FAILED"
)

// IsTerminal reports whether the job has stopped changing.
func (s JobStatus) IsTerminal() bool {
	return s == JobSuccess || s == JobFailed
}

// Valid reports whether s is one of the four known states.
func (s JobStatus) Valid() bool {
	switch s {
	case JobPending, JobRunning, JobSuccess, JobFailed:
		return true
	}
	return false
}

// JobBlueprint records what was submitted.
type JobBlueprint struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// JobDocument is the backend's view of a job. The client only ever holds a
// read-only copy which is replaced wholesale on every poll.
type JobDocument struct {
	JobID       string       `json:"jobId"`
	Status      JobStatus    `json:"status"`
	ReceivedAt  time.Time    `json:"receivedAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	Blueprint   JobBlueprint `json:"blueprint"`
	Logs        []string     `json:"logs"`
	Outputs     any          `json:"outputs,omitempty"`
}
