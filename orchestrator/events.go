package orchestrator

import "primordia/model"

type EventKind int

const (
	// EventTranscript: an entry was appended or rewritten.
	EventTranscript EventKind = iota
	// EventJob: the active job document changed.
	EventJob
	// EventIdle: a Submit finished and input can be re-enabled.
	EventIdle
	// EventError: a Submit ended in an error.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventTranscript:
		return "transcript"
	case EventJob:
		return "job"
	case EventIdle:
		return "idle"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event reports orchestrator progress to the UI.
type Event struct {
	Kind    EventKind
	Message model.ChatMessage
	Job     model.JobDocument
	Err     error
}
