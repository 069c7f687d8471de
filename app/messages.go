package app

import (
	"primordia/model"
	"primordia/orchestrator"
)

// SubmitDoneMsg is sent when a prompt has been fully handled.
type SubmitDoneMsg struct {
	Err error
}

// EventMsg wraps one orchestrator event for the bubbletea loop.
type EventMsg struct {
	Event orchestrator.Event
}

type FilesLoadedMsg struct {
	Files []string
	Err   error
}

type FileLoadedMsg struct {
	Path    string
	Content string
	Err     error
}

type JobHistoryMsg struct {
	Jobs []model.JobDocument
	Err  error
}
