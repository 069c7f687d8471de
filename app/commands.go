package app

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"primordia/config"
)

// SubmitPrompt runs one full conversation turn in the background.
func (m *Model) SubmitPrompt(text string) tea.Cmd {
	ctx := m.ctx
	orch := m.Orchestrator
	return func() tea.Msg {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[App] Submitting prompt (%d chars)", len(text))
		}
		return SubmitDoneMsg{Err: orch.Submit(ctx, text)}
	}
}

// WaitForEvent blocks until the orchestrator reports progress. The UI
// re-issues it after every EventMsg. It returns nil once the app shuts down.
func (m *Model) WaitForEvent() tea.Cmd {
	ctx := m.ctx
	events := m.Orchestrator.Events()
	return func() tea.Msg {
		select {
		case ev := <-events:
			return EventMsg{Event: ev}
		case <-ctx.Done():
			return nil
		}
	}
}

// FetchFiles lists the workspace files on the backend, sorted.
func (m *Model) FetchFiles() tea.Cmd {
	ctx := m.ctx
	gw := m.Gateway
	return func() tea.Msg {
		list, err := gw.ListFiles(ctx)
		if err != nil {
			return FilesLoadedMsg{Err: err}
		}
		files := append([]string(nil), list.Files...)
		sort.Strings(files)
		return FilesLoadedMsg{Files: files}
	}
}

func (m *Model) ReadFile(path string) tea.Cmd {
	ctx := m.ctx
	gw := m.Gateway
	return func() tea.Msg {
		content, err := gw.ReadFile(ctx, path)
		return FileLoadedMsg{Path: path, Content: content, Err: err}
	}
}

// LoadJobHistory reads the most recent jobs from the local store.
func (m *Model) LoadJobHistory(limit int) tea.Cmd {
	ctx := m.ctx
	store := m.JobStore
	return func() tea.Msg {
		if store == nil {
			return JobHistoryMsg{}
		}
		jobs, err := store.Recent(ctx, limit)
		return JobHistoryMsg{Jobs: jobs, Err: err}
	}
}
