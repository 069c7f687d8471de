package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"primordia/app"
	"primordia/config"
	"primordia/orchestrator"
)

const (
	headerHeight = 2
	footerHeight = 1
	inputHeight  = 5
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case app.EventMsg:
		cmds = append(cmds, a.dataModel.WaitForEvent())
		switch msg.Event.Kind {
		case orchestrator.EventTranscript:
			a.refreshChat(true)
		case orchestrator.EventJob:
			a.logs.sync(msg.Event.Job.JobID)
		case orchestrator.EventIdle:
			a.refreshChat(true)
			cmds = append(cmds, a.dataModel.LoadJobHistory(20))
		case orchestrator.EventError:
			a.status = fmt.Sprintf("Error: %v", msg.Event.Err)
		}
		return a, tea.Batch(cmds...)

	case app.SubmitDoneMsg:
		a.loading = false
		if msg.Err != nil && !errors.Is(msg.Err, orchestrator.ErrBusy) {
			a.status = fmt.Sprintf("Error: %v", msg.Err)
		}
		if a.dataModel.CanSend() {
			a.textarea.Focus()
		}
		a.refreshChat(true)
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		return a, cmd

	case app.FilesLoadedMsg:
		a.filesLoaded = true
		a.filesErr = msg.Err
		if msg.Err == nil {
			a.fileRows = Flatten(BuildFileTree(msg.Files))
			if a.selectedFile >= len(a.fileRows) {
				a.selectedFile = 0
			}
		}
		return a, nil

	case app.FileLoadedMsg:
		a.previewPath = msg.Path
		if msg.Err != nil {
			a.preview.SetContent(ErrorStyle.Render(fmt.Sprintf("Could not read %s: %v", msg.Path, msg.Err)))
		} else {
			a.preview.SetContent(msg.Content)
		}
		a.preview.GotoTop()
		return a, nil

	case app.JobHistoryMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] Loading job history: %v", msg.Err)
			}
			return a, nil
		}
		a.jobHistory = msg.Jobs
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *AppView) resize(width, height int) {
	a.width = width
	a.height = height

	bodyHeight := height - headerHeight - footerHeight
	chatHeight := bodyHeight - inputHeight
	if chatHeight < 1 {
		chatHeight = 1
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	if !a.ready {
		a.viewport = viewport.New(width, chatHeight)
		a.preview = viewport.New(width/2, bodyHeight)
		a.ready = true
	} else {
		a.viewport.Width = width
		a.viewport.Height = chatHeight
		a.preview.Width = width / 2
		a.preview.Height = bodyHeight
	}
	a.textarea.SetWidth(width)

	if a.renderedWidth != width {
		a.rendered = make(map[string]string)
		a.renderedWidth = width
	}
	a.refreshChat(false)
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.confirm.Active {
		return a.handleConfirmKey(msg)
	}
	if a.logFilterMode {
		return a.handleLogFilterKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		if a.dataModel.Busy() {
			a.confirm = quitWhileBusy()
			return a, nil
		}
		a.dataModel.Shutdown()
		return a, tea.Quit
	case "tab":
		return a.switchTab((a.tab + 1) % tab(len(tabNames)))
	case "shift+tab":
		return a.switchTab((a.tab + tab(len(tabNames)) - 1) % tab(len(tabNames)))
	case "ctrl+y":
		a.copyLastReply()
		return a, nil
	case "f1":
		a.showHelp = !a.showHelp
		return a, nil
	}

	switch a.tab {
	case tabChat:
		return a.handleChatKey(msg)
	case tabJob:
		if msg.String() == "r" {
			return a, a.dataModel.LoadJobHistory(20)
		}
	case tabFiles:
		return a.handleFilesKey(msg)
	case tabLogs:
		return a.handleLogsKey(msg)
	}
	return a, nil
}

func (a AppView) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "ctrl+c":
		a.confirm = ConfirmationState{}
		a.dataModel.Shutdown()
		return a, tea.Quit
	case "n", "N", "esc":
		a.confirm = ConfirmationState{}
	}
	return a, nil
}

func (a AppView) switchTab(t tab) (tea.Model, tea.Cmd) {
	a.tab = t
	a.status = ""
	if t == tabChat && a.dataModel.CanSend() {
		a.textarea.Focus()
	} else {
		a.textarea.Blur()
	}
	if t == tabFiles && !a.filesLoaded {
		return a, a.dataModel.FetchFiles()
	}
	return a, nil
}

func (a AppView) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(a.textarea.Value())
		if text == "" || !a.dataModel.CanSend() {
			return a, nil
		}
		a.textarea.Reset()
		a.textarea.Blur()
		a.status = ""
		a.loading = true
		return a, tea.Batch(a.dataModel.SubmitPrompt(text), a.loadingSpinner.Tick)
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	if !a.dataModel.CanSend() {
		return a, nil
	}
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if a.selectedFile < len(a.fileRows)-1 {
			a.selectedFile++
		}
	case "k", "up":
		if a.selectedFile > 0 {
			a.selectedFile--
		}
	case "r":
		return a, a.dataModel.FetchFiles()
	case "enter":
		if a.selectedFile < len(a.fileRows) {
			node := a.fileRows[a.selectedFile].Node
			if !node.IsDir {
				return a, a.dataModel.ReadFile(node.Path)
			}
		}
	case "pgup", "pgdown":
		var cmd tea.Cmd
		a.preview, cmd = a.preview.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a AppView) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	doc, _ := a.dataModel.ActiveJob()
	a.logs.sync(doc.JobID)
	switch msg.String() {
	case "/":
		a.logFilterMode = true
		a.logFilter.Focus()
	case "p":
		a.logs.togglePause(doc.Logs)
	case "c":
		a.logs.clear(doc.Logs)
	case "esc":
		a.logFilter.SetValue("")
	}
	return a, nil
}

func (a AppView) handleLogFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		a.logFilterMode = false
		a.logFilter.Blur()
		if msg.String() == "esc" {
			a.logFilter.SetValue("")
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.logFilter, cmd = a.logFilter.Update(msg)
	return a, cmd
}

func (a *AppView) copyLastReply() {
	text, ok := lastReply(a.dataModel.Transcript().Snapshot())
	if !ok {
		a.status = "Nothing to copy"
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		a.status = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	a.status = "Copied last reply"
}
