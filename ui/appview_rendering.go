package ui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/lipgloss"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"

	"primordia/model"
)

func (a AppView) View() string {
	if !a.ready {
		return "Starting..."
	}

	header := a.renderTabs()

	var body string
	switch a.tab {
	case tabChat:
		body = a.viewport.View() + "\n" + a.renderInput()
	case tabJob:
		body = a.renderJob()
	case tabFiles:
		body = a.renderFiles()
	case tabLogs:
		body = a.renderLogs()
	}

	if a.showHelp {
		body = a.renderHelpModal(a.width, a.height-headerHeight-footerHeight)
	}
	if a.confirm.Active {
		body = RenderConfirmationModal(a.confirm, a.width, a.height-headerHeight-footerHeight)
	}

	return header + "\n" + body + "\n" + a.renderFooter()
}

func (a AppView) renderTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == a.tab {
			parts[i] = ActiveTabStyle.Render(name)
		} else {
			parts[i] = InactiveTabStyle.Render(name)
		}
	}
	title := TitleStyle.Render("Primordia")
	if v := a.dataModel.Version; v != "" {
		title += DimStyle.Render(" v" + v)
	}
	return title + "  " + strings.Join(parts, "  ") + "\n" + BorderStyle.Render(strings.Repeat("─", a.width))
}

func (a AppView) renderInput() string {
	if a.loading || a.dataModel.Busy() {
		return a.loadingSpinner.View() + DimStyle.Render(" Working...") + "\n\n\n\n"
	}
	return BorderStyle.Render(strings.Repeat("─", a.width)) + "\n" + a.textarea.View()
}

func (a AppView) renderFooter() string {
	var keys string
	switch a.tab {
	case tabChat:
		keys = FormatFooter("Enter", "Send", "Tab", "Next tab", "Ctrl+Y", "Copy reply", "F1", "Help", "Ctrl+C", "Quit")
	case tabJob:
		keys = FormatFooter("r", "Reload history", "Tab", "Next tab", "Ctrl+C", "Quit")
	case tabFiles:
		keys = FormatFooter("j/k", "Navigate", "Enter", "Open", "r", "Refresh", "Tab", "Next tab")
	case tabLogs:
		keys = FormatFooter("/", "Filter", "p", "Pause", "c", "Clear", "Tab", "Next tab")
	}
	if a.status != "" {
		return StatusStyle.Render(a.status) + "  " + keys
	}
	return keys
}

// refreshChat re-renders the transcript into the chat viewport.
func (a *AppView) refreshChat(gotoBottom bool) {
	if !a.ready {
		return
	}
	msgs := a.dataModel.Transcript().Snapshot()
	if len(msgs) == 0 {
		a.viewport.SetContent(DimStyle.Render("No messages yet. Ask the agent to scaffold or deploy a service."))
		return
	}

	var content strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(a.renderEntry(msg))
		content.WriteString("\n")
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a *AppView) renderEntry(msg model.ChatMessage) string {
	stamp := DimStyle.Render(msg.Timestamp.Format("15:04"))

	switch {
	case msg.IsError:
		return stamp + "\n" + ErrorStyle.Render("✗ "+msg.Text)

	case msg.Role == model.RoleUser:
		return stamp + " " + UserStyle.Render("You") + "\n" + msg.Text

	case msg.Role == model.RoleTool:
		line := "⚙ " + msg.Text
		if msg.ToolResult != nil && msg.ToolResult.IsError {
			line += " (error)"
			return stamp + " " + ErrorStyle.Render(line)
		}
		return stamp + " " + ToolStyle.Render(line)

	case strings.HasPrefix(msg.ID, "polling-"):
		return stamp + " " + PollingStyle.Render("⟳ "+msg.Text)

	case len(msg.ToolCalls) > 0:
		names := make([]string, len(msg.ToolCalls))
		for i, c := range msg.ToolCalls {
			names[i] = c.Name
		}
		return stamp + " " + ToolStyle.Render(fmt.Sprintf("%s %s", msg.Text, strings.Join(names, ", ")))
	}

	rendered, ok := a.rendered[msg.ID]
	if !ok {
		rendered = renderMarkdown(msg.Text, a.width)
		a.rendered[msg.ID] = rendered
	}
	return stamp + " " + AssistantStyle.Render("Agent") + "\n" + rendered
}

// renderMarkdown renders model text for the terminal. Autolinks are
// disabled so URLs stay plain text for the terminal to detect.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 80
	}
	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width-4, 0)
	doc := p.Parse([]byte(content))
	return strings.TrimRight(string(gomarkdown.Render(doc, r)), "\n")
}

// lastReply returns the most recent model answer, skipping tool markers,
// polling entries and errors.
func lastReply(msgs []model.ChatMessage) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m.Role != model.RoleModel || m.IsError || len(m.ToolCalls) > 0 || strings.HasPrefix(m.ID, "polling-") {
			continue
		}
		return m.Text, true
	}
	return "", false
}

func (a AppView) renderJob() string {
	doc, ok := a.dataModel.ActiveJob()
	var b strings.Builder

	if !ok {
		b.WriteString(DimStyle.Render("No job has been submitted in this session."))
		b.WriteString("\n")
	} else {
		field := func(label, value string) {
			b.WriteString(DimStyle.Render(fmt.Sprintf("%-12s", label)))
			b.WriteString(value)
			b.WriteString("\n")
		}
		field("Job", doc.JobID)
		field("Status", statusStyle(string(doc.Status)).Render(string(doc.Status)))
		field("Blueprint", fmt.Sprintf("%s %s", doc.Blueprint.Type, doc.Blueprint.Name))
		field("Received", formatTime(doc.ReceivedAt))
		if doc.CompletedAt != nil {
			field("Completed", fmt.Sprintf("%s (%s)", formatTime(*doc.CompletedAt), doc.CompletedAt.Sub(doc.ReceivedAt).Round(time.Second)))
		}
		if doc.Outputs != nil {
			out, err := json.MarshalIndent(doc.Outputs, "", "  ")
			if err == nil {
				b.WriteString("\n" + TitleStyle.Render("Outputs") + "\n" + string(out) + "\n")
			}
		}
	}

	if len(a.jobHistory) > 0 {
		b.WriteString("\n" + TitleStyle.Render("Recent jobs") + "\n")
		for _, j := range a.jobHistory {
			name := runewidth.Truncate(j.Blueprint.Name, 30, "...")
			b.WriteString(fmt.Sprintf("  %-10s %s %s\n", j.JobID, statusStyle(string(j.Status)).Render(fmt.Sprintf("%-8s", j.Status)), name))
		}
	}

	return b.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func (a AppView) renderFiles() string {
	if !a.filesLoaded {
		return DimStyle.Render("Loading files...")
	}
	if a.filesErr != nil {
		return ErrorStyle.Render(fmt.Sprintf("Could not list files: %v", a.filesErr))
	}
	if len(a.fileRows) == 0 {
		return DimStyle.Render("The workspace is empty.")
	}

	listWidth := a.width/2 - 2
	var list strings.Builder
	for i, row := range a.fileRows {
		name := row.Node.Name
		if row.Node.IsDir {
			name += "/"
		}
		line := strings.Repeat("  ", row.Depth) + name
		line = runewidth.Truncate(line, listWidth, "…")
		if i == a.selectedFile {
			list.WriteString(SelectedStyle.Render("▶ " + line))
		} else {
			list.WriteString("  " + line)
		}
		list.WriteString("\n")
	}

	left := list.String()
	if a.previewPath == "" {
		return left
	}
	right := TitleStyle.Render(a.previewPath) + "\n" + a.preview.View()
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(listWidth+2).Render(left), right)
}

func (a AppView) renderLogs() string {
	doc, ok := a.dataModel.ActiveJob()
	if !ok {
		return DimStyle.Render("No active job.")
	}

	lines := a.logs.visible(doc.Logs)
	lines = FilterLogs(lines, a.logFilter.Value())

	var b strings.Builder
	header := fmt.Sprintf("Logs for %s", doc.JobID)
	if a.logs.paused {
		header += " (paused)"
	}
	b.WriteString(TitleStyle.Render(header) + "\n")
	if a.logFilterMode || a.logFilter.Value() != "" {
		b.WriteString(a.logFilter.View() + "\n")
	}

	limit := a.height - headerHeight - footerHeight - 3
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	for _, line := range lines {
		b.WriteString(runewidth.Truncate(line, a.width, "…") + "\n")
	}
	if len(lines) == 0 {
		b.WriteString(DimStyle.Render("No log lines.") + "\n")
	}
	return b.String()
}
