package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor     = lipgloss.Color("7")
	accentColor  = lipgloss.Color("12")
	successColor = lipgloss.Color("10")
	warningColor = lipgloss.Color("11")
	dangerColor  = lipgloss.Color("9")

	// User message style
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	// Model message style
	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	ToolStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)

	// Error entries get a left bar so they stand out from normal replies.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(dangerColor).
			PaddingLeft(1)

	PollingStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	BorderStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Underline(true)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(dimColor)
)

// statusStyle colours a job status.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "SUCCESS":
		return lipgloss.NewStyle().Foreground(successColor).Bold(true)
	case "FAILED":
		return lipgloss.NewStyle().Foreground(dangerColor).Bold(true)
	case "RUNNING":
		return lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(dimColor).Bold(true)
	}
}

// FormatFooter formats a footer string with alternating keys and descriptions.
// Usage: FormatFooter("j/k", "Navigate", "Enter", "Open")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
