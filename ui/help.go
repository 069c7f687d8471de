package ui

import (
	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor).
		Render("Primordia - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	global := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global"),
		"• Tab           Next tab",
		"• Shift+Tab     Previous tab",
		"• Ctrl+Y        Copy last agent reply",
		"• F1            Toggle this help",
		"• Ctrl+C        Quit",
	)

	chat := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat"),
		"• Enter         Send prompt",
		"• PgUp/PgDn     Scroll",
		"• Ctrl+U/D      Half page up/down",
	)

	files := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Files"),
		"• j/k           Move selection",
		"• Enter         Open file",
		"• r             Refresh list",
	)

	jobs := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Job & Logs"),
		"• r             Reload job history",
		"• /             Filter log lines",
		"• p             Pause log stream",
		"• c             Clear log view",
	)

	columnStyle := lipgloss.NewStyle().Width(38).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, global, "", chat)),
		columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, files, "", jobs)),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render("Press F1 to close this help")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
