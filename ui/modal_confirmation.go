package ui

import "github.com/charmbracelet/lipgloss"

// ConfirmationState is a yes/no prompt drawn over the active tab.
type ConfirmationState struct {
	Active  bool
	Title   string
	Message string
}

func quitWhileBusy() ConfirmationState {
	return ConfirmationState{
		Active:  true,
		Title:   "Quit while the agent is working?",
		Message: "The current turn will be cancelled.\nA job already submitted keeps running on the backend.",
	}
}

func RenderConfirmationModal(state ConfirmationState, width, height int) string {
	modal := renderModal(state.Title, warningColor, state.Message, FormatFooter("y", "Yes", "n", "No"), width)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
