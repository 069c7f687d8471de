package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PassphraseModal prompts for the SSH key passphrase before the console
// starts. It runs as its own program, like ErrorModal.
type PassphraseModal struct {
	keyPath   string
	input     textinput.Model
	err       string
	width     int
	height    int
	cancelled bool

	// verify checks a candidate passphrase. Nil accepts anything non-empty.
	verify func(string) error
}

func NewPassphraseModal(keyPath string, verify func(string) error) PassphraseModal {
	input := textinput.New()
	input.Placeholder = "Enter passphrase"
	input.Width = 50
	input.CharLimit = 200
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.Focus()

	return PassphraseModal{
		keyPath: keyPath,
		input:   input,
		verify:  verify,
	}
}

func (m PassphraseModal) Init() tea.Cmd {
	return textinput.Blink
}

func (m PassphraseModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			value := m.input.Value()
			if value == "" {
				m.err = "Passphrase cannot be empty"
				return m, nil
			}
			if m.verify != nil {
				if err := m.verify(value); err != nil {
					m.err = "Incorrect passphrase. Please try again."
					m.input.SetValue("")
					return m, nil
				}
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PassphraseModal) View() string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	message := strings.Join([]string{
		"The SSH key is encrypted with a passphrase.",
		fmt.Sprintf("Key: %s", m.keyPath),
		"",
		m.input.View(),
	}, "\n")
	if m.err != "" {
		message += "\n\n" + lipgloss.NewStyle().Foreground(dangerColor).Bold(true).Render("⚠ "+m.err)
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		renderModal("SSH Key Passphrase Required", accentColor, message, FormatFooter("Enter", "Continue", "Esc", "Cancel"), m.width))
}

// Passphrase returns the entered passphrase, empty if cancelled.
func (m PassphraseModal) Passphrase() string {
	if m.cancelled {
		return ""
	}
	return m.input.Value()
}

func (m PassphraseModal) Cancelled() bool {
	return m.cancelled
}
