package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestPassphraseModal(t *testing.T) {
	verify := func(p string) error {
		if p != "hunter2" {
			return errors.New("bad passphrase")
		}
		return nil
	}
	m := NewPassphraseModal("/tmp/id_ed25519", verify)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(PassphraseModal)
	if cmd != nil || m.err == "" {
		t.Fatal("empty passphrase should be rejected")
	}

	m.input.SetValue("wrong")
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(PassphraseModal)
	if cmd != nil || m.input.Value() != "" {
		t.Fatal("wrong passphrase should clear the input and stay open")
	}

	m.input.SetValue("hunter2")
	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(PassphraseModal)
	if cmd == nil || m.Passphrase() != "hunter2" {
		t.Error("correct passphrase should quit with the value")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(PassphraseModal)
	if !m.Cancelled() || m.Passphrase() != "" {
		t.Error("esc should cancel")
	}
}
