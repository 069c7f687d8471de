package model

import (
	"sync"
	"time"
)

// Transcript is the ordered, append-only conversation shown to the user.
// The only in-place mutation is UpdateText, used by the job poller to
// rewrite its status entry.
type Transcript struct {
	mu       sync.RWMutex
	messages []ChatMessage
	index    map[string]int
	observer func(ChatMessage)
}

func NewTranscript() *Transcript {
	return &Transcript{index: make(map[string]int)}
}

// SetObserver registers fn to be called after every append or update.
// fn runs outside the transcript lock.
func (t *Transcript) SetObserver(fn func(ChatMessage)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observer = fn
}

// Append adds msg at the end of the transcript, filling in the ID and
// timestamp when missing, and returns the stored copy.
func (t *Transcript) Append(msg ChatMessage) ChatMessage {
	if msg.ID == "" {
		msg.ID = NewMessageID(string(msg.Role))
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	t.mu.Lock()
	if _, exists := t.index[msg.ID]; exists {
		// IDs are unique; a clash gets a fresh one rather than shadowing.
		msg.ID = NewMessageID(string(msg.Role))
	}
	t.index[msg.ID] = len(t.messages)
	t.messages = append(t.messages, msg)
	observer := t.observer
	t.mu.Unlock()

	if observer != nil {
		observer(msg)
	}
	return msg
}

// UpdateText rewrites the text of the entry with the given id.
// Returns false if no such entry exists.
func (t *Transcript) UpdateText(id, text string, isError bool) bool {
	t.mu.Lock()
	i, ok := t.index[id]
	if !ok {
		t.mu.Unlock()
		return false
	}
	t.messages[i].Text = text
	t.messages[i].IsError = isError
	updated := t.messages[i]
	observer := t.observer
	t.mu.Unlock()

	if observer != nil {
		observer(updated)
	}
	return true
}

// Get returns the entry with the given id.
func (t *Transcript) Get(id string) (ChatMessage, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.index[id]
	if !ok {
		return ChatMessage{}, false
	}
	return t.messages[i], true
}

// Snapshot returns a copy of all entries in conversation order.
func (t *Transcript) Snapshot() []ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// LastByRole returns the most recent entry authored by role.
func (t *Transcript) LastByRole(role Role) (ChatMessage, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == role && !t.messages[i].IsError {
			return t.messages[i], true
		}
	}
	return ChatMessage{}, false
}
