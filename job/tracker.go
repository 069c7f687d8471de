package job

import (
	"sync"

	"primordia/model"
)

// Tracker holds the single active job shown by the job inspector.
// Publishing replaces the slot wholesale; the last write wins.
type Tracker struct {
	mu          sync.RWMutex
	active      *model.JobDocument
	subscribers []func(model.JobDocument)
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Subscribe registers fn to be called with every published document.
// fn runs outside the tracker lock, in the publisher's goroutine.
func (t *Tracker) Subscribe(fn func(model.JobDocument)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, fn)
}

func (t *Tracker) Publish(doc model.JobDocument) {
	t.mu.Lock()
	stored := doc
	stored.Logs = append([]string(nil), doc.Logs...)
	t.active = &stored
	subs := make([]func(model.JobDocument), len(t.subscribers))
	copy(subs, t.subscribers)
	t.mu.Unlock()

	for _, fn := range subs {
		fn(doc)
	}
}

// Active returns a copy of the current job, if any.
func (t *Tracker) Active() (model.JobDocument, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.active == nil {
		return model.JobDocument{}, false
	}
	doc := *t.active
	doc.Logs = append([]string(nil), t.active.Logs...)
	return doc, true
}

func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = nil
}
