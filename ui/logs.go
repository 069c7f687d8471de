package ui

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// FilterLogs returns the log lines matching query, in their original order.
// An empty query returns every line.
func FilterLogs(lines []string, query string) []string {
	if query == "" {
		return lines
	}

	matches := fuzzy.Find(query, lines)
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	sort.Ints(idx)

	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = lines[j]
	}
	return out
}

// logView tracks what the Logs tab shows for the active job. The state
// resets whenever a different job becomes active.
type logView struct {
	jobID    string
	clearAt  int
	paused   bool
	snapshot []string
}

func (l *logView) sync(jobID string) {
	if jobID == l.jobID {
		return
	}
	*l = logView{jobID: jobID}
}

// visible returns the lines to display for the given job logs.
func (l logView) visible(logs []string) []string {
	if l.paused {
		logs = l.snapshot
	}
	if l.clearAt >= len(logs) {
		return nil
	}
	return logs[l.clearAt:]
}

func (l *logView) togglePause(logs []string) {
	l.paused = !l.paused
	l.snapshot = nil
	if l.paused {
		l.snapshot = append([]string{}, logs...)
	}
}

// clear hides every line received so far.
func (l *logView) clear(logs []string) {
	l.clearAt = len(logs)
	if l.paused {
		l.snapshot = append([]string{}, logs...)
	}
}
