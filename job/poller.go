// Package job follows a submitted workspace job until the backend reports a
// terminal status, mirroring progress into the transcript and job inspector.
package job

import (
	"context"
	"fmt"
	"time"

	"primordia/config"
	"primordia/model"
)

// DefaultInterval is the fixed wait between status requests.
const DefaultInterval = 3 * time.Second

// State is where a poll ended up.
type State int

const (
	StatePolling State = iota
	StateSuccess
	StateFailed
	StateError
)

func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// StatusSource fetches the current document for a job.
type StatusSource interface {
	GetWorkspaceJobStatus(ctx context.Context, jobID string) (model.JobDocument, error)
}

// Recorder persists observed job documents. storage.JobStore implements it.
type Recorder interface {
	RecordJob(ctx context.Context, doc model.JobDocument) error
}

// Outcome is the result of Poll. Final is the last document received and
// is nil only when the very first request failed.
type Outcome struct {
	State State
	Final *model.JobDocument
	Ticks int
	Err   error
}

// Poller polls one job at a time. Transcript, Tracker and Store are
// optional.
type Poller struct {
	Source     StatusSource
	Interval   time.Duration
	Transcript *model.Transcript
	Tracker    *Tracker
	Store      Recorder
}

// PollingText is the transcript text for a poll in progress.
func PollingText(jobID string, status model.JobStatus) string {
	return fmt.Sprintf("Polling job %s... Status: %s", jobID, status)
}

// Poll requests the job status every Interval until it is SUCCESS or
// FAILED, rewriting the transcript entry messageID after each tick.
// A request failure or ctx cancellation ends the poll in StateError.
func (p *Poller) Poll(ctx context.Context, jobID, messageID string) Outcome {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	var out Outcome
	out.State = StatePolling

	for {
		doc, err := p.Source.GetWorkspaceJobStatus(ctx, jobID)
		out.Ticks++
		if err != nil {
			return p.fail(&out, jobID, messageID, err)
		}
		out.Final = &doc

		p.observe(ctx, doc)

		if doc.Status.IsTerminal() {
			if doc.Status == model.JobSuccess {
				out.State = StateSuccess
			} else {
				out.State = StateFailed
			}
			p.rewrite(messageID, fmt.Sprintf("Job %s finished with status: %s", jobID, doc.Status), false)
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Job] %s finished with %s after %d ticks", jobID, doc.Status, out.Ticks)
			}
			return out
		}

		p.rewrite(messageID, PollingText(jobID, doc.Status), false)

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return p.fail(&out, jobID, messageID, ctx.Err())
		case <-timer.C:
		}
	}
}

func (p *Poller) observe(ctx context.Context, doc model.JobDocument) {
	if p.Tracker != nil {
		p.Tracker.Publish(doc)
	}
	if p.Store != nil {
		if err := p.Store.RecordJob(ctx, doc); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Job] Failed to record %s: %v", doc.JobID, err)
		}
	}
}

func (p *Poller) fail(out *Outcome, jobID, messageID string, err error) Outcome {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Job] Error polling %s: %v", jobID, err)
	}
	out.State = StateError
	out.Err = fmt.Errorf("polling job %s: %w", jobID, err)
	p.rewrite(messageID, fmt.Sprintf("Error polling job %s: %v", jobID, err), true)
	return *out
}

func (p *Poller) rewrite(messageID, text string, isError bool) {
	if p.Transcript == nil || messageID == "" {
		return
	}
	p.Transcript.UpdateText(messageID, text, isError)
}
