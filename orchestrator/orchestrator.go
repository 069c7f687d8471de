// Package orchestrator drives one conversation: it sends user input to the
// model, runs the tool calls the model asks for, follows submitted jobs to
// completion and feeds the results back until the model answers in text.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"primordia/config"
	"primordia/job"
	"primordia/model"
	"primordia/provider"
	"primordia/tools"
)

var (
	// ErrBusy is returned by Submit while a previous submission is running.
	ErrBusy = errors.New("a request is already in progress")

	// ErrNotConfigured is returned by Submit when the model session has no
	// credential.
	ErrNotConfigured = provider.ErrNotConfigured
)

const (
	GenericErrorText = "Sorry, something went wrong."
	UsingToolsText   = "Using tools..."

	eventBuffer = 256
)

type Options struct {
	// MaxToolRounds bounds the tool rounds in one Submit. Zero is unlimited.
	MaxToolRounds int
}

// Orchestrator owns the transcript for one conversation.
type Orchestrator struct {
	session    *provider.Session
	dispatcher *tools.Dispatcher
	poller     *job.Poller
	transcript *model.Transcript
	maxRounds  int

	busy   atomic.Bool
	events chan Event
}

// New wires the orchestrator. The transcript observer and the poller's
// tracker are hooked up to the Events channel.
func New(session *provider.Session, dispatcher *tools.Dispatcher, poller *job.Poller, transcript *model.Transcript, opts Options) *Orchestrator {
	o := &Orchestrator{
		session:    session,
		dispatcher: dispatcher,
		poller:     poller,
		transcript: transcript,
		maxRounds:  opts.MaxToolRounds,
		events:     make(chan Event, eventBuffer),
	}

	transcript.SetObserver(func(msg model.ChatMessage) {
		o.notify(Event{Kind: EventTranscript, Message: msg})
	})
	if poller != nil && poller.Tracker != nil {
		poller.Tracker.Subscribe(func(doc model.JobDocument) {
			o.notify(Event{Kind: EventJob, Job: doc})
		})
	}

	return o
}

// Events delivers progress notifications. Transcript and job events are
// dropped when the buffer is full; the transcript itself stays the source
// of truth. Idle and error events are always delivered unless the Submit
// context is done.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

func (o *Orchestrator) Configured() bool {
	return o.session.IsConfigured()
}

func (o *Orchestrator) Transcript() *model.Transcript {
	return o.transcript
}

func (o *Orchestrator) notify(ev Event) {
	select {
	case o.events <- ev:
	default:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Orchestrator] Event buffer full, dropped %s event", ev.Kind)
		}
	}
}

func (o *Orchestrator) deliver(ctx context.Context, ev Event) {
	select {
	case o.events <- ev:
	case <-ctx.Done():
	}
}

// Submit sends text to the model and runs tool rounds until the model
// replies without tool calls. Only model-call failures are returned; tool
// and job failures are handed back to the model as error results.
func (o *Orchestrator) Submit(ctx context.Context, text string) (err error) {
	if !o.session.IsConfigured() {
		return ErrNotConfigured
	}
	if !o.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}

	defer func() {
		o.busy.Store(false)
		if err != nil {
			o.deliver(ctx, Event{Kind: EventError, Err: err})
		}
		o.deliver(ctx, Event{Kind: EventIdle})
	}()

	o.transcript.Append(model.ChatMessage{
		ID:   model.NewMessageID("user"),
		Role: model.RoleUser,
		Text: text,
	})

	reply, err := o.session.Send(ctx, provider.UserText(text))
	if err != nil {
		return o.modelFailure(err)
	}

	return o.run(ctx, reply)
}

// run is the loop: record the reply, dispatch its tool calls, resolve a
// submitted job, send the results back and repeat with the next reply.
func (o *Orchestrator) run(ctx context.Context, reply provider.Reply) error {
	for rounds := 0; ; rounds++ {
		if reply.Text != "" {
			o.transcript.Append(model.ChatMessage{
				ID:   model.NewMessageID("model"),
				Role: model.RoleModel,
				Text: reply.Text,
			})
		}

		if len(reply.ToolCalls) == 0 {
			return nil
		}

		if o.maxRounds > 0 && rounds >= o.maxRounds {
			o.roundLimitReached()
			return nil
		}

		o.transcript.Append(model.ChatMessage{
			ID:        model.NewMessageID("model"),
			Role:      model.RoleModel,
			Text:      UsingToolsText,
			ToolCalls: reply.ToolCalls,
		})

		results := o.dispatcher.Execute(ctx, reply.ToolCalls)
		results = o.resolveJob(ctx, reply.ToolCalls, results)

		next, err := o.session.Send(ctx, provider.ToolResults(results))
		if err != nil {
			o.session.CancelToolCalls("tool results could not be delivered")
			return o.modelFailure(err)
		}
		reply = next
	}
}

// resolveJob polls the job when exactly one call of the round is a
// successful submitWorkspaceJob, and replaces that call's provisional
// result with the final job document. Other results pass through.
func (o *Orchestrator) resolveJob(ctx context.Context, calls []model.ToolCall, results []model.ToolResult) []model.ToolResult {
	if o.poller == nil {
		return results
	}
	idx := submissionIndex(calls)
	if idx < 0 || idx >= len(results) {
		return results
	}
	jobID := results[idx].JobID()
	if jobID == "" {
		return results
	}

	entry := o.transcript.Append(model.ChatMessage{
		ID:   model.NewMessageID("polling"),
		Role: model.RoleModel,
		Text: job.PollingText(jobID, model.JobPending),
	})

	outcome := o.poller.Poll(ctx, jobID, entry.ID)

	resolved := results[idx]
	if outcome.State == job.StateError {
		resolved.Response = model.ErrorResponse(outcome.Err.Error())
		resolved.IsError = true
	} else {
		resolved.Response = *outcome.Final
		resolved.IsError = false
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Orchestrator] Job %s resolved as %s after %d ticks", jobID, outcome.State, outcome.Ticks)
	}

	out := append([]model.ToolResult(nil), results...)
	out[idx] = resolved
	return out
}

// submissionIndex returns the index of the only submitWorkspaceJob call,
// or -1 when there is none or more than one.
func submissionIndex(calls []model.ToolCall) int {
	idx := -1
	for i, c := range calls {
		if kind, _ := tools.ParseKind(c.Name); kind != tools.KindSubmitWorkspaceJob {
			continue
		}
		if idx >= 0 {
			return -1
		}
		idx = i
	}
	return idx
}

func (o *Orchestrator) roundLimitReached() {
	reason := fmt.Sprintf("Stopped after %d tool rounds without a final answer.", o.maxRounds)
	o.session.CancelToolCalls(reason)
	o.transcript.Append(model.ChatMessage{
		ID:      model.NewMessageID("error"),
		Role:    model.RoleModel,
		Text:    reason,
		IsError: true,
	})
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Orchestrator] %s", reason)
	}
}

func (o *Orchestrator) modelFailure(err error) error {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Orchestrator] Model call failed: %v", err)
	}
	o.transcript.Append(model.ChatMessage{
		ID:      model.NewMessageID("error"),
		Role:    model.RoleModel,
		Text:    GenericErrorText,
		IsError: true,
	})
	return fmt.Errorf("model call failed: %w", err)
}

// Reset clears the conversation with the model. The transcript is kept.
func (o *Orchestrator) Reset() error {
	if o.Busy() {
		return ErrBusy
	}
	o.session.Reset()
	return nil
}
