package app

import (
	"context"

	"primordia/config"
	"primordia/gateway"
	"primordia/job"
	"primordia/model"
	"primordia/orchestrator"
	"primordia/storage"
)

// Model holds the application data and the services the UI drives.
type Model struct {
	// Core dependencies
	Config       *config.Config
	Orchestrator *orchestrator.Orchestrator
	Gateway      *gateway.Client
	Tracker      *job.Tracker
	JobStore     *storage.JobStore

	// ConfigErr is set when the model session could not be configured.
	// Chat input stays disabled while it is non-nil.
	ConfigErr error

	Version string

	ctx    context.Context
	cancel context.CancelFunc
}

// NewModel creates the application model. jobStore may be nil when the
// history database could not be opened.
func NewModel(cfg *config.Config, orch *orchestrator.Orchestrator, gw *gateway.Client, tracker *job.Tracker, jobStore *storage.JobStore, configErr error, version string) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		Config:       cfg,
		Orchestrator: orch,
		Gateway:      gw,
		Tracker:      tracker,
		JobStore:     jobStore,
		ConfigErr:    configErr,
		Version:      version,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (m *Model) Transcript() *model.Transcript {
	return m.Orchestrator.Transcript()
}

// CanSend reports whether the chat input should accept a prompt.
func (m *Model) CanSend() bool {
	return m.ConfigErr == nil && m.Orchestrator.Configured() && !m.Orchestrator.Busy()
}

func (m *Model) Busy() bool {
	return m.Orchestrator.Busy()
}

// ActiveJob returns the job currently shown by the inspector.
func (m *Model) ActiveJob() (model.JobDocument, bool) {
	if m.Tracker == nil {
		return model.JobDocument{}, false
	}
	return m.Tracker.Active()
}

// Shutdown cancels in-flight work, including running job polls, and
// releases the job store.
func (m *Model) Shutdown() {
	m.cancel()
	if m.JobStore != nil {
		if err := m.JobStore.Close(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[App] Closing job store: %v", err)
		}
	}
	_ = m.Orchestrator.Reset()
}
