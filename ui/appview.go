package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"primordia/app"
	"primordia/model"
)

type tab int

const (
	tabChat tab = iota
	tabJob
	tabFiles
	tabLogs
)

var tabNames = []string{"Chat", "Job", "Files", "Logs"}

func (t tab) String() string {
	return tabNames[t]
}

type AppView struct {
	// Reference to core data model
	dataModel *app.Model

	// UI Components
	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	tab      tab
	loading  bool
	showHelp bool
	status   string
	confirm  ConfirmationState

	// Rendered markdown keyed by transcript entry id.
	rendered      map[string]string
	renderedWidth int

	// Files tab
	fileRows     []FileRow
	selectedFile int
	filesErr     error
	filesLoaded  bool
	preview      viewport.Model
	previewPath  string

	// Job tab
	jobHistory []model.JobDocument

	// Logs tab
	logs          logView
	logFilter     textinput.Model
	logFilterMode bool
}

func NewAppView(m *app.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask the agent to build or deploy something..."
	ta.Prompt = "┃ "
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.Focus()

	if !m.CanSend() {
		ta.Placeholder = "Chat is disabled: no API key configured"
		ta.Blur()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = AssistantStyle

	filter := textinput.New()
	filter.Placeholder = "filter logs"
	filter.Prompt = "/ "

	return AppView{
		dataModel:      m,
		textarea:       ta,
		loadingSpinner: s,
		rendered:       make(map[string]string),
		logFilter:      filter,
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.dataModel.WaitForEvent(),
		a.dataModel.LoadJobHistory(20),
	)
}
