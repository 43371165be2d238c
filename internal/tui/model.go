package tui

import (
	"sourcery/internal/model"
	"sourcery/internal/pipeline"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// InputMode is which form, if any, has the keyboard.
type InputMode int

const (
	InputNone InputMode = iota
	InputOffset
	InputSubstitution
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Pane    *pipeline.Pane
	Display model.Display
	Busy    bool
	Status  string // Feedback from the last action

	// Pane state mirrored here so View never waits on a running navigation
	Module    string
	SyncOn    bool
	RuleCount int

	// Offsets given on the command line, stepped through with n/b
	Offsets   []uint64
	OffsetIdx int

	// UI State
	WindowSize tea.WindowSizeMsg
	InputMode  InputMode
	FocusLocal bool // Substitution form: local field has focus
	ShowHelp   bool

	// Components
	OffsetInput    textinput.Model
	OriginalInput  textinput.Model
	LocalInput     textinput.Model
	SourceViewport viewport.Model
}

// InitialModel returns the initial state for pane.
func InitialModel(pane *pipeline.Pane, offsets []uint64) AppModel {
	oi := textinput.New()
	oi.Placeholder = "0x1000"
	oi.CharLimit = 20
	oi.Width = 20

	orig := textinput.New()
	orig.Placeholder = "Original path..."
	orig.Width = 40

	local := textinput.New()
	local.Placeholder = "Substitute path (empty removes)..."
	local.Width = 40

	return AppModel{
		Pane:           pane,
		Module:         pane.Module(),
		SyncOn:         pane.SyncEnabled(),
		RuleCount:      len(pane.Rules()),
		Offsets:        offsets,
		OffsetInput:    oi,
		OriginalInput:  orig,
		LocalInput:     local,
		SourceViewport: viewport.New(80, 20),
	}
}

// Init navigates to the first command line offset, if any.
func (m AppModel) Init() tea.Cmd {
	if len(m.Offsets) == 0 {
		return nil
	}
	return NavigateCmd(m.Pane, m.Offsets[0])
}
