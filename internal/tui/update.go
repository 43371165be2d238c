package tui

import (
	"fmt"
	"strconv"

	"sourcery/internal/model"
	"sourcery/internal/pipeline"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgDisplay carries the result of a navigation event.
type MsgDisplay struct {
	Display model.Display
	Updated bool
}

// NavigateCmd runs one navigation event off the UI loop. The pane
// serializes concurrent navigations.
func NavigateCmd(pane *pipeline.Pane, offset uint64) tea.Cmd {
	return func() tea.Msg {
		d, updated := pane.Navigate(offset)
		return MsgDisplay{Display: d, Updated: updated}
	}
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.SourceViewport.Width = msg.Width - 4
		m.SourceViewport.Height = msg.Height - 12 // header, footer and borders
		if m.SourceViewport.Height < 3 {
			m.SourceViewport.Height = 3
		}
		m.refreshSource()
		return m, nil

	case MsgDisplay:
		m.Busy = false
		if !msg.Updated {
			if m.Module == "" {
				m.Status = "No module attached"
			} else {
				m.Status = "Source sync is off"
			}
			return m, nil
		}
		m.Display = msg.Display
		m.Status = ""
		m.refreshSource()
		return m, nil

	case tea.KeyMsg:
		switch m.InputMode {
		case InputOffset:
			return m.updateOffsetInput(msg)
		case InputSubstitution:
			return m.updateSubstitutionInput(msg)
		}

		if m.ShowHelp {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "?", "esc":
				m.ShowHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "?":
			m.ShowHelp = true
			return m, nil
		case "g":
			m.InputMode = InputOffset
			m.OffsetInput.SetValue("")
			m.OffsetInput.Focus()
			return m, textinput.Blink
		case "p":
			m.InputMode = InputSubstitution
			m.FocusLocal = false
			m.OriginalInput.Focus()
			m.LocalInput.Blur()
			return m, textinput.Blink
		case "s":
			m.SyncOn = m.Pane.ToggleSync()
			if m.SyncOn {
				m.Status = "Source sync on"
			} else {
				m.Status = "Source sync off"
			}
			return m, nil
		case "r":
			if m.Display.Module != "" {
				return m.navigate(m.Display.Offset)
			}
			return m, nil
		case "n":
			if m.OffsetIdx < len(m.Offsets)-1 {
				m.OffsetIdx++
				return m.navigate(m.Offsets[m.OffsetIdx])
			}
			return m, nil
		case "b":
			if m.OffsetIdx > 0 && len(m.Offsets) > 0 {
				m.OffsetIdx--
				return m.navigate(m.Offsets[m.OffsetIdx])
			}
			return m, nil
		}

		// Anything else scrolls the source
		m.SourceViewport, cmd = m.SourceViewport.Update(msg)
		return m, cmd
	}

	return m, cmd
}

func (m AppModel) navigate(offset uint64) (tea.Model, tea.Cmd) {
	m.Busy = true
	return m, NavigateCmd(m.Pane, offset)
}

func (m AppModel) updateOffsetInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.Type {
	case tea.KeyEsc:
		m.InputMode = InputNone
		m.OffsetInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.InputMode = InputNone
		m.OffsetInput.Blur()
		offset, err := strconv.ParseUint(m.OffsetInput.Value(), 0, 64)
		if err != nil {
			m.Status = fmt.Sprintf("Invalid offset %q", m.OffsetInput.Value())
			return m, nil
		}
		return m.navigate(offset)
	}
	m.OffsetInput, cmd = m.OffsetInput.Update(msg)
	return m, cmd
}

func (m AppModel) updateSubstitutionInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.Type {
	case tea.KeyEsc:
		m.InputMode = InputNone
		m.OriginalInput.Blur()
		m.LocalInput.Blur()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		m.FocusLocal = !m.FocusLocal
		if m.FocusLocal {
			m.OriginalInput.Blur()
			return m, m.LocalInput.Focus()
		}
		m.LocalInput.Blur()
		return m, m.OriginalInput.Focus()
	case tea.KeyEnter:
		m.InputMode = InputNone
		m.OriginalInput.Blur()
		m.LocalInput.Blur()
		original, local := m.OriginalInput.Value(), m.LocalInput.Value()
		change, err := m.Pane.AddRule(original, local)
		if err != nil {
			m.Status = "Path substitution error: " + err.Error()
			return m, nil
		}
		m.RuleCount = len(m.Pane.Rules())
		m.Status = fmt.Sprintf("Path substitution %s: %s -> %s", change, original, local)
		m.OriginalInput.SetValue("")
		m.LocalInput.SetValue("")
		return m, nil
	}

	if m.FocusLocal {
		m.LocalInput, cmd = m.LocalInput.Update(msg)
	} else {
		m.OriginalInput, cmd = m.OriginalInput.Update(msg)
	}
	return m, cmd
}
