package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"sourcery/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	adviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

const helpText = `Keys

  g        Go to an address offset
  n / b    Next / previous offset from the command line
  r        Re-resolve the current address
  s        Toggle source sync
  p        Add or remove a path substitution
  ↑/↓      Scroll the source
  ?        Toggle this help
  q        Quit

Path substitution rewrites a source path recorded at build time
into the local path where the file lives. Leave the substitute
empty to remove a rule.`

// refreshSource rebuilds the viewport content from the display and
// centers it on the cursor line.
func (m *AppModel) refreshSource() {
	d := m.Display
	width := m.SourceViewport.Width
	if width < 20 {
		width = 20
	}

	switch d.Status {
	case model.StatusSource:
		m.SourceViewport.SetContent(renderSource(d.Text, d.Cursor, width))
		offset := d.Cursor - 1 - m.SourceViewport.Height/2
		if offset < 0 {
			offset = 0
		}
		m.SourceViewport.SetYOffset(offset)
	case model.StatusError:
		m.SourceViewport.SetContent(errorStyle.Width(width).Render(d.Text))
		m.SourceViewport.GotoTop()
	case model.StatusNotFound:
		m.SourceViewport.SetContent(adviceStyle.Width(width).Render(d.Text))
		m.SourceViewport.GotoTop()
	default:
		m.SourceViewport.SetContent(lipgloss.NewStyle().Width(width).Render(d.Text))
		m.SourceViewport.GotoTop()
	}
}

// renderSource numbers each line of text and highlights line cursor.
func renderSource(text string, cursor, width int) string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	lnWidth := len(fmt.Sprintf("%d", len(lines)))
	if lnWidth < 3 {
		lnWidth = 3
	}

	var sb strings.Builder
	for i, line := range lines {
		lineNum := i + 1
		prefix := fmt.Sprintf(" %*d | ", lnWidth, lineNum)

		line = strings.ReplaceAll(line, "\t", "    ")
		if contentWidth := width - len(prefix); contentWidth > 3 {
			line = ansi.Truncate(line, contentWidth, "...")
		}

		if lineNum == cursor {
			sb.WriteString(selectedStyle.Render(prefix + line))
		} else {
			sb.WriteString(dimStyle.Render(prefix))
			sb.WriteString(line)
		}
		if i < len(lines)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m AppModel) View() string {
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	width := m.WindowSize.Width
	if width < 24 {
		width = 24
	}

	var header strings.Builder
	header.WriteString(titleStyle.Render("Sourcery"))
	header.WriteString(" ")
	header.WriteString(labelStyle.Render(fmt.Sprintf("pane %s", m.Pane.Name())))
	if m.Module != "" {
		header.WriteString(labelStyle.Render(" • " + m.Module))
	} else {
		header.WriteString(adviceStyle.Render(" • no module attached"))
	}
	if m.Busy {
		header.WriteString(labelStyle.Render(" • resolving..."))
	}
	header.WriteString("\n\n")

	d := m.Display
	if d.Module != "" {
		header.WriteString(fmt.Sprintf("%s %s  0x%x\n", model.StatusIcon(d.Status), labelStyle.Render("Address:"), d.Offset))
		header.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Function:"), d.Function))
		header.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("Line:    "), d.LineInfo))
		if d.File != "" {
			header.WriteString(fmt.Sprintf("\n%s %s", labelStyle.Render("File:    "), d.File))
		}
	} else {
		header.WriteString(labelStyle.Render("Press 'g' to resolve an address."))
	}

	border := borderColor
	if m.InputMode == InputNone {
		border = activeColor
	}
	source := lipgloss.NewStyle().
		Width(width - 2).
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Render(m.SourceViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header.String(), source, m.footer())
}

func (m AppModel) footer() string {
	var sb strings.Builder

	switch m.InputMode {
	case InputOffset:
		sb.WriteString("Go to offset: " + m.OffsetInput.View())
		sb.WriteString("\n" + labelStyle.Render("Enter: Resolve • Esc: Cancel"))
	case InputSubstitution:
		sb.WriteString("Original path:   " + m.OriginalInput.View())
		sb.WriteString("\nSubstitute path: " + m.LocalInput.View())
		sb.WriteString("\n" + labelStyle.Render("Tab: Switch Field • Enter: Apply • Esc: Cancel"))
	default:
		syncLabel := model.IconSyncOn + " Turn Source Sync Off"
		if !m.SyncOn {
			syncLabel = model.IconSyncOff + " Turn Source Sync On"
		}
		sb.WriteString(fmt.Sprintf("[s] %s  [p] Add Path Substitution  (%d rules)", syncLabel, m.RuleCount))
		sb.WriteString("\n" + labelStyle.Render("g: Go to Offset • n/b: Next/Prev • r: Refresh • ↑/↓: Scroll • ?: Help • q: Quit"))
	}

	if m.Status != "" {
		sb.WriteString("\n" + adviceStyle.Render(m.Status))
	}
	return sb.String()
}

func (m AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return helpText
	}

	helpWidth := w * 80 / 100
	if helpWidth < 40 {
		helpWidth = 40
	}
	if helpWidth > w-4 {
		helpWidth = w - 4
	}

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(helpText)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}
