package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// chromeHeight is the header line plus the footer line.
const chromeHeight = 2

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "starting up..."
	}

	var sb strings.Builder

	title := " prof-top [Watch] " + m.dir
	help := "r:Reload  q:Quit "
	padding := m.width - lipgloss.Width(title) - lipgloss.Width(help)
	if padding < 0 {
		padding = 0
	}
	sb.WriteString(headerStyle.Width(m.width).Render(title + strings.Repeat(" ", padding) + help))
	sb.WriteByte('\n')

	if m.currentPath == "" && m.status != "" {
		sb.WriteString(errorStyle.Render(m.status))
		sb.WriteByte('\n')
	} else {
		sb.WriteString(m.viewport.View())
		sb.WriteByte('\n')
	}

	footer := m.currentPath
	if footer == "" {
		footer = "waiting for trace files..."
	}
	if m.status != "" && m.currentPath != "" {
		footer += "  (" + m.status + ")"
	}
	sb.WriteString(dimStyle.Render(" " + footer))

	return sb.String()
}
