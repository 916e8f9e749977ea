// Package tui implements watch mode: a terminal view of the latest
// trace report that refreshes when the profiler writes a new trace
// file into the watched directory.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg time.Time

// Analyzer supplies the watch loop with traces and rendered reports.
type Analyzer interface {
	// Latest returns the newest trace file in the watched directory
	// and its modification time.
	Latest() (path string, modTime time.Time, err error)

	// Render analyzes the trace at path and returns the report text.
	Render(path string) (string, error)
}

type KeyMap struct {
	Quit   key.Binding
	Reload key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

type Model struct {
	dir      string
	keys     KeyMap
	analyzer Analyzer

	viewport viewport.Model
	width    int
	height   int
	ready    bool

	currentPath string
	currentMod  time.Time
	status      string
	quitting    bool

	refreshRate time.Duration
}

type ModelOption func(*Model)

func WithAnalyzer(a Analyzer) ModelOption {
	return func(m *Model) { m.analyzer = a }
}

func WithRefreshRate(d time.Duration) ModelOption {
	return func(m *Model) { m.refreshRate = d }
}

// NewModel creates the watch model for dir. The directory name is only
// used for display; discovery goes through the Analyzer.
func NewModel(dir string, opts ...ModelOption) Model {
	m := Model{
		dir:         dir,
		keys:        DefaultKeyMap(),
		refreshRate: 2 * time.Second,
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := msg.Height - chromeHeight
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, bodyHeight)
			m.ready = true
			m = m.refresh(false)
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = bodyHeight
		}
		return m, nil

	case tickMsg:
		m = m.refresh(false)
		return m, m.tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Reload):
			m = m.refresh(true)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refresh re-runs discovery and, when the newest trace changed (or
// force is set), re-analyzes it and swaps the viewport content.
func (m Model) refresh(force bool) Model {
	if m.analyzer == nil {
		return m
	}

	path, modTime, err := m.analyzer.Latest()
	if err != nil {
		m.status = err.Error()
		return m
	}

	if !force && path == m.currentPath && modTime.Equal(m.currentMod) {
		return m
	}

	out, err := m.analyzer.Render(path)
	if err != nil {
		m.status = err.Error()
		return m
	}

	m.currentPath = path
	m.currentMod = modTime
	m.status = ""
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
	return m
}
