// Package tui is the launcher palette: a single text input over the live
// shortlist. Every keystroke runs the engine's immediate query on the input
// thread; a batched query is submitted at the same time and its results
// replace the shortlist when they land, unless the user has typed again.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lexandro/launchdex/engine"
)

// deepResultMsg carries batched-query results back into the update loop.
type deepResultMsg struct {
	query   string
	results []engine.Result
}

// Model is the bubbletea model for the palette.
type Model struct {
	eng     *engine.Engine
	input   textinput.Model
	results []engine.Result
	cursor  int
	width   int
	height  int

	deepCh chan deepResultMsg
	opener func(path string) error
}

// New creates the palette model around a started engine.
func New(eng *engine.Engine) *Model {
	ti := textinput.New()
	ti.Placeholder = "type to search"
	ti.Prompt = "❯ "
	ti.PromptStyle = promptStyle
	ti.Focus()

	return &Model{
		eng:    eng,
		input:  ti,
		deepCh: make(chan deepResultMsg, 1),
		opener: openPath,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, textinput.Blink, m.listenDeep())
}

// listenDeep waits for the next batched-query delivery.
func (m *Model) listenDeep() tea.Cmd {
	return func() tea.Msg { return <-m.deepCh }
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case deepResultMsg:
		// A stale delivery for superseded input is simply dropped.
		if msg.query == m.input.Value() {
			m.results = msg.results
			m.clampCursor()
		}
		return m, m.listenDeep()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Batch(tea.ExitAltScreen, tea.Quit)
		case "up", "shift+tab":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "tab":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if m.cursor < len(m.results) {
				m.opener(m.results[m.cursor].Path)
			}
			return m, tea.Batch(tea.ExitAltScreen, tea.Quit)
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if text := m.input.Value(); text != before {
		m.results = m.eng.QueryNow(text)
		m.cursor = 0
		m.submitDeep(text)
	}
	return m, cmd
}

// submitDeep schedules the higher-fidelity pass. The engine cancels any
// in-flight submission; a cancelled one never sends on deepCh.
func (m *Model) submitDeep(text string) {
	m.eng.QuerySubmit(text, func(results []engine.Result) {
		m.deliverDeep(deepResultMsg{query: text, results: results})
	})
}

// deliverDeep puts msg on deepCh, evicting an unread older delivery so the
// latest one always wins. Deliveries are serial (the engine runs batched
// queries one at a time), so the evict-then-send loop converges.
func (m *Model) deliverDeep(msg deepResultMsg) {
	for {
		select {
		case m.deepCh <- msg:
			return
		default:
			select {
			case <-m.deepCh:
			default:
			}
		}
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.results) {
		m.cursor = len(m.results) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Run starts the palette and blocks until the user dismisses it.
func Run(eng *engine.Engine) error {
	_, err := tea.NewProgram(New(eng)).Run()
	return err
}
