package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lexandro/launchdex/engine"
	"github.com/sahilm/fuzzy"
)

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Underline(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

const maxVisibleRows = 20

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	rows := m.results
	if len(rows) > maxVisibleRows {
		rows = rows[:maxVisibleRows]
	}
	query := m.input.Value()
	for i, r := range rows {
		b.WriteString(m.renderRow(r, query, i == m.cursor))
		b.WriteByte('\n')
	}
	if len(m.results) == 0 && query != "" {
		b.WriteString(pathStyle.Render("no matches"))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(statusStyle.Render(m.statusLine()))
	return b.String()
}

func (m *Model) renderRow(r engine.Result, query string, selected bool) string {
	icon := m.eng.ResolveIcon(r)
	name := highlightName(r.Name, query)
	if selected {
		name = selectedStyle.Render("▌") + " " + name
	} else {
		name = "  " + name
	}
	return fmt.Sprintf("%s %s  %s", icon.Glyph, name, pathStyle.Render(r.Path))
}

// highlightName underlines the characters of name that the query matched.
// Phonetic hits have no literal overlap and come back unstyled.
func highlightName(name, query string) string {
	if query == "" {
		return name
	}
	matches := fuzzy.Find(query, []string{name})
	if len(matches) == 0 {
		return name
	}
	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, idx := range matches[0].MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, r := range name {
		if matched[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *Model) statusLine() string {
	st := m.eng.Status()
	if !st.Active {
		return "index inactive"
	}
	return fmt.Sprintf("%d apps · %d files · indexed in %s", st.AppCount, st.FileCount, st.LastIndexDuration.Round(time.Millisecond))
}
