package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/statekit/pkg/tui"
)

// EventLogModel lists the change notifications seen by the binding adapter,
// ordered by their sequence number.
type EventLogModel struct {
	max     int
	entries []tui.EventLogEntry

	width  int
	height int

	searching bool
	search    textinput.Model
	filter    string

	vp viewport.Model
}

func NewEventLogModel(max int) EventLogModel {
	search := textinput.New()
	search.Placeholder = "filter…"
	search.Prompt = "/ "
	search.CharLimit = 200

	if max <= 0 {
		max = 200
	}
	m := EventLogModel{max: max, search: search}
	m.vp = viewport.New(0, 0)
	return m
}

func (m EventLogModel) WithSize(width, height int) EventLogModel {
	m.width, m.height = width, height
	m = m.resizeViewport()
	return m
}

// Capturing reports whether keystrokes go to the filter input.
func (m EventLogModel) Capturing() bool {
	return m.searching
}

func (m EventLogModel) Entries() []tui.EventLogEntry {
	return append([]tui.EventLogEntry{}, m.entries...)
}

func (m EventLogModel) Update(msg tea.Msg) (EventLogModel, tea.Cmd) {
	switch v := msg.(type) {
	case tui.StateChangedMsg:
		c := v.Change
		m = m.Append(tui.EventLogEntry{Seq: c.Seq, At: c.At, Source: c.Source, Text: c.Summary()})
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			switch v.String() {
			case "esc":
				m.searching = false
				m.search.Blur()
				return m, nil
			case "enter":
				m.filter = strings.TrimSpace(m.search.Value())
				m.searching = false
				m.search.Blur()
				m = m.refreshViewportContent(true)
				return m, nil
			}

			var cmd tea.Cmd
			m.search, cmd = m.search.Update(v)
			return m, cmd
		}

		switch v.String() {
		case "/":
			m.searching = true
			m.search.SetValue(m.filter)
			m.search.CursorEnd()
			m.search.Focus()
			return m, nil
		case "ctrl+l":
			m.filter = ""
			m.search.SetValue("")
			m = m.refreshViewportContent(true)
			return m, nil
		case "c":
			m.entries = nil
			m = m.refreshViewportContent(true)
			return m, nil
		}

		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(v)
		return m, cmd
	}
	return m, nil
}

// Append inserts e keeping entries sorted by Seq; the bus may deliver out of
// order.
func (m EventLogModel) Append(e tui.EventLogEntry) EventLogModel {
	entries := append(append([]tui.EventLogEntry{}, m.entries...), e)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
	if m.max > 0 && len(entries) > m.max {
		entries = entries[len(entries)-m.max:]
	}
	m.entries = entries
	m = m.refreshViewportContent(true)
	return m
}

func (m EventLogModel) View() string {
	var b strings.Builder
	filterLabel := ""
	if m.filter != "" {
		filterLabel = fmt.Sprintf(" filter=%q", m.filter)
	}
	b.WriteString(fmt.Sprintf("%d changes%s\n", len(m.entries), filterLabel))

	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	if len(m.entries) == 0 {
		b.WriteString("(no changes yet)\n")
		return b.String()
	}
	b.WriteString(m.vp.View())
	return b.String()
}

func (m EventLogModel) resizeViewport() EventLogModel {
	usableHeight := m.height - 2
	if usableHeight < 3 {
		usableHeight = 3
	}
	m.vp.Width = maxInt(0, m.width)
	m.vp.Height = usableHeight
	m = m.refreshViewportContent(false)
	return m
}

func (m EventLogModel) refreshViewportContent(gotoBottom bool) EventLogModel {
	if len(m.entries) == 0 {
		m.vp.SetContent("")
		return m
	}
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		if m.filter != "" && !strings.Contains(e.Text, m.filter) && !strings.Contains(e.Source, m.filter) {
			continue
		}
		ts := e.At
		if ts.IsZero() {
			ts = time.Now()
		}
		lines = append(lines, fmt.Sprintf("%4d %s %-8s %s", e.Seq, ts.Format("15:04:05"), e.Source, e.Text))
	}
	m.vp.SetContent(strings.Join(lines, "\n") + "\n")
	if gotoBottom {
		m.vp.GotoBottom()
	}
	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
