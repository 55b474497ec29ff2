package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/go-go-golems/statekit/pkg/tui/styles"
	"github.com/go-go-golems/statekit/pkg/tui/widgets"
)

// GlobalModel shows and drives the global store: theme, counter and the
// shared todo list.
type GlobalModel struct {
	store *state.Store

	width  int
	height int

	cursor  int
	lastErr string
}

func NewGlobalModel(s *state.Store) GlobalModel {
	return GlobalModel{store: s}
}

func (m GlobalModel) WithSize(width, height int) GlobalModel {
	m.width, m.height = width, height
	return m
}

func (m GlobalModel) Keybinds() []widgets.Keybind {
	return []widgets.Keybind{
		{Key: "t", Label: "theme"},
		{Key: "+/-", Label: "counter"},
		{Key: "0", Label: "reset"},
		{Key: "space", Label: "toggle todo"},
		{Key: "d", Label: "delete todo"},
	}
}

func (m GlobalModel) LastError() string {
	return m.lastErr
}

func (m GlobalModel) Update(msg tea.Msg) (GlobalModel, tea.Cmd) {
	v, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	todos := m.store.State().Todos

	switch v.String() {
	case "t":
		return m.dispatch(state.ToggleTheme{}), nil
	case "+", "=":
		return m.dispatch(state.Increment{}), nil
	case "-":
		return m.dispatch(state.Decrement{}), nil
	case "0":
		return m.dispatch(state.Reset{}), nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(todos)-1 {
			m.cursor++
		}
		return m, nil
	case " ", "space":
		if m.cursor < len(todos) {
			return m.dispatch(state.ToggleTodo{ID: todos[m.cursor].ID}), nil
		}
		return m, nil
	case "d", "delete":
		if m.cursor < len(todos) {
			m = m.dispatch(state.DeleteTodo{ID: todos[m.cursor].ID})
			m = m.clampCursor()
		}
		return m, nil
	}
	return m, nil
}

func (m GlobalModel) dispatch(a state.Action) GlobalModel {
	if err := m.store.Dispatch(a); err != nil {
		m.lastErr = err.Error()
		return m
	}
	m.lastErr = ""
	return m
}

func (m GlobalModel) clampCursor() GlobalModel {
	n := len(m.store.State().Todos)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func (m GlobalModel) View(theme styles.Theme, focused bool) string {
	st := m.store.State()
	dark := st.Theme == state.ThemeDark

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  Current theme: %s\n", styles.ThemeIcon(dark), theme.Badge.Render(string(st.Theme))))
	b.WriteString(fmt.Sprintf("Counter: %d\n", st.Counter))
	b.WriteString(fmt.Sprintf("Shared todos: %d (%d done)\n", len(st.Todos), st.CompletedCount()))
	for i, t := range st.Todos {
		line := fmt.Sprintf("%s %s %s", styles.CursorIcon(focused && i == m.cursor), styles.CheckIcon(t.Completed), t.Text)
		if t.Completed {
			line = theme.Completed.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if m.lastErr != "" {
		b.WriteString(theme.ErrorText.Render(styles.IconError+" "+m.lastErr) + "\n")
	}

	next := "Dark"
	if dark {
		next = "Light"
	}
	return widgets.NewBox("Global store").
		WithSubtitle(fmt.Sprintf("Single source of truth · t: switch to %s mode", next)).
		WithContent(strings.TrimRight(b.String(), "\n")).
		WithTheme(theme).
		WithColor(theme.Primary).
		WithFocus(focused).
		WithSize(m.width, 0).
		Render()
}
