package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/statekit/pkg/local"
	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/go-go-golems/statekit/pkg/tui/styles"
	"github.com/go-go-golems/statekit/pkg/tui/widgets"
	"github.com/google/uuid"
)

// TodoItem owns its completion flag; nothing outside the item reads it.
type TodoItem struct {
	ID        string
	Text      string
	completed *local.Cell[bool]
}

func NewTodoItem(text string) TodoItem {
	return TodoItem{ID: uuid.NewString(), Text: text, completed: local.New(false)}
}

func (t TodoItem) Completed() bool { return t.completed.Get() }

func (t TodoItem) Toggle() {
	t.completed.Update(func(v bool) bool { return !v })
}

// TodosModel is the local-state section: the list, the draft text and each
// item's completion live in cells owned by this node alone.
type TodosModel struct {
	items *local.Cell[[]TodoItem]
	draft *local.Cell[string]
	store *state.Store

	input   textinput.Model
	editing bool
	cursor  int
	lastErr string

	width  int
	height int
}

func NewTodosModel(s *state.Store, seed []string) TodosModel {
	input := textinput.New()
	input.Placeholder = "Add a new todo..."
	input.Prompt = "+ "
	input.CharLimit = 200

	items := make([]TodoItem, 0, len(seed))
	for _, text := range seed {
		if text = strings.TrimSpace(text); text != "" {
			items = append(items, NewTodoItem(text))
		}
	}
	return TodosModel{
		items: local.New(items),
		draft: local.New(""),
		store: s,
		input: input,
	}
}

func (m TodosModel) WithSize(width, height int) TodosModel {
	m.width, m.height = width, height
	m.input.Width = maxInt(10, width-8)
	return m
}

func (m TodosModel) Items() []TodoItem {
	return m.items.Get()
}

func (m TodosModel) Draft() string {
	return m.draft.Get()
}

// Capturing reports whether keystrokes go to the text input.
func (m TodosModel) Capturing() bool {
	return m.editing
}

func (m TodosModel) Keybinds() []widgets.Keybind {
	if m.editing {
		return []widgets.Keybind{{Key: "enter", Label: "add"}, {Key: "esc", Label: "cancel"}}
	}
	return []widgets.Keybind{
		{Key: "a", Label: "new todo"},
		{Key: "space", Label: "complete"},
		{Key: "d", Label: "delete"},
		{Key: "p", Label: "share to store"},
	}
}

func (m TodosModel) Update(msg tea.Msg) (TodosModel, tea.Cmd) {
	v, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.editing {
		switch v.String() {
		case "esc":
			m.editing = false
			m.input.Blur()
			return m, nil
		case "enter":
			m = m.add()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(v)
		m.draft.Set(m.input.Value())
		return m, cmd
	}

	items := m.items.Get()
	switch v.String() {
	case "a", "i":
		m.editing = true
		m.input.SetValue(m.draft.Get())
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case " ", "space", "x":
		if m.cursor < len(items) {
			items[m.cursor].Toggle()
		}
	case "d", "delete":
		if m.cursor < len(items) {
			m = m.delete(items[m.cursor].ID)
		}
	case "p":
		if m.cursor < len(items) && m.store != nil {
			if err := m.store.Dispatch(state.NewAddTodo(items[m.cursor].Text)); err != nil {
				m.lastErr = err.Error()
			} else {
				m.lastErr = ""
			}
		}
	}
	return m, nil
}

// add appends the draft as a new item. Blank drafts are ignored.
func (m TodosModel) add() TodosModel {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m
	}
	items := m.items.Get()
	next := make([]TodoItem, 0, len(items)+1)
	next = append(next, items...)
	next = append(next, NewTodoItem(text))
	m.items.Set(next)

	m.draft.Set("")
	m.input.SetValue("")
	return m
}

func (m TodosModel) delete(id string) TodosModel {
	items := m.items.Get()
	next := make([]TodoItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	m.items.Set(next)
	if m.cursor >= len(next) && m.cursor > 0 {
		m.cursor = len(next) - 1
	}
	return m
}

func (m TodosModel) View(theme styles.Theme, focused bool) string {
	items := m.items.Get()

	var b strings.Builder
	if m.editing {
		b.WriteString(m.input.View() + "\n")
	} else {
		b.WriteString(theme.KeybindLabel.Render("a: add a new todo") + "\n")
	}
	b.WriteString(theme.Badge.Render(fmt.Sprintf("%d todos", len(items))) + "\n")
	for i, it := range items {
		line := fmt.Sprintf("%s %s %s", styles.CursorIcon(focused && i == m.cursor), styles.CheckIcon(it.Completed()), it.Text)
		if it.Completed() {
			line = theme.Completed.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if m.lastErr != "" {
		b.WriteString(theme.ErrorText.Render(styles.IconError+" "+m.lastErr) + "\n")
	}

	return widgets.NewBox("Local state · independent todos").
		WithSubtitle("Each todo manages its own completion state").
		WithContent(strings.TrimRight(b.String(), "\n")).
		WithTheme(theme).
		WithColor(theme.Local).
		WithFocus(focused).
		WithSize(m.width, 0).
		Render()
}
