package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/go-go-golems/statekit/pkg/tui"
	"github.com/go-go-golems/statekit/pkg/tui/styles"
	"github.com/go-go-golems/statekit/pkg/tui/widgets"
)

// GroupModel is a region whose members share one visibility scope. The scope
// belongs to the region: remounting the region creates a new one.
type GroupModel struct {
	index   int
	prefix  string
	members int
	scope   *state.VisibilityScope

	width  int
	height int
}

func NewGroupModel(index int, prefix string, members int, sc *state.VisibilityScope) GroupModel {
	if members <= 0 {
		members = 3
	}
	return GroupModel{index: index, prefix: prefix, members: members, scope: sc}
}

func (m GroupModel) WithSize(width, height int) GroupModel {
	m.width, m.height = width, height
	return m
}

func (m GroupModel) WithScope(sc *state.VisibilityScope) GroupModel {
	m.scope = sc
	return m
}

func (m GroupModel) Scope() *state.VisibilityScope {
	return m.scope
}

func (m GroupModel) Keybinds() []widgets.Keybind {
	return []widgets.Keybind{
		{Key: "space", Label: "show/hide all"},
		{Key: "r", Label: "remount region"},
	}
}

func (m GroupModel) Update(msg tea.Msg) (GroupModel, tea.Cmd) {
	v, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch v.String() {
	case " ", "space", "enter":
		state.ToggleVisibility(m.scope)
		return m, nil
	case "r":
		idx := m.index
		return m, func() tea.Msg { return tui.RemountGroupMsg{Index: idx} }
	}
	return m, nil
}

// MemberNames returns the member component labels, e.g. A1, A2, A3.
func (m GroupModel) MemberNames() []string {
	ret := make([]string, m.members)
	for i := range ret {
		ret[i] = fmt.Sprintf("%s%d", m.prefix, i+1)
	}
	return ret
}

func (m GroupModel) View(theme styles.Theme, focused bool) string {
	visible := m.scope.State().Visible
	names := m.MemberNames()

	action := "Hide"
	if !visible {
		action = "Show"
	}

	var b strings.Builder
	b.WriteString(theme.KeybindLabel.Render(fmt.Sprintf("[%s all %s components]", action, m.prefix)) + "\n")
	for i, name := range names {
		b.WriteString(theme.Title.Render("Component "+name) + "\n")
		if visible {
			others := make([]string, 0, len(names)-1)
			for j, o := range names {
				if j != i {
					others = append(others, o)
				}
			}
			b.WriteString(theme.Visible.Render(styles.VisibilityIcon(true)+" This component is visible") + "\n")
			b.WriteString(fmt.Sprintf("%s Shares visibility state with %s\n", styles.IconLink, strings.Join(others, ", ")))
		} else {
			b.WriteString(theme.Hidden.Render(fmt.Sprintf("%s Hidden by %s", styles.VisibilityIcon(false), m.scope.Name())) + "\n")
		}
	}

	return widgets.NewBox(m.scope.Name()).
		WithSubtitle(fmt.Sprintf("Shared visibility across %s", strings.Join(names, ", "))).
		WithContent(strings.TrimRight(b.String(), "\n")).
		WithTheme(theme).
		WithColor(theme.GroupColor(m.index)).
		WithFocus(focused).
		WithSize(m.width, 0).
		Render()
}
