package models

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/statekit/pkg/scope"
	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/go-go-golems/statekit/pkg/tui"
	"github.com/go-go-golems/statekit/pkg/tui/styles"
	"github.com/go-go-golems/statekit/pkg/tui/widgets"
	"github.com/rs/zerolog"
)

type focusArea int

const (
	focusGlobal focusArea = iota
	focusGroup
	focusTodos
	focusLog
)

// GroupSpec describes one scope region mounted by the root.
type GroupSpec struct {
	Name    string
	Prefix  string
	Visible bool
	Members int
}

type RootOptions struct {
	Store      *state.Store
	Binder     *tui.Binder
	Groups     []GroupSpec
	LocalTodos []string
	LogSize    int
	Logger     zerolog.Logger
}

// RootModel lays out the three state models side by side and routes keys to
// the focused panel.
type RootModel struct {
	store  *state.Store
	binder *tui.Binder
	logger zerolog.Logger

	specs  []GroupSpec
	global GlobalModel
	groups []GroupModel
	todos  TodosModel
	log    EventLogModel

	focus      focusArea
	focusGroup int

	width  int
	height int
}

// NewRootModel mounts every region, creating one scope per group and binding
// the store and scopes through opts.Binder when present.
func NewRootModel(opts RootOptions) (RootModel, error) {
	st := opts.Store
	if st == nil {
		st = state.NewStore(state.Initial())
	}
	m := RootModel{
		store:  st,
		binder: opts.Binder,
		logger: opts.Logger,
		specs:  opts.Groups,
		global: NewGlobalModel(st),
		todos:  NewTodosModel(st, opts.LocalTodos),
		log:    NewEventLogModel(opts.LogSize),
	}
	if m.binder != nil {
		if err := m.binder.BindStore(st); err != nil {
			return RootModel{}, err
		}
	}
	for i, spec := range opts.Groups {
		sc, err := m.mountScope(spec)
		if err != nil {
			return RootModel{}, err
		}
		m.groups = append(m.groups, NewGroupModel(i, spec.Prefix, spec.Members, sc))
	}
	return m, nil
}

func (m RootModel) mountScope(spec GroupSpec) (*state.VisibilityScope, error) {
	sc := state.NewVisibilityScope(spec.Name, spec.Visible, scope.WithLogger(m.logger))
	if m.binder != nil {
		if err := tui.BindScope(m.binder, sc); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func (m RootModel) Store() *state.Store     { return m.store }
func (m RootModel) Groups() []GroupModel    { return append([]GroupModel{}, m.groups...) }
func (m RootModel) Todos() TodosModel       { return m.todos }
func (m RootModel) EventLog() EventLogModel { return m.log }
func (m RootModel) Global() GlobalModel     { return m.global }

func (m RootModel) Init() tea.Cmd {
	return nil
}

func (m RootModel) capturing() bool {
	switch m.focus {
	case focusTodos:
		return m.todos.Capturing()
	case focusLog:
		return m.log.Capturing()
	default:
		return false
	}
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = v.Width, v.Height
		m = m.layout()
		return m, nil
	case tui.StateChangedMsg:
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(v)
		return m, cmd
	case tui.RemountGroupMsg:
		return m.remount(v.Index), nil
	case tea.KeyMsg:
		if !m.capturing() {
			switch v.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "tab":
				m = m.cycleFocus(1)
				return m, nil
			case "shift+tab":
				m = m.cycleFocus(-1)
				return m, nil
			}
		} else if v.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.routeKey(v)
	}
	return m, nil
}

func (m RootModel) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusGlobal:
		m.global, cmd = m.global.Update(msg)
	case focusGroup:
		if m.focusGroup < len(m.groups) {
			m.groups[m.focusGroup], cmd = m.groups[m.focusGroup].Update(msg)
		}
	case focusTodos:
		m.todos, cmd = m.todos.Update(msg)
	case focusLog:
		m.log, cmd = m.log.Update(msg)
	}
	return m, cmd
}

// cycleFocus walks global, each group, todos, log.
func (m RootModel) cycleFocus(delta int) RootModel {
	slots := 3 + len(m.groups)
	cur := 0
	switch m.focus {
	case focusGlobal:
		cur = 0
	case focusGroup:
		cur = 1 + m.focusGroup
	case focusTodos:
		cur = 1 + len(m.groups)
	case focusLog:
		cur = 2 + len(m.groups)
	}
	cur = ((cur+delta)%slots + slots) % slots

	switch {
	case cur == 0:
		m.focus = focusGlobal
	case cur <= len(m.groups):
		m.focus = focusGroup
		m.focusGroup = cur - 1
	case cur == 1+len(m.groups):
		m.focus = focusTodos
	default:
		m.focus = focusLog
	}
	return m
}

// remount discards the group's scope and mounts a fresh one with the
// configured initial value; nothing from the old scope survives.
func (m RootModel) remount(i int) RootModel {
	if i < 0 || i >= len(m.groups) {
		return m
	}
	old := m.groups[i].Scope()
	if m.binder != nil {
		m.binder.Unbind(old.ID())
	}
	old.Dispose()

	sc, err := m.mountScope(m.specs[i])
	if err != nil {
		m.logger.Error().Err(err).Str("group", m.specs[i].Name).Msg("remount group")
		return m
	}
	groups := append([]GroupModel{}, m.groups...)
	groups[i] = groups[i].WithScope(sc)
	m.groups = groups
	m.logger.Info().Str("group", sc.Name()).Str("scope_id", sc.ID()).Msg("group remounted")
	return m
}

func (m RootModel) layout() RootModel {
	w := m.width
	if w <= 0 {
		w = 100
	}
	m.global = m.global.WithSize(w, 0)
	if n := len(m.groups); n > 0 {
		gw := w / n
		groups := append([]GroupModel{}, m.groups...)
		for i := range groups {
			groups[i] = groups[i].WithSize(gw, 0)
		}
		m.groups = groups
	}
	m.todos = m.todos.WithSize(w, 0)
	m.log = m.log.WithSize(w-4, 8)
	return m
}

func (m RootModel) keybinds() []widgets.Keybind {
	var local []widgets.Keybind
	switch m.focus {
	case focusGlobal:
		local = m.global.Keybinds()
	case focusGroup:
		if m.focusGroup < len(m.groups) {
			local = m.groups[m.focusGroup].Keybinds()
		}
	case focusTodos:
		local = m.todos.Keybinds()
	case focusLog:
		local = []widgets.Keybind{{Key: "/", Label: "filter"}, {Key: "c", Label: "clear"}}
	}
	return append(local, widgets.Keybind{Key: "tab", Label: "focus"}, widgets.Keybind{Key: "q", Label: "quit"})
}

func (m RootModel) View() string {
	theme := styles.ForMode(m.store.State().Theme == state.ThemeDark)

	header := lipgloss.JoinVertical(lipgloss.Left,
		theme.Header.Render("State Management Architecture"),
		theme.TitleMuted.Render("Global store • Scoped sharing • Local state"),
	)

	sections := []string{header, m.global.View(theme, m.focus == focusGlobal)}

	if len(m.groups) > 0 {
		views := make([]string, 0, len(m.groups))
		for i, g := range m.groups {
			views = append(views, g.View(theme, m.focus == focusGroup && m.focusGroup == i))
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, views...))
	}

	sections = append(sections,
		m.todos.View(theme, m.focus == focusTodos),
		widgets.NewBox("Change log").
			WithContent(m.log.View()).
			WithTheme(theme).
			WithFocus(m.focus == focusLog).
			WithSize(m.width, 0).
			Render(),
		widgets.NewFooter(m.keybinds()).
			WithTheme(theme).
			WithWidth(m.width).
			WithLegend("store: global theme/counter/todos", "scope: shared visibility per group", "local: todo completion").
			Render(),
	)
	return theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
