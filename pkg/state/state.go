// Package state defines the application's global state, its actions and the
// reducer that advances it, plus the visibility scope kind used by the groups.
package state

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// AppState is the global store value. A value reachable from the store is never
// modified; every transition builds a new AppState.
type AppState struct {
	Theme   Theme  `json:"theme" yaml:"theme"`
	Counter int    `json:"counter" yaml:"counter"`
	Todos   []Todo `json:"todos" yaml:"todos"`
}

type Todo struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Initial returns the documented initial state: light theme, zero counter, no
// shared todos.
func Initial() *AppState {
	return &AppState{Theme: ThemeLight, Todos: []Todo{}}
}

func InitialWithTheme(theme Theme) (*AppState, error) {
	if theme == "" {
		return Initial(), nil
	}
	if !theme.Valid() {
		return nil, errors.Errorf("invalid theme %q", theme)
	}
	s := Initial()
	s.Theme = theme
	return s, nil
}

func (s *AppState) clone() *AppState {
	c := *s
	c.Todos = append([]Todo{}, s.Todos...)
	return &c
}

// Snapshot returns a copy sharing no memory with s. The store hands out
// snapshots, never its own value.
func (s *AppState) Snapshot() *AppState {
	if s == nil {
		return nil
	}
	return s.clone()
}

func (s *AppState) FindTodo(id string) (Todo, int, bool) {
	for i, t := range s.Todos {
		if t.ID == id {
			return t, i, true
		}
	}
	return Todo{}, -1, false
}

func (s *AppState) CompletedCount() int {
	n := 0
	for _, t := range s.Todos {
		if t.Completed {
			n++
		}
	}
	return n
}

// MarshalJSONBytes renders an indented snapshot.
func (s *AppState) MarshalJSONBytes() ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil state")
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal state")
	}
	return b, nil
}
