package state

import (
	"strings"

	"github.com/pkg/errors"
)

// Reduce is the application's reducer. Kinds it does not act on return s
// unchanged (the same pointer), which the store treats as "no change".
func Reduce(s *AppState, a Action) (*AppState, error) {
	if s == nil {
		return nil, errors.New("nil state")
	}
	switch v := a.(type) {
	case ToggleTheme:
		next := s.clone()
		next.Theme = s.Theme.Toggle()
		return next, nil
	case SetTheme:
		if !v.Theme.Valid() {
			return nil, errors.Errorf("invalid theme %q", v.Theme)
		}
		if v.Theme == s.Theme {
			return s, nil
		}
		next := s.clone()
		next.Theme = v.Theme
		return next, nil
	case Increment:
		next := s.clone()
		next.Counter++
		return next, nil
	case Decrement:
		next := s.clone()
		next.Counter--
		return next, nil
	case Reset:
		if s.Counter == 0 {
			return s, nil
		}
		next := s.clone()
		next.Counter = 0
		return next, nil
	case AddTodo:
		text := strings.TrimSpace(v.Text)
		if text == "" {
			return nil, errors.New("empty todo text")
		}
		if v.ID == "" {
			return nil, errors.New("todo without id")
		}
		if _, _, ok := s.FindTodo(v.ID); ok {
			return nil, errors.Errorf("duplicate todo id %q", v.ID)
		}
		next := s.clone()
		next.Todos = append(next.Todos, Todo{ID: v.ID, Text: text})
		return next, nil
	case ToggleTodo:
		_, i, ok := s.FindTodo(v.ID)
		if !ok {
			return s, nil
		}
		next := s.clone()
		next.Todos[i].Completed = !next.Todos[i].Completed
		return next, nil
	case DeleteTodo:
		_, i, ok := s.FindTodo(v.ID)
		if !ok {
			return s, nil
		}
		next := s.clone()
		next.Todos = append(next.Todos[:i], next.Todos[i+1:]...)
		return next, nil
	case Noop, Unknown:
		return s, nil
	default:
		return s, nil
	}
}
