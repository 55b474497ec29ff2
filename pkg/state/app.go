package state

import (
	"github.com/go-go-golems/statekit/pkg/scope"
	"github.com/go-go-golems/statekit/pkg/store"
)

// Store is the global store specialised to the application state.
type Store = store.Store[*AppState, Action]

func NewStore(initial *AppState, opts ...store.Option) *Store {
	if initial == nil {
		initial = Initial()
	}
	return store.New[*AppState, Action](Reduce, initial, opts...)
}

// Replay folds actions over initial using Reduce.
func Replay(initial *AppState, actions ...Action) (*AppState, error) {
	return store.Replay[*AppState, Action](Reduce, initial, actions...)
}

// Visibility is the value held by a group's visibility scope.
type Visibility struct {
	Visible bool `json:"visible" yaml:"visible"`
}

type VisibilityScope = scope.Scope[Visibility]

// NewVisibilityScope creates a fresh, unshared visibility scope. Two calls with
// the same name still produce unrelated scopes.
func NewVisibilityScope(name string, visible bool, opts ...scope.Option) *VisibilityScope {
	return scope.New(name, Visibility{Visible: visible}, opts...)
}

// ToggleVisibility flips a visibility scope.
func ToggleVisibility(s *VisibilityScope) {
	s.Update(func(v Visibility) Visibility { return Visibility{Visible: !v.Visible} })
}
