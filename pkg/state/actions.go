package state

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Action kinds. These strings are the contract between event handlers, replay
// files, scripts and the reducer; do not rename them within a release.
const (
	KindToggleTheme = "TOGGLE_THEME"
	KindSetTheme    = "SET_THEME"
	KindIncrement   = "INCREMENT"
	KindDecrement   = "DECREMENT"
	KindReset       = "RESET"
	KindAddTodo     = "ADD_TODO"
	KindToggleTodo  = "TOGGLE_TODO"
	KindDeleteTodo  = "DELETE_TODO"
	KindNoop        = "NOOP"
)

var kindDocs = map[string]string{
	KindToggleTheme: "switch between the light and dark theme",
	KindSetTheme:    "set the theme; payload: {theme: light|dark}",
	KindIncrement:   "add one to the counter",
	KindDecrement:   "subtract one from the counter",
	KindReset:       "set the counter back to zero",
	KindAddTodo:     "append a shared todo; payload: {text, id?}",
	KindToggleTodo:  "flip a shared todo's completion; payload: {id}",
	KindDeleteTodo:  "remove a shared todo; payload: {id}",
	KindNoop:        "does nothing",
}

// Kinds lists every known action kind in lexical order.
func Kinds() []string {
	ret := make([]string, 0, len(kindDocs))
	for k := range kindDocs {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// KindDoc returns the one-line description of kind.
func KindDoc(kind string) string {
	return kindDocs[kind]
}

// Action is the closed set of actions understood by Reduce.
type Action interface {
	Kind() string
	isAction()
}

type ToggleTheme struct{}

type SetTheme struct {
	Theme Theme
}

type Increment struct{}

type Decrement struct{}

type Reset struct{}

type AddTodo struct {
	ID   string
	Text string
}

type ToggleTodo struct {
	ID string
}

type DeleteTodo struct {
	ID string
}

type Noop struct{}

// Unknown carries a kind that is not part of the contract. Reduce ignores it.
type Unknown struct {
	Name string
}

func (ToggleTheme) Kind() string { return KindToggleTheme }
func (SetTheme) Kind() string    { return KindSetTheme }
func (Increment) Kind() string   { return KindIncrement }
func (Decrement) Kind() string   { return KindDecrement }
func (Reset) Kind() string       { return KindReset }
func (AddTodo) Kind() string     { return KindAddTodo }
func (ToggleTodo) Kind() string  { return KindToggleTodo }
func (DeleteTodo) Kind() string  { return KindDeleteTodo }
func (Noop) Kind() string        { return KindNoop }
func (u Unknown) Kind() string   { return u.Name }

func (ToggleTheme) isAction() {}
func (SetTheme) isAction()    {}
func (Increment) isAction()   {}
func (Decrement) isAction()   {}
func (Reset) isAction()       {}
func (AddTodo) isAction()     {}
func (ToggleTodo) isAction()  {}
func (DeleteTodo) isAction()  {}
func (Noop) isAction()        {}
func (Unknown) isAction()     {}

// NewAddTodo builds an AddTodo with a fresh ID. IDs are minted here rather than
// in the reducer so replaying the same actions yields the same state.
func NewAddTodo(text string) AddTodo {
	return AddTodo{ID: uuid.NewString(), Text: text}
}

// DecodeAction maps the wire form (kind + loosely typed payload) onto an
// Action. Kinds outside the contract decode to Unknown.
func DecodeAction(kind string, payload map[string]any) (Action, error) {
	switch kind {
	case KindToggleTheme:
		return ToggleTheme{}, nil
	case KindSetTheme:
		theme, err := payloadString(payload, "theme", true)
		if err != nil {
			return nil, errors.Wrap(err, kind)
		}
		return SetTheme{Theme: Theme(theme)}, nil
	case KindIncrement:
		return Increment{}, nil
	case KindDecrement:
		return Decrement{}, nil
	case KindReset:
		return Reset{}, nil
	case KindAddTodo:
		text, err := payloadString(payload, "text", true)
		if err != nil {
			return nil, errors.Wrap(err, kind)
		}
		id, err := payloadString(payload, "id", false)
		if err != nil {
			return nil, errors.Wrap(err, kind)
		}
		if id == "" {
			return NewAddTodo(text), nil
		}
		return AddTodo{ID: id, Text: text}, nil
	case KindToggleTodo, KindDeleteTodo:
		id, err := payloadString(payload, "id", true)
		if err != nil {
			return nil, errors.Wrap(err, kind)
		}
		if kind == KindToggleTodo {
			return ToggleTodo{ID: id}, nil
		}
		return DeleteTodo{ID: id}, nil
	case KindNoop:
		return Noop{}, nil
	case "":
		return nil, errors.New("missing action kind")
	default:
		return Unknown{Name: kind}, nil
	}
}

func payloadString(payload map[string]any, key string, required bool) (string, error) {
	v, ok := payload[key]
	if !ok || v == nil {
		if required {
			return "", errors.Errorf("missing payload field %q", key)
		}
		return "", nil
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case fmt.Stringer:
		return x.String(), nil
	case int, int64, float64:
		return fmt.Sprintf("%v", x), nil
	default:
		return "", errors.Errorf("payload field %q: want string, got %T", key, v)
	}
}
