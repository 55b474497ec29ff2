// Package store holds a single immutable application state that only changes
// through a pure reducer applied to dispatched actions.
//
// A Store is constructed explicitly and handed to whoever needs it; there is no
// package-level instance. Store is not safe for concurrent use: dispatches are
// expected to come from one goroutine (the UI update loop, a replay, a script).
package store

import (
	"fmt"

	"github.com/go-go-golems/statekit/pkg/notify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Action describes an intended state transition. Kind is the stable wire name.
type Action interface {
	Kind() string
}

// Reducer computes the next state. It must not mutate its input or perform I/O.
// Returning the same state value signals "no change".
type Reducer[S comparable, A Action] func(state S, action A) (S, error)

// ReducerError is returned by Dispatch when the reducer fails. The store keeps
// its previous state.
type ReducerError struct {
	Kind string
	Err  error
}

func (e *ReducerError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("reduce: %v", e.Err)
	}
	return fmt.Sprintf("reduce %s: %v", e.Kind, e.Err)
}

func (e *ReducerError) Unwrap() error {
	return e.Err
}

// ErrNilAction is returned by Dispatch for a nil action.
var ErrNilAction = errors.New("nil action")

// Snapshotter is implemented by reference-typed states. State and Replay hand
// out Snapshot() instead of the stored value, so editing what a caller
// received never reaches the store.
type Snapshotter[S any] interface {
	Snapshot() S
}

func snapshot[S any](v S) S {
	if sn, ok := any(v).(Snapshotter[S]); ok {
		return sn.Snapshot()
	}
	return v
}

type Store[S comparable, A Action] struct {
	name     string
	state    S
	reducer  Reducer[S, A]
	notifier *notify.Notifier
	logger   zerolog.Logger

	dispatched uint64
	depth      int
}

type options struct {
	name     string
	logger   *zerolog.Logger
	reporter notify.Reporter
}

type Option func(*options)

func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = &logger }
}

// WithReporter routes listener failures to r instead of the logger.
func WithReporter(r notify.Reporter) Option {
	return func(o *options) { o.reporter = r }
}

func New[S comparable, A Action](reducer Reducer[S, A], initial S, opts ...Option) *Store[S, A] {
	o := options{name: "store"}
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.Logger
	if o.logger != nil {
		logger = *o.logger
	}
	logger = logger.With().Str("store", o.name).Logger()

	nopts := []notify.Option{notify.WithName(o.name), notify.WithLogger(logger)}
	if o.reporter != nil {
		nopts = append(nopts, notify.WithReporter(o.reporter))
	}

	return &Store[S, A]{
		name:     o.name,
		state:    initial,
		reducer:  reducer,
		notifier: notify.New(nopts...),
		logger:   logger,
	}
}

func (s *Store[S, A]) Name() string {
	return s.name
}

// State returns the current state. When S implements Snapshotter the result
// is a detached copy; otherwise S is returned as stored, which is only safe
// for value types or states nobody mutates.
func (s *Store[S, A]) State() S {
	return snapshot(s.state)
}

// Dispatched reports how many dispatches replaced the state.
func (s *Store[S, A]) Dispatched() uint64 {
	return s.dispatched
}

// Dispatch applies the reducer and, when the state changed, notifies every
// subscriber before returning. Listeners may dispatch again; the nested
// dispatch completes, notifications included, before the outer pass resumes.
func (s *Store[S, A]) Dispatch(action A) error {
	if any(action) == nil {
		return &ReducerError{Err: ErrNilAction}
	}
	kind, next, err := s.reduce(action)
	if err != nil {
		s.logger.Warn().Str("kind", kind).Err(err).Msg("dispatch rejected")
		return &ReducerError{Kind: kind, Err: err}
	}
	if next == s.state {
		s.logger.Trace().Str("kind", kind).Msg("dispatch produced no change")
		return nil
	}

	s.state = next
	s.dispatched++
	s.depth++
	defer func() { s.depth-- }()

	s.logger.Debug().Str("kind", kind).Int("depth", s.depth).Uint64("seq", s.dispatched).Msg("dispatch")
	s.notifier.NotifyAll()
	return nil
}

func (s *Store[S, A]) reduce(action A) (kind string, next S, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "reducer panicked")
			} else {
				err = errors.Errorf("reducer panicked: %v", r)
			}
		}
	}()
	kind = action.Kind()
	next, err = s.reducer(s.state, action)
	return kind, next, err
}

// Subscribe registers l and returns a function that removes it. The returned
// function may be called any number of times.
func (s *Store[S, A]) Subscribe(l notify.Listener) (func(), error) {
	h, err := s.notifier.Subscribe(l)
	if err != nil {
		return nil, err
	}
	return func() { s.notifier.Unsubscribe(h) }, nil
}

func (s *Store[S, A]) Subscribers() int {
	return s.notifier.Len()
}

// Replay folds actions over initial with reducer, exactly as a fresh Store
// would, and returns the final state.
func Replay[S comparable, A Action](reducer Reducer[S, A], initial S, actions ...A) (S, error) {
	cur := initial
	for i, a := range actions {
		if any(a) == nil {
			return snapshot(cur), errors.Wrapf(&ReducerError{Err: ErrNilAction}, "action %d", i)
		}
		next, err := reducer(cur, a)
		if err != nil {
			return snapshot(cur), errors.Wrapf(&ReducerError{Kind: a.Kind(), Err: err}, "action %d", i)
		}
		cur = next
	}
	return snapshot(cur), nil
}
