// Package scope provides state shared by a subtree of the UI. Each call to New
// creates an independent instance; nothing is shared by name or kind.
package scope

import (
	"github.com/go-go-golems/statekit/pkg/notify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Scope holds a replaceable value and notifies subscribers on every SetState.
// It is not safe for concurrent use.
type Scope[T any] struct {
	id       string
	name     string
	state    T
	notifier *notify.Notifier
	logger   zerolog.Logger
}

type options struct {
	logger   *zerolog.Logger
	reporter notify.Reporter
}

type Option func(*options)

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = &logger }
}

func WithReporter(r notify.Reporter) Option {
	return func(o *options) { o.reporter = r }
}

func New[T any](name string, initial T, opts ...Option) *Scope[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.Logger
	if o.logger != nil {
		logger = *o.logger
	}
	id := uuid.NewString()
	logger = logger.With().Str("scope", name).Str("scope_id", id).Logger()

	nopts := []notify.Option{notify.WithName(name), notify.WithLogger(logger)}
	if o.reporter != nil {
		nopts = append(nopts, notify.WithReporter(o.reporter))
	}
	return &Scope[T]{
		id:       id,
		name:     name,
		state:    initial,
		notifier: notify.New(nopts...),
		logger:   logger,
	}
}

func (s *Scope[T]) ID() string   { return s.id }
func (s *Scope[T]) Name() string { return s.name }

// Snapshotter is implemented by reference-typed scope values. A scope stores
// and hands out Snapshot() copies so callers never hold its live value.
// Other reference types (bare slices, maps, pointers) are stored as given and
// must be treated as read-only.
type Snapshotter[T any] interface {
	Snapshot() T
}

func snapshot[T any](v T) T {
	if sn, ok := any(v).(Snapshotter[T]); ok {
		return sn.Snapshot()
	}
	return v
}

func (s *Scope[T]) State() T {
	return snapshot(s.state)
}

// SetState replaces the whole value and notifies once, even when v equals the
// current value.
func (s *Scope[T]) SetState(v T) {
	s.state = snapshot(v)
	s.logger.Debug().Msg("scope state replaced")
	s.notifier.NotifyAll()
}

// Update replaces the value with fn applied to the current one.
func (s *Scope[T]) Update(fn func(T) T) {
	s.SetState(fn(s.State()))
}

func (s *Scope[T]) Subscribe(l notify.Listener) (func(), error) {
	h, err := s.notifier.Subscribe(l)
	if err != nil {
		return nil, err
	}
	return func() { s.notifier.Unsubscribe(h) }, nil
}

func (s *Scope[T]) Subscribers() int {
	return s.notifier.Len()
}

// Dispose marks the owning region as unmounted. Existing subscribers are
// dropped and new ones are refused. Dropping the last reference is enough when
// nobody needs the refusal.
func (s *Scope[T]) Dispose() {
	s.notifier.Dispose()
}
