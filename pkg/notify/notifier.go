// Package notify implements the ordered publish/subscribe primitive shared by
// stores and scopes.
//
// A Notifier is not safe for concurrent use. Listeners run synchronously on
// the goroutine that calls NotifyAll, in registration order.
package notify

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrDisposed is returned when subscribing to a notifier that was torn down.
var ErrDisposed = errors.New("notifier disposed")

// ErrNilListener is returned when subscribing a nil listener.
var ErrNilListener = errors.New("nil listener")

// Listener is a zero-argument change callback.
type Listener func()

// Handle identifies a registered listener.
type Handle uint64

// ListenerError wraps a panic raised by a listener during NotifyAll.
type ListenerError struct {
	Handle Handle
	Value  any
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %d panicked: %v", e.Handle, e.Value)
}

func (e *ListenerError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Reporter receives listener failures. It must not panic.
type Reporter func(err *ListenerError)

type entry struct {
	handle Handle
	fn     Listener
}

type Notifier struct {
	name      string
	listeners []entry
	next      Handle
	disposed  bool
	reporter  Reporter
}

type Option func(*Notifier)

// WithName labels the notifier in log output.
func WithName(name string) Option {
	return func(n *Notifier) { n.name = name }
}

// WithReporter replaces the default logging reporter.
func WithReporter(r Reporter) Option {
	return func(n *Notifier) {
		if r != nil {
			n.reporter = r
		}
	}
}

// WithLogger reports listener failures on the given logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Notifier) { n.reporter = LogReporter(logger, n.name) }
}

// LogReporter returns a Reporter that logs each failure at error level.
func LogReporter(logger zerolog.Logger, name string) Reporter {
	return func(err *ListenerError) {
		logger.Error().
			Str("notifier", name).
			Uint64("handle", uint64(err.Handle)).
			Err(err).
			Msg("listener failed")
	}
}

func New(opts ...Option) *Notifier {
	n := &Notifier{}
	for _, o := range opts {
		o(n)
	}
	if n.reporter == nil {
		n.reporter = LogReporter(log.Logger, n.name)
	}
	return n
}

// Subscribe appends l to the listener list and returns its handle. It fails
// with ErrDisposed once the notifier is disposed, and with ErrNilListener for
// a nil l, which could never be invoked.
func (n *Notifier) Subscribe(l Listener) (Handle, error) {
	if n.disposed {
		return 0, errors.Wrapf(ErrDisposed, "subscribe to %q", n.name)
	}
	if l == nil {
		return 0, errors.Wrapf(ErrNilListener, "subscribe to %q", n.name)
	}
	n.next++
	h := n.next
	n.listeners = append(n.listeners, entry{handle: h, fn: l})
	return h, nil
}

// Unsubscribe removes the listener registered under h. Unknown or already
// removed handles are ignored.
func (n *Notifier) Unsubscribe(h Handle) {
	for i, e := range n.listeners {
		if e.handle != h {
			continue
		}
		// Copy so a snapshot held by an in-flight NotifyAll is left intact.
		rest := make([]entry, 0, len(n.listeners)-1)
		rest = append(rest, n.listeners[:i]...)
		rest = append(rest, n.listeners[i+1:]...)
		n.listeners = rest
		return
	}
}

// NotifyAll invokes every listener registered when the pass starts.
// Subscriptions changed during the pass take effect on the next pass.
func (n *Notifier) NotifyAll() {
	snapshot := n.listeners
	for _, e := range snapshot {
		n.invoke(e)
	}
}

func (n *Notifier) invoke(e entry) {
	defer func() {
		if r := recover(); r != nil {
			n.reporter(&ListenerError{Handle: e.handle, Value: r})
		}
	}()
	e.fn()
}

// Dispose drops all listeners; later Subscribe calls fail with ErrDisposed.
func (n *Notifier) Dispose() {
	n.disposed = true
	n.listeners = nil
}

func (n *Notifier) Disposed() bool {
	return n.disposed
}

func (n *Notifier) Len() int {
	return len(n.listeners)
}
