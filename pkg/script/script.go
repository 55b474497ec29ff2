// Package script drives the store and scopes from JavaScript (goja).
//
// Exposed globals:
//
//	dispatch(kind, payload?)  throws when the reducer rejects the action
//	getState()                plain object snapshot of the store
//	subscribe(fn)             returns an unsubscribe function
//	scope(name)               {name, id, get(), set(v), toggle(), subscribe(fn)}
//	kinds                     map of action kind constants
//	print(...)                writes a line to the configured output
//
// A Runtime is single-threaded like the store it drives.
package script

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dop251/goja"
	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Runtime struct {
	vm     *goja.Runtime
	store  *state.Store
	scopes map[string]*state.VisibilityScope
	out    io.Writer
	logger zerolog.Logger
}

type Option func(*Runtime)

func WithOutput(w io.Writer) Option {
	return func(r *Runtime) { r.out = w }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runtime) { r.logger = logger }
}

func WithScopes(scopes ...*state.VisibilityScope) Option {
	return func(r *Runtime) {
		for _, sc := range scopes {
			r.scopes[sc.Name()] = sc
		}
	}
}

func New(st *state.Store, opts ...Option) (*Runtime, error) {
	if st == nil {
		return nil, errors.New("nil store")
	}
	r := &Runtime{
		vm:     goja.New(),
		store:  st,
		scopes: map[string]*state.VisibilityScope{},
		out:    os.Stdout,
		logger: log.Logger,
	}
	for _, o := range opts {
		o(r)
	}
	if err := r.install(); err != nil {
		return nil, err
	}
	return r, nil
}

// Run evaluates src. Cancelling ctx interrupts the script.
func (r *Runtime) Run(ctx context.Context, name, src string) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			r.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	if _, err := r.vm.RunScript(name, src); err != nil {
		return errors.Wrapf(err, "run %s", name)
	}
	return nil
}

func (r *Runtime) install() error {
	kinds := map[string]interface{}{}
	for _, k := range state.Kinds() {
		kinds[k] = k
	}
	globals := map[string]interface{}{
		"dispatch":  r.dispatch,
		"getState":  r.getState,
		"subscribe": r.subscribeStore,
		"scope":     r.scope,
		"print":     r.print,
		"kinds":     kinds,
	}
	for name, v := range globals {
		if err := r.vm.Set(name, v); err != nil {
			return errors.Wrapf(err, "install %s", name)
		}
	}
	return nil
}

func (r *Runtime) throw(err error) {
	panic(r.vm.NewGoError(err))
}

func (r *Runtime) dispatch(call goja.FunctionCall) goja.Value {
	kind := call.Argument(0).String()
	var payload map[string]any
	if p := call.Argument(1); !goja.IsUndefined(p) && !goja.IsNull(p) {
		m, ok := p.Export().(map[string]interface{})
		if !ok {
			r.throw(errors.Errorf("dispatch %s: payload must be an object", kind))
		}
		payload = m
	}
	a, err := state.DecodeAction(kind, payload)
	if err != nil {
		r.throw(err)
	}
	if err := r.store.Dispatch(a); err != nil {
		r.throw(err)
	}
	if add, ok := a.(state.AddTodo); ok {
		return r.vm.ToValue(add.ID)
	}
	return goja.Undefined()
}

func (r *Runtime) getState(goja.FunctionCall) goja.Value {
	return r.toPlain(r.store.State())
}

// toPlain converts v to JSON-shaped maps so scripts see the wire field names.
func (r *Runtime) toPlain(v any) goja.Value {
	b, err := json.Marshal(v)
	if err != nil {
		r.throw(errors.Wrap(err, "marshal state"))
	}
	var plain interface{}
	if err := json.Unmarshal(b, &plain); err != nil {
		r.throw(errors.Wrap(err, "unmarshal state"))
	}
	return r.vm.ToValue(plain)
}

func (r *Runtime) listener(fn goja.Value) func() {
	callable, ok := goja.AssertFunction(fn)
	if !ok {
		r.throw(errors.New("subscribe: argument must be a function"))
	}
	return func() {
		if _, err := callable(goja.Undefined()); err != nil {
			// Surfaces through the notifier's listener error reporting.
			panic(err)
		}
	}
}

func (r *Runtime) unsubscribeValue(unsubscribe func()) goja.Value {
	return r.vm.ToValue(func(goja.FunctionCall) goja.Value {
		unsubscribe()
		return goja.Undefined()
	})
}

func (r *Runtime) subscribeStore(call goja.FunctionCall) goja.Value {
	unsubscribe, err := r.store.Subscribe(r.listener(call.Argument(0)))
	if err != nil {
		r.throw(err)
	}
	return r.unsubscribeValue(unsubscribe)
}

func (r *Runtime) scope(call goja.FunctionCall) goja.Value {
	name := call.Argument(0).String()
	sc, ok := r.scopes[name]
	if !ok {
		r.throw(errors.Errorf("unknown scope %q", name))
	}

	obj := r.vm.NewObject()
	set := func(k string, v interface{}) {
		if err := obj.Set(k, v); err != nil {
			r.throw(errors.Wrapf(err, "scope.%s", k))
		}
	}
	set("name", sc.Name())
	set("id", sc.ID())
	set("get", func(goja.FunctionCall) goja.Value {
		return r.toPlain(sc.State())
	})
	set("set", func(c goja.FunctionCall) goja.Value {
		v, err := visibilityFrom(c.Argument(0).Export())
		if err != nil {
			r.throw(err)
		}
		sc.SetState(v)
		return goja.Undefined()
	})
	set("toggle", func(goja.FunctionCall) goja.Value {
		state.ToggleVisibility(sc)
		return goja.Undefined()
	})
	set("subscribe", func(c goja.FunctionCall) goja.Value {
		unsubscribe, err := sc.Subscribe(r.listener(c.Argument(0)))
		if err != nil {
			r.throw(err)
		}
		return r.unsubscribeValue(unsubscribe)
	})
	return obj
}

func visibilityFrom(v interface{}) (state.Visibility, error) {
	switch x := v.(type) {
	case bool:
		return state.Visibility{Visible: x}, nil
	case map[string]interface{}:
		b, ok := x["visible"].(bool)
		if !ok {
			return state.Visibility{}, errors.New("scope.set: want {visible: bool}")
		}
		return state.Visibility{Visible: b}, nil
	default:
		return state.Visibility{}, errors.Errorf("scope.set: unsupported value %T", v)
	}
}

func (r *Runtime) print(call goja.FunctionCall) goja.Value {
	parts := make([]string, 0, len(call.Arguments))
	for _, a := range call.Arguments {
		parts = append(parts, a.String())
	}
	if _, err := fmt.Fprintln(r.out, strings.Join(parts, " ")); err != nil {
		r.logger.Warn().Err(err).Msg("script print")
	}
	return goja.Undefined()
}
