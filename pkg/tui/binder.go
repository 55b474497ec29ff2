package tui

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-go-golems/statekit/pkg/scope"
	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Binder subscribes to stores and scopes on behalf of the UI. Each
// notification re-reads the snapshot and publishes it on TopicStateChanges.
// Redraw batching is left to the program.
type Binder struct {
	Pub    message.Publisher
	Logger zerolog.Logger

	unbind map[string]func()
	order  []string
	seq    uint64
}

func NewBinder(pub message.Publisher, logger zerolog.Logger) *Binder {
	return &Binder{Pub: pub, Logger: logger, unbind: map[string]func(){}}
}

// BindStore subscribes to the application store under the key "store".
func (b *Binder) BindStore(s *state.Store) error {
	if s == nil {
		return errors.New("nil store")
	}
	unsubscribe, err := s.Subscribe(func() {
		snap := StoreChanged{Seq: s.Dispatched(), State: s.State()}
		b.publish(DomainTypeStoreChanged, s.Name(), snap)
	})
	if err != nil {
		return errors.Wrap(err, "subscribe store")
	}
	b.add("store", unsubscribe)
	return nil
}

// BindScope subscribes to sc under its ID.
func BindScope[T any](b *Binder, sc *scope.Scope[T]) error {
	if sc == nil {
		return errors.New("nil scope")
	}
	unsubscribe, err := sc.Subscribe(func() {
		raw, err := json.Marshal(sc.State())
		if err != nil {
			b.Logger.Error().Err(err).Str("scope", sc.Name()).Msg("marshal scope state")
			return
		}
		b.publish(DomainTypeScopeChanged, sc.Name(), ScopeChanged{ID: sc.ID(), Name: sc.Name(), State: raw})
	})
	if err != nil {
		return errors.Wrapf(err, "subscribe scope %s", sc.Name())
	}
	b.add(sc.ID(), unsubscribe)
	return nil
}

// Unbind drops the subscription registered under key. Unknown keys are ignored.
func (b *Binder) Unbind(key string) {
	fn, ok := b.unbind[key]
	if !ok {
		return
	}
	fn()
	delete(b.unbind, key)
	for i, k := range b.order {
		if k == key {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

func (b *Binder) Bound() []string {
	return append([]string{}, b.order...)
}

// Close removes every subscription, most recent first.
func (b *Binder) Close() {
	for i := len(b.order) - 1; i >= 0; i-- {
		b.unbind[b.order[i]]()
	}
	b.unbind = map[string]func(){}
	b.order = nil
}

func (b *Binder) add(key string, unsubscribe func()) {
	if b.unbind == nil {
		b.unbind = map[string]func(){}
	}
	if prev, ok := b.unbind[key]; ok {
		prev()
	} else {
		b.order = append(b.order, key)
	}
	b.unbind[key] = unsubscribe
}

func (b *Binder) publish(typ, source string, payload any) {
	b.seq++
	env, err := NewEnvelope(b.seq, typ, source, payload)
	if err != nil {
		b.Logger.Error().Err(err).Str("type", typ).Msg("build envelope")
		return
	}
	raw, err := env.MarshalJSONBytes()
	if err != nil {
		b.Logger.Error().Err(err).Str("type", typ).Msg("encode envelope")
		return
	}
	if err := b.Pub.Publish(TopicStateChanges, message.NewMessage(watermill.NewUUID(), raw)); err != nil {
		b.Logger.Error().Err(err).Str("type", typ).Msg("publish change")
	}
}
