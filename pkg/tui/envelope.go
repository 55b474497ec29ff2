package tui

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/pkg/errors"
)

// Envelope is the wire form of a change notification on the bus.
type Envelope struct {
	Seq     uint64          `json:"seq"`
	Type    string          `json:"type"`
	Source  string          `json:"source"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload"`
}

type StoreChanged struct {
	Seq   uint64          `json:"seq"`
	State *state.AppState `json:"state"`
}

func (s StoreChanged) Summary() string {
	if s.State == nil {
		return fmt.Sprintf("store #%d", s.Seq)
	}
	return fmt.Sprintf("store #%d theme=%s counter=%d todos=%d",
		s.Seq, s.State.Theme, s.State.Counter, len(s.State.Todos))
}

type ScopeChanged struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	State json.RawMessage `json:"state"`
}

func (s ScopeChanged) Summary() string {
	return fmt.Sprintf("scope %s -> %s", s.Name, string(s.State))
}

func NewEnvelope(seq uint64, typ string, source string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, errors.Wrapf(err, "marshal %s payload", typ)
	}
	return Envelope{Seq: seq, Type: typ, Source: source, At: time.Now(), Payload: b}, nil
}

func (e Envelope) MarshalJSONBytes() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, "marshal envelope")
	}
	return b, nil
}

func ParseEnvelope(b []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, errors.Wrap(err, "parse envelope")
	}
	if e.Type == "" {
		return Envelope{}, errors.New("envelope without type")
	}
	return e, nil
}

// Change decodes the payload according to the envelope type.
func (e Envelope) Change() (Change, error) {
	c := Change{Seq: e.Seq, Type: e.Type, Source: e.Source, At: e.At}
	switch e.Type {
	case DomainTypeStoreChanged:
		var p StoreChanged
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return Change{}, errors.Wrap(err, "parse store change")
		}
		c.Store = &p
	case DomainTypeScopeChanged:
		var p ScopeChanged
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return Change{}, errors.Wrap(err, "parse scope change")
		}
		c.Scope = &p
	default:
		return Change{}, errors.Errorf("unknown envelope type %q", e.Type)
	}
	return c, nil
}
