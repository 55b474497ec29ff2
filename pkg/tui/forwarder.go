package tui

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Forwarder moves change envelopes from the bus into the program. It runs on
// its own goroutine so listeners never block on the program's event loop.
// The bus does not preserve publish order; consumers order by Change.Seq.
type Forwarder struct {
	Sub    message.Subscriber
	Send   func(tea.Msg)
	Logger zerolog.Logger

	messages <-chan *message.Message
}

// Subscribe attaches to the change topic. Changes published before Subscribe
// are not delivered, so call it before anything can dispatch.
func (f *Forwarder) Subscribe(ctx context.Context) error {
	if f.Sub == nil {
		return errors.New("missing Subscriber")
	}
	messages, err := f.Sub.Subscribe(ctx, TopicStateChanges)
	if err != nil {
		return errors.Wrap(err, "subscribe state changes")
	}
	f.messages = messages
	return nil
}

func (f *Forwarder) Run(ctx context.Context) error {
	if f.Send == nil {
		return errors.New("missing Send")
	}
	if f.messages == nil {
		if err := f.Subscribe(ctx); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-f.messages:
			if !ok {
				return nil
			}
			f.forward(msg)
		}
	}
}

func (f *Forwarder) forward(msg *message.Message) {
	defer msg.Ack()

	env, err := ParseEnvelope(msg.Payload)
	if err != nil {
		f.Logger.Warn().Err(err).Str("uuid", msg.UUID).Msg("drop change")
		return
	}
	change, err := env.Change()
	if err != nil {
		f.Logger.Warn().Err(err).Str("uuid", msg.UUID).Msg("drop change")
		return
	}
	f.Send(StateChangedMsg{Change: change})
}
