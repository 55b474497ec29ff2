package tui

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/statekit/pkg/scope"
	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/go-go-golems/statekit/pkg/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordingPublisher struct {
	messages []*message.Message
}

func (p *recordingPublisher) Publish(topic string, messages ...*message.Message) error {
	p.messages = append(p.messages, messages...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) changes(t *testing.T) []Change {
	t.Helper()
	var ret []Change
	for _, m := range p.messages {
		env, err := ParseEnvelope(m.Payload)
		require.NoError(t, err)
		c, err := env.Change()
		require.NoError(t, err)
		ret = append(ret, c)
	}
	return ret
}

func TestBinder_PublishesSnapshots(t *testing.T) {
	pub := &recordingPublisher{}
	b := NewBinder(pub, zerolog.Nop())

	st := state.NewStore(state.Initial(), store.WithLogger(zerolog.Nop()))
	groupA := state.NewVisibilityScope("Group A", true, scope.WithLogger(zerolog.Nop()))
	groupB := state.NewVisibilityScope("Group B", true, scope.WithLogger(zerolog.Nop()))
	require.NoError(t, b.BindStore(st))
	require.NoError(t, BindScope(b, groupA))
	require.NoError(t, BindScope(b, groupB))
	require.Equal(t, []string{"store", groupA.ID(), groupB.ID()}, b.Bound())

	require.NoError(t, st.Dispatch(state.ToggleTheme{}))
	require.NoError(t, st.Dispatch(state.Noop{}))
	state.ToggleVisibility(groupA)

	changes := pub.changes(t)
	require.Len(t, changes, 2)

	require.EqualValues(t, 1, changes[0].Seq)
	require.NotNil(t, changes[0].Store)
	require.Equal(t, state.ThemeDark, changes[0].Store.State.Theme)

	require.EqualValues(t, 2, changes[1].Seq)
	require.NotNil(t, changes[1].Scope)
	require.Equal(t, groupA.ID(), changes[1].Scope.ID)
	require.JSONEq(t, `{"visible":false}`, string(changes[1].Scope.State))
}

func TestBinder_UnbindAndClose(t *testing.T) {
	pub := &recordingPublisher{}
	b := NewBinder(pub, zerolog.Nop())
	st := state.NewStore(state.Initial(), store.WithLogger(zerolog.Nop()))
	group := state.NewVisibilityScope("Group A", true, scope.WithLogger(zerolog.Nop()))
	require.NoError(t, b.BindStore(st))
	require.NoError(t, BindScope(b, group))

	b.Unbind(group.ID())
	b.Unbind("does-not-exist")
	state.ToggleVisibility(group)
	require.Empty(t, pub.messages)
	require.Equal(t, 0, group.Subscribers())

	b.Close()
	require.NoError(t, st.Dispatch(state.Increment{}))
	require.Empty(t, pub.messages)
	require.Equal(t, 0, st.Subscribers())
	require.Empty(t, b.Bound())
}

func TestBinder_RebindReplacesSubscription(t *testing.T) {
	pub := &recordingPublisher{}
	b := NewBinder(pub, zerolog.Nop())
	st := state.NewStore(state.Initial(), store.WithLogger(zerolog.Nop()))
	require.NoError(t, b.BindStore(st))
	require.NoError(t, b.BindStore(st))
	require.Equal(t, 1, st.Subscribers())
}

func TestBinder_DisposedScope(t *testing.T) {
	b := NewBinder(&recordingPublisher{}, zerolog.Nop())
	group := state.NewVisibilityScope("Group A", true, scope.WithLogger(zerolog.Nop()))
	group.Dispose()
	require.Error(t, BindScope(b, group))
}

func TestForwarder_DeliversChangesToProgram(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus(zerolog.Nop())
	received := make(chan tea.Msg, 16)
	f := &Forwarder{
		Sub:    bus.Subscriber(),
		Send:   func(m tea.Msg) { received <- m },
		Logger: zerolog.Nop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, f.Subscribe(ctx))
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	st := state.NewStore(state.Initial(), store.WithLogger(zerolog.Nop()))
	group := state.NewVisibilityScope("Group B", true, scope.WithLogger(zerolog.Nop()))
	b := NewBinder(bus.Publisher(), zerolog.Nop())
	require.NoError(t, b.BindStore(st))
	require.NoError(t, BindScope(b, group))

	require.NoError(t, st.Dispatch(state.Increment{}))
	group.SetState(state.Visibility{Visible: true})
	require.NoError(t, bus.Publisher().Publish(TopicStateChanges, message.NewMessage(watermill.NewUUID(), []byte("garbage"))))

	var changes []Change
	timeout := time.After(5 * time.Second)
	for len(changes) < 2 {
		select {
		case m := <-received:
			msg, ok := m.(StateChangedMsg)
			require.True(t, ok)
			changes = append(changes, msg.Change)
		case <-timeout:
			t.Fatalf("timed out, got %d changes", len(changes))
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Seq < changes[j].Seq })

	require.Equal(t, DomainTypeStoreChanged, changes[0].Type)
	require.Equal(t, 1, changes[0].Store.State.Counter)
	require.Equal(t, DomainTypeScopeChanged, changes[1].Type)
	require.Equal(t, "Group B", changes[1].Source)

	b.Close()
	cancel()
	require.NoError(t, <-done)
	require.NoError(t, bus.Close())
}

func TestForwarder_RequiresSend(t *testing.T) {
	f := &Forwarder{Sub: NewBus(zerolog.Nop()).Subscriber()}
	require.Error(t, f.Run(context.Background()))
}
