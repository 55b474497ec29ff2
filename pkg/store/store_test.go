package store

import (
	stderrors "errors"
	"strconv"
	"testing"

	"github.com/go-go-golems/statekit/pkg/notify"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	Counter int
}

type counterAction struct {
	kind string
	by   int
}

func (a counterAction) Kind() string { return a.kind }

var errBadAction = stderrors.New("bad action")

func counterReducer(s *counterState, a counterAction) (*counterState, error) {
	switch a.kind {
	case "INCREMENT":
		return &counterState{Counter: s.Counter + 1}, nil
	case "ADD":
		return &counterState{Counter: s.Counter + a.by}, nil
	case "FAIL":
		return nil, errBadAction
	case "PANIC":
		panic("reducer exploded")
	default:
		return s, nil
	}
}

func inc() counterAction { return counterAction{kind: "INCREMENT"} }

func newCounterStore() *Store[*counterState, counterAction] {
	return New(counterReducer, &counterState{}, WithName("counter"))
}

func TestStore_IncrementThreeTimes(t *testing.T) {
	s := newCounterStore()
	notified := 0
	_, err := s.Subscribe(func() { notified++ })
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Dispatch(inc()))
	}
	require.Equal(t, 3, s.State().Counter)
	require.Equal(t, 3, notified)
	require.EqualValues(t, 3, s.Dispatched())

	before := s.State()
	require.NoError(t, s.Dispatch(counterAction{kind: "NOOP"}))
	require.Same(t, before, s.State())
	require.Equal(t, 3, notified)
}

func TestStore_SubscribersSeeNewStateSynchronously(t *testing.T) {
	s := newCounterStore()
	var seen []int
	_, err := s.Subscribe(func() { seen = append(seen, s.State().Counter) })
	require.NoError(t, err)

	require.NoError(t, s.Dispatch(counterAction{kind: "ADD", by: 5}))
	require.Equal(t, []int{5}, seen)
}

func TestStore_ReducerErrorKeepsState(t *testing.T) {
	s := newCounterStore()
	require.NoError(t, s.Dispatch(inc()))
	before := s.State()

	notified := 0
	_, err := s.Subscribe(func() { notified++ })
	require.NoError(t, err)

	err = s.Dispatch(counterAction{kind: "FAIL"})
	var rerr *ReducerError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, "FAIL", rerr.Kind)
	require.ErrorIs(t, err, errBadAction)
	require.Same(t, before, s.State())
	require.Equal(t, 0, notified)
}

func TestStore_ReducerPanicIsSurfaced(t *testing.T) {
	s := newCounterStore()
	err := s.Dispatch(counterAction{kind: "PANIC"})
	var rerr *ReducerError
	require.ErrorAs(t, err, &rerr)
	require.Contains(t, err.Error(), "reducer exploded")
	require.Equal(t, 0, s.State().Counter)
}

func TestStore_ReentrantDispatchIsDepthFirst(t *testing.T) {
	s := newCounterStore()
	var trace []string

	_, err := s.Subscribe(func() {
		trace = append(trace, "first")
		if s.State().Counter == 1 {
			require.NoError(t, s.Dispatch(counterAction{kind: "ADD", by: 10}))
		}
	})
	require.NoError(t, err)
	_, err = s.Subscribe(func() {
		trace = append(trace, "second:"+strconv.Itoa(s.State().Counter))
	})
	require.NoError(t, err)

	require.NoError(t, s.Dispatch(inc()))
	require.Equal(t, 11, s.State().Counter)
	require.Equal(t, []string{
		"first",
		"first",
		"second:11",
		"second:11",
	}, trace)
}

func TestStore_UnsubscribeStopsNotifications(t *testing.T) {
	s := newCounterStore()
	calls := 0
	unsubscribe, err := s.Subscribe(func() { calls++ })
	require.NoError(t, err)
	require.Equal(t, 1, s.Subscribers())

	require.NoError(t, s.Dispatch(inc()))
	unsubscribe()
	unsubscribe()
	require.NoError(t, s.Dispatch(inc()))

	require.Equal(t, 1, calls)
	require.Equal(t, 0, s.Subscribers())
}

func TestStore_ListenerPanicDoesNotReachDispatcher(t *testing.T) {
	var reported []*notify.ListenerError
	s := New(counterReducer, &counterState{}, WithReporter(func(err *notify.ListenerError) {
		reported = append(reported, err)
	}))

	later := 0
	_, err := s.Subscribe(func() { panic("listener broke") })
	require.NoError(t, err)
	_, err = s.Subscribe(func() { later++ })
	require.NoError(t, err)

	require.NoError(t, s.Dispatch(inc()))
	require.Equal(t, 1, s.State().Counter)
	require.Equal(t, 1, later)
	require.Len(t, reported, 1)
}

func TestReplay_MatchesDispatch(t *testing.T) {
	actions := []counterAction{
		inc(),
		{kind: "ADD", by: 4},
		{kind: "NOOP"},
		inc(),
		{kind: "ADD", by: -2},
	}

	s := newCounterStore()
	for _, a := range actions {
		require.NoError(t, s.Dispatch(a))
	}

	replayed, err := Replay(counterReducer, &counterState{}, actions...)
	require.NoError(t, err)
	require.Equal(t, *replayed, *s.State())
	require.Equal(t, 4, replayed.Counter)
}

func TestReplay_StopsAtFailure(t *testing.T) {
	got, err := Replay(counterReducer, &counterState{}, inc(), counterAction{kind: "FAIL"}, inc())
	require.ErrorIs(t, err, errBadAction)
	require.Equal(t, 1, got.Counter)
}

type listState struct {
	items []int
}

func (s *listState) Snapshot() *listState {
	return &listState{items: append([]int{}, s.items...)}
}

type pushAction struct{ v int }

func (pushAction) Kind() string { return "PUSH" }

func pushReducer(s *listState, a Action) (*listState, error) {
	p, ok := a.(pushAction)
	if !ok {
		return s, nil
	}
	return &listState{items: append(append([]int{}, s.items...), p.v)}, nil
}

func TestStore_StateIsDetachedSnapshot(t *testing.T) {
	s := New(pushReducer, &listState{})
	require.NoError(t, s.Dispatch(pushAction{v: 1}))

	notified := 0
	_, err := s.Subscribe(func() { notified++ })
	require.NoError(t, err)

	got := s.State()
	got.items[0] = 42
	got.items = append(got.items, 7)

	require.Equal(t, []int{1}, s.State().items)
	require.Equal(t, 0, notified)

	require.NoError(t, s.Dispatch(pushAction{v: 2}))
	require.Equal(t, []int{1, 2}, s.State().items)
	require.Equal(t, 1, notified)
}

func TestStore_NilActionReturnsError(t *testing.T) {
	s := New(pushReducer, &listState{})
	notified := 0
	_, err := s.Subscribe(func() { notified++ })
	require.NoError(t, err)

	err = s.Dispatch(nil)
	var rerr *ReducerError
	require.ErrorAs(t, err, &rerr)
	require.ErrorIs(t, err, ErrNilAction)
	require.Zero(t, s.Dispatched())
	require.Equal(t, 0, notified)

	_, err = Replay[*listState, Action](pushReducer, &listState{}, pushAction{v: 1}, nil)
	require.ErrorIs(t, err, ErrNilAction)
}
