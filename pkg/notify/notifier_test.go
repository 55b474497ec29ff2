package notify

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifier_RegistrationOrder(t *testing.T) {
	n := New()
	var got []int
	for i := 0; i < 4; i++ {
		i := i
		_, err := n.Subscribe(func() { got = append(got, i) })
		require.NoError(t, err)
	}
	n.NotifyAll()
	require.Equal(t, []int{0, 1, 2, 3}, got)
}

func TestNotifier_UnsubscribeIsIdempotent(t *testing.T) {
	n := New()
	calls := 0
	h, err := n.Subscribe(func() { calls++ })
	require.NoError(t, err)

	n.Unsubscribe(h)
	n.Unsubscribe(h)
	n.Unsubscribe(Handle(9999))
	n.NotifyAll()

	require.Equal(t, 0, calls)
	require.Equal(t, 0, n.Len())
}

func TestNotifier_UnsubscribeDuringPass(t *testing.T) {
	n := New()
	counts := map[string]int{}
	var hb Handle

	_, err := n.Subscribe(func() {
		counts["a"]++
		n.Unsubscribe(hb)
	})
	require.NoError(t, err)
	hb, err = n.Subscribe(func() { counts["b"]++ })
	require.NoError(t, err)
	_, err = n.Subscribe(func() { counts["c"]++ })
	require.NoError(t, err)

	n.NotifyAll()
	require.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, counts)

	n.NotifyAll()
	require.Equal(t, map[string]int{"a": 2, "b": 1, "c": 2}, counts)
}

func TestNotifier_SubscribeDuringPassWaitsForNextPass(t *testing.T) {
	n := New()
	late := 0
	added := false
	_, err := n.Subscribe(func() {
		if added {
			return
		}
		added = true
		_, err := n.Subscribe(func() { late++ })
		require.NoError(t, err)
	})
	require.NoError(t, err)

	n.NotifyAll()
	require.Equal(t, 0, late)
	n.NotifyAll()
	require.Equal(t, 1, late)
}

func TestNotifier_PanickingListenerDoesNotStopOthers(t *testing.T) {
	var reported []*ListenerError
	n := New(WithName("test"), WithReporter(func(err *ListenerError) {
		reported = append(reported, err)
	}))

	boom := stderrors.New("boom")
	var order []string
	_, err := n.Subscribe(func() { order = append(order, "first") })
	require.NoError(t, err)
	h, err := n.Subscribe(func() { panic(boom) })
	require.NoError(t, err)
	_, err = n.Subscribe(func() { order = append(order, "last") })
	require.NoError(t, err)

	require.NotPanics(t, n.NotifyAll)
	require.Equal(t, []string{"first", "last"}, order)
	require.Len(t, reported, 1)
	require.Equal(t, h, reported[0].Handle)
	require.ErrorIs(t, reported[0], boom)
}

func TestNotifier_Dispose(t *testing.T) {
	n := New(WithName("gone"))
	calls := 0
	_, err := n.Subscribe(func() { calls++ })
	require.NoError(t, err)

	n.Dispose()
	require.True(t, n.Disposed())
	n.NotifyAll()
	require.Equal(t, 0, calls)

	_, err = n.Subscribe(func() {})
	require.ErrorIs(t, err, ErrDisposed)
}

func TestNotifier_NilListener(t *testing.T) {
	n := New()
	_, err := n.Subscribe(nil)
	require.ErrorIs(t, err, ErrNilListener)
	require.NotErrorIs(t, err, ErrDisposed)
	require.Equal(t, 0, n.Len())
}
