package tui

import (
	"testing"

	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_RoundTripStoreChange(t *testing.T) {
	env, err := NewEnvelope(3, DomainTypeStoreChanged, "app", StoreChanged{
		Seq:   7,
		State: &state.AppState{Theme: state.ThemeDark, Counter: 2, Todos: []state.Todo{}},
	})
	require.NoError(t, err)
	raw, err := env.MarshalJSONBytes()
	require.NoError(t, err)

	parsed, err := ParseEnvelope(raw)
	require.NoError(t, err)
	c, err := parsed.Change()
	require.NoError(t, err)
	require.EqualValues(t, 3, c.Seq)
	require.Equal(t, "app", c.Source)
	require.Equal(t, "store #7 theme=dark counter=2 todos=0", c.Summary())
}

func TestEnvelope_Errors(t *testing.T) {
	_, err := ParseEnvelope([]byte(`{}`))
	require.Error(t, err)
	_, err = ParseEnvelope([]byte(`not json`))
	require.Error(t, err)

	_, err = Envelope{Type: "mystery"}.Change()
	require.Error(t, err)
}
