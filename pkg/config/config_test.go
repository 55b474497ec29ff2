package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STATEKIT_CONFIG", "")

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "light", c.Theme)
	require.Equal(t, []string{"Buy groceries", "Walk the dog", "Read a book"}, c.LocalTodos)
	require.Equal(t, []GroupConfig{
		{Name: "Group A", Prefix: "A", Visible: true, Members: 3},
		{Name: "Group B", Prefix: "B", Visible: true, Members: 3},
	}, c.Groups)
	require.Equal(t, 200, c.EventLogSize)
	require.Equal(t, "info", c.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
theme: dark
local_todos: [one, two]
groups:
  - name: Left
    visible: false
    members: 2
event_log_size: 10
log:
  level: debug
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "dark", c.Theme)
	require.Equal(t, []string{"one", "two"}, c.LocalTodos)
	require.Len(t, c.Groups, 1)
	require.Equal(t, "Left", c.Groups[0].GroupPrefix())
	require.False(t, c.Groups[0].Visible)
	require.Equal(t, "debug", c.Log.Level)

	initial, err := c.InitialState()
	require.NoError(t, err)
	require.Equal(t, state.ThemeDark, initial.Theme)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "theme: light\n")
	t.Setenv("STATEKIT_THEME", "dark")
	t.Setenv("STATEKIT_LOG_LEVEL", "warn")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "dark", c.Theme)
	require.Equal(t, "warn", c.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "theme: sepia\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "groups:\n  - name: A\n  - name: A\n"))
	require.ErrorContains(t, err, "duplicate group")
}
