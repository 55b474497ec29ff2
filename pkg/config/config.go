// Package config loads statekit settings from a YAML file, STATEKIT_*
// environment variables and built-in defaults, in that order of precedence
// (environment first).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "STATEKIT"

type Config struct {
	Theme        string        `mapstructure:"theme"`
	LocalTodos   []string      `mapstructure:"local_todos"`
	Groups       []GroupConfig `mapstructure:"groups"`
	EventLogSize int           `mapstructure:"event_log_size"`
	Log          LogConfig     `mapstructure:"log"`
}

// GroupConfig describes one visibility region. Every group gets its own scope.
type GroupConfig struct {
	Name    string `mapstructure:"name"`
	Prefix  string `mapstructure:"prefix"`
	Visible bool   `mapstructure:"visible"`
	Members int    `mapstructure:"members"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("theme", string(state.ThemeLight))
	v.SetDefault("local_todos", []string{"Buy groceries", "Walk the dog", "Read a book"})
	v.SetDefault("groups", []map[string]interface{}{
		{"name": "Group A", "prefix": "A", "visible": true, "members": 3},
		{"name": "Group B", "prefix": "B", "visible": true, "members": 3},
	})
	v.SetDefault("event_log_size", 200)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads configuration. An explicit path must exist; without one,
// $STATEKIT_CONFIG, ./statekit.yaml and ~/.config/statekit/config.yaml are
// tried and a missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("statekit")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "statekit"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if !state.Theme(c.Theme).Valid() {
		return errors.Errorf("invalid theme %q", c.Theme)
	}
	seen := map[string]bool{}
	for i, g := range c.Groups {
		if strings.TrimSpace(g.Name) == "" {
			return errors.Errorf("group %d: missing name", i)
		}
		if g.Members < 0 {
			return errors.Errorf("group %q: negative member count", g.Name)
		}
		// Names only label regions; two groups with one name would still get
		// separate scopes, which reads as a mistake in a config file.
		if seen[g.Name] {
			return errors.Errorf("duplicate group %q", g.Name)
		}
		seen[g.Name] = true
	}
	if c.EventLogSize < 0 {
		return errors.New("event_log_size must not be negative")
	}
	return nil
}

// InitialState builds the store's initial value from the configured theme.
func (c Config) InitialState() (*state.AppState, error) {
	return state.InitialWithTheme(state.Theme(c.Theme))
}

// GroupPrefix returns g.Prefix, or the last word of its name.
func (g GroupConfig) GroupPrefix() string {
	if g.Prefix != "" {
		return g.Prefix
	}
	fields := strings.Fields(g.Name)
	if len(fields) == 0 {
		return "?"
	}
	return fields[len(fields)-1]
}
