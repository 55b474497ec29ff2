package cmds

import (
	"io"
	"os"
	"time"

	"github.com/go-go-golems/statekit/pkg/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagLogFile  = "log-file"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "statekit",
		Short:         "Global store, scoped state and local state side by side",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	addGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		newTUICommand(),
		newReplayCommand(),
		newScriptCommand(),
		newKindsCommand(),
	)
	return root
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String(flagConfig, "", "config file (default ./statekit.yaml or ~/.config/statekit/config.yaml)")
	fs.String(flagLogLevel, "", "log level: trace, debug, info, warn, error (overrides config)")
	fs.String(flagLogFile, "", "write logs to this file instead of stderr (overrides config)")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	fs := cmd.Flags()
	path, err := fs.GetString(flagConfig)
	if err != nil {
		return config.Config{}, errors.Wrap(err, flagConfig)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if fs.Changed(flagLogLevel) {
		cfg.Log.Level, _ = fs.GetString(flagLogLevel)
	}
	if fs.Changed(flagLogFile) {
		cfg.Log.File, _ = fs.GetString(flagLogFile)
	}
	return cfg, nil
}

// setupLogging installs the global zerolog logger. Without a log file, logs go
// to stderr unless quiet is set, in which case they are discarded.
func setupLogging(cfg config.LogConfig, quiet bool) (io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "parse log level %q", cfg.Level)
		}
		level = l
	}
	zerolog.SetGlobalLevel(level)

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		return f, nil
	}
	if quiet {
		log.Logger = zerolog.New(io.Discard)
		return nopCloser{}, nil
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	return nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
