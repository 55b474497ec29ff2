package cmds

import (
	"fmt"
	"io"

	"github.com/go-go-golems/statekit/pkg/actionlog"
	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/go-go-golems/statekit/pkg/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newReplayCommand() *cobra.Command {
	var (
		output    string
		keepGoing bool
		trace     bool
	)
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Dispatch the actions of a YAML replay file and print the final state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			closer, err := setupLogging(cfg.Log, false)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			f, err := actionlog.Load(args[0])
			if err != nil {
				return err
			}
			if f.Theme == "" {
				f.Theme = cfg.Theme
			}
			steps, err := f.Steps()
			if err != nil {
				return err
			}
			initial, err := f.InitialState()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			st := state.NewStore(initial, store.WithName("replay"), store.WithLogger(log.Logger))
			opts := actionlog.Options{KeepGoing: keepGoing}
			if trace {
				opts.OnStep = func(step actionlog.Step, s *state.AppState, err error) {
					traceStep(cmd.ErrOrStderr(), step, s, err)
				}
			}
			report, err := actionlog.Apply(st, steps, opts)
			if err != nil {
				return err
			}
			log.Info().
				Int("applied", report.Applied).
				Int("unchanged", report.Unchanged).
				Int("rejected", len(report.Rejected)).
				Msg("replay finished")
			return writeRows(cmd.Context(), w, output, stateRow(st.State()))
		},
	}
	addOutputFlag(cmd.Flags(), &output, outputJSON)
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue after rejected actions")
	cmd.Flags().BoolVar(&trace, "trace", false, "print every step")
	return cmd
}

func traceStep(w io.Writer, step actionlog.Step, s *state.AppState, err error) {
	at := ""
	if !step.At.IsZero() {
		at = step.At.Format("2006-01-02 15:04:05")
	}
	status := "ok"
	if err != nil {
		status = "rejected: " + err.Error()
	}
	_, _ = fmt.Fprintf(w, "%3d %-19s %-12s theme=%s counter=%d todos=%d %s\n",
		step.Index, at, step.Action.Kind(), s.Theme, s.Counter, len(s.Todos), status)
}
