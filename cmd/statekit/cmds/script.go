package cmds

import (
	"os"

	"github.com/go-go-golems/statekit/pkg/scope"
	"github.com/go-go-golems/statekit/pkg/script"
	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/go-go-golems/statekit/pkg/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newScriptCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "script FILE.js",
		Short: "Run a JavaScript file against a fresh store and the configured scopes",
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

			src, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read script")
			}
			initial, err := cfg.InitialState()
			if err != nil {
				return err
			}
			st := state.NewStore(initial, store.WithName("script"), store.WithLogger(log.Logger))

			scopes := make([]*state.VisibilityScope, 0, len(cfg.Groups))
			for _, g := range cfg.Groups {
				scopes = append(scopes, state.NewVisibilityScope(g.Name, g.Visible, scope.WithLogger(log.Logger)))
			}

			w := cmd.OutOrStdout()
			rt, err := script.New(st,
				script.WithOutput(w),
				script.WithScopes(scopes...),
				script.WithLogger(log.Logger),
			)
			if err != nil {
				return err
			}
			if err := rt.Run(cmd.Context(), args[0], string(src)); err != nil {
				return err
			}
			return writeRows(cmd.Context(), w, output, stateRow(st.State()))
		},
	}
	addOutputFlag(cmd.Flags(), &output, outputJSON)
	return cmd
}
