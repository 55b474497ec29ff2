package cmds

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/statekit/pkg/config"
	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/go-go-golems/statekit/pkg/store"
	"github.com/go-go-golems/statekit/pkg/tui"
	"github.com/go-go-golems/statekit/pkg/tui/models"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newTUICommand() *cobra.Command {
	var altScreen bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			closer, err := setupLogging(cfg.Log, true)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()
			return runTUI(cmd.Context(), cfg, altScreen)
		},
	}
	cmd.Flags().BoolVar(&altScreen, "alt-screen", true, "use the terminal's alternate screen")
	return cmd
}

func groupSpecs(cfg config.Config) []models.GroupSpec {
	specs := make([]models.GroupSpec, 0, len(cfg.Groups))
	for _, g := range cfg.Groups {
		specs = append(specs, models.GroupSpec{
			Name:    g.Name,
			Prefix:  g.GroupPrefix(),
			Visible: g.Visible,
			Members: g.Members,
		})
	}
	return specs
}

func runTUI(ctx context.Context, cfg config.Config, altScreen bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := log.Logger

	initial, err := cfg.InitialState()
	if err != nil {
		return err
	}
	st := state.NewStore(initial, store.WithName("app"), store.WithLogger(logger))

	bus := tui.NewBus(logger)
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fwd := &tui.Forwarder{Sub: bus.Subscriber(), Logger: logger}
	if err := fwd.Subscribe(ctx); err != nil {
		return err
	}

	binder := tui.NewBinder(bus.Publisher(), logger)
	defer binder.Close()

	root, err := models.NewRootModel(models.RootOptions{
		Store:      st,
		Binder:     binder,
		Groups:     groupSpecs(cfg),
		LocalTodos: cfg.LocalTodos,
		LogSize:    cfg.EventLogSize,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(root, opts...)
	fwd.Send = p.Send

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return fwd.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	return g.Wait()
}
