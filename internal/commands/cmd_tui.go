package commands

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cull/internal/cull"
	"github.com/hay-kot/cull/internal/tui"
	"github.com/hay-kot/cull/pkg/profiler"
)

type TuiCmd struct {
	flags *Flags
	app   *cull.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *cull.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("CULL_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	// Start profiler server if enabled
	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	m := tui.NewModel(cmd.app.Config, cmd.app)
	p := tea.NewProgram(m)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	model := finalModel.(tui.Model)
	counts := model.Counts()

	// Stamp the session record with final counts once the TUI has released
	// the terminal. Sessions that never loaded a catalog have no record.
	if rec, ok := model.HistoryRecord(); ok {
		if err := cmd.app.History.Finish(ctx, rec, counts.Kept, counts.Deleted); err != nil {
			log.Warn().Err(err).Msg("failed to record session summary")
		}
	}

	if reviewed := counts.Kept + counts.Deleted; reviewed > 0 {
		fmt.Printf("Reviewed %d of %d photos: %d kept, %d deleted\n",
			reviewed, model.CatalogSize(), counts.Kept, counts.Deleted)
	}

	return nil
}
