package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cull/internal/core/history"
	"github.com/hay-kot/cull/internal/cull"
	"github.com/hay-kot/cull/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags
	app   *cull.App

	// flags
	jsonOutput bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags, app *cull.App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: app}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "List past culling sessions",
		UsageText: "cull history [--json]",
		Description: `Displays a table of recorded sessions with when they ran and how many
photos were reviewed, kept, and deleted. Only counts are stored; which
photos were decided is never recorded.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	records, err := cmd.app.History.List(ctx)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if len(records) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintln(os.Stderr, "No sessions recorded yet")
		}
		return nil
	}

	out := c.Root().Writer

	// JSON output mode
	if cmd.jsonOutput {
		for _, rec := range records {
			if err := iojson.WriteLine(out, rec); err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
		}
		return nil
	}

	// Table output mode
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STARTED\tDURATION\tCATALOG\tREVIEWED\tKEPT\tDELETED")

	for _, rec := range records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
			humanize.Time(rec.StartedAt),
			formatDuration(&rec),
			rec.CatalogSize,
			rec.Reviewed(),
			rec.Kept,
			rec.Deleted,
		)
	}

	_ = w.Flush()

	return nil
}

func formatDuration(rec *history.Record) string {
	if rec.FinishedAt == nil {
		return "-"
	}
	return rec.Duration().Round(time.Second).String()
}
