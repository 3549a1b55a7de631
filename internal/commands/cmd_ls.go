package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/internal/cull"
	"github.com/hay-kot/cull/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *cull.App

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *cull.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List the photo catalog",
		UsageText: "cull ls [--json]",
		Description: `Displays a table of every photo in the catalog, newest first, with its
taken time, size, and dimensions.

Use --json for machine-readable output, one JSON object per line.`,
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

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	photos, err := cmd.app.Catalog.Scan(ctx)
	if err != nil {
		return fmt.Errorf("list photos: %w", err)
	}

	if len(photos) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No photos found in %s\n", cmd.app.Config.Photos.Dir)
		}
		return nil
	}

	out := c.Root().Writer

	// JSON output mode
	if cmd.jsonOutput {
		for _, p := range photos {
			if err := iojson.WriteLine(out, p); err != nil {
				return fmt.Errorf("encode photo: %w", err)
			}
		}
		return nil
	}

	// Table output mode
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTAKEN\tSIZE\tDIMENSIONS")

	for _, p := range photos {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			displayName(cmd.app.Config.Photos.Dir, p.ID),
			p.TakenAt.Format("2006-01-02 15:04"),
			humanize.Bytes(uint64(p.Size)),
			dimensions(p),
		)
	}

	_ = w.Flush()

	return nil
}

// displayName shortens an absolute catalog id to a path relative to the
// photo directory for table output.
func displayName(photosDir, id string) string {
	rel, err := filepath.Rel(photosDir, id)
	if err != nil {
		return id
	}
	return filepath.ToSlash(rel)
}

func dimensions(p catalog.Photo) string {
	if p.Width == 0 || p.Height == 0 {
		return "-"
	}
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}
