package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cull/internal/cull"
)

type TrashCmd struct {
	flags *Flags
	app   *cull.App

	// flags
	olderThan string
}

// NewTrashCmd creates a new trash command
func NewTrashCmd(flags *Flags, app *cull.App) *TrashCmd {
	return &TrashCmd{flags: flags, app: app}
}

// Register adds the trash command to the application
func (cmd *TrashCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "trash",
		Usage: "Manage trashed photos",
		Description: `Commands for inspecting and maintaining the trash directory.

Photos deleted in trash mode are moved there instead of being removed, so
they can be listed, restored, or purged later. In permanent delete mode
there is no trash to manage.`,
		Commands: []*cli.Command{
			cmd.lsCmd(),
			cmd.restoreCmd(),
			cmd.emptyCmd(),
		},
	})
	return app
}

func (cmd *TrashCmd) lsCmd() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "List trashed photos",
		UsageText: "cull trash ls",
		Action:    cmd.runLs,
	}
}

func (cmd *TrashCmd) restoreCmd() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Restore trashed photos to their original paths",
		UsageText: "cull trash restore <name>...",
		Description: `Moves trashed photos back to where they were deleted from. Names are the
trash entry names printed by 'cull trash ls'. Restoring fails when the
original path is occupied again.`,
		ShellComplete: TrashNameCompleter(cmd.app),
		Action:        cmd.runRestore,
	}
}

func (cmd *TrashCmd) emptyCmd() *cli.Command {
	return &cli.Command{
		Name:      "empty",
		Usage:     "Permanently remove trashed photos",
		UsageText: "cull trash empty [--older-than 30d]",
		Description: `Removes trashed photos for good. Without --older-than the whole trash is
emptied. Ages accept h/m/s durations plus d for days and w for weeks.

There is no undo after emptying.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "older-than",
				Usage:       "only remove photos deleted at least this long ago (e.g. 30d)",
				Destination: &cmd.olderThan,
			},
		},
		Action: cmd.runEmpty,
	}
}

func (cmd *TrashCmd) runLs(ctx context.Context, c *cli.Command) error {
	entries, err := cmd.app.Trash.List()
	if err != nil {
		return fmt.Errorf("list trash: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "Trash is empty")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tORIGINAL\tDELETED\tSIZE")

	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Name,
			e.Original,
			humanize.Time(e.DeletedAt),
			humanize.Bytes(uint64(e.Size)),
		)
	}

	_ = w.Flush()

	return nil
}

func (cmd *TrashCmd) runRestore(ctx context.Context, c *cli.Command) error {
	names := c.Args().Slice()
	if len(names) == 0 {
		return fmt.Errorf("no trash entry names given; see 'cull trash ls'")
	}

	restored, err := cmd.app.Trash.Restore(names)

	out := c.Root().Writer
	for _, path := range restored {
		_, _ = fmt.Fprintf(out, "Restored %s\n", path)
	}

	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}

func (cmd *TrashCmd) runEmpty(ctx context.Context, c *cli.Command) error {
	age, err := parseAge(cmd.olderThan)
	if err != nil {
		return err
	}

	removed, err := cmd.app.Trash.Empty(age)
	if err != nil {
		return fmt.Errorf("empty trash: %w", err)
	}

	if removed == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to remove")
		return nil
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "Removed %s from trash\n",
		english.Plural(removed, "photo", ""))
	return nil
}

// parseAge parses durations like 36h, 14d, or 4w. Units understood by
// time.ParseDuration work as-is; d and w mean days and weeks.
func parseAge(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	if n := len(s); n > 1 {
		if unit := s[n-1]; unit == 'd' || unit == 'w' {
			v, err := strconv.Atoi(s[:n-1])
			if err == nil {
				if v < 0 {
					return 0, fmt.Errorf("age %q cannot be negative", s)
				}
				mult := 24 * time.Hour
				if unit == 'w' {
					mult = 7 * 24 * time.Hour
				}
				return time.Duration(v) * mult, nil
			}
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid age %q (try 36h, 14d, or 4w)", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("age %q cannot be negative", s)
	}
	return d, nil
}
