// Command docgen generates CLI reference documentation from the cull command
// definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cull/internal/commands"
	"github.com/hay-kot/cull/internal/cull"
)

func main() {
	flags := &commands.Flags{}
	app := &cull.App{}

	root := &cli.Command{
		Name:      "cull",
		Usage:     "Review photos and cull the rejects from your terminal",
		UsageText: "cull [global options] command [command options]",
		Description: `Cull presents your photos one at a time and turns keeping or deleting
them into a single keypress or mouse swipe.

Marked photos are deleted in one batch when the review finishes, into a
restorable trash by default.

Run 'cull' with no arguments to start reviewing.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("CULL_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to <data-dir>/cull.log)",
				Sources: cli.EnvVars("CULL_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("CULL_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("CULL_DATA_DIR"),
				Value:   commands.DefaultDataDir(),
			},
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, app)
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	root = commands.NewLsCmd(flags, app).Register(root)
	root = commands.NewRmCmd(flags, app).Register(root)
	root = commands.NewTrashCmd(flags, app).Register(root)
	root = commands.NewHistoryCmd(flags, app).Register(root)
	root = commands.NewDoctorCmd(flags, app).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)
	root = commands.NewDocsCmd(flags).Register(root)
	root = commands.NewInitCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
