package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/cull/internal/core/styles"
	"github.com/hay-kot/cull/internal/docs"
)

type DocsCmd struct {
	flags *Flags
}

// NewDocsCmd creates a new docs command
func NewDocsCmd(flags *Flags) *DocsCmd {
	return &DocsCmd{flags: flags}
}

// Register adds the docs command to the application
func (cmd *DocsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "docs",
		Usage: "Show documentation in the terminal",
		Commands: []*cli.Command{
			{
				Name:      "guide",
				Usage:     "Show the user guide",
				UsageText: "cull docs guide",
				Action: func(ctx context.Context, c *cli.Command) error {
					return cmd.render(c, docs.Guide)
				},
			},
			{
				Name:        "keys",
				Usage:       "Show the active keybindings",
				UsageText:   "cull docs keys",
				Description: "Lists every keybinding after merging your config over the defaults.",
				Action: func(ctx context.Context, c *cli.Command) error {
					return cmd.render(c, docs.KeysMarkdown(cmd.flags.Config.Keybindings))
				},
			},
		},
	})
	return app
}

// render pretty-prints markdown to a terminal and passes it through raw
// anywhere else, so output stays pipeable.
func (cmd *DocsCmd) render(c *cli.Command, markdown string) error {
	out := c.Root().Writer

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		_, err := fmt.Fprint(out, markdown)
		return err
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
		width = w
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		_, werr := fmt.Fprint(out, markdown)
		return werr
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		_, werr := fmt.Fprint(out, markdown)
		return werr
	}

	_, err = fmt.Fprint(out, rendered)
	return err
}
