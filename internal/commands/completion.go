package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cull/internal/cull"
)

// TrashNameCompleter returns a ShellCompleteFunc that completes positional
// arguments with the names of current trash entries, for commands like
// 'trash restore' that take them.
//
// A last argument starting with "-" falls back to flag completion.
func TrashNameCompleter(app *cull.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		entries, err := app.Trash.List()
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, e := range entries {
			_, _ = fmt.Fprintln(w, e.Name)
		}
	}
}
