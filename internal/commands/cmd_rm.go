package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/internal/cull"
	"github.com/hay-kot/cull/pkg/iojson"
)

type RmCmd struct {
	flags *Flags
	app   *cull.App
	fr    *iojson.FileReader[RmInput]
}

func NewRmCmd(flags *Flags, app *cull.App) *RmCmd {
	return &RmCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[RmInput]{},
	}
}

func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "rm",
		Usage: "Delete photos from JSON input",
		UsageText: `cull rm [options]

Read from stdin:
  echo '{"photos":["IMG_0042.jpg"]}' | cull rm

Read from file:
  cull rm -f photos.json

Pipe from ls:
  cull ls --json | jq -s '{photos: map(.id)}' | cull rm`,
		Description: `Deletes the listed photos in one batch, honoring the configured delete
mode. In trash mode files move to the trash directory and can be restored
with 'cull trash restore'; in permanent mode they are removed outright.

The batch is all-or-nothing: when any photo fails to delete, already
deleted photos are restored and the whole batch is reported as failed.

Input JSON schema:
  {"photos": ["name.jpg", "/absolute/path/under/photos-dir.jpg"]}

Entries may be catalog names (as printed by 'cull ls') or absolute paths
inside the photo directory.

Output is JSON with the delete mode and the deleted photo paths.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	input, err := cmd.fr.Read()
	if err != nil {
		return iojson.WriteError(fmt.Sprintf("read input: %s", err), nil)
	}

	if err := input.Validate(); err != nil {
		return iojson.WriteError(fmt.Sprintf("invalid input: %s", err), nil)
	}

	ids, err := cmd.normalize(input.Photos)
	if err != nil {
		return iojson.WriteError(err.Error(), nil)
	}

	if err := cmd.app.Catalog.Delete(ctx, ids); err != nil {
		var delErr *catalog.DeleteError
		if errors.As(err, &delErr) {
			return iojson.WriteError(delErr.Error(), map[string]any{
				"failed":   delErr.Failed,
				"restored": delErr.Restored,
			})
		}
		return iojson.WriteError(err.Error(), nil)
	}

	return iojson.Write(RmOutput{
		Mode:    cmd.app.Config.Delete.Mode,
		Deleted: ids,
		Count:   len(ids),
	})
}

// normalize maps input entries to catalog ids, which are absolute paths.
// Relative entries are joined onto the photo directory; every result must
// land inside it.
func (cmd *RmCmd) normalize(photos []string) ([]string, error) {
	photosDir := cmd.app.Config.Photos.Dir

	ids := make([]string, 0, len(photos))
	for _, p := range photos {
		abs := filepath.FromSlash(p)
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(photosDir, abs)
		}

		rel, err := filepath.Rel(photosDir, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("path %q is outside the photo directory %s", p, photosDir)
		}
		ids = append(ids, abs)
	}
	return ids, nil
}

// RmInput is the JSON input schema for batch photo deletion.
type RmInput struct {
	Photos []string `json:"photos"`
}

// Validate checks the input for errors using criterio.
func (in RmInput) Validate() error {
	if len(in.Photos) == 0 {
		return criterio.NewFieldErrors("photos", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool)

	for i, p := range in.Photos {
		field := fmt.Sprintf("photos[%d]", i)

		if p == "" {
			errs = errs.Append(field, fmt.Errorf("name is empty"))
			continue
		}
		if seen[p] {
			errs = errs.Append(field, fmt.Errorf("duplicate entry %q", p))
			continue
		}
		seen[p] = true
	}

	return errs.ToError()
}

// RmOutput is the JSON output schema.
type RmOutput struct {
	Mode    string   `json:"mode"`
	Deleted []string `json:"deleted"`
	Count   int      `json:"count"`
}
