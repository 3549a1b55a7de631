package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cull/internal/core/config"
	"github.com/hay-kot/cull/internal/core/styles"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "cull config validate [options]",
				Description: "Validates the configuration file, checking glob patterns, keybinding templates, and directory access.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// validationError is one config problem in JSON output.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)
	warnings := cmd.flags.Config.Warnings()

	if cmd.format == "json" {
		return cmd.outputJSON(c, err, warnings)
	}

	return cmd.outputText(err, warnings)
}

func (cmd *ConfigValidateCmd) outputJSON(c *cli.Command, err error, warnings []config.ValidationWarning) error {
	out := struct {
		Valid    bool                       `json:"valid"`
		Errors   []validationError          `json:"errors,omitempty"`
		Warnings []config.ValidationWarning `json:"warnings,omitempty"`
	}{
		Valid:    err == nil,
		Errors:   collectErrors(err),
		Warnings: warnings,
	}

	enc := json.NewEncoder(c.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (cmd *ConfigValidateCmd) outputText(err error, warnings []config.ValidationWarning) error {
	w := os.Stderr

	_, _ = fmt.Fprintf(w, "Config: %s\n\n", cmd.flags.ConfigPath)

	for _, warn := range warnings {
		icon := styles.WarningStyle.Render("●")
		_, _ = fmt.Fprintf(w, "  %s %s: %s\n", icon, warn.Category, warn.Message)
	}

	if err == nil {
		if len(warnings) > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w, styles.SuccessStyle.Render("Configuration is valid"))
		return nil
	}

	errs := collectErrors(err)
	for _, e := range errs {
		icon := styles.ErrorStyle.Render("✘")
		_, _ = fmt.Fprintf(w, "  %s %s: %s\n", icon, e.Field, e.Message)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.ErrorStyle.Render(fmt.Sprintf("%d error(s) found", len(errs))))
	return cli.Exit("", 1)
}

// collectErrors flattens a validation error into field/message pairs.
// criterio field errors keep their field names; anything else is filed
// under "config".
func collectErrors(err error) []validationError {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		out := make([]validationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, validationError{Field: fe.Field, Message: fe.Err.Error()})
		}
		return out
	}

	return []validationError{{Field: "config", Message: err.Error()}}
}
