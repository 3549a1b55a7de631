package initcmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/internal/core/doctor"
	"github.com/hay-kot/cull/internal/core/styles"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	Yes        bool // skip prompts, use defaults
	Force      bool // overwrite existing config
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
	out  *os.File
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts, out: os.Stderr}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	// Check for existing config
	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			w.infof("Init cancelled")
			return nil
		}
	}

	opts := DefaultConfigOptions()
	if !w.opts.Yes {
		var err error
		opts, err = w.promptUser(opts)
		if err != nil {
			return err
		}
	}
	opts.PhotosDir = expandHome(opts.PhotosDir)

	// Backup existing config if needed
	if ConfigExists(w.opts.ConfigPath) {
		backupPath, err := BackupConfig(w.opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		if backupPath != "" {
			w.successf("Backed up config to: %s", backupPath)
		}
	}

	// Generate and write config
	if err := WriteConfig(GenerateConfig(opts), w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	w.successf("Created config: %s", w.opts.ConfigPath)

	// Run validation checks
	fmt.Fprintln(w.out)
	check := NewInitCheck(w.opts.ConfigPath, opts.PhotosDir)
	result := check.Run(ctx)

	fmt.Fprintln(w.out, styles.TextForegroundBoldStyle.Render(result.Name))
	for _, item := range result.Items {
		var detail string
		if item.Detail != "" {
			detail = " " + styles.TextMutedStyle.Render(item.Detail)
		}

		var icon string
		switch item.Status {
		case doctor.StatusPass:
			icon = styles.SuccessStyle.Render("✔")
		case doctor.StatusWarn:
			icon = styles.WarningStyle.Render("●")
		case doctor.StatusFail:
			icon = styles.ErrorStyle.Render("✘")
		}

		fmt.Fprintf(w.out, "  %s %s%s\n", icon, item.Label, detail)
	}

	fmt.Fprintln(w.out)
	w.infof("Run 'cull' to start reviewing photos")

	return nil
}

func (w *Wizard) promptUser(opts ConfigOptions) (ConfigOptions, error) {
	themeOpts := make([]huh.Option[string], 0, len(styles.ThemeNames()))
	for _, name := range styles.ThemeNames() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Photo directory").
			Description("Directory to review photos from").
			Value(&opts.PhotosDir),
		huh.NewSelect[string]().
			Title("Delete mode").
			Description("What happens when marked photos are deleted").
			Options(
				huh.NewOption("Move to trash (restorable)", string(catalog.DeleteModeTrash)),
				huh.NewOption("Delete permanently", string(catalog.DeleteModePermanent)),
			).
			Value(&opts.DeleteMode),
		huh.NewSelect[string]().
			Title("Theme").
			Options(themeOpts...).
			Value(&opts.Theme),
	))

	if err := form.Run(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (w *Wizard) infof(format string, args ...any) {
	fmt.Fprintln(w.out, styles.TextMutedStyle.Render(fmt.Sprintf(format, args...)))
}

func (w *Wizard) successf(format string, args ...any) {
	fmt.Fprintf(w.out, "%s %s\n", styles.SuccessStyle.Render("✔"), fmt.Sprintf(format, args...))
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
