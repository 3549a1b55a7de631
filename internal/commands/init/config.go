package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/internal/core/styles"
)

// ConfigOptions holds the values the wizard collects.
type ConfigOptions struct {
	PhotosDir  string
	DeleteMode string
	Theme      string
}

// DefaultConfigOptions returns the wizard defaults.
func DefaultConfigOptions() ConfigOptions {
	return ConfigOptions{
		PhotosDir:  "~/Pictures",
		DeleteMode: string(catalog.DeleteModeTrash),
		Theme:      styles.DefaultTheme,
	}
}

// GenerateConfig renders a commented starter config.
func GenerateConfig(opts ConfigOptions) string {
	return fmt.Sprintf(`# cull configuration
# Run 'cull docs guide' for the full documentation.

photos:
  dir: %s
  # Doublestar patterns relative to dir. Defaults cover common photo types.
  # include:
  #   - "**/*.jpg"
  #   - "**/*.png"
  # exclude:
  #   - "**/raw/**"

delete:
  # trash moves photos to a restorable trash directory, permanent removes
  # them outright.
  mode: %s
  # trash_dir: defaults to <photos.dir>/.cull-trash

# Mouse swipe tuning. A drag must travel threshold cells and release at
# min_velocity cells per second to count.
# swipe:
#   threshold: 12
#   min_velocity: 25

theme: %s

# Extra keybindings, merged over the defaults ('cull docs keys' lists them).
# A binding has either a built-in action or an sh template, never both.
# keybindings:
#   o:
#     sh: "open {{ .Path }}"
#     help: open in viewer
`, opts.PhotosDir, opts.DeleteMode, opts.Theme)
}

// WriteConfig writes the config file, creating parent directories.
func WriteConfig(content, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// BackupConfig creates a backup of existing config before overwriting.
// Returns empty string if no backup was needed (file doesn't exist).
func BackupConfig(configPath string) (string, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return "", nil
	}

	backupPath := configPath + ".bak"

	// Remove existing backup if present
	_ = os.Remove(backupPath)

	content, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to read existing config: %w", err)
	}

	if err := os.WriteFile(backupPath, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	return backupPath, nil
}

// ConfigExists checks if a config file exists at the given path.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return err == nil
}
