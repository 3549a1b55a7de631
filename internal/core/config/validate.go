package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including pattern syntax, keybinding templates, and file accessibility.
// The configPath argument specifies the config file location to validate
// (empty string skips the config file check). This calls Validate() first
// for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validatePatterns(),
		c.validateKeybindingTemplates(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Delete.Mode == string(catalog.DeleteModePermanent) {
		warnings = append(warnings, ValidationWarning{
			Category: "Delete",
			Item:     "mode",
			Message:  "permanent mode removes files irreversibly; trash mode keeps a restorable copy",
		})
	}

	if c.GetMinVelocity() == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Swipe",
			Item:     "min_velocity",
			Message:  "zero minimum velocity makes any slow drag past the threshold count as a swipe",
		})
	}

	return warnings
}

// validateFileAccess checks the config file, photo directory, trash
// directory, and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("photos.dir", c.Photos.Dir, isDirectory),
		criterio.Run("delete.trash_dir", c.Delete.TrashDir, isDirectoryOrNotExist),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectory validates that a path exists and is a directory.
func isDirectory(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validatePatterns checks include and exclude globs compile.
func (c *Config) validatePatterns() error {
	var errs criterio.FieldErrorsBuilder

	for i, pat := range c.Photos.Include {
		if !doublestar.ValidatePattern(pat) {
			errs = errs.Append(fmt.Sprintf("photos.include[%d]", i), fmt.Errorf("invalid pattern %q", pat))
		}
	}
	for i, pat := range c.Photos.Exclude {
		if !doublestar.ValidatePattern(pat) {
			errs = errs.Append(fmt.Sprintf("photos.exclude[%d]", i), fmt.Errorf("invalid pattern %q", pat))
		}
	}

	return errs.ToError()
}

// validateKeybindingTemplates renders every sh template against sample
// photo data to catch syntax errors before the TUI runs them.
func (c *Config) validateKeybindingTemplates() error {
	var errs criterio.FieldErrorsBuilder

	sample := PhotoTemplateData{
		Path: "/photos/sample.jpg",
		Name: "sample.jpg",
		Dir:  "/photos",
	}
	for key, kb := range c.Keybindings {
		if kb.Sh == "" {
			continue
		}
		if _, err := tmpl.Render(kb.Sh, sample); err != nil {
			errs = errs.Append(fmt.Sprintf("keybindings.%s.sh", key), fmt.Errorf("template error: %w", err))
		}
	}

	return errs.ToError()
}
