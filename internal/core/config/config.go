// Package config handles configuration loading and validation for cull.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/cull/internal/core/catalog"
)

// Built-in action names for keybindings.
const (
	ActionKeep    = "keep"
	ActionDelete  = "delete"
	ActionUndo    = "undo"
	ActionReset   = "reset"
	ActionPurge   = "purge"
	ActionRestart = "restart"
	ActionGuide   = "guide"
	ActionNotify  = "notifications"
	ActionQuit    = "quit"
)

var validActions = map[string]struct{}{
	ActionKeep:    {},
	ActionDelete:  {},
	ActionUndo:    {},
	ActionReset:   {},
	ActionPurge:   {},
	ActionRestart: {},
	ActionGuide:   {},
	ActionNotify:  {},
	ActionQuit:    {},
}

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]Keybinding{
	"right": {Action: ActionKeep, Help: "keep"},
	"k":     {Action: ActionKeep, Help: "keep"},
	"left":  {Action: ActionDelete, Help: "mark for deletion"},
	"d":     {Action: ActionDelete, Help: "mark for deletion"},
	"u":     {Action: ActionUndo, Help: "undo"},
	"r": {
		Action:  ActionReset,
		Help:    "reset decisions",
		Confirm: "Reset all keep and delete decisions? Deleted photos stay gone.",
	},
	"x": {
		Action:  ActionPurge,
		Help:    "delete marked now",
		Confirm: "Delete all marked photos now?",
	},
	"R": {
		Action:  ActionRestart,
		Help:    "restart session",
		Confirm: "Delete marked photos and start the review over?",
	},
	"?": {Action: ActionGuide, Help: "guide"},
	"n": {Action: ActionNotify, Help: "notifications"},
	"q": {Action: ActionQuit, Help: "quit"},
}

// Config holds the application configuration.
type Config struct {
	Photos      PhotosConfig          `yaml:"photos"`
	Delete      DeleteConfig          `yaml:"delete"`
	Swipe       SwipeConfig           `yaml:"swipe"`
	Theme       string                `yaml:"theme"`
	Keybindings map[string]Keybinding `yaml:"keybindings"`
	DataDir     string                `yaml:"-"` // set by caller, not from config file
}

// PhotosConfig selects which files enter the catalog.
type PhotosConfig struct {
	Dir     string   `yaml:"dir"`
	Include []string `yaml:"include"` // doublestar patterns relative to dir
	Exclude []string `yaml:"exclude"`
}

// DeleteConfig controls what happens to marked photos on batch deletion.
type DeleteConfig struct {
	Mode     string `yaml:"mode"`      // trash or permanent
	TrashDir string `yaml:"trash_dir"` // defaults to <photos.dir>/.cull-trash
}

// DefaultMinVelocity is the release speed in cells per second a drag must
// reach to count as a swipe when min_velocity is not configured.
const DefaultMinVelocity = 25.0

// SwipeConfig tunes the mouse gesture that commits a decision. A swipe only
// counts when the drag travels at least Threshold cells horizontally and is
// released at or above the minimum velocity in the same direction.
// MinVelocity is a pointer so an explicit 0 (threshold-only swipes) can be
// told apart from unset.
type SwipeConfig struct {
	Threshold   int      `yaml:"threshold"`
	MinVelocity *float64 `yaml:"min_velocity"`
}

// Keybinding defines a TUI keybinding action.
type Keybinding struct {
	Action  string `yaml:"action"`  // built-in action name
	Help    string `yaml:"help"`    // help text shown in TUI
	Sh      string `yaml:"sh"`      // shell command template run with the current photo
	Confirm string `yaml:"confirm"` // confirmation prompt (empty = no confirm)
}

// PhotoTemplateData defines fields available to keybinding sh templates.
type PhotoTemplateData struct {
	Path string // absolute path of the current photo
	Name string // file name
	Dir  string // containing directory
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Photos: PhotosConfig{
			Dir: defaultPhotosDir(),
		},
		Delete: DeleteConfig{
			Mode: string(catalog.DeleteModeTrash),
		},
		Swipe: SwipeConfig{
			Threshold: 12,
		},
		Theme:       "tokyo-night",
		Keybindings: map[string]Keybinding{},
	}
}

func defaultPhotosDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Pictures")
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the
// provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Merge user keybindings into defaults (user config overrides defaults)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Photos.Dir == "" {
		c.Photos.Dir = defaults.Photos.Dir
	}
	if c.Delete.Mode == "" {
		c.Delete.Mode = defaults.Delete.Mode
	}
	if c.Delete.TrashDir == "" {
		c.Delete.TrashDir = filepath.Join(c.Photos.Dir, ".cull-trash")
	}
	if c.Swipe.Threshold == 0 {
		c.Swipe.Threshold = defaults.Swipe.Threshold
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings override defaults for the same key.
func mergeKeybindings(defaults, user map[string]Keybinding) map[string]Keybinding {
	result := make(map[string]Keybinding, len(defaults)+len(user))

	for k, v := range defaults {
		result[k] = v
	}
	for k, v := range user {
		result[k] = v
	}

	return result
}

// DeleteMode returns the configured mode as a catalog type.
func (c *Config) DeleteMode() catalog.DeleteMode {
	return catalog.DeleteMode(c.Delete.Mode)
}

// GetMinVelocity returns the configured minimum swipe velocity, falling back
// to DefaultMinVelocity when unset. Zero means any drag past the threshold
// counts regardless of release speed.
func (c *Config) GetMinVelocity() float64 {
	if c.Swipe.MinVelocity == nil {
		return DefaultMinVelocity
	}
	return *c.Swipe.MinVelocity
}

// SourceConfig builds the catalog source configuration.
func (c *Config) SourceConfig() catalog.DirConfig {
	return catalog.DirConfig{
		Dir:      c.Photos.Dir,
		Include:  c.Photos.Include,
		Exclude:  c.Photos.Exclude,
		Mode:     c.DeleteMode(),
		TrashDir: c.Delete.TrashDir,
	}
}

// DBFile returns the path of the sqlite database.
func (c *Config) DBFile() string {
	return filepath.Join(c.DataDir, "cull.db")
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Photos.Dir == "" {
		return fmt.Errorf("photos.dir cannot be empty")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	switch catalog.DeleteMode(c.Delete.Mode) {
	case catalog.DeleteModeTrash, catalog.DeleteModePermanent:
	default:
		return fmt.Errorf("delete.mode must be %q or %q, got %q",
			catalog.DeleteModeTrash, catalog.DeleteModePermanent, c.Delete.Mode)
	}

	if c.Delete.Mode == string(catalog.DeleteModeTrash) && c.Delete.TrashDir == "" {
		return fmt.Errorf("delete.trash_dir cannot be empty in trash mode")
	}

	if c.Swipe.Threshold < 1 {
		return fmt.Errorf("swipe.threshold must be at least 1")
	}
	if c.Swipe.MinVelocity != nil && *c.Swipe.MinVelocity < 0 {
		return fmt.Errorf("swipe.min_velocity cannot be negative")
	}

	for key, kb := range c.Keybindings {
		if kb.Action == "" && kb.Sh == "" {
			return fmt.Errorf("keybinding %q must have either action or sh", key)
		}
		if kb.Action != "" && kb.Sh != "" {
			return fmt.Errorf("keybinding %q cannot have both action and sh", key)
		}
		if kb.Action != "" {
			if _, ok := validActions[kb.Action]; !ok {
				return fmt.Errorf("keybinding %q has invalid action %q", key, kb.Action)
			}
		}
	}

	return nil
}
