package tui

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"charm.land/bubbles/v2/key"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/cull/internal/core/catalog"
	"github.com/hay-kot/cull/internal/core/config"
	"github.com/hay-kot/cull/pkg/executil"
	"github.com/hay-kot/cull/pkg/tmpl"
)

// ActionType identifies the kind of action a keybinding triggers.
type ActionType int

const (
	ActionTypeNone ActionType = iota
	ActionTypeKeep
	ActionTypeDelete
	ActionTypeUndo
	ActionTypeReset
	ActionTypePurge
	ActionTypeRestart
	ActionTypeGuide
	ActionTypeNotify
	ActionTypeQuit
	ActionTypeShell
)

var actionTypes = map[string]ActionType{
	config.ActionKeep:    ActionTypeKeep,
	config.ActionDelete:  ActionTypeDelete,
	config.ActionUndo:    ActionTypeUndo,
	config.ActionReset:   ActionTypeReset,
	config.ActionPurge:   ActionTypePurge,
	config.ActionRestart: ActionTypeRestart,
	config.ActionGuide:   ActionTypeGuide,
	config.ActionNotify:  ActionTypeNotify,
	config.ActionQuit:    ActionTypeQuit,
}

// Action represents a resolved keybinding ready for dispatch.
type Action struct {
	Type     ActionType
	Key      string
	Help     string
	Confirm  string // non-empty if confirmation required
	ShellCmd string // for shell actions, the rendered command
	PhotoID  string // current photo at resolve time, if any
	Err      error  // non-nil if action resolution failed (e.g., template error)
}

// NeedsConfirm returns true if the action requires user confirmation.
func (a Action) NeedsConfirm() bool {
	return a.Confirm != ""
}

// KeybindingHandler resolves key presses to actions using the merged
// keybinding map from config.
type KeybindingHandler struct {
	keybindings map[string]config.Keybinding
	workDir     string // working directory for shell commands
}

// NewKeybindingHandler creates a handler over the merged keybindings.
// Shell commands run with workDir as their working directory.
func NewKeybindingHandler(keybindings map[string]config.Keybinding, workDir string) *KeybindingHandler {
	return &KeybindingHandler{
		keybindings: keybindings,
		workDir:     workDir,
	}
}

// Resolve maps a key press to an action. Photo is the photo under the
// cursor, or nil when no photo is presented; shell bindings and decision
// bindings need one and resolve to nothing without it.
func (h *KeybindingHandler) Resolve(keyStr string, photo *catalog.Photo) (Action, bool) {
	kb, exists := h.keybindings[keyStr]
	if !exists {
		return Action{}, false
	}

	action := Action{
		Key:     keyStr,
		Help:    kb.Help,
		Confirm: kb.Confirm,
	}
	if photo != nil {
		action.PhotoID = photo.ID
	}

	if kb.Action != "" {
		t, ok := actionTypes[kb.Action]
		if !ok {
			log.Warn().Str("key", keyStr).Str("action", kb.Action).Msg("keybinding references unknown action")
			return Action{}, false
		}
		action.Type = t
		if action.Help == "" {
			action.Help = kb.Action
		}
		return action, true
	}

	// Shell command, rendered against the current photo.
	if photo == nil {
		return Action{}, false
	}

	data := config.PhotoTemplateData{
		Path: photo.Path,
		Name: filepath.Base(photo.Path),
		Dir:  filepath.Dir(photo.Path),
	}

	rendered, err := tmpl.Render(kb.Sh, data)
	if err != nil {
		action.Type = ActionTypeShell
		action.Err = fmt.Errorf("template error for key %q: %w", keyStr, err)
		log.Warn().Str("key", keyStr).Err(err).Msg("template rendering failed")
		return action, true
	}

	action.Type = ActionTypeShell
	action.ShellCmd = rendered
	return action, true
}

// Execute runs a shell action. Built-in actions are dispatched by the
// model, not here.
func (h *KeybindingHandler) Execute(ctx context.Context, action Action) error {
	if action.Type != ActionTypeShell {
		return fmt.Errorf("action type %d not supported by Execute", action.Type)
	}
	return executil.RunSh(ctx, h.workDir, action.ShellCmd)
}

// HelpEntries returns all configured keybindings for display, sorted by key.
func (h *KeybindingHandler) HelpEntries() []string {
	keys := slices.Sorted(maps.Keys(h.keybindings))

	entries := make([]string, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, fmt.Sprintf("[%s] %s", k, h.helpFor(k)))
	}
	return entries
}

// HelpString returns a formatted help string for all keybindings.
func (h *KeybindingHandler) HelpString() string {
	return strings.Join(h.HelpEntries(), "  ")
}

// KeyBindings returns key.Binding objects for integration with bubbles help.
func (h *KeybindingHandler) KeyBindings() []key.Binding {
	keys := slices.Sorted(maps.Keys(h.keybindings))

	bindings := make([]key.Binding, 0, len(keys))
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, h.helpFor(k)),
		))
	}
	return bindings
}

func (h *KeybindingHandler) helpFor(k string) string {
	kb := h.keybindings[k]
	switch {
	case kb.Help != "":
		return kb.Help
	case kb.Action != "":
		return kb.Action
	case kb.Sh != "":
		return "shell command"
	default:
		return "unknown"
	}
}
