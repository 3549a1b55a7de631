// Package docs embeds the user-facing documentation shown by the in-app
// guide overlay and the docs command.
package docs

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hay-kot/cull/internal/core/config"
)

//go:embed guide.md
var Guide string

// KeysMarkdown renders the merged keybinding map as a markdown document.
func KeysMarkdown(keybindings map[string]config.Keybinding) string {
	var b strings.Builder
	b.WriteString("# Keybindings\n\n")
	b.WriteString("| Key | Action | Confirms |\n")
	b.WriteString("|-----|--------|----------|\n")

	for _, key := range slices.Sorted(maps.Keys(keybindings)) {
		kb := keybindings[key]

		help := kb.Help
		if help == "" {
			help = kb.Action
		}
		if help == "" && kb.Sh != "" {
			help = "`" + kb.Sh + "`"
		}

		confirms := "no"
		if kb.Confirm != "" {
			confirms = "yes"
		}

		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", key, help, confirms)
	}

	b.WriteString("\nCustom bindings go under `keybindings:` in the config file. ")
	b.WriteString("A binding has either a built-in `action` or an `sh` template, never both.\n")
	return b.String()
}
