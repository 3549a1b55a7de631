package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/cull/internal/core/kv"
	"github.com/hay-kot/cull/internal/cull/updatecheck"
)

// updateAvailableMsg is emitted when a newer release has been published.
type updateAvailableMsg struct {
	result *updatecheck.Result
}

// checkForUpdate returns a command that compares the running version against
// the latest published release. Results are cached in the KV store, so most
// startups never touch the network.
func checkForUpdate(kvStore kv.KV, currentVersion string) tea.Cmd {
	return func() tea.Msg {
		result, err := updatecheck.Check(context.Background(), kvStore, currentVersion)
		if err != nil {
			log.Debug().Err(err).Msg("update check failed")
			return nil
		}
		if result == nil {
			return nil
		}
		return updateAvailableMsg{result: result}
	}
}
