package cull

import (
	"github.com/hay-kot/cull/internal/core/config"
	"github.com/hay-kot/cull/internal/core/history"
	"github.com/hay-kot/cull/internal/core/kv"
	"github.com/hay-kot/cull/internal/data/db"
	"github.com/rs/zerolog/log"
)

// BuildInfo holds build-time metadata, populated from main's ldflags vars.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// App is the central entry point for all cull operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Catalog *CatalogService
	Trash   *TrashService
	History *HistoryService
	Doctor  *DoctorService

	Config *config.Config
	DB     *db.DB
	KV     kv.KV
	Build  BuildInfo
}

// NewApp constructs an App from explicit dependencies.
func NewApp(
	cfg *config.Config,
	database *db.DB,
	kvStore kv.KV,
	historyStore history.Store,
) *App {
	return &App{
		Catalog: NewCatalogService(cfg, log.With().Str("component", "catalog").Logger()),
		Trash:   NewTrashService(cfg, log.With().Str("component", "trash").Logger()),
		History: NewHistoryService(historyStore, log.With().Str("component", "history").Logger()),
		Doctor:  NewDoctorService(cfg, database),
		Config:  cfg,
		DB:      database,
		KV:      kvStore,
	}
}
