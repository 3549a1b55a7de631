package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/cull/internal/commands"
	"github.com/hay-kot/cull/internal/core/config"
	"github.com/hay-kot/cull/internal/core/styles"
	"github.com/hay-kot/cull/internal/cull"
	"github.com/hay-kot/cull/internal/cull/sweep"
	"github.com/hay-kot/cull/internal/data/db"
	"github.com/hay-kot/cull/internal/data/stores"
	"github.com/hay-kot/cull/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser   func()
		cullApp     = &cull.App{}
		database    *db.DB
		sweepCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "cull",
		Usage:     "Review photos and cull the rejects from your terminal",
		UsageText: "cull [global options] command [command options]",
		Description: `Cull is a keyboard-driven photo triage tool. It renders your photos
directly in the terminal and lets you keep or delete each one with a
single keypress, swipe-style.

Run 'cull' with no arguments to start reviewing the configured photo
directory. Run 'cull init' to create a starter configuration.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CULL_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/cull.log)",
				Sources:     cli.EnvVars("CULL_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("CULL_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("CULL_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/cull.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "cull.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme; an unknown name keeps the default
			if palette, ok := styles.GetPalette(cfg.Theme); ok {
				styles.SetTheme(palette)
			} else {
				log.Warn().Str("theme", cfg.Theme).Msg("unknown theme, using default")
			}

			// Open database connection
			database, err = db.Open(cfg.DataDir, db.DefaultOpenOptions())
			if err != nil && stores.IsCorruptionError(err) {
				// Move the damaged file aside and start fresh
				log.Warn().Err(err).Msg("database is corrupted, attempting recovery")
				if recErr := stores.RecoverFromCorruption(cfg.DataDir); recErr != nil {
					return ctx, fmt.Errorf("recover database: %w", recErr)
				}
				database, err = db.Open(cfg.DataDir, db.DefaultOpenOptions())
			}
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			// Create stores
			sessionStore := stores.NewSessionStore(database)
			kvStore := stores.NewKVStore(database)

			// Start background KV sweep goroutine
			sweepCtx, cancel := context.WithCancel(context.Background())
			sweepCancel = cancel
			go sweep.Start(sweepCtx, kvStore, 5*time.Minute)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*cullApp = *cull.NewApp(cfg, database, kvStore, sessionStore)
			cullApp.Build = cull.BuildInfo{Version: version, Commit: commit, Date: date}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Stop background sweep
			if sweepCancel != nil {
				sweepCancel()
			}

			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, cullApp)

	app = commands.NewLsCmd(flags, cullApp).Register(app)
	app = commands.NewRmCmd(flags, cullApp).Register(app)
	app = commands.NewTrashCmd(flags, cullApp).Register(app)
	app = commands.NewHistoryCmd(flags, cullApp).Register(app)
	app = commands.NewDoctorCmd(flags, cullApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)
	app = commands.NewDocsCmd(flags).Register(app)
	app = commands.NewInitCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'cull --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
