package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/ticked/internal/commands"
	"github.com/hay-kot/ticked/internal/core/config"
	"github.com/hay-kot/ticked/internal/core/logging"
	"github.com/hay-kot/ticked/internal/core/styles"
	"github.com/hay-kot/ticked/internal/ticked"
	"github.com/hay-kot/ticked/pkg/logutils"
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
		logCloser func()
		tickedApp = &ticked.App{}
		opened    bool
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "ticked",
		Usage:     "Keep a simple todo list in your terminal",
		UsageText: "ticked [global options] command [command options]",
		Description: `Ticked keeps short todo items in a local store. Add, complete, edit, delete
and filter them from the command line or an interactive list.

Run 'ticked' with no arguments to open the interactive list.
Run 'ticked add <text>' to add a todo from a script.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TICKED_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/ticked.log)",
				Sources:     cli.EnvVars("TICKED_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TICKED_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TICKED_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "list",
				Aliases:     []string{"l"},
				Usage:       "named list to work on (defaults to the config's list)",
				Sources:     cli.EnvVars("TICKED_LIST"),
				Destination: &flags.List,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/ticked.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "ticked.log")
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

			if err := styles.ApplyTheme(cfg.TUI.Theme); err != nil {
				return ctx, err
			}

			list := flags.List
			if list == "" {
				list = cfg.List
			}

			command := c.Args().First()
			if command == "" {
				command = "tui"
			}
			ctx = logging.WithCommand(logging.WithList(ctx, list), command)

			a, err := ticked.Open(ctx, cfg, list)
			if err != nil {
				return ctx, err
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*tickedApp = *a
			opened = true

			log.Debug().Ctx(ctx).Str("backend", cfg.Storage.Backend).Msg("ready")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			var closeErr error
			if opened {
				if closeErr = tickedApp.Close(); closeErr != nil {
					log.Error().Err(closeErr).Msg("failed to close storage")
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return closeErr
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, tickedApp)

	app = commands.NewAddCmd(flags, tickedApp).Register(app)
	app = commands.NewLsCmd(flags, tickedApp).Register(app)
	app = commands.NewToggleCmd(flags, tickedApp).Register(app)
	app = commands.NewEditCmd(flags, tickedApp).Register(app)
	app = commands.NewRmCmd(flags, tickedApp).Register(app)
	app = commands.NewExportCmd(flags, tickedApp).Register(app)
	app = commands.NewImportCmd(flags, tickedApp, os.Stdin).Register(app)
	app = commands.NewListsCmd(flags, tickedApp).Register(app)
	app = commands.NewNotificationsCmd(flags, tickedApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'ticked --help' for usage", c.Args().First())
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
