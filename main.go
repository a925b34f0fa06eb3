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

	"github.com/kdlbs/kandev/internal/commands"
	"github.com/kdlbs/kandev/internal/core/config"
	"github.com/kdlbs/kandev/internal/core/eventbus"
	"github.com/kdlbs/kandev/internal/core/git"
	"github.com/kdlbs/kandev/internal/core/github"
	"github.com/kdlbs/kandev/internal/core/logging"
	"github.com/kdlbs/kandev/internal/core/styles"
	"github.com/kdlbs/kandev/internal/data/db"
	"github.com/kdlbs/kandev/internal/data/stores"
	"github.com/kdlbs/kandev/internal/kandev"
	"github.com/kdlbs/kandev/internal/kandev/updatecheck"
	"github.com/kdlbs/kandev/pkg/executil"
	"github.com/kdlbs/kandev/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() populates
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
		database  *db.DB
		kvStore   *stores.KVStore
		busCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "kandev",
		Usage:     "Review code changes with inline comments",
		UsageText: "kandev [global options] command [command options]",
		Description: `Kandev opens a terminal diff review for your working copy: annotate
changed lines with comments, accept or revert individual change blocks,
and turn the result into feedback you can hand to a teammate or an
agent.

Run 'kandev review' to start or resume a review of the current repo.
Run 'kandev pr' to pull review threads from the branch's pull request.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("KANDEV_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file, or '-' to buffer to stderr until exit (defaults to <data-dir>/kandev.log)",
				Sources:     cli.EnvVars("KANDEV_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("KANDEV_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("KANDEV_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; the TUI owns stdout.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "kandev.log")
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

			styles.Init(cfg.UI.Theme)

			database, err = db.Open(cfg.DatabaseDir(), db.DefaultOpenOptions())
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			reviewStore := stores.NewReviewStore(database)
			kvStore = stores.NewKVStore(database)

			bus := eventbus.New(eventbus.DefaultBufferSize)
			eventbus.RegisterDebugLogger(bus, log.Logger)
			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go bus.Start(busCtx)

			var (
				exec    = &executil.RealExecutor{}
				gitExec = git.NewExecutor(cfg.GitPath, exec)
			)

			flags.Review = kandev.NewReviewService(
				reviewStore,
				gitExec,
				cfg,
				bus,
				logging.Component("review"),
			)

			if cfg.GitHubEnabled(github.Available) {
				dir, _ := os.Getwd()
				client := github.NewClient(dir,
					logging.Component("github"),
					github.WithExecutor(exec),
					github.WithCache(kvStore, cfg.GitHub.CacheTTL.Std()),
				)
				flags.PR = kandev.NewPRService(
					client,
					bus,
					logging.Component("pr"),
				)
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if busCancel != nil {
				busCancel()
			}

			if kvStore != nil {
				checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if result, err := updatecheck.Check(checkCtx, kvStore, version); err == nil && result != nil {
					fmt.Fprintf(os.Stderr, "\nkandev %s is available (running %s)\n", result.Latest, result.Current)
				}
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewReviewCmd(flags).Register(app)
	app = commands.NewPRCmd(flags).Register(app)
	app = commands.NewLsCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)

	exitCode := 0
	if runErr := app.Run(ctx, os.Args); runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
