package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eduardofuncao/sqlhelp/internal/config"
	"github.com/eduardofuncao/sqlhelp/internal/db"
	"github.com/eduardofuncao/sqlhelp/internal/logger"
	"github.com/eduardofuncao/sqlhelp/internal/run"
)

// Version info (set by ldflags)
var version = "dev"

// App carries the state shared by every sub-command.
type App struct {
	v            *viper.Viper
	settingsPath string
	settings     *config.Settings
}

func NewApp() *App {
	return &App{v: config.NewViper()}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewApp().RootCmd().ExecuteContext(ctx)
	logger.Close()
	if err != nil {
		// Error already printed by cobra
		stop()
		os.Exit(1)
	}
}

func (a *App) RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqlhelp",
		Short: "Locate config.db.json and run SQL against its profiles",
		Long: `sqlhelp finds the nearest config.db.json above the start directory, opens a
connection for the selected profile and runs statements on it.

Run without a sub-command to perform the connection self-test.

Examples:
  sqlhelp exec "INSERT INTO users(name) VALUES (%s)" alice
  sqlhelp select "SELECT * FROM users WHERE id = %s" 1 --one
  sqlhelp batch "INSERT INTO users(id, name) VALUES (%s, %s)" --file users.csv --header`,
		Version:           version,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runSelfTest,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.settingsPath, "settings", "", "settings file path (default ~/.config/sqlhelp/settings.yaml)")
	flags.StringP("alias", "a", config.DefaultAlias, "profile alias to connect with")
	flags.String("start", ".", "directory (or file) the config search starts from")
	flags.String("file-name", config.DefaultFileName, "config file name to search for")
	flags.Int("max-depth", 0, "maximum directories to climb (0 = up to the filesystem root)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("log-file", "", "write JSON logs to this file instead of stderr")

	bindings := map[string]string{
		"alias":            "alias",
		"search.start":     "start",
		"search.file_name": "file-name",
		"search.max_depth": "max-depth",
		"log.level":        "log-level",
		"log.file":         "log-file",
	}
	for key, flag := range bindings {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(
		a.newSelfTestCmd(),
		a.newLocateCmd(),
		a.newProfilesCmd(),
		a.newStatusCmd(),
		a.newExecCmd(),
		a.newBatchCmd(),
		a.newSelectCmd(),
		a.newRunCmd(),
		a.newEditCmd(),
	)
	return rootCmd
}

// setup loads settings and starts the logger before any command runs.
func (a *App) setup(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(a.v, a.settingsPath)
	if err != nil {
		return err
	}
	a.settings = settings

	level, err := logger.ParseLevel(settings.Log.Level)
	if err != nil {
		return err
	}
	if err := logger.InitLogger(level, settings.Log.File); err != nil {
		return err
	}
	logger.Debug("sqlhelp starting",
		"version", version,
		"command", cmd.Name(),
		"alias", settings.Alias,
		"start", settings.Search.Start,
	)
	return nil
}

func (a *App) factory() *db.Factory {
	return db.NewFactory(a.settings.Search.Start, a.settings.Policy(), a.settings.Alias)
}

func (a *App) executor() *run.Executor {
	return run.New(a.factory())
}
