package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/cli/backups"
	"github.com/julianstephens/habitquest/internal/cli/badges"
	"github.com/julianstephens/habitquest/internal/cli/habits"
	"github.com/julianstephens/habitquest/internal/cli/settings"
	"github.com/julianstephens/habitquest/internal/cli/stats"
	"github.com/julianstephens/habitquest/internal/cli/system"
	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/keyring"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/notifier"
	"github.com/julianstephens/habitquest/internal/storage"
	"github.com/julianstephens/habitquest/internal/storage/postgres"
	"github.com/julianstephens/habitquest/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite file path or PostgreSQL connection string. PostgreSQL passwords must NOT be embedded; use HABITQUEST_DB_CONNECTION, .pgpass or the OS keyring instead." env:"HABITQUEST_CONFIG"`
	Debug   bool   `help:"Log debug output to stderr." env:"HABITQUEST_DEBUG"`

	Init     system.InitCmd       `cmd:"" help:"Initialize habitquest storage."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and daily check-ins."`
	Stats    stats.StatsCmd       `cmd:"" help:"Show level, XP and streaks." default:"1"`
	Week     stats.WeekCmd        `cmd:"" help:"Show a Monday-first grid of this week's check-ins."`
	Badges   badges.BadgesCmd     `cmd:"" help:"List and manage badges."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with XP, levels, streaks and badges"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	store, configDir, err := openStore(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "store", postgres.Redact(store.GetConfigPath()))

	appCtx := &cli.Context{
		Store:    store,
		Notifier: notifier.New(),
	}

	if needsStore(ctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatal(errors.WithHint(err, "run 'habitquest doctor' to diagnose"))
		}
	}

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	errors.Fatal(err)
}

// needsStore reports whether a command works on a loaded store. init creates
// it, doctor reports load failures itself and keyring never touches it.
func needsStore(command string) bool {
	for _, prefix := range []string{"init", "doctor", "keyring"} {
		if strings.HasPrefix(command, prefix) {
			return false
		}
	}
	return true
}

// openStore picks the backend: an explicit --config wins, then a connection
// string from the environment or keyring, then the default SQLite file.
func openStore(config string) (storage.Provider, string, error) {
	if config != "" && !postgres.IsConnString(config) {
		path, err := expandHome(config)
		if err != nil {
			return nil, "", err
		}
		return sqlite.NewStore(path), filepath.Dir(path), nil
	}

	connStr, source, err := keyring.ResolveConnectionString(config)
	if err != nil {
		return nil, "", err
	}
	if source == keyring.SourceNone {
		path, err := expandHome(constants.DefaultConfigPath)
		if err != nil {
			return nil, "", err
		}
		return sqlite.NewStore(path), filepath.Dir(path), nil
	}

	if source == keyring.SourceFlag {
		if _, err := postgres.ValidateConnString(connStr); err != nil {
			return nil, "", errors.WithHint(err,
				"store the connection string with 'habitquest keyring set', export "+constants.EnvDBConnection+", or use a .pgpass file")
		}
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return postgres.New(connStr), filepath.Join(configDir, constants.AppName), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
