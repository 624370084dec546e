package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/storage"
	"github.com/julianstephens/habitquest/internal/storage/postgres"
	"github.com/julianstephens/habitquest/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing database before initialization."`
	Yes    bool   `short:"y" help:"Skip the confirmation prompt for --force."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		done, err := c.reset(ctx)
		if err != nil || !done {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized habitquest storage at: %s\n", postgres.Redact(ctx.Store.GetConfigPath()))

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", postgres.Redact(c.Source))
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

// reset deletes the SQLite file. It reports false when the user declined.
func (c *InitCmd) reset(ctx *cli.Context) (bool, error) {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return false, errors.New("--force is only supported for SQLite storage")
	}
	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	if c.Source != "" {
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return false, fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return true, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to access existing database: %w", err)
	}

	if !c.Yes {
		ok, err := ctx.Ask("Delete the existing database?", "All habits, check-ins and badges in "+dbPath+" will be lost.")
		if err != nil {
			return false, err
		}
		if !ok {
			fmt.Println("Init cancelled.")
			return false, nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return false, fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return false, fmt.Errorf("failed to delete existing database: %w", err)
	}
	fmt.Printf("Deleted existing database at: %s\n", dbPath)
	return true, nil
}

func (c *InitCmd) migrateData(ctx *cli.Context) error {
	var source storage.Provider
	if postgres.IsConnString(c.Source) {
		if _, err := postgres.ValidateConnString(c.Source); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return errors.New("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return err
		}
		source = postgres.New(c.Source)
	} else {
		source = sqlite.NewStore(c.Source)
	}

	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	return copyStore(source, ctx.Store)
}

// copyStore copies every record, including deleted habits and tombstoned
// entries, so the destination derives the same metrics.
func copyStore(src, dst storage.Provider) error {
	fmt.Println("  Migrating settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dst.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Migrating habits...")
	habits, err := src.GetAllHabits(true, true)
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, h := range habits {
		if err := dst.AddHabit(h); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
	}
	fmt.Printf("    Migrated %d habits\n", len(habits))

	fmt.Println("  Migrating habit entries...")
	entries, err := src.GetAllHabitEntries()
	if err != nil {
		return fmt.Errorf("failed to get habit entries from source: %w", err)
	}
	for _, e := range entries {
		if err := dst.AddHabitEntry(e); err != nil {
			return fmt.Errorf("failed to add habit entry %s: %w", e.ID, err)
		}
	}
	fmt.Printf("    Migrated %d habit entries\n", len(entries))

	fmt.Println("  Migrating unlocked badges...")
	unlocks, err := src.GetUnlocks()
	if err != nil {
		return fmt.Errorf("failed to get unlocked badges from source: %w", err)
	}
	for _, u := range unlocks {
		if err := dst.AddUnlocks([]string{u.BadgeID}, u.UnlockedAt); err != nil {
			return fmt.Errorf("failed to add unlocked badge %s: %w", u.BadgeID, err)
		}
	}
	fmt.Printf("    Migrated %d unlocked badges\n", len(unlocks))
	return nil
}
