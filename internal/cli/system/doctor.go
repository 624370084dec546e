package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitquest/internal/achievements"
	"github.com/julianstephens/habitquest/internal/backup"
	"github.com/julianstephens/habitquest/internal/calendar"
	"github.com/julianstephens/habitquest/internal/cli"
	"github.com/julianstephens/habitquest/internal/keyring"
	"github.com/julianstephens/habitquest/internal/storage/sqlite"
)

// errSkipped marks a check that does not apply to the current store.
var errSkipped = errors.New("not applicable")

type check struct {
	name string
	// needsDB checks are skipped when the database cannot be loaded.
	needsDB bool
	// warnOnly failures are reported but do not fail the run.
	warnOnly bool
	// gatesDB marks the reachability check itself.
	gatesDB bool
	run     func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Database reachable", gatesDB: true, run: checkDBReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Settings", needsDB: true, run: checkSettings},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Habit integrity", needsDB: true, run: checkHabitsIntegrity},
	{name: "Habit entries", needsDB: true, run: checkHabitEntries},
	{name: "Unlocked badges", needsDB: true, warnOnly: true, run: checkUnlockLedger},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "OS keyring", warnOnly: true, run: checkKeyring},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			fmt.Printf("⊘ %s: SKIPPED (%v)\n", c.name, err)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.gatesDB {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitquest init')", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.Validate()
}

func checkClockTimezone(_ *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkHabitsIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	live := map[string]bool{}
	for _, h := range habits {
		if h.CreatedAt.IsZero() {
			return fmt.Errorf("habit %q has no creation time", h.Name)
		}
		if h.DeletedAt != nil {
			continue
		}
		if live[h.Name] {
			return fmt.Errorf("more than one live habit is named %q", h.Name)
		}
		live[h.Name] = true
	}
	return nil
}

func checkHabitEntries(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	known := make(map[string]bool, len(habits))
	for _, h := range habits {
		known[h.ID] = true
	}

	entries, err := ctx.Store.GetAllHabitEntries()
	if err != nil {
		return fmt.Errorf("failed to get habit entries: %w", err)
	}
	var orphaned, badDays int
	for _, e := range entries {
		if !known[e.HabitID] {
			orphaned++
		}
		if !calendar.ValidDayKey(e.Day) {
			badDays++
		}
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d orphaned habit entries (referencing non-existent habits)", orphaned)
	}
	if badDays > 0 {
		return fmt.Errorf("found %d habit entries with invalid date format", badDays)
	}
	return nil
}

func checkUnlockLedger(ctx *cli.Context) error {
	unlocks, err := ctx.Store.GetUnlocks()
	if err != nil {
		return fmt.Errorf("failed to get unlocked badges: %w", err)
	}
	var unknown []string
	for _, u := range unlocks {
		if _, ok := achievements.Lookup(u.BadgeID); !ok {
			unknown = append(unknown, u.BadgeID)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("ledger holds %d badges unknown to this version: %v", len(unknown), unknown)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("%w for PostgreSQL", errSkipped)
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'habitquest backup create'")
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); ok {
		return fmt.Errorf("%w for SQLite", errSkipped)
	}
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}
