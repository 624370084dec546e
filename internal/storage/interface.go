package storage

import (
	"time"

	"github.com/julianstephens/habitquest/internal/models"
)

// Provider is the persistence boundary. Lookups that find nothing return an
// error wrapping sql.ErrNoRows.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	// SchemaVersion reports the applied and the latest embedded migration.
	SchemaVersion() (current, latest int, err error)

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Habit entries. GetHabitEntry returns tombstoned entries too so a toggle
	// can revive the existing row.
	AddHabitEntry(models.HabitEntry) error
	GetHabitEntry(habitID, day string) (models.HabitEntry, error)
	GetHabitEntriesForDay(day string) ([]models.HabitEntry, error)
	GetHabitEntriesForHabit(habitID string, startDay, endDay string) ([]models.HabitEntry, error)
	GetAllHabitEntries() ([]models.HabitEntry, error)
	UpdateHabitEntry(models.HabitEntry) error
	DeleteHabitEntry(id string) error
	RestoreHabitEntry(id string, at time.Time) error

	// Unlock ledger. AddUnlocks ignores ids that are already present.
	AddUnlocks(ids []string, at time.Time) error
	GetUnlocks() ([]models.UnlockedBadge, error)

	// Utils
	GetConfigPath() string
}
